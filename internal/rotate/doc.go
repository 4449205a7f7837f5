// Package rotate is the HTTP client for the image rotation backend.
//
// The backend is an external service reached at a fixed endpoint:
//
//	POST http://localhost:8000/api/rotate-image
//	Content-Type: multipart/form-data (one part, field "file")
//
// A 2xx response carries the rotated image bytes; the content type is not
// checked. Any other status is returned as a *StatusError so callers can tell
// a rejection from a transport failure:
//
//   - "execute request: dial tcp ...: connection refused"
//   - "api /api/rotate-image returned status 500"
//
// The client sets no timeout and never retries. Cancellation is only possible
// through the request context.
package rotate
