// Package upload owns the state of one upload cycle: the selected image, the
// in-flight flag and the reference to the rotated result.
//
// # Overview
//
// A Controller mediates between the file picker, the submit affordance and the
// result display. It holds three pieces of transient state:
//
//   - the selected File (nil when nothing is chosen)
//   - the loading flag, true for the whole span of an outbound request
//   - the result Ref, a displayable reference bound to in-memory bytes
//
// # Upload Cycle
//
//	Idle ──Begin()──> Submitting ──Run() settles──> Idle
//
// Begin claims the controller only when a file is selected and no request is
// in flight. Run performs exactly one Rotate call and always clears the
// loading flag before returning, whatever the outcome:
//
//   - success: the body is bound to a new Ref which replaces the old one
//   - non-OK status: nothing changes, the rejection is logged at debug level
//   - transport failure: nothing changes, the error goes to the diagnostic log
//
// Errors never propagate to the caller of Run; the Outcome says what happened.
//
// # Selection
//
// Select replaces the file and drops the current result immediately. A
// selection made while a request is in flight also bumps the controller's
// generation, so the late response for the previous file is discarded
// (OutcomeStale) instead of being shown against the new file.
//
// # References
//
// RefStore plays the part of an object-URL registry: Create binds bytes to a
// "blob:<uuid>" Ref, Resolve returns them, Revoke releases them. The
// controller revokes a Ref as soon as it stops being the current result.
//
// # Concurrency
//
// The UI loop and the goroutine running the request touch the same state, so
// every access goes through the controller's RWMutex. Snapshot returns a copy
// that is safe to render.
package upload
