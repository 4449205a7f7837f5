package upload

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const refScheme = "blob:"

// Ref is a displayable reference to bytes held by a RefStore. The zero value
// means "no result".
type Ref string

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool {
	return r == ""
}

// RefStore binds byte slices to opaque references. The zero value is ready to use.
type RefStore struct {
	mu    sync.RWMutex
	blobs map[Ref][]byte
}

// Create copies data and returns a fresh reference to it.
func (s *RefStore) Create(data []byte) Ref {
	ref := Ref(refScheme + uuid.NewString())
	dup := make([]byte, len(data))
	copy(dup, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs == nil {
		s.blobs = make(map[Ref][]byte)
	}
	s.blobs[ref] = dup
	return ref
}

// Resolve returns a copy of the bytes bound to ref.
func (s *RefStore) Resolve(ref Ref) ([]byte, bool) {
	if !strings.HasPrefix(string(ref), refScheme) {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, false
	}
	dup := make([]byte, len(data))
	copy(dup, data)
	return dup, true
}

// Revoke releases the bytes bound to ref. Revoking an unknown ref is a no-op.
func (s *RefStore) Revoke(ref Ref) {
	if ref.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
}

// Len returns the number of live references.
func (s *RefStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
