package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Rotator sends one file to the rotation backend and returns the response body.
// Implementations report a non-OK HTTP status with an error that has a
// StatusCode() int method.
type Rotator interface {
	Rotate(ctx context.Context, file File) ([]byte, error)
}

// Outcome classifies how an upload cycle settled.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSkipped
	OutcomeRotated
	OutcomeRejected
	OutcomeFailed
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRotated:
		return "rotated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "none"
	}
}

// Snapshot is a copy of the controller state at a point in time.
type Snapshot struct {
	File        *File
	Loading     bool
	Result      Ref
	LastOutcome Outcome
	LastError   error
	Uploads     int // settled cycles
}

// CanSubmit reports whether the submit affordance should be interactive.
func (s Snapshot) CanSubmit() bool {
	return s.File != nil && !s.Loading
}

// HasResult reports whether a result reference is present.
func (s Snapshot) HasResult() bool {
	return !s.Result.IsZero()
}

type statusCoder interface {
	StatusCode() int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRefStore shares an existing reference store.
func WithRefStore(refs *RefStore) Option {
	return func(c *Controller) {
		if refs != nil {
			c.refs = refs
		}
	}
}

// Controller owns the selected file, the loading flag and the result reference.
type Controller struct {
	rotator Rotator
	refs    *RefStore
	logger  zerolog.Logger

	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
}

// NewController builds a Controller that uploads through rotator.
func NewController(rotator Rotator, opts ...Option) *Controller {
	c := &Controller{
		rotator: rotator,
		refs:    &RefStore{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select replaces the selected file and drops any result. A nil file clears
// the selection.
func (c *Controller) Select(file *File) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if file != nil {
		dup := *file
		file = &dup
	}
	c.snapshot.File = file
	c.generation++
	c.dropResultLocked()

	if file != nil {
		c.logger.Debug().Str("file", file.Name).Str("content_type", file.ContentType).Int64("size", file.Size).Msg("file selected")
	}
}

// CanSubmit reports whether a file is selected and no upload is in flight.
func (c *Controller) CanSubmit() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.CanSubmit()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.snapshot
	if c.snapshot.File != nil {
		dup := *c.snapshot.File
		snap.File = &dup
	}
	if c.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", c.snapshot.LastError)
	}
	return snap
}

// Resolve returns the bytes behind ref.
func (c *Controller) Resolve(ref Ref) ([]byte, bool) {
	return c.refs.Resolve(ref)
}

// Result returns the bytes of the current result, if any.
func (c *Controller) Result() ([]byte, bool) {
	c.mu.RLock()
	ref := c.snapshot.Result
	c.mu.RUnlock()
	if ref.IsZero() {
		return nil, false
	}
	return c.refs.Resolve(ref)
}

// Cycle is one claimed upload. Run must be called exactly once.
type Cycle struct {
	ctrl       *Controller
	file       File
	generation uint64
}

// File returns the file this cycle uploads.
func (cy *Cycle) File() File {
	return cy.file
}

// Begin claims the controller for one upload and raises the loading flag.
// It returns false, with no effect, when no file is selected or an upload is
// already in flight.
func (c *Controller) Begin() (*Cycle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snapshot.CanSubmit() {
		return nil, false
	}
	c.snapshot.Loading = true
	return &Cycle{ctrl: c, file: *c.snapshot.File, generation: c.generation}, true
}

// Submit runs a whole upload cycle on the calling goroutine.
func (c *Controller) Submit(ctx context.Context) Outcome {
	cycle, ok := c.Begin()
	if !ok {
		return OutcomeSkipped
	}
	return cycle.Run(ctx)
}

// Run sends the file and settles the cycle. The loading flag is cleared on
// every path, including a panicking Rotator.
func (cy *Cycle) Run(ctx context.Context) Outcome {
	c := cy.ctrl
	outcome := OutcomeFailed
	var cause error
	defer func() { c.settle(outcome, cause) }()

	data, err := c.rotate(ctx, cy.file)
	if err != nil {
		cause = err
		var sc statusCoder
		if errors.As(err, &sc) {
			outcome = OutcomeRejected
			c.logger.Debug().Int("status", sc.StatusCode()).Str("file", cy.file.Name).Msg("rotate rejected")
			return outcome
		}
		c.logger.Error().Err(err).Str("file", cy.file.Name).Msg("rotate failed")
		return outcome
	}

	outcome = c.publish(cy.generation, data)
	if outcome == OutcomeStale {
		c.logger.Debug().Str("file", cy.file.Name).Msg("discarding result for replaced selection")
	}
	return outcome
}

func (c *Controller) rotate(ctx context.Context, file File) (data []byte, err error) {
	if c.rotator == nil {
		return nil, fmt.Errorf("no rotator configured")
	}
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("rotator panic: %v", r)
		}
	}()
	return c.rotator.Rotate(ctx, file)
}

func (c *Controller) publish(generation uint64, data []byte) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return OutcomeStale
	}
	c.dropResultLocked()
	c.snapshot.Result = c.refs.Create(data)
	return OutcomeRotated
}

func (c *Controller) settle(outcome Outcome, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot.Loading = false
	c.snapshot.LastOutcome = outcome
	c.snapshot.LastError = cause
	c.snapshot.Uploads++
}

func (c *Controller) dropResultLocked() {
	if c.snapshot.Result.IsZero() {
		return
	}
	c.refs.Revoke(c.snapshot.Result)
	c.snapshot.Result = ""
}
