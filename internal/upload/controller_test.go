package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", e.code) }
func (e statusErr) StatusCode() int { return e.code }

type fakeRotator struct {
	mu    sync.Mutex
	calls []File
	fn    func(ctx context.Context, file File) ([]byte, error)
}

func (f *fakeRotator) Rotate(ctx context.Context, file File) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, file)
	f.mu.Unlock()
	return f.fn(ctx, file)
}

func (f *fakeRotator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func returning(data []byte, err error) *fakeRotator {
	return &fakeRotator{fn: func(context.Context, File) ([]byte, error) { return data, err }}
}

func pngFile(name string) *File {
	return &File{Name: name, Path: "/tmp/" + name, ContentType: "image/png", Size: 10}
}

func TestController_NoFileCannotSubmit(t *testing.T) {
	rot := returning([]byte("R"), nil)
	c := NewController(rot)

	require.False(t, c.CanSubmit())
	require.Equal(t, OutcomeSkipped, c.Submit(context.Background()))
	require.Zero(t, rot.callCount())

	snap := c.Snapshot()
	require.False(t, snap.Loading)
	require.False(t, snap.HasResult())
	require.Zero(t, snap.Uploads)
}

func TestController_SuccessStoresResult(t *testing.T) {
	c := NewController(returning([]byte("R1"), nil))
	c.Select(pngFile("a.png"))
	require.True(t, c.CanSubmit())

	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))

	snap := c.Snapshot()
	require.False(t, snap.Loading)
	require.True(t, snap.HasResult())
	require.Equal(t, OutcomeRotated, snap.LastOutcome)
	require.NoError(t, snap.LastError)

	data, ok := c.Resolve(snap.Result)
	require.True(t, ok)
	require.Equal(t, []byte("R1"), data)

	data, ok = c.Result()
	require.True(t, ok)
	require.Equal(t, []byte("R1"), data)
}

func TestController_SelectClearsResult(t *testing.T) {
	c := NewController(returning([]byte("R1"), nil))
	c.Select(pngFile("a.png"))
	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))
	old := c.Snapshot().Result

	c.Select(pngFile("b.png"))

	snap := c.Snapshot()
	require.False(t, snap.HasResult())
	require.Equal(t, "b.png", snap.File.Name)
	_, ok := c.Resolve(old)
	require.False(t, ok, "replaced result should be revoked")
}

func TestController_SelectNilClearsEverything(t *testing.T) {
	c := NewController(returning([]byte("R1"), nil))
	c.Select(pngFile("a.png"))
	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))

	c.Select(nil)

	snap := c.Snapshot()
	require.Nil(t, snap.File)
	require.False(t, snap.HasResult())
	require.False(t, c.CanSubmit())
}

func TestController_NonOKLeavesNoResult(t *testing.T) {
	c := NewController(returning(nil, statusErr{code: 500}))
	c.Select(pngFile("c.png"))

	require.Equal(t, OutcomeRejected, c.Submit(context.Background()))

	snap := c.Snapshot()
	require.False(t, snap.Loading)
	require.False(t, snap.HasResult())
	require.True(t, snap.CanSubmit())
}

func TestController_FailedReuploadKeepsPreviousResult(t *testing.T) {
	rot := returning([]byte("R1"), nil)
	c := NewController(rot)
	c.Select(pngFile("a.png"))
	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))
	before := c.Snapshot().Result

	rot.fn = func(context.Context, File) ([]byte, error) { return nil, statusErr{code: 502} }
	require.Equal(t, OutcomeRejected, c.Submit(context.Background()))
	require.Equal(t, before, c.Snapshot().Result)

	rot.fn = func(context.Context, File) ([]byte, error) { return nil, errors.New("connection refused") }
	require.Equal(t, OutcomeFailed, c.Submit(context.Background()))
	require.Equal(t, before, c.Snapshot().Result)

	data, ok := c.Result()
	require.True(t, ok)
	require.Equal(t, []byte("R1"), data)
}

func TestController_TransportErrorIsLoggedAndContained(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	c := NewController(returning(nil, errors.New("dial tcp: connection refused")), WithLogger(logger))
	c.Select(pngFile("d.png"))

	require.NotPanics(t, func() {
		require.Equal(t, OutcomeFailed, c.Submit(context.Background()))
	})

	snap := c.Snapshot()
	require.False(t, snap.Loading)
	require.False(t, snap.HasResult())
	require.True(t, snap.CanSubmit())
	require.ErrorContains(t, snap.LastError, "connection refused")
	require.Contains(t, logs.String(), "rotate failed")
	require.Contains(t, logs.String(), "d.png")
}

func TestController_PanickingRotatorStillSettles(t *testing.T) {
	rot := &fakeRotator{fn: func(context.Context, File) ([]byte, error) { panic("boom") }}
	c := NewController(rot)
	c.Select(pngFile("e.png"))

	require.NotPanics(t, func() {
		require.Equal(t, OutcomeFailed, c.Submit(context.Background()))
	})
	require.False(t, c.Snapshot().Loading)
	require.True(t, c.CanSubmit())
}

func TestController_LoadingSpansRequest(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var c *Controller
	var loadingInside bool
	rot := &fakeRotator{fn: func(ctx context.Context, file File) ([]byte, error) {
		loadingInside = c.Snapshot().Loading
		close(entered)
		<-release
		return []byte("R"), nil
	}}
	c = NewController(rot)
	c.Select(pngFile("a.png"))

	done := make(chan Outcome, 1)
	go func() { done <- c.Submit(context.Background()) }()

	<-entered
	require.True(t, c.Snapshot().Loading)
	require.False(t, c.CanSubmit(), "submit must be disabled while in flight")
	require.Equal(t, OutcomeSkipped, c.Submit(context.Background()), "second submit must not start")

	close(release)
	select {
	case got := <-done:
		require.Equal(t, OutcomeRotated, got)
	case <-time.After(2 * time.Second):
		t.Fatal("upload did not settle")
	}
	require.True(t, loadingInside)
	require.False(t, c.Snapshot().Loading)
	require.Equal(t, 1, rot.callCount())
}

func TestController_SelectDuringFlightDiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	rot := &fakeRotator{fn: func(context.Context, File) ([]byte, error) {
		close(entered)
		<-release
		return []byte("old"), nil
	}}
	c := NewController(rot)
	c.Select(pngFile("a.png"))

	cycle, ok := c.Begin()
	require.True(t, ok)
	require.Equal(t, "a.png", cycle.File().Name)

	done := make(chan Outcome, 1)
	go func() { done <- cycle.Run(context.Background()) }()
	<-entered

	c.Select(pngFile("b.png"))
	close(release)

	require.Equal(t, OutcomeStale, <-done)
	snap := c.Snapshot()
	require.False(t, snap.HasResult())
	require.False(t, snap.Loading)
	require.Equal(t, "b.png", snap.File.Name)
}

func TestController_BeginRaisesLoadingImmediately(t *testing.T) {
	c := NewController(returning([]byte("R"), nil))
	c.Select(pngFile("a.png"))

	cycle, ok := c.Begin()
	require.True(t, ok)
	require.True(t, c.Snapshot().Loading)

	_, again := c.Begin()
	require.False(t, again)

	require.Equal(t, OutcomeRotated, cycle.Run(context.Background()))
	require.False(t, c.Snapshot().Loading)
}

func TestController_ReplacingResultRevokesPrevious(t *testing.T) {
	refs := &RefStore{}
	rot := returning([]byte("R1"), nil)
	c := NewController(rot, WithRefStore(refs))
	c.Select(pngFile("a.png"))

	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))
	first := c.Snapshot().Result

	rot.fn = func(context.Context, File) ([]byte, error) { return []byte("R2"), nil }
	require.Equal(t, OutcomeRotated, c.Submit(context.Background()))
	second := c.Snapshot().Result

	require.NotEqual(t, first, second)
	_, ok := refs.Resolve(first)
	require.False(t, ok)
	require.Equal(t, 1, refs.Len())
	require.Equal(t, 2, c.Snapshot().Uploads)
}

func TestController_SnapshotIsIndependent(t *testing.T) {
	c := NewController(returning(nil, errors.New("boom")))
	original := pngFile("a.png")
	c.Select(original)

	original.Name = "mutated.png"
	snap := c.Snapshot()
	require.Equal(t, "a.png", snap.File.Name)

	snap.File.Name = "changed.png"
	require.Equal(t, "a.png", c.Snapshot().File.Name)
}

func TestController_NilRotatorFails(t *testing.T) {
	c := NewController(nil)
	c.Select(pngFile("a.png"))
	require.Equal(t, OutcomeFailed, c.Submit(context.Background()))
	require.False(t, c.Snapshot().Loading)
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeNone:     "none",
		OutcomeSkipped:  "skipped",
		OutcomeRotated:  "rotated",
		OutcomeRejected: "rejected",
		OutcomeFailed:   "failed",
		OutcomeStale:    "stale",
	}
	for outcome, want := range cases {
		require.Equal(t, want, outcome.String())
	}
}
