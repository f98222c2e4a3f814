package observability

import (
	"context"
	"testing"
	"time"
)

type recordingSearchHooks struct {
	phaseStarts int
	moves       int
	completes   int
	converged   int
}

func (h *recordingSearchHooks) OnPhaseStart(context.Context, string, float64) { h.phaseStarts++ }
func (h *recordingSearchHooks) OnMoveAccepted(context.Context, string, string, float64) {
	h.moves++
}
func (h *recordingSearchHooks) OnPhaseComplete(context.Context, string, int, time.Duration) {
	h.completes++
}
func (h *recordingSearchHooks) OnConverged(context.Context, int, float64) { h.converged++ }

func TestSetSearchHooks(t *testing.T) {
	defer Reset()

	rec := &recordingSearchHooks{}
	SetSearchHooks(rec)

	ctx := context.Background()
	Search().OnPhaseStart(ctx, "forward", 0)
	Search().OnMoveAccepted(ctx, "forward", "add 0->1", 1.5)
	Search().OnPhaseComplete(ctx, "forward", 1, time.Millisecond)
	Search().OnConverged(ctx, 1, 1.5)

	if rec.phaseStarts != 1 || rec.moves != 1 || rec.completes != 1 || rec.converged != 1 {
		t.Errorf("recorded events = %+v, want one of each", rec)
	}
}

func TestSetSearchHooks_NilIgnored(t *testing.T) {
	defer Reset()

	rec := &recordingSearchHooks{}
	SetSearchHooks(rec)
	SetSearchHooks(nil)

	Search().OnPhaseStart(context.Background(), "forward", 0)
	if rec.phaseStarts != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}

func TestReset(t *testing.T) {
	rec := &recordingSearchHooks{}
	SetSearchHooks(rec)
	Reset()

	Search().OnPhaseStart(context.Background(), "forward", 0)
	if rec.phaseStarts != 0 {
		t.Error("Reset should restore no-op hooks")
	}
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	// Must not panic.
	ctx := context.Background()
	Search().OnConverged(ctx, 0, 0)
	Cache().OnCacheHit(ctx, "ns")
	Cache().OnCacheMiss(ctx, "ns")
	Cache().OnCacheSet(ctx, "ns", 8)
}
