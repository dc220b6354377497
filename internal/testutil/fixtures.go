package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vnykmshr/railyard/pkg/work"
)

// ErrTransformFailed is the cause returned by failing test transforms.
var ErrTransformFailed = errors.New("simulated transform failure")

// Items builds n synthetic work items, indexed 1..n.
func Items(n int) []work.Item {
	return work.NewTestItems(n)
}

// InstantTransform is a zero-latency transform for tests that only care about
// shape and ordering, not timing.
func InstantTransform() work.TransformFunc {
	return work.NewTransform(0)
}

// FailingTransform returns a transform that fails for the item with the given
// ID and behaves like a transform with the given delay for everything else.
func FailingTransform(failID string, delay time.Duration) work.TransformFunc {
	inner := work.NewTransform(delay)
	return func(ctx context.Context, item work.Item) (work.Item, error) {
		if item.ID == failID {
			return work.Item{}, fmt.Errorf("%s: %w", item.ID, ErrTransformFailed)
		}
		return inner(ctx, item)
	}
}

// AssertProcessedOrder fails unless out is exactly the processed form of in,
// in the same order.
func AssertProcessedOrder(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, in, out []work.Item) {
	t.Helper()
	if len(in) != len(out) {
		t.Fatalf("got %d items, want %d", len(out), len(in))
	}
	for i := range in {
		want := work.Item{
			ID:     in[i].ID + "_processed",
			Width:  in[i].Width / 2,
			Height: in[i].Height / 2,
			Kind:   in[i].Kind,
		}
		if out[i] != want {
			t.Fatalf("item %d: got %+v, want %+v", i, out[i], want)
		}
	}
}
