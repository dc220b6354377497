// Package work defines the unit of work consumed by the railyard engine: an
// immutable item value and a blocking transform that simulates a CPU-bound
// image processing step with a fixed latency.
package work

import (
	"context"
	"fmt"
	"time"
)

// DefaultDelay is the simulated processing latency of the default transform.
const DefaultDelay = 500 * time.Millisecond

// Item is an immutable description of an image to process.
type Item struct {
	// ID is the item identifier, typically a filename
	ID string

	// Width is the image width in pixels
	Width int

	// Height is the image height in pixels
	Height int

	// Kind is the image format (jpg, png, webp, ...)
	Kind string
}

// TransformFunc is the signature of a unit-of-work transform. Implementations
// must not mutate the input item; they return a new value. A blocked transform
// should honor ctx cancellation and return ctx.Err().
type TransformFunc func(ctx context.Context, item Item) (Item, error)

// Transform is the default transform. It blocks for DefaultDelay to simulate a
// heavy image operation (resize, filters, format conversion), then returns a
// new item with the ID suffixed "_processed" and both dimensions halved. The
// kind is unchanged. The input item is never modified.
func Transform(ctx context.Context, item Item) (Item, error) {
	return NewTransform(DefaultDelay)(ctx, item)
}

// NewTransform returns a TransformFunc with a custom simulated latency.
// Useful for tests that cannot afford the default 500ms per item.
func NewTransform(delay time.Duration) TransformFunc {
	return func(ctx context.Context, item Item) (Item, error) {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-ctx.Done():
				return Item{}, ctx.Err()
			}
		}

		return Item{
			ID:     item.ID + "_processed",
			Width:  item.Width / 2,
			Height: item.Height / 2,
			Kind:   item.Kind,
		}, nil
	}
}

// NewTestItem creates a synthetic 1920x1080 jpg item for demos and tests.
// Index is conventionally 1-based: NewTestItem(1) yields "image1.jpg".
func NewTestItem(index int) Item {
	return Item{
		ID:     fmt.Sprintf("image%d.jpg", index),
		Width:  1920,
		Height: 1080,
		Kind:   "jpg",
	}
}

// NewTestItems creates count synthetic items, indexed 1..count.
func NewTestItems(count int) []Item {
	items := make([]Item, count)
	for i := range items {
		items[i] = NewTestItem(i + 1)
	}
	return items
}
