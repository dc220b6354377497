package railpool

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches any member goroutines left behind by pool operations.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
