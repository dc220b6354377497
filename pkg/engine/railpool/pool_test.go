package railpool

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/railyard/internal/testutil"
	ryerrors "github.com/vnykmshr/railyard/pkg/common/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{"valid capacity", 4, false},
		{"single member", 1, false},
		{"zero capacity", 0, true},
		{"negative capacity", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := New(tt.capacity)
			if tt.wantErr {
				testutil.AssertError(t, err)
				if !errors.Is(err, ryerrors.ErrInvalidConfiguration) {
					t.Errorf("error should wrap ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, pool.Capacity(), tt.capacity)
			<-pool.Shutdown()
		})
	}
}

func TestInlineModesShareCallerIdentity(t *testing.T) {
	pool, err := New(4)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	for _, mode := range []Mode{ModeInline, ModeRailsOnly} {
		for lane := 0; lane < 4; lane++ {
			exec, err := pool.AcquireForLane(lane, mode)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, exec.Identity(), CallerIdentity)
		}
	}
}

func TestInlineExecuteRunsOnCaller(t *testing.T) {
	pool, err := New(1)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	exec, err := pool.AcquireForLane(0, ModeInline)
	testutil.AssertNoError(t, err)

	ran := false
	testutil.AssertNoError(t, exec.Execute(func() { ran = true }))
	testutil.AssertEqual(t, ran, true)
}

func TestPooledLaneBinding(t *testing.T) {
	pool, err := New(4)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	// Each lane gets a distinct member up to capacity.
	seen := make(map[string]bool)
	for lane := 0; lane < 4; lane++ {
		exec, err := pool.AcquireForLane(lane, ModePooled)
		testutil.AssertNoError(t, err)
		seen[exec.Identity()] = true
	}
	testutil.AssertEqual(t, len(seen), 4)

	// Acquisition is stable: the same lane resolves to the same member.
	first, err := pool.AcquireForLane(2, ModePooled)
	testutil.AssertNoError(t, err)
	second, err := pool.AcquireForLane(2, ModePooled)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, first.Identity(), second.Identity())
}

func TestLaneCountAboveCapacityWraps(t *testing.T) {
	pool, err := New(2)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	lane0, err := pool.AcquireForLane(0, ModePooled)
	testutil.AssertNoError(t, err)
	lane2, err := pool.AcquireForLane(2, ModePooled)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, lane0.Identity(), lane2.Identity())
}

func TestPooledExecutionIsConcurrent(t *testing.T) {
	pool, err := New(2)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	const blockFor = 100 * time.Millisecond

	var wg sync.WaitGroup
	start := time.Now()
	for lane := 0; lane < 2; lane++ {
		exec, err := pool.AcquireForLane(lane, ModePooled)
		testutil.AssertNoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = exec.Execute(func() { time.Sleep(blockFor) })
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed >= 2*blockFor {
		t.Errorf("two members took %v, want less than %v", elapsed, 2*blockFor)
	}
}

func TestSharedMemberSerializes(t *testing.T) {
	pool, err := New(1)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	const blockFor = 50 * time.Millisecond

	var wg sync.WaitGroup
	start := time.Now()
	for lane := 0; lane < 2; lane++ {
		exec, err := pool.AcquireForLane(lane, ModePooled)
		testutil.AssertNoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = exec.Execute(func() { time.Sleep(blockFor) })
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed < 2*blockFor {
		t.Errorf("single member finished in %v, want at least %v", elapsed, 2*blockFor)
	}
}

func TestAcquireAfterShutdown(t *testing.T) {
	pool, err := New(2)
	testutil.AssertNoError(t, err)
	<-pool.Shutdown()

	_, err = pool.AcquireForLane(0, ModePooled)
	testutil.AssertError(t, err)
	if !errors.Is(err, ryerrors.ErrClosed) {
		t.Errorf("error should wrap ErrClosed, got %v", err)
	}

	// Inline acquisition still works; the caller context is not pooled state.
	exec, err := pool.AcquireForLane(0, ModeInline)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, exec.Identity(), CallerIdentity)
}

func TestExecuteDuringShutdown(t *testing.T) {
	pool, err := New(1)
	testutil.AssertNoError(t, err)

	exec, err := pool.AcquireForLane(0, ModePooled)
	testutil.AssertNoError(t, err)

	<-pool.Shutdown()

	err = exec.Execute(func() {})
	testutil.AssertError(t, err)
	if !errors.Is(err, ryerrors.ErrClosed) {
		t.Errorf("error should wrap ErrClosed, got %v", err)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	pool, err := New(2)
	testutil.AssertNoError(t, err)

	first := pool.Shutdown()
	second := pool.Shutdown()
	<-first
	<-second
}

func TestPanicRecovery(t *testing.T) {
	var mu sync.Mutex
	var recovered []string

	pool, err := NewWithConfig(Config{
		Capacity: 1,
		PanicHandler: func(identity string, _ interface{}) {
			mu.Lock()
			recovered = append(recovered, identity)
			mu.Unlock()
		},
	})
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	exec, err := pool.AcquireForLane(0, ModePooled)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, exec.Execute(func() { panic("boom") }))

	// Member survives the panic and keeps executing.
	ran := false
	testutil.AssertNoError(t, exec.Execute(func() { ran = true }))
	testutil.AssertEqual(t, ran, true)

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, len(recovered), 1)
	testutil.AssertEqual(t, recovered[0], "railpool-0")
}

func TestMemberLifecycleCallbacks(t *testing.T) {
	var mu sync.Mutex
	started := make(map[string]bool)
	stopped := make(map[string]bool)

	pool, err := NewWithConfig(Config{
		Capacity: 3,
		OnMemberStart: func(identity string) {
			mu.Lock()
			started[identity] = true
			mu.Unlock()
		},
		OnMemberStop: func(identity string) {
			mu.Lock()
			stopped[identity] = true
			mu.Unlock()
		},
	})
	testutil.AssertNoError(t, err)
	<-pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, len(started), 3)
	testutil.AssertEqual(t, len(stopped), 3)
}

func TestIdentities(t *testing.T) {
	pool, err := New(3)
	testutil.AssertNoError(t, err)
	defer func() { <-pool.Shutdown() }()

	ids := pool.Identities()
	testutil.AssertEqual(t, len(ids), 3)
	testutil.AssertEqual(t, ids[0], "railpool-0")
	testutil.AssertEqual(t, ids[2], "railpool-2")
}
