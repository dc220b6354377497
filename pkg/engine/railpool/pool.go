package railpool

import (
	"fmt"
	"sync"

	ryerrors "github.com/vnykmshr/railyard/pkg/common/errors"
	"github.com/vnykmshr/railyard/pkg/common/validation"
)

// Mode selects how execution contexts are acquired for lanes.
type Mode int

const (
	// ModeInline resolves every lane to the shared caller context.
	ModeInline Mode = iota

	// ModeRailsOnly resolves every lane to the shared caller context, same as
	// ModeInline. Kept distinct so callers can name their intent.
	ModeRailsOnly

	// ModePooled binds each lane to a dedicated pool member.
	ModePooled
)

// CallerIdentity is the identity reported by the shared inline context.
const CallerIdentity = "caller"

// Context represents the thing that runs code. Its identity is stable for its
// lifetime and comparable across records.
type Context interface {
	// Identity returns the stable identity of this execution context.
	Identity() string

	// Execute runs fn on this context and blocks until it has completed.
	// Returns an error only if the context could not accept the work, i.e.
	// the pool is shut down; fn's own outcome travels through fn's closure.
	Execute(fn func()) error
}

// Config holds configuration options for creating a pool.
type Config struct {
	// Capacity is the number of pool members. Must be greater than 0.
	Capacity int

	// PanicHandler is called when a member panics while executing work.
	// If nil, panics are recovered and discarded; the member keeps running.
	PanicHandler func(identity string, recovered interface{})

	// OnMemberStart is called when a member goroutine starts.
	OnMemberStart func(identity string)

	// OnMemberStop is called when a member goroutine stops.
	OnMemberStop func(identity string)
}

// Pool owns a fixed set of execution contexts. Lanes borrow contexts through
// AcquireForLane; the pool retains ownership and reclaims everything on
// Shutdown.
type Pool struct {
	config  Config
	members []*member
	inline  inlineContext

	shutdownCh   chan struct{}
	shutdownDone chan struct{}
	shutdownOnce sync.Once

	mu         sync.RWMutex
	isShutdown bool

	memberWg sync.WaitGroup
}

// member is a single pooled execution context.
type member struct {
	identity string
	pool     *Pool
	tasks    chan taskReq
	stopCh   chan struct{}
}

// taskReq carries a unit of work to a member and signals its completion.
type taskReq struct {
	fn   func()
	done chan struct{}
}

// inlineContext executes work on the goroutine that submits it.
type inlineContext struct{}

// Identity returns CallerIdentity.
func (inlineContext) Identity() string { return CallerIdentity }

// Execute runs fn inline. It never fails.
func (inlineContext) Execute(fn func()) error {
	fn()
	return nil
}

// New creates a pool with the given capacity. Fails with a configuration
// error when capacity < 1; the pool cannot provision a single context.
func New(capacity int) (*Pool, error) {
	return NewWithConfig(Config{Capacity: capacity})
}

// NewWithConfig creates a pool with the specified configuration.
func NewWithConfig(config Config) (*Pool, error) {
	if err := validation.ValidatePositive("railpool", "capacity", config.Capacity); err != nil {
		return nil, err
	}

	p := &Pool{
		config:       config,
		shutdownCh:   make(chan struct{}),
		shutdownDone: make(chan struct{}),
	}

	p.members = make([]*member, config.Capacity)
	for i := 0; i < config.Capacity; i++ {
		p.members[i] = &member{
			identity: fmt.Sprintf("railpool-%d", i),
			pool:     p,
			tasks:    make(chan taskReq),
			stopCh:   make(chan struct{}),
		}
		p.memberWg.Add(1)
		go p.members[i].run()
	}

	return p, nil
}

// Capacity returns the number of pool members.
func (p *Pool) Capacity() int {
	return p.config.Capacity
}

// Identities returns the identities of all pool members in member order.
func (p *Pool) Identities() []string {
	ids := make([]string, len(p.members))
	for i, m := range p.members {
		ids[i] = m.identity
	}
	return ids
}

// AcquireForLane resolves the execution context for a lane under the given
// mode. Inline and rails-only modes always resolve to the shared caller
// context. Pooled mode binds lane to member lane mod capacity and fails only
// when the pool has been shut down.
func (p *Pool) AcquireForLane(lane int, mode Mode) (Context, error) {
	if mode != ModePooled {
		return p.inline, nil
	}

	p.mu.RLock()
	isShutdown := p.isShutdown
	p.mu.RUnlock()

	if isShutdown {
		return nil, fmt.Errorf("railpool: acquire lane %d: %w", lane, ryerrors.ErrClosed)
	}

	return p.members[lane%p.config.Capacity], nil
}

// Shutdown stops all members after their in-flight work completes. The
// returned channel closes when every member has exited. Safe to call more
// than once; later calls return the same channel.
func (p *Pool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.isShutdown = true
		p.mu.Unlock()

		close(p.shutdownCh)
		for _, m := range p.members {
			close(m.stopCh)
		}

		go func() {
			p.memberWg.Wait()
			close(p.shutdownDone)
		}()
	})

	return p.shutdownDone
}

// run is the main loop for a pool member.
func (m *member) run() {
	defer m.pool.memberWg.Done()

	if m.pool.config.OnMemberStart != nil {
		m.pool.config.OnMemberStart(m.identity)
	}
	defer func() {
		if m.pool.config.OnMemberStop != nil {
			m.pool.config.OnMemberStop(m.identity)
		}
	}()

	for {
		select {
		case <-m.stopCh:
			return
		case req := <-m.tasks:
			m.execute(req)
		}
	}
}

// execute runs one request, recovering panics so a misbehaving transform
// cannot take the member down.
func (m *member) execute(req taskReq) {
	defer close(req.done)
	defer func() {
		if r := recover(); r != nil && m.pool.config.PanicHandler != nil {
			m.pool.config.PanicHandler(m.identity, r)
		}
	}()

	req.fn()
}

// Identity returns the member's stable identity.
func (m *member) Identity() string {
	return m.identity
}

// Execute hands fn to the member and blocks until it has run. Fails with
// ErrClosed when the pool shuts down before the member accepts the work.
func (m *member) Execute(fn func()) error {
	req := taskReq{fn: fn, done: make(chan struct{})}

	select {
	case m.tasks <- req:
	case <-m.pool.shutdownCh:
		return fmt.Errorf("railpool: execute on %s: %w", m.identity, ryerrors.ErrClosed)
	}

	// The task channel is unbuffered, so a successful send means the member
	// holds the request and will run it to completion even during shutdown.
	<-req.done
	return nil
}
