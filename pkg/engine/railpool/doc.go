/*
Package railpool provides the execution contexts that run railyard work: a
shared inline context that executes on the calling goroutine, and a bounded
pool of members, each a goroutine with a stable identity, that execute
concurrently with respect to each other and to the caller.

The pool does not choose how it is used. Callers select an acquisition mode
per lane:

  - ModeInline: every acquisition resolves to the shared caller context.
    Work executes inline, no dispatch occurs.
  - ModeRailsOnly: identical resolution to ModeInline. The mode exists so a
    caller can partition work into lanes and still prove that partitioning
    alone buys no concurrency.
  - ModePooled: lane l is bound to member l mod capacity for the duration of
    the run. When the lane count exceeds capacity, members are shared and
    effective concurrency is capped at capacity.

Basic usage:

	pool, err := railpool.New(4)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { <-pool.Shutdown() }()

	exec, err := pool.AcquireForLane(2, railpool.ModePooled)
	if err != nil {
		log.Fatal(err)
	}

	err = exec.Execute(func() {
		// runs on the member bound to lane 2
	})

Execute blocks the caller until the submitted function has run, so a lane
feeder that loops over its items naturally serializes them on its member while
other lanes proceed on theirs.

Identities are stable for the life of the pool: members report "railpool-0"
through "railpool-<capacity-1>", and the shared context reports
CallerIdentity. Identity strings are the explicit replacement for inspecting
ambient thread state; they are what observers record to prove whether real
concurrency occurred.
*/
package railpool
