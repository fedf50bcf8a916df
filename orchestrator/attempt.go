package orchestrator

import (
	"context"
	"time"

	"saythenumber/shared/types"
)

// Attempt is one invocation of either submission path
type Attempt struct {
	id        string
	path      types.Path
	literal   string
	startedAt time.Time
	// dispatched is set before Submit* returns and never changes afterwards
	dispatched bool
	// started is the view published when the attempt was submitted
	started types.Snapshot

	done   chan struct{}
	result types.Snapshot
}

// ID returns the attempt token
func (a *Attempt) ID() string { return a.id }

// Path returns the request path the attempt used
func (a *Attempt) Path() types.Path { return a.path }

// Dispatched reports whether the attempt passed the local checks and went to
// the conversion service
func (a *Attempt) Dispatched() bool { return a.dispatched }

// Started returns the orchestrator view taken when the attempt was submitted:
// loading for a dispatched attempt, failed for a local rejection
func (a *Attempt) Started() types.Snapshot { return a.started }

// Done is closed once the attempt has settled
func (a *Attempt) Done() <-chan struct{} { return a.done }

// Result returns the attempt's terminal view. Only valid after Done is closed.
func (a *Attempt) Result() types.Snapshot { return a.result }

// Wait blocks until the attempt settles or ctx ends
func (a *Attempt) Wait(ctx context.Context) (types.Snapshot, error) {
	select {
	case <-a.done:
		return a.result, nil
	case <-ctx.Done():
		return types.Snapshot{}, ctx.Err()
	}
}

// settle records the result and releases waiters; called exactly once
func (a *Attempt) settle(snap types.Snapshot) {
	a.result = snap
	close(a.done)
}
