// Package orchestrator owns the submission state shared by the "say it now"
// and "say it with a delay" paths.
//
// Both paths feed one state machine:
//
//	idle ──submit──▶ loading ──success──▶ succeeded
//	                    └──────failure──▶ failed
//	idle ──local check fails──────────────▶ failed
//	succeeded|failed ──submit──▶ loading
//
// Local checks (empty input, too many digits) fail without visiting loading
// and without touching the network. While an attempt is loading every further
// submit is refused with ErrAttemptInFlight. Each attempt carries a token and a
// completion whose token is no longer current is dropped.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"saythenumber/failure"
	"saythenumber/numinput"
	"saythenumber/shared/types"
)

// DefaultMaxDigits matches the largest integer the conversion service names (10^21)
const DefaultMaxDigits = 21

// ErrAttemptInFlight is returned when a submit arrives while another attempt is loading
var ErrAttemptInFlight = errors.New("an attempt is already in flight")

// Converter is the remote conversion service
type Converter interface {
	ConvertNow(ctx context.Context, literal string) (*types.Envelope, error)
	ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error)
}

// Observer is told about every finished attempt, including local rejections.
// It is called outside the state lock, in transition order, and must not block
// for long or submit.
type Observer interface {
	AttemptFinished(outcome types.Outcome)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(outcome types.Outcome)

// AttemptFinished implements Observer
func (f ObserverFunc) AttemptFinished(outcome types.Outcome) { f(outcome) }

// Orchestrator holds the single submission state with thread-safe access
type Orchestrator struct {
	mu sync.Mutex
	// nextTicket orders notifications; taken under mu
	nextTicket uint64

	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	delivered  uint64

	state   types.State
	literal string
	path    types.Path
	answer  string
	errInfo *types.ErrorInfo
	current *Attempt

	converter Converter
	maxDigits int
	observers []Observer
	onChange  func(types.Snapshot)
	logger    *zap.Logger
	baseCtx   context.Context
	now       func() time.Time
	newToken  func() string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithMaxDigits sets the local magnitude guard; n <= 0 keeps the default
func WithMaxDigits(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxDigits = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithObservers adds observers of finished attempts
func WithObservers(obs ...Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs...) }
}

// WithOnChange registers a callback run after every state transition.
// Snapshots arrive one at a time in the order the transitions happened. The
// callback may read the orchestrator but must not submit.
func WithOnChange(fn func(types.Snapshot)) Option {
	return func(o *Orchestrator) { o.onChange = fn }
}

// WithBaseContext sets the context remote calls run under. Cancelling it
// aborts in-flight calls, which then settle as failed.
func WithBaseContext(ctx context.Context) Option {
	return func(o *Orchestrator) { o.baseCtx = ctx }
}

// New creates an idle orchestrator
func New(converter Converter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:     types.StateIdle,
		converter: converter,
		maxDigits: DefaultMaxDigits,
		logger:    zap.NewNop(),
		baseCtx:   context.Background(),
		now:       time.Now,
		newToken:  uuid.NewString,
	}
	o.notifyCond = sync.NewCond(&o.notifyMu)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MaxDigits returns the configured digit limit
func (o *Orchestrator) MaxDigits() int {
	return o.maxDigits
}

// SubmitNow starts an attempt on the immediate path
func (o *Orchestrator) SubmitNow(literal string) (*Attempt, error) {
	return o.submit(types.PathNow, literal)
}

// SubmitWithDelay starts an attempt on the delayed path
func (o *Orchestrator) SubmitWithDelay(literal string) (*Attempt, error) {
	return o.submit(types.PathDelay, literal)
}

// Snapshot returns a copy of the current state (thread-safe)
func (o *Orchestrator) Snapshot() types.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Loading reports whether an attempt is in flight
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == types.StateLoading
}

// Wait blocks until the current attempt, if any, has settled
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	a := o.current
	o.mu.Unlock()
	if a == nil {
		return nil
	}
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) submit(path types.Path, literal string) (*Attempt, error) {
	o.mu.Lock()
	if o.state == types.StateLoading {
		o.mu.Unlock()
		o.logger.Debug("Submit refused, attempt in flight", zap.String("path", string(path)))
		return nil, ErrAttemptInFlight
	}

	a := &Attempt{
		id:        o.newToken(),
		path:      path,
		literal:   literal,
		startedAt: o.now(),
		done:      make(chan struct{}),
	}
	o.current = a
	o.literal = literal
	o.path = path
	o.answer = ""
	o.errInfo = nil

	if info, ok := o.checkLocal(literal); !ok {
		o.state = types.StateFailed
		o.errInfo = &info
		snap := o.snapshotLocked()
		a.started = snap
		ticket := o.ticketLocked()
		o.mu.Unlock()

		o.logger.Info("Attempt rejected locally",
			zap.String("attempt", a.id), zap.String("path", string(path)), zap.String("kind", string(info.Kind)))
		o.inOrder(ticket, func() { o.finish(a, snap) })
		return a, nil
	}

	o.state = types.StateLoading
	a.dispatched = true
	snap := o.snapshotLocked()
	a.started = snap
	ticket := o.ticketLocked()
	o.mu.Unlock()

	o.logger.Info("Attempt started",
		zap.String("attempt", a.id), zap.String("path", string(path)), zap.String("literal", literal))
	o.inOrder(ticket, func() { o.notifyChange(snap) })

	go o.run(a)
	return a, nil
}

// checkLocal runs the preconditions that need no network, in order
func (o *Orchestrator) checkLocal(literal string) (types.ErrorInfo, bool) {
	if literal == "" {
		return failure.EmptyInput(), false
	}
	if numinput.DigitCount(literal) > o.maxDigits {
		return failure.TooLarge(o.maxDigits), false
	}
	return types.ErrorInfo{}, true
}

func (o *Orchestrator) run(a *Attempt) {
	var (
		env *types.Envelope
		err error
	)
	switch a.path {
	case types.PathDelay:
		env, err = o.converter.ConvertWithDelay(o.baseCtx, a.literal)
	default:
		env, err = o.converter.ConvertNow(o.baseCtx, a.literal)
	}
	o.complete(a, env, err)
}

// resolve turns a transport result into the terminal state of an attempt
func resolve(env *types.Envelope, err error) (types.State, string, *types.ErrorInfo) {
	if err != nil {
		info := failure.Classify(err)
		return types.StateFailed, "", &info
	}
	if env == nil || env.Status != types.StatusOK {
		info := failure.UnexpectedResponse()
		return types.StateFailed, "", &info
	}
	return types.StateSucceeded, env.NumInEnglish, nil
}

// complete applies a settled call if its attempt is still the current one
func (o *Orchestrator) complete(a *Attempt, env *types.Envelope, err error) {
	state, answer, info := resolve(env, err)

	o.mu.Lock()
	if o.current != a || o.state != types.StateLoading {
		o.mu.Unlock()
		o.logger.Warn("Dropping stale completion", zap.String("attempt", a.id))
		a.settle(types.Snapshot{
			State: state, AttemptID: a.id, Path: a.path, Literal: a.literal, Answer: answer, Error: info,
		})
		return
	}
	o.state = state
	o.answer = answer
	o.errInfo = info
	snap := o.snapshotLocked()
	ticket := o.ticketLocked()
	o.mu.Unlock()

	if err != nil {
		o.logger.Info("Attempt failed",
			zap.String("attempt", a.id), zap.String("kind", string(info.Kind)), zap.Error(err))
	} else {
		o.logger.Info("Attempt finished",
			zap.String("attempt", a.id), zap.String("state", string(state)))
	}
	o.inOrder(ticket, func() { o.finish(a, snap) })
}

// finish tells the change callback and observers, then settles the attempt so
// waiters see every observer's effect
func (o *Orchestrator) finish(a *Attempt, snap types.Snapshot) {
	o.notifyChange(snap)

	outcome := types.Outcome{
		AttemptID:  a.id,
		Path:       a.path,
		Literal:    a.literal,
		State:      snap.State,
		Answer:     snap.Answer,
		Error:      snap.Error,
		StartedAt:  a.startedAt,
		FinishedAt: o.now(),
	}
	for _, obs := range o.observers {
		obs.AttemptFinished(outcome)
	}
	a.settle(snap)
}

// ticketLocked reserves the next notification slot (must hold lock)
func (o *Orchestrator) ticketLocked() uint64 {
	t := o.nextTicket
	o.nextTicket++
	return t
}

// inOrder runs deliver once every earlier ticket has been delivered. Every
// ticket taken must pass through here exactly once.
func (o *Orchestrator) inOrder(ticket uint64, deliver func()) {
	o.notifyMu.Lock()
	for o.delivered != ticket {
		o.notifyCond.Wait()
	}
	o.notifyMu.Unlock()

	deliver()

	o.notifyMu.Lock()
	o.delivered++
	o.notifyCond.Broadcast()
	o.notifyMu.Unlock()
}

func (o *Orchestrator) notifyChange(snap types.Snapshot) {
	if o.onChange != nil {
		o.onChange(snap)
	}
}

// snapshotLocked builds a snapshot (must hold lock)
func (o *Orchestrator) snapshotLocked() types.Snapshot {
	snap := types.Snapshot{
		State:   o.state,
		Loading: o.state == types.StateLoading,
		Path:    o.path,
		Literal: o.literal,
		Answer:  o.answer,
	}
	if o.current != nil {
		snap.AttemptID = o.current.id
	}
	if o.errInfo != nil {
		info := *o.errInfo
		snap.Error = &info
	}
	return snap
}
