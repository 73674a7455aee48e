// Package payment confirms a hosted checkout after the shopper is sent
// back to the store, by polling the backend for the session status.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
)

type State string

const (
	StateChecking State = "checking"
	StateSuccess  State = "success"
	StatePending  State = "pending"
	StateFailed   State = "failed"
)

func (s State) Terminal() bool {
	return s == StateSuccess || s == StatePending || s == StateFailed
}

const (
	DefaultMaxAttempts = 5
	DefaultInterval    = 2 * time.Second
)

var (
	ErrMissingSession = errors.New("payment session id is required")
	ErrStopped        = errors.New("payment check stopped before completion")
)

type StatusChecker interface {
	GetPaymentStatus(ctx context.Context, sessionID string) (*models.PaymentSessionStatus, error)
}

type CartClearer interface {
	Clear(ctx context.Context)
}

type Result struct {
	SessionID string `json:"session_id"`
	State     State  `json:"state"`
	Attempts  int    `json:"attempts"`
}

type Poller struct {
	checker     StatusChecker
	clearer     CartClearer
	maxAttempts int
	interval    time.Duration
	scheduler   Scheduler
	logger      *slog.Logger
}

type Option func(*Poller)

// WithMaxAttempts sets how many re-checks follow the first one.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		p.maxAttempts = n
	}
}

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		p.interval = d
	}
}

func WithScheduler(s Scheduler) Option {
	return func(p *Poller) {
		p.scheduler = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

func NewPoller(checker StatusChecker, clearer CartClearer, opts ...Option) *Poller {
	p := &Poller{
		checker:     checker,
		clearer:     clearer,
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultInterval,
		scheduler:   TimerScheduler(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start begins confirming sessionID. The first check is scheduled
// immediately. Cancelling ctx stops the check like Stop does.
func (p *Poller) Start(ctx context.Context, sessionID string) (*Check, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	c := &Check{
		poller:    p,
		sessionID: sessionID,
		ctx:       ctx,
		state:     StateChecking,
		done:      make(chan struct{}),
		logger:    p.logger.With(slog.String("session_id", sessionID)),
	}

	c.mu.Lock()
	c.unwatch = context.AfterFunc(ctx, c.Stop)
	c.task = p.scheduler.AfterFunc(0, c.run)
	c.mu.Unlock()

	c.logger.Info("Payment confirmation started", slog.Int("max_attempts", p.maxAttempts))

	return c, nil
}

// Run starts a check and blocks until it settles or ctx ends. The check is
// stopped on every return path.
func (p *Poller) Run(ctx context.Context, sessionID string) (Result, error) {
	c, err := p.Start(ctx, sessionID)
	if err != nil {
		return Result{SessionID: sessionID}, err
	}
	defer c.Stop()

	return c.Wait(ctx)
}

// Check is one confirmation in progress. It owns at most one scheduled
// task at a time.
type Check struct {
	poller    *Poller
	sessionID string
	ctx       context.Context
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	attempts int
	task     Task
	finished bool
	stopped  bool
	unwatch  func() bool
	done     chan struct{}
}

func (c *Check) Status() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resultLocked()
}

func (c *Check) resultLocked() Result {
	return Result{SessionID: c.sessionID, State: c.state, Attempts: c.attempts}
}

// Done is closed once the check reaches a terminal state or is stopped.
func (c *Check) Done() <-chan struct{} {
	return c.done
}

// Wait blocks for the outcome. A check torn down before settling yields the
// start context's error if it ended, ErrStopped otherwise.
func (c *Check) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return c.Status(), ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		if err := c.ctx.Err(); err != nil {
			return c.resultLocked(), err
		}
		return c.resultLocked(), ErrStopped
	}

	return c.resultLocked(), nil
}

// Stop cancels any scheduled re-check. A stopped check never changes state
// again. Calling Stop after the check settled has no effect.
func (c *Check) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return
	}

	c.stopped = true
	c.finishLocked()
	c.logger.Info("Payment confirmation stopped", slog.Int("attempts", c.attempts))
}

func (c *Check) finishLocked() {
	c.finished = true

	if c.task != nil {
		c.task.Stop()
		c.task = nil
	}

	if c.unwatch != nil {
		c.unwatch()
	}

	close(c.done)
}

func (c *Check) run() {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.task = nil
	c.mu.Unlock()

	status, err := c.poller.checker.GetPaymentStatus(c.ctx, c.sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return
	}

	if err != nil {
		metrics.RecordPaymentCheck("transport_error")
		c.logger.Warn("Payment status check failed", slog.Int("attempt", c.attempts), slog.String("error", err.Error()))
		c.retryOrSettleLocked(StateFailed)
		return
	}

	outcome := stripe.ClassifySession(status.PaymentStatus, status.Status)
	metrics.RecordPaymentCheck(outcome.String())

	switch outcome {
	case stripe.SessionPaid:
		c.settleLocked(StateSuccess)
		c.poller.clearer.Clear(context.WithoutCancel(c.ctx))
	case stripe.SessionExpired:
		c.settleLocked(StateFailed)
	default:
		c.logger.Debug("Payment not settled yet",
			slog.Int("attempt", c.attempts),
			slog.String("payment_status", status.PaymentStatus),
			slog.String("status", status.Status),
		)
		c.retryOrSettleLocked(StatePending)
	}
}

// retryOrSettleLocked schedules another check while budget remains and
// otherwise settles on exhausted.
func (c *Check) retryOrSettleLocked(exhausted State) {
	if c.attempts < c.poller.maxAttempts {
		c.attempts++
		c.task = c.poller.scheduler.AfterFunc(c.poller.interval, c.run)
		return
	}

	c.settleLocked(exhausted)
}

func (c *Check) settleLocked(state State) {
	c.state = state
	c.finishLocked()

	metrics.RecordPaymentOutcome(string(state))
	c.logger.Info("Payment confirmation settled", slog.String("state", string(state)), slog.Int("attempts", c.attempts))
}
