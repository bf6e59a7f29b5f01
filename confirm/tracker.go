package confirm

import (
	"context"
	"errors"
	"time"

	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

// Chain is what the tracker needs from an endpoint.
type Chain interface {
	xclient.Submitter
	Config() *xc.ChainConfig
}

// Tracker drives a transaction from dispatch to a terminal outcome,
// resubmitting on transient failures.
type Tracker struct {
	policy   RetryPolicy
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Tracker)

func WithObserver(observer Observer) Option {
	return func(t *Tracker) { t.observer = observer }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func NewTracker(policy RetryPolicy, opts ...Option) *Tracker {
	t := &Tracker{
		policy:   policy.WithDefaults(),
		observer: NopObserver{},
		logger:   zap.L(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Policy() RetryPolicy {
	return t.policy
}

// With returns a copy of t that also reports to observers.
func (t *Tracker) With(observers ...Observer) *Tracker {
	next := *t
	next.observer = append(Observers{t.observer}, observers...)
	return &next
}

// Run signs, dispatches and watches unsigned until the chain reports a
// terminal state. Terminal chain states come back as an outcome; failures
// before that (fatal dispatch errors, an exhausted budget) as an error.
// Each attempt signs afresh so the nonce is recomputed every time.
func (t *Tracker) Run(ctx context.Context, chain Chain, unsigned xc.Tx, waitForFinalization bool) (*xc.SubmissionOutcome, error) {
	kind := chain.Config().Blockchain
	logger := t.logger.With(zap.String("chain", chain.Config().Name))
	budget := newRetryBudget(t.policy, t.now)

	outcome, err := t.run(ctx, chain, unsigned, waitForFinalization, budget, logger)
	if outcome != nil {
		outcome.Attempts = budget.Attempts()
	}
	t.observer.OnOutcome(kind, outcome, err)
	return outcome, err
}

func (t *Tracker) run(ctx context.Context, chain Chain, unsigned xc.Tx, wait bool, budget *RetryBudget, logger *zap.Logger) (*xc.SubmissionOutcome, error) {
	kind := chain.Config().Blockchain
	var lastHash xc.TxHash

	for !budget.Exhausted() {
		if budget.PastDeadline() {
			return timedOut(kind, lastHash, "retry deadline exceeded"), nil
		}
		if err := ctx.Err(); err != nil {
			return stopped(kind, lastHash, err)
		}

		attempt := budget.Begin()
		t.observer.OnAttempt(kind, attempt)

		outcome, handle, err := t.attempt(ctx, chain, unsigned, wait, attempt)
		if handle != nil {
			lastHash = handle.Hash
		}
		if err == nil {
			return outcome, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stopped(kind, lastHash, ctxErr)
		}

		errKind := Classify(chain, err)
		if !errKind.Retryable() {
			logger.Warn("submission failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, fatal(err)
		}
		budget.Consume(errKind)
		t.observer.OnRetry(kind, errKind, err)
		logger.Info("retrying submission",
			zap.Int("attempt", attempt),
			zap.String("kind", string(errKind)),
			zap.Int("budget_used", budget.Used()),
			zap.Error(err),
		)

		if errKind == KindPriorityTooLow {
			if err := sleep(ctx, t.policy.PriorityBackoff); err != nil {
				return stopped(kind, lastHash, err)
			}
		}
	}

	return nil, xc.Errorf(xc.ErrSubmissionExhausted, "could not execute transaction after %d attempts", budget.Attempts()).
		WithDetail("attempts", budget.Attempts())
}

// attempt performs one dispatch and follows it within the attempt timeout.
func (t *Tracker) attempt(ctx context.Context, chain Chain, unsigned xc.Tx, wait bool, n int) (*xc.SubmissionOutcome, *xc.SubmissionHandle, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.policy.AttemptTimeout)
	defer cancel()

	handle, watch, err := chain.SignAndDispatch(attemptCtx, unsigned)
	if err != nil {
		return nil, nil, attemptErr(ctx, attemptCtx, err)
	}
	defer watch.Close()
	handle.Attempt = n
	t.observer.OnDispatched(handle)

	outcome, err := t.follow(attemptCtx, chain, handle, watch, wait)
	if err != nil {
		return nil, handle, attemptErr(ctx, attemptCtx, err)
	}
	return outcome, handle, nil
}

// follow consumes status updates until one is terminal for this call.
func (t *Tracker) follow(ctx context.Context, chain Chain, handle *xc.SubmissionHandle, watch xclient.Watch, wait bool) (*xc.SubmissionOutcome, error) {
	status := xc.TxStatusSubmitted
	var inclusion *xc.Inclusion

	for {
		update, err := watch.Next(ctx)
		if err != nil {
			return nil, err
		}
		t.observer.OnStatus(handle, update)
		if !CanTransition(status, update.Status) {
			t.logger.Debug("ignoring status update",
				zap.String("hash", string(handle.Hash)),
				zap.String("from", string(status)),
				zap.String("to", string(update.Status)),
			)
			continue
		}
		status = update.Status

		switch update.Status {
		case xc.TxStatusInBlock:
			inclusion, err = chain.InspectInclusion(ctx, handle, update.BlockHash)
			if err != nil {
				return nil, err
			}
			if inclusion.BlockNumber == 0 {
				inclusion.BlockNumber = update.BlockNumber
			}
			if inclusion.Failure != nil {
				return fromInclusion(handle, xc.TxStatusFailedOnChain, inclusion), nil
			}
			if !wait {
				return fromInclusion(handle, xc.TxStatusInBlock, inclusion), nil
			}
		case xc.TxStatusFinalized:
			if inclusion == nil || inclusion.BlockHash != update.BlockHash {
				inclusion, err = chain.InspectInclusion(ctx, handle, update.BlockHash)
				if err != nil {
					return nil, err
				}
				if inclusion.BlockNumber == 0 {
					inclusion.BlockNumber = update.BlockNumber
				}
				if inclusion.Failure != nil {
					return fromInclusion(handle, xc.TxStatusFailedOnChain, inclusion), nil
				}
			}
			return fromInclusion(handle, xc.TxStatusFinalized, inclusion), nil
		case xc.TxStatusInvalidated, xc.TxStatusRejected, xc.TxStatusTimedOut:
			return &xc.SubmissionOutcome{
				Status: update.Status,
				TxHash: handle.Hash,
				Chain:  handle.Chain,
				Reason: update.Reason,
			}, nil
		case xc.TxStatusSubmitted:
			inclusion = nil
		}
	}
}

func fromInclusion(handle *xc.SubmissionHandle, status xc.TxStatus, inclusion *xc.Inclusion) *xc.SubmissionOutcome {
	return &xc.SubmissionOutcome{
		Status:      status,
		TxHash:      handle.Hash,
		Chain:       handle.Chain,
		BlockHash:   inclusion.BlockHash,
		BlockNumber: inclusion.BlockNumber,
		Events:      inclusion.Events,
		Failure:     inclusion.Failure,
	}
}

// attemptErr turns the expiry of the attempt's own deadline into
// ErrAttemptTimeout while leaving the caller's context errors alone.
func attemptErr(parent, attemptCtx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return ErrAttemptTimeout
	}
	return err
}

func timedOut(kind xc.Blockchain, hash xc.TxHash, reason string) *xc.SubmissionOutcome {
	return &xc.SubmissionOutcome{Status: xc.TxStatusTimedOut, TxHash: hash, Chain: kind, Reason: reason}
}

// stopped reports the end of the caller's context: an expired deadline is
// a timeout, a cancellation is returned as is.
func stopped(kind xc.Blockchain, hash xc.TxHash, err error) (*xc.SubmissionOutcome, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return timedOut(kind, hash, "deadline exceeded"), nil
	}
	return nil, err
}

func fatal(err error) error {
	var xcErr *xc.Error
	if errors.As(err, &xcErr) {
		return err
	}
	return xc.WrapErr(xc.ErrBroadcastRejected, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
