// Package bridge moves assets between the two endpoints of a session. Each
// flow validates, estimates, builds, dispatches and confirms in that order
// and returns one terminal result.
package bridge

import (
	"context"

	"github.com/openweb3-io/xcbridge/address"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/confirm"
	"github.com/openweb3-io/xcbridge/journal"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

type Orchestrator struct {
	source  xclient.Chain
	target  xclient.Chain
	tracker *confirm.Tracker
	codec   *address.Codec
	journal journal.Journal
	logger  *zap.Logger
}

type Option func(*Orchestrator)

func WithTracker(tracker *confirm.Tracker) Option {
	return func(o *Orchestrator) { o.tracker = tracker }
}

// WithCodec replaces the per-destination codec derived from chain config.
func WithCodec(codec *address.Codec) Option {
	return func(o *Orchestrator) { o.codec = codec }
}

func WithJournal(j journal.Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator does not take ownership of the endpoints; closing them is
// up to whoever opened them.
func NewOrchestrator(source, target xclient.Chain, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source: source,
		target: target,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracker == nil {
		o.tracker = confirm.NewTracker(confirm.DefaultRetryPolicy(), confirm.WithLogger(o.logger))
	}
	return o
}

func (o *Orchestrator) BridgeSourceToTarget(ctx context.Context, req *xc.BridgeRequest) (*xc.SubmissionOutcome, error) {
	return o.Bridge(ctx, xc.SourceToTarget, req)
}

func (o *Orchestrator) BridgeTargetToSource(ctx context.Context, req *xc.BridgeRequest) (*xc.SubmissionOutcome, error) {
	return o.Bridge(ctx, xc.TargetToSource, req)
}

// Endpoints returns the originating and receiving chain for dir.
func (o *Orchestrator) Endpoints(dir xc.Direction) (from xclient.Chain, to xclient.Chain) {
	if dir == xc.TargetToSource {
		return o.target, o.source
	}
	return o.source, o.target
}

// Bridge runs one request to a terminal result. Chain terminal states are
// returned as an outcome; everything that stops the flow earlier is an
// *xc.Error.
func (o *Orchestrator) Bridge(ctx context.Context, dir xc.Direction, req *xc.BridgeRequest) (*xc.SubmissionOutcome, error) {
	if req == nil {
		return nil, xc.Errorf(xc.ErrInvalidAmount, "request not set")
	}
	from, to := o.Endpoints(dir)
	logger := o.logger.With(
		zap.String("direction", string(dir)),
		zap.String("from", from.Config().Name),
		zap.String("to", to.Config().Name),
	)

	recorder := journal.NewRecorder(ctx, o.journal, journal.NewOperation(dir, from.Config().Name, to.Config().Name, req), logger)

	plan, err := o.Preflight(ctx, dir, req)
	if err != nil {
		logger.Info("pre-flight rejected request", zap.Error(err))
		recorder.Finish(nil, err)
		return nil, err
	}
	recorder.Update(func(op *journal.Operation) { op.Sender = string(plan.Signer) })

	quote, err := o.estimate(ctx, plan, req)
	if err != nil {
		recorder.Finish(nil, err)
		return nil, err
	}
	logger.Debug("fee quote",
		zap.Uint64("units", quote.Units),
		zap.String("total", quote.Total.String()),
	)

	unsigned, err := from.BuildBridgeTransfer(ctx, req, plan.Location, quote)
	if err != nil {
		err = asBridgeErr(xc.ErrBroadcastRejected, err)
		recorder.Finish(nil, err)
		return nil, err
	}

	outcome, err := o.tracker.With(recorder).Run(ctx, from, unsigned, req.WaitForFinalization)
	recorder.Finish(outcome, err)
	if err != nil {
		logger.Warn("bridge failed", zap.Error(err))
		return nil, err
	}
	logger.Info("bridge finished",
		zap.String("status", string(outcome.Status)),
		zap.String("tx_hash", string(outcome.TxHash)),
		zap.Int("attempts", outcome.Attempts),
	)
	return outcome, nil
}

// Estimate runs the pre-flight checks and returns the fee quote without
// dispatching anything.
func (o *Orchestrator) Estimate(ctx context.Context, dir xc.Direction, req *xc.BridgeRequest) (*xc.FeeQuote, error) {
	plan, err := o.Preflight(ctx, dir, req)
	if err != nil {
		return nil, err
	}
	return o.estimate(ctx, plan, req)
}

func (o *Orchestrator) estimate(ctx context.Context, plan *Plan, req *xc.BridgeRequest) (*xc.FeeQuote, error) {
	quote, err := plan.From.EstimateFee(ctx, req, plan.Location)
	if err != nil {
		return nil, asBridgeErr(xc.ErrFeeEstimationFailed, err)
	}
	if err := checkGas(ctx, plan, req, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// asBridgeErr keeps classified errors and files anything else under tmpl.
func asBridgeErr(tmpl *xc.Error, err error) error {
	if xc.CodeOf(err) != "" {
		return err
	}
	return xc.WrapErr(tmpl, err)
}
