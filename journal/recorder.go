package journal

import (
	"context"
	"sync"
	"time"

	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/confirm"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

// Recorder follows one tracked submission and keeps its operation current.
// Write failures are logged, never returned.
type Recorder struct {
	confirm.NopObserver

	ctx     context.Context
	journal Journal
	logger  *zap.Logger

	mu sync.Mutex
	op *Operation
}

var _ confirm.Observer = &Recorder{}

func NewRecorder(ctx context.Context, journal Journal, op *Operation, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.L()
	}
	return &Recorder{ctx: ctx, journal: journal, op: op, logger: logger}
}

func (r *Recorder) OnDispatched(handle *xc.SubmissionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op.Status = StatusDispatched
	r.op.TxHash = handle.Hash
	r.op.Attempts = handle.Attempt
	r.save()
}

func (r *Recorder) OnStatus(handle *xc.SubmissionHandle, update *xclient.StatusUpdate) {
	if update.Status != xc.TxStatusInBlock {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op.Status = StatusInBlock
	r.save()
}

// Update mutates the operation and writes it.
func (r *Recorder) Update(fn func(op *Operation)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.op)
	r.save()
}

// Finish records the terminal result.
func (r *Recorder) Finish(outcome *xc.SubmissionOutcome, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op.Apply(outcome, err)
	r.save()
}

func (r *Recorder) Operation() *Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.op)
}

func (r *Recorder) save() {
	if r.journal == nil {
		return
	}
	r.op.UpdatedAt = time.Now().UTC()
	if err := r.journal.Save(r.ctx, r.op); err != nil {
		r.logger.Warn("journal write failed",
			zap.String("operation", r.op.ID),
			zap.String("status", string(r.op.Status)),
			zap.Error(err),
		)
	}
}
