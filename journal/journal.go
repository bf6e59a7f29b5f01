// Package journal keeps a record of bridge operations for later lookup.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusValidating = Status("validating")
	StatusDispatched = Status("dispatched")
	StatusInBlock    = Status("in_block")
	StatusFinalized  = Status("finalized")
	StatusFailed     = Status("failed")
)

var Statuses = []Status{StatusValidating, StatusDispatched, StatusInBlock, StatusFinalized, StatusFailed}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if status == s {
			return true
		}
	}
	return false
}

var ErrNotFound = errors.New("operation not found")

// Operation is one bridge run.
type Operation struct {
	ID          string       `json:"id"`
	Direction   xc.Direction `json:"direction"`
	SourceChain string       `json:"sourceChain"`
	TargetChain string       `json:"targetChain"`
	Asset       string       `json:"asset"`
	Amount      string       `json:"amount"`
	Sender      string       `json:"sender,omitempty"`
	Destination string       `json:"destination"`
	Status      Status       `json:"status"`
	TxHash      xc.TxHash    `json:"txHash,omitempty"`
	Attempts    int          `json:"attempts"`
	Message     string       `json:"message,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewOperation starts a record in the validating state.
func NewOperation(dir xc.Direction, source, target string, req *xc.BridgeRequest) *Operation {
	now := time.Now().UTC()
	op := &Operation{
		ID:          uuid.New().String(),
		Direction:   dir,
		SourceChain: source,
		TargetChain: target,
		Amount:      req.TransferAsset.Amount.String(),
		Destination: req.DestinationAddress,
		Status:      StatusValidating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.TransferAsset.Asset != nil {
		op.Asset = req.TransferAsset.Asset.Symbol
	}
	return op
}

// Journal stores operations. Save inserts or replaces by ID.
type Journal interface {
	Save(ctx context.Context, op *Operation) error
	Get(ctx context.Context, id string) (*Operation, error)
	// ListByStatus returns operations oldest first.
	ListByStatus(ctx context.Context, status Status) ([]*Operation, error)
	Close() error
}

// Apply moves op to the state a tracked outcome implies.
func (op *Operation) Apply(outcome *xc.SubmissionOutcome, err error) {
	op.UpdatedAt = time.Now().UTC()
	if outcome != nil {
		op.TxHash = outcome.TxHash
		op.Attempts = outcome.Attempts
	}
	switch {
	case err != nil:
		op.Status = StatusFailed
		op.Message = err.Error()
	case outcome == nil:
		op.Status = StatusFailed
	case outcome.Status == xc.TxStatusFinalized && outcome.Failure == nil:
		op.Status = StatusFinalized
	case outcome.Status == xc.TxStatusInBlock && outcome.Failure == nil:
		op.Status = StatusInBlock
	default:
		op.Status = StatusFailed
		if outcome.Failure != nil {
			op.Message = outcome.Failure.String()
		} else {
			op.Message = string(outcome.Status) + ": " + outcome.Reason
		}
	}
}

func clone(op *Operation) *Operation {
	copied := *op
	return &copied
}
