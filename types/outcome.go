package types

import (
	"fmt"
	"strings"
)

// DecodedFailure is an on-chain failure resolved against chain metadata.
type DecodedFailure struct {
	Module string `json:"module"`
	Method string `json:"method"`
	Docs   string `json:"docs,omitempty"`
}

func (f DecodedFailure) String() string {
	s := fmt.Sprintf("%s.%s", f.Module, f.Method)
	if f.Docs != "" {
		s += ": " + f.Docs
	}
	return s
}

// Inclusion is what a chain reports about the block a transaction landed in.
type Inclusion struct {
	BlockHash   string          `json:"blockHash"`
	BlockNumber uint64          `json:"blockNumber"`
	Events      []string        `json:"events,omitempty"`
	Failure     *DecodedFailure `json:"failure,omitempty"`
}

// SubmissionOutcome is the terminal result of one bridge request. It is
// never mutated once produced.
type SubmissionOutcome struct {
	Status      TxStatus        `json:"status"`
	TxHash      TxHash          `json:"txHash"`
	Chain       Blockchain      `json:"chain"`
	BlockHash   string          `json:"blockHash,omitempty"`
	BlockNumber uint64          `json:"blockNumber,omitempty"`
	Events      []string        `json:"events,omitempty"`
	Failure     *DecodedFailure `json:"failure,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Attempts    int             `json:"attempts"`
}

// IsCompleted reports whether the transfer was accepted by the chain.
func (o *SubmissionOutcome) IsCompleted() bool {
	if o == nil || o.Failure != nil {
		return false
	}
	return o.Status == TxStatusFinalized || o.Status == TxStatusInBlock
}

// Err converts a non-success outcome into the matching *Error.
func (o *SubmissionOutcome) Err() error {
	if o.IsCompleted() {
		return nil
	}
	switch o.Status {
	case TxStatusFailedOnChain:
		failure := DecodedFailure{Module: "unknown", Method: "Unknown"}
		if o.Failure != nil {
			failure = *o.Failure
		}
		err := WrapErr(ErrFailedOnChain, fmt.Errorf("%s", failure))
		err.Details["module"] = failure.Module
		err.Details["method"] = failure.Method
		return err
	case TxStatusTimedOut:
		return Errorf(ErrTimedOut, "%s", o.Reason)
	case TxStatusRejected:
		return Errorf(ErrBroadcastRejected, "%s", o.Reason)
	default:
		return Errorf(ErrInvalidated, "%s", strings.TrimSpace(o.Reason))
	}
}
