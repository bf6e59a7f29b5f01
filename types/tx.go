package types

import (
	"strings"
	"time"
)

// Address is a chain-native account encoding.
type Address string

type TxHash string

func (h TxHash) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(h), prefix)
}

type TxSignature []byte

type TxDataToSign []byte

// NewTxSignatures creates a new array of TxSignature, useful to cast [][]byte into []TxSignature
func NewTxSignatures(data [][]byte) []TxSignature {
	ret := make([]TxSignature, len(data))
	for i, sig := range data {
		ret[i] = TxSignature(sig)
	}
	return ret
}

// Tx is an unsigned or signed chain-native transaction.
type Tx interface {
	Serialize() ([]byte, error)
	Hash() TxHash
	Sighashes() ([]TxDataToSign, error)
	AddSignatures(...TxSignature) error
	GetSignatures() []TxSignature
}

// TxStatus is the position of a submission in its lifecycle.
type TxStatus string

const (
	TxStatusSubmitted     = TxStatus("submitted")
	TxStatusInBlock       = TxStatus("in_block")
	TxStatusFinalized     = TxStatus("finalized")
	TxStatusRejected      = TxStatus("rejected")
	TxStatusFailedOnChain = TxStatus("failed_on_chain")
	TxStatusTimedOut      = TxStatus("timed_out")
	TxStatusInvalidated   = TxStatus("invalidated")
)

func (s TxStatus) IsTerminal() bool {
	switch s {
	case TxStatusFinalized, TxStatusRejected, TxStatusFailedOnChain, TxStatusTimedOut, TxStatusInvalidated:
		return true
	}
	return false
}

// SubmissionHandle references a dispatched but unconfirmed transaction.
type SubmissionHandle struct {
	Chain       Blockchain `json:"chain"`
	Hash        TxHash     `json:"hash"`
	Nonce       uint64     `json:"nonce"`
	Attempt     int        `json:"attempt"`
	SubmittedAt time.Time  `json:"submittedAt"`
}
