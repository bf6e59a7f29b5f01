package confirm

import (
	xc "github.com/openweb3-io/xcbridge/types"
)

var transitions = map[xc.TxStatus][]xc.TxStatus{
	xc.TxStatusSubmitted: {
		xc.TxStatusSubmitted,
		xc.TxStatusInBlock,
		xc.TxStatusFinalized,
		xc.TxStatusRejected,
		xc.TxStatusTimedOut,
		xc.TxStatusInvalidated,
	},
	xc.TxStatusInBlock: {
		// retracted blocks put the transaction back in the pool
		xc.TxStatusSubmitted,
		xc.TxStatusInBlock,
		xc.TxStatusFinalized,
		xc.TxStatusFailedOnChain,
		xc.TxStatusTimedOut,
		xc.TxStatusInvalidated,
	},
}

// CanTransition reports whether a submission in state from may move to to.
// Terminal states have no exits.
func CanTransition(from, to xc.TxStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
