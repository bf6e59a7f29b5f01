package builder

import (
	xc "github.com/openweb3-io/xcbridge/types"
)

// TxBuilder constructs the chain-native bridge call. Construction is
// deterministic: the same request, location and quote give the same call.
type TxBuilder interface {
	NewBridgeTransfer(req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error)
}
