package builder

import (
	"github.com/openweb3-io/xcbridge/builder/validation"
	xc "github.com/openweb3-io/xcbridge/types"
)

// NewBridgeRequest assembles a request. Finalization is awaited unless an
// option says otherwise.
func NewBridgeRequest(transfer xc.AssetAmount, destination string, routingID uint32, options ...BuilderOption) (*xc.BridgeRequest, error) {
	opts := builderOptions{}
	for _, opt := range options {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}

	if transfer.Asset == nil {
		return nil, xc.Errorf(xc.ErrInvalidAmount, "transfer asset not set")
	}
	if err := validation.CheckAmount(transfer.Amount); err != nil {
		return nil, err
	}

	req := &xc.BridgeRequest{
		TransferAsset:        transfer,
		DestinationAddress:   destination,
		DestinationRoutingID: routingID,
		WaitForFinalization:  true,
	}
	if fee, ok := opts.GetFeeAsset(); ok {
		if err := validation.CheckAmount(fee.Amount); err != nil {
			return nil, err
		}
		req.FeeAsset = &fee
	}
	if source, ok := opts.GetSourceChain(); ok {
		req.SourceChain = source
	}
	if target, ok := opts.GetTargetChain(); ok {
		req.TargetChain = target
	}
	if wait, ok := opts.GetWaitForFinalization(); ok {
		req.WaitForFinalization = wait
	}
	return req, nil
}
