package bridge

import (
	"context"
	"strings"

	"github.com/openweb3-io/xcbridge/address"
	"github.com/openweb3-io/xcbridge/builder/validation"
	xclient "github.com/openweb3-io/xcbridge/client"
	xc "github.com/openweb3-io/xcbridge/types"
)

// Plan is what pre-flight resolved for one request.
type Plan struct {
	From     xclient.Chain
	To       xclient.Chain
	Signer   xc.Address
	Location *xc.RoutingLocation
}

// Preflight checks a request against both chains without submitting
// anything. Checks run in order and stop at the first failure:
// destination format, destination existential balance, transfer balance,
// fee balance.
func (o *Orchestrator) Preflight(ctx context.Context, dir xc.Direction, req *xc.BridgeRequest) (*Plan, error) {
	from, to := o.Endpoints(dir)
	if req == nil || req.TransferAsset.Asset == nil {
		return nil, xc.Errorf(xc.ErrInvalidAmount, "transfer asset not set")
	}
	if err := validation.CheckAmount(req.TransferAsset.Amount); err != nil {
		return nil, err
	}
	if req.FeeAsset != nil {
		if req.FeeAsset.Asset == nil {
			return nil, xc.Errorf(xc.ErrInvalidAmount, "fee asset not set")
		}
		if err := validation.CheckAmount(req.FeeAsset.Amount); err != nil {
			return nil, err
		}
	}

	toCfg := to.Config()
	routingID := req.DestinationRoutingID
	if routingID == 0 {
		routingID = toCfg.RoutingID
	}
	loc, err := o.codecFor(toCfg).ToRoutingLocation(req.DestinationAddress, toCfg.Blockchain, routingID)
	if err != nil {
		return nil, asBridgeErr(xc.ErrInvalidDestination, err)
	}

	if toCfg.ExistentialDeposit > 0 {
		balance, err := to.FetchNativeBalance(ctx, xc.Address(req.DestinationAddress))
		if err != nil {
			return nil, asBridgeErr(xc.ErrOracleUnavailable, err)
		}
		threshold := xc.NewBigIntFromUint64(toCfg.ExistentialDeposit)
		if balance.Cmp(&threshold) < 0 {
			return nil, xc.Errorf(xc.ErrDestinationBelowExistentialThreshold,
				"destination holds %s, needs %s", balance.String(), threshold.String()).
				WithDetail("chain", toCfg.Name).
				WithDetail("required", threshold.String()).
				WithDetail("available", balance.String())
		}
	}

	signer, err := from.SignerAddress(ctx)
	if err != nil {
		return nil, asBridgeErr(xc.ErrSignerUnavailable, err)
	}

	transfer := req.TransferAsset
	available, err := fetchBalance(ctx, from, signer, transfer.Asset)
	if err != nil {
		return nil, err
	}
	if available.Cmp(&transfer.Amount) < 0 {
		return nil, xc.Errorf(xc.ErrInsufficientTransferBalance,
			"%s balance %s below %s", transfer.Asset.Symbol, available.String(), transfer.Amount.String()).
			WithDetail("asset", transfer.Asset.Symbol).
			WithDetail("required", transfer.Amount.String()).
			WithDetail("available", available.String())
	}

	if fee := req.FeeAsset; fee != nil {
		required := fee.Amount
		feeAvailable := available
		if sameAsset(fee.Asset, transfer.Asset) {
			required = fee.Amount.Add(&transfer.Amount)
		} else {
			feeAvailable, err = fetchBalance(ctx, from, signer, fee.Asset)
			if err != nil {
				return nil, err
			}
		}
		if feeAvailable.Cmp(&required) < 0 {
			return nil, xc.Errorf(xc.ErrInsufficientFeeBalance,
				"%s balance %s below %s", fee.Asset.Symbol, feeAvailable.String(), required.String()).
				WithDetail("asset", fee.Asset.Symbol).
				WithDetail("required", required.String()).
				WithDetail("available", feeAvailable.String())
		}
	}

	return &Plan{From: from, To: to, Signer: signer, Location: loc}, nil
}

func (o *Orchestrator) codecFor(cfg *xc.ChainConfig) *address.Codec {
	if o.codec != nil {
		return o.codec
	}
	return address.NewCodec(address.WithSS58Prefix(cfg.SS58Prefix))
}

// checkGas makes sure the signer can pay the quoted network fee on top of
// any native currency the transfer itself moves.
func checkGas(ctx context.Context, plan *Plan, req *xc.BridgeRequest, quote *xc.FeeQuote) error {
	native, err := plan.From.FetchNativeBalance(ctx, plan.Signer)
	if err != nil {
		return asBridgeErr(xc.ErrOracleUnavailable, err)
	}
	required := quote.Total
	if req.TransferAsset.Asset.Native {
		required = required.Add(&req.TransferAsset.Amount)
	}
	if fee := req.FeeAsset; fee != nil && fee.Asset.Native && !sameAsset(fee.Asset, req.TransferAsset.Asset) {
		required = required.Add(&fee.Amount)
	}
	if native.Cmp(&required) < 0 {
		symbol := plan.From.Config().NativeSymbol
		return xc.Errorf(xc.ErrInsufficientFeeBalance,
			"%s balance %s below network fee %s", symbol, native.String(), required.String()).
			WithDetail("asset", symbol).
			WithDetail("required", required.String()).
			WithDetail("available", native.String())
	}
	return nil
}

func fetchBalance(ctx context.Context, chain xclient.BalanceOracle, addr xc.Address, asset *xc.Asset) (xc.BigInt, error) {
	var (
		balance xc.BigInt
		err     error
	)
	if asset.Native {
		balance, err = chain.FetchNativeBalance(ctx, addr)
	} else {
		balance, err = chain.FetchAssetBalance(ctx, addr, asset)
	}
	if err != nil {
		return xc.BigInt{}, asBridgeErr(xc.ErrOracleUnavailable, err)
	}
	return balance, nil
}

func sameAsset(a, b *xc.Asset) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Symbol, b.Symbol) &&
		a.AssetID == b.AssetID &&
		strings.EqualFold(a.Contract, b.Contract) &&
		a.Native == b.Native
}
