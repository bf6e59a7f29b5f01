package builder

import (
	"sort"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/tx"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/xcm"
	xcbuilder "github.com/openweb3-io/xcbridge/builder"
	xc "github.com/openweb3-io/xcbridge/types"
)

const (
	// TransferAssetsCall moves reserve or teleport assets to another chain.
	TransferAssetsCall = "PolkadotXcm.transfer_assets"
	// DefaultPalletInstance is the index of the Assets pallet on the
	// reference parachain.
	DefaultPalletInstance uint8 = 50
)

// TxBuilder for Substrate. Calls are resolved against runtime metadata.
type TxBuilder struct {
	Chain    *xc.ChainConfig
	Metadata *types.Metadata
}

var _ xcbuilder.TxBuilder = &TxBuilder{}

func NewTxBuilder(chain *xc.ChainConfig, meta *types.Metadata) (TxBuilder, error) {
	if meta == nil {
		return TxBuilder{}, xc.Errorf(xc.ErrInvalidConfig, "runtime metadata required for %s", chain.Name)
	}
	return TxBuilder{Chain: chain, Metadata: meta}, nil
}

func (txBuilder TxBuilder) palletInstance() uint8 {
	if txBuilder.Chain.PalletInstance != 0 {
		return txBuilder.Chain.PalletInstance
	}
	return DefaultPalletInstance
}

// NewBridgeTransfer creates an unsigned transfer_assets extrinsic.
func (txBuilder TxBuilder) NewBridgeTransfer(req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	call, err := txBuilder.BuildBridgeCall(req, loc)
	if err != nil {
		return nil, err
	}
	return tx.NewTx(call), nil
}

// BuildBridgeCall assembles transfer_assets(dest, beneficiary, assets, fee_asset_item, Unlimited).
func (txBuilder TxBuilder) BuildBridgeCall(req *xc.BridgeRequest, loc *xc.RoutingLocation) (types.Call, error) {
	if loc == nil {
		return types.Call{}, xc.Errorf(xc.ErrInvalidDestination, "routing location not set")
	}
	dest := xcm.SiblingDestination(loc.RoutingID)
	beneficiary, err := xcm.Beneficiary(loc.AccountKey)
	if err != nil {
		return types.Call{}, xc.WrapErr(xc.ErrInvalidDestination, err)
	}
	assets, feeItem, err := txBuilder.BuildAssets(req)
	if err != nil {
		return types.Call{}, err
	}

	call, err := types.NewCall(txBuilder.Metadata, TransferAssetsCall,
		dest,
		beneficiary,
		assets,
		types.NewU32(feeItem),
		xcm.Unlimited,
	)
	if err != nil {
		return types.Call{}, xc.WrapErr(xc.ErrInvalidConfig, err)
	}
	return call, nil
}

// BuildAssets lists the transferred assets in the ascending order the
// runtime requires and returns the position of the fee asset.
func (txBuilder TxBuilder) BuildAssets(req *xc.BridgeRequest) (xcm.VersionedAssets, uint32, error) {
	transfer := req.TransferAsset
	if transfer.Asset == nil || transfer.Asset.Native {
		return xcm.VersionedAssets{}, 0, xc.Errorf(xc.ErrInvalidAmount, "transfer asset must be a pallet asset")
	}
	if req.FeeAsset == nil || req.FeeAsset.Asset == nil {
		asset := xcm.LocalAsset(txBuilder.palletInstance(), transfer.Asset.AssetID, transfer.Amount.Int())
		return xcm.VersionedAssets{V4: []xcm.Asset{asset}}, 0, nil
	}
	if req.FeeAsset.Asset.AssetID == transfer.Asset.AssetID {
		// one entry carries both the transfer and the fee
		total := transfer.Amount.Add(&req.FeeAsset.Amount)
		asset := xcm.LocalAsset(txBuilder.palletInstance(), transfer.Asset.AssetID, total.Int())
		return xcm.VersionedAssets{V4: []xcm.Asset{asset}}, 0, nil
	}

	fee := *req.FeeAsset
	if fee.Asset.Native {
		return xcm.VersionedAssets{}, 0, xc.Errorf(xc.ErrInvalidAmount, "fee asset must be a pallet asset")
	}
	amounts := []xc.AssetAmount{fee, transfer}
	sort.SliceStable(amounts, func(i, j int) bool {
		return amounts[i].Asset.AssetID < amounts[j].Asset.AssetID
	})

	var feeItem uint32
	assets := make([]xcm.Asset, 0, len(amounts))
	for i, amount := range amounts {
		if amount.Asset.AssetID == fee.Asset.AssetID {
			feeItem = uint32(i)
		}
		assets = append(assets, xcm.LocalAsset(txBuilder.palletInstance(), amount.Asset.AssetID, amount.Amount.Int()))
	}
	return xcm.VersionedAssets{V4: assets}, feeItem, nil
}
