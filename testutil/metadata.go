package testutil

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

const (
	BalancesPalletIndex    = 10
	PolkadotXcmPalletIndex = 31
	TransferAssetsIndex    = 11

	InsufficientBalanceIndex = 2
	FilteredIndex            = 5
)

func variants(vs ...types.Si1Variant) *types.Si1Type {
	return &types.Si1Type{
		Def: types.Si1TypeDef{
			IsVariant: true,
			Variant:   types.Si1TypeDefVariant{Variants: vs},
		},
	}
}

// NewMetadata returns V14 metadata describing just enough of a parachain
// runtime to build transfer_assets and resolve a few pallet errors.
func NewMetadata() *types.Metadata {
	xcmCalls := variants(
		types.Si1Variant{Name: "send", Index: 0},
		types.Si1Variant{Name: "transfer_assets", Index: TransferAssetsIndex},
	)
	xcmErrors := variants(
		types.Si1Variant{Name: "Unreachable", Index: 0, Docs: []types.Text{
			"The desired destination was unreachable, generally because there is a no way of routing",
			"to it.",
		}},
		types.Si1Variant{Name: "Filtered", Index: FilteredIndex, Docs: []types.Text{
			"The message execution fails the filter.",
		}},
	)
	balancesErrors := variants(
		types.Si1Variant{Name: "InsufficientBalance", Index: InsufficientBalanceIndex, Docs: []types.Text{
			"Balance too low to send value.",
		}},
	)

	return &types.Metadata{
		MagicNumber: 0x6174656d,
		Version:     14,
		AsMetadataV14: types.MetadataV14{
			Pallets: []types.PalletMetadataV14{
				{
					Name:      "Balances",
					HasErrors: true,
					Errors:    types.ErrorMetadataV14{Type: types.NewSi1LookupTypeIDFromUInt(2)},
					Index:     BalancesPalletIndex,
				},
				{
					Name:      "PolkadotXcm",
					HasCalls:  true,
					Calls:     types.FunctionMetadataV14{Type: types.NewSi1LookupTypeIDFromUInt(0)},
					HasErrors: true,
					Errors:    types.ErrorMetadataV14{Type: types.NewSi1LookupTypeIDFromUInt(1)},
					Index:     PolkadotXcmPalletIndex,
				},
			},
			EfficientLookup: map[int64]*types.Si1Type{
				0: xcmCalls,
				1: xcmErrors,
				2: balancesErrors,
			},
		},
	}
}
