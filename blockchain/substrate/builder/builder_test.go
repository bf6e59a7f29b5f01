package builder

import (
	"encoding/hex"
	"strconv"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/openweb3-io/xcbridge/blockchain/substrate/tx"
	"github.com/openweb3-io/xcbridge/testutil"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

var (
	xcUnit = &xc.Asset{Symbol: "UNIT", AssetID: 1337, Decimals: 12}
	xcFee  = &xc.Asset{Symbol: "FEE", AssetID: 5, Decimals: 12}
	xcLate = &xc.Asset{Symbol: "LATE", AssetID: 9999, Decimals: 12}
)

func newBuilder(t *testing.T) TxBuilder {
	b, err := NewTxBuilder(&xc.ChainConfig{Name: "sibling", Blockchain: xc.BlockchainSubstrate}, testutil.NewMetadata())
	require.NoError(t, err)
	return b
}

func evmLocation() *xc.RoutingLocation {
	return &xc.RoutingLocation{
		Chain:      xc.BlockchainEVM,
		Parents:    1,
		RoutingID:  1000,
		Address:    testutil.BaltatharEVM,
		Kind:       xc.AccountKey20,
		AccountKey: testutil.FromHex(testutil.BaltatharEVM),
	}
}

func TestBuildBridgeCall(t *testing.T) {
	b := newBuilder(t)
	req := &xc.BridgeRequest{
		TransferAsset: xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(1_000_000_000_000)),
	}

	call, err := b.BuildBridgeCall(req, evmLocation())
	require.NoError(t, err)
	require.Equal(t, types.CallIndex{SectionIndex: testutil.PolkadotXcmPalletIndex, MethodIndex: testutil.TransferAssetsIndex}, call.CallIndex)

	expected := "04010100a10f" + // dest: parents 1, X1[Parachain(1000)]
		"0400010300" + "3cd0a705a2dc65e5b1e1205896baa2be8a07c6e0" + // beneficiary: AccountKey20
		"0404" + "0002" + "0432" + "05e514" + "00" + "070010a5d4e8" + // assets
		"00000000" + // fee_asset_item
		"00" // Unlimited
	require.Equal(t, expected, hex.EncodeToString(call.Args))
}

func TestNewBridgeTransferIsUnsigned(t *testing.T) {
	b := newBuilder(t)
	req := &xc.BridgeRequest{TransferAsset: xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(10))}

	unsigned, err := b.NewBridgeTransfer(req, evmLocation(), nil)
	require.NoError(t, err)
	extrinsic := unsigned.(*tx.Tx)
	require.False(t, extrinsic.IsSigned())
	require.Equal(t, xc.TxHash(""), extrinsic.Hash())
}

func TestBuildAssetsOrdersFeeAsset(t *testing.T) {
	b := newBuilder(t)

	cases := []struct {
		name     string
		fee      *xc.Asset
		expected []uint64
		amounts  []int64
		feeItem  uint32
	}{
		{"no fee asset", nil, []uint64{1337}, []int64{100}, 0},
		{"same asset", xcUnit, []uint64{1337}, []int64{101}, 0},
		{"lower id", xcFee, []uint64{5, 1337}, []int64{1, 100}, 0},
		{"higher id", xcLate, []uint64{1337, 9999}, []int64{100, 1}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &xc.BridgeRequest{TransferAsset: xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(100))}
			if tc.fee != nil {
				fee := xc.NewAssetAmount(tc.fee, xc.NewBigIntFromUint64(1))
				req.FeeAsset = &fee
			}
			assets, feeItem, err := b.BuildAssets(req)
			require.NoError(t, err)
			require.Equal(t, tc.feeItem, feeItem)
			require.Len(t, assets.V4, len(tc.expected))
			for i, id := range tc.expected {
				index := assets.V4[i].ID.Interior[1]
				require.Equal(t, "GeneralIndex("+strconv.FormatUint(id, 10)+")", index.String())
				require.EqualValues(t, tc.amounts[i], assets.V4[i].Amount.Int64())
			}
		})
	}
}

func TestBuildBridgeCallErrors(t *testing.T) {
	b := newBuilder(t)

	native := &xc.BridgeRequest{TransferAsset: xc.NewAssetAmount(&xc.Asset{Symbol: "UNIT", Native: true}, xc.NewBigIntFromUint64(1))}
	_, err := b.BuildBridgeCall(native, evmLocation())
	require.Equal(t, xc.CodeInvalidAmount, xc.CodeOf(err))

	req := &xc.BridgeRequest{TransferAsset: xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(1))}
	_, err = b.BuildBridgeCall(req, nil)
	require.Equal(t, xc.CodeInvalidDestination, xc.CodeOf(err))

	badKey := evmLocation()
	badKey.AccountKey = []byte{1, 2, 3}
	_, err = b.BuildBridgeCall(req, badKey)
	require.Equal(t, xc.CodeInvalidDestination, xc.CodeOf(err))

	noXcm, err := NewTxBuilder(&xc.ChainConfig{Name: "bare"}, &types.Metadata{Version: 14})
	require.NoError(t, err)
	_, err = noXcm.BuildBridgeCall(req, evmLocation())
	require.Equal(t, xc.CodeInvalidConfig, xc.CodeOf(err))

	_, err = NewTxBuilder(&xc.ChainConfig{Name: "bare"}, nil)
	require.Equal(t, xc.CodeInvalidConfig, xc.CodeOf(err))
}
