package builder_test

import (
	"testing"

	"github.com/openweb3-io/xcbridge/builder"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

var xcUnit = &xc.Asset{Symbol: "xcUNIT", Contract: "0xFfFFfFff1FcaCBd218EDc0EbA20Fc2308C778080", Decimals: 12}

func TestNewBridgeRequestDefaults(t *testing.T) {
	req, err := builder.NewBridgeRequest(xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(10)), "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", 1000)
	require.NoError(t, err)
	require.True(t, req.WaitForFinalization)
	require.Nil(t, req.FeeAsset)
	require.EqualValues(t, 1000, req.DestinationRoutingID)
	require.Equal(t, "10", req.TransferAsset.Amount.String())
}

func TestNewBridgeRequestOptions(t *testing.T) {
	fee := xc.NewAssetAmount(&xc.Asset{Symbol: "DEV", Native: true, Decimals: 18}, xc.NewBigIntFromUint64(5))
	req, err := builder.NewBridgeRequest(
		xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(10)),
		"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
		1000,
		builder.WithFeeAsset(fee),
		builder.WithChains("moonbase", "parachain"),
		builder.WithInBlockConfirmation(),
	)
	require.NoError(t, err)
	require.False(t, req.WaitForFinalization)
	require.Equal(t, "5", req.FeeAsset.Amount.String())
	require.Equal(t, "moonbase", req.SourceChain)
	require.Equal(t, "parachain", req.TargetChain)
}

func TestNewBridgeRequestRejectsBadAmounts(t *testing.T) {
	_, err := builder.NewBridgeRequest(xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(0)), "x", 1)
	require.True(t, xc.IsCode(err, xc.CodeInvalidAmount))

	_, err = builder.NewBridgeRequest(xc.AssetAmount{Amount: xc.NewBigIntFromUint64(1)}, "x", 1)
	require.True(t, xc.IsCode(err, xc.CodeInvalidAmount))

	_, err = builder.NewBridgeRequest(
		xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(1)), "x", 1,
		builder.WithFeeAsset(xc.AssetAmount{Amount: xc.NewBigIntFromUint64(1)}),
	)
	require.True(t, xc.IsCode(err, xc.CodeInvalidAmount))
}
