package builder_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/openweb3-io/xcbridge/address"
	"github.com/openweb3-io/xcbridge/blockchain/evm/abi/xtokens"
	"github.com/openweb3-io/xcbridge/blockchain/evm/builder"
	"github.com/openweb3-io/xcbridge/blockchain/evm/tx"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

const alice = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

var (
	xcUnit = &xc.Asset{Symbol: "xcUNIT", Contract: "0xFfFFfFff1FcaCBd218EDc0EbA20Fc2308C778080", Decimals: 12}
	dev    = &xc.Asset{Symbol: "DEV", Native: true, Decimals: 18}
)

func newRequest(t *testing.T, fee *xc.AssetAmount) (*xc.BridgeRequest, *xc.RoutingLocation) {
	req := &xc.BridgeRequest{
		TransferAsset:        xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(1_000_000)),
		FeeAsset:             fee,
		DestinationAddress:   alice,
		DestinationRoutingID: 1000,
	}
	loc, err := address.NewCodec().ToRoutingLocation(alice, xc.BlockchainSubstrate, 1000)
	require.NoError(t, err)
	return req, loc
}

func quote(tip xc.BigInt) *xc.FeeQuote {
	return &xc.FeeQuote{
		Chain:        xc.BlockchainEVM,
		Units:        150_000,
		PricePerUnit: builder.GweiToWei(20),
		PriorityFee:  tip,
	}
}

func TestBridgeTransferSetsMaxTipCap(t *testing.T) {
	b, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287})
	req, loc := newRequest(t, nil)

	trans, err := b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(builder.DefaultMaxTipCapGwei-1)))
	require.NoError(t, err)
	require.EqualValues(t, builder.GweiToWei(builder.DefaultMaxTipCapGwei-1).Uint64(), trans.(*tx.Tx).EthTx.GasTipCap().Uint64())

	trans, err = b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(builder.DefaultMaxTipCapGwei+1)))
	require.NoError(t, err)
	require.EqualValues(t, builder.GweiToWei(builder.DefaultMaxTipCapGwei).Uint64(), trans.(*tx.Tx).EthTx.GasTipCap().Uint64())

	// increase the max
	b, _ = builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287, ChainMaxTipGwei: 100})
	trans, _ = b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(builder.DefaultMaxTipCapGwei+1)))
	require.EqualValues(t, builder.GweiToWei(builder.DefaultMaxTipCapGwei+1).Uint64(), trans.(*tx.Tx).EthTx.GasTipCap().Uint64())

	// 100 is used instead of 1000, and the fee cap follows the tip
	trans, _ = b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(1000)))
	require.EqualValues(t, builder.GweiToWei(100).Uint64(), trans.(*tx.Tx).EthTx.GasTipCap().Uint64())
	require.EqualValues(t, builder.GweiToWei(100).Uint64(), trans.(*tx.Tx).EthTx.GasFeeCap().Uint64())
}

func TestBridgeTransferTargetsPrecompile(t *testing.T) {
	b, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287})
	req, loc := newRequest(t, nil)

	trans, err := b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(1)))
	require.NoError(t, err)
	ethTx := trans.(*tx.Tx).EthTx
	require.Equal(t, common.HexToAddress(xtokens.PrecompileAddress), *ethTx.To())
	require.EqualValues(t, 150_000, ethTx.Gas())
	require.EqualValues(t, 0, ethTx.Nonce())
	require.EqualValues(t, 1287, ethTx.ChainId().Int64())
	require.EqualValues(t, 0, ethTx.Value().Int64())

	custom, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287, XTokensContract: "0x0000000000000000000000000000000000000815"})
	trans, err = custom.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(1)))
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x0000000000000000000000000000000000000815"), *trans.(*tx.Tx).EthTx.To())
}

func TestBridgePayloadPutsFeeAssetFirst(t *testing.T) {
	b, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287, XcmWeight: 4_000_000_000})
	fee := xc.NewAssetAmount(dev, xc.NewBigIntFromUint64(5))
	req, loc := newRequest(t, &fee)

	payload, err := b.BuildBridgePayload(req, loc)
	require.NoError(t, err)

	method := xtokens.XTokens.Methods["transferMultiCurrencies"]
	args, err := method.Inputs.Unpack(payload[4:])
	require.NoError(t, err)

	currencies := *abi.ConvertType(args[0], new([]xtokens.Currency)).(*[]xtokens.Currency)
	require.Len(t, currencies, 2)
	require.Equal(t, common.HexToAddress(builder.NativeErc20Address), currencies[0].CurrencyAddress)
	require.EqualValues(t, 5, currencies[0].Amount.Int64())
	require.Equal(t, common.HexToAddress(xcUnit.Contract), currencies[1].CurrencyAddress)
	require.EqualValues(t, 1_000_000, currencies[1].Amount.Int64())
	require.EqualValues(t, 0, args[1])
	require.EqualValues(t, 4_000_000_000, args[3])
}

func TestBridgePayloadMergesSameFeeAsset(t *testing.T) {
	b, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287})
	fee := xc.NewAssetAmount(xcUnit, xc.NewBigIntFromUint64(5))
	req, loc := newRequest(t, &fee)

	payload, err := b.BuildBridgePayload(req, loc)
	require.NoError(t, err)

	args, err := xtokens.XTokens.Methods["transferMultiCurrencies"].Inputs.Unpack(payload[4:])
	require.NoError(t, err)
	currencies := *abi.ConvertType(args[0], new([]xtokens.Currency)).(*[]xtokens.Currency)
	require.Len(t, currencies, 1)
	require.Equal(t, common.HexToAddress(xcUnit.Contract), currencies[0].CurrencyAddress)
	require.EqualValues(t, 1_000_005, currencies[0].Amount.Int64())
	require.EqualValues(t, 1_000_000, req.TransferAsset.Amount.Uint64())
}

func TestBridgeTransferErrors(t *testing.T) {
	b, _ := builder.NewTxBuilder(&xc.ChainConfig{ChainID: 1287})
	req, loc := newRequest(t, nil)

	_, err := b.NewBridgeTransfer(req, nil, quote(builder.GweiToWei(1)))
	require.True(t, xc.IsCode(err, xc.CodeInvalidDestination))

	_, err = b.NewBridgeTransfer(req, loc, nil)
	require.ErrorContains(t, err, "fee quote required")

	noChainID, _ := builder.NewTxBuilder(&xc.ChainConfig{})
	_, err = noChainID.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(1)))
	require.ErrorContains(t, err, "chain id not resolved")

	req.TransferAsset.Asset = &xc.Asset{Symbol: "BAD", AssetID: 7}
	_, err = b.NewBridgeTransfer(req, loc, quote(builder.GweiToWei(1)))
	require.True(t, xc.IsCode(err, xc.CodeInvalidAmount))
}
