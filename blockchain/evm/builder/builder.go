package builder

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/openweb3-io/xcbridge/blockchain/evm/abi/xtokens"
	"github.com/openweb3-io/xcbridge/blockchain/evm/address"
	"github.com/openweb3-io/xcbridge/blockchain/evm/tx"
	xcbuilder "github.com/openweb3-io/xcbridge/builder"
	xc "github.com/openweb3-io/xcbridge/types"
)

var DefaultMaxTipCapGwei uint64 = 5

// NativeErc20Address is the precompile exposing the native currency as an ERC-20.
const NativeErc20Address = "0x0000000000000000000000000000000000000802"

type GethTxBuilder interface {
	BuildTxWithPayload(chain *xc.ChainConfig, to xc.Address, value xc.BigInt, data []byte, quote *xc.FeeQuote) (*tx.Tx, error)
}

// supports evm after london merge
type EvmTxBuilder struct {
}

var _ GethTxBuilder = &EvmTxBuilder{}

// TxBuilder for EVM
type TxBuilder struct {
	Chain         *xc.ChainConfig
	gethTxBuilder GethTxBuilder
}

var _ xcbuilder.TxBuilder = &TxBuilder{}

// NewTxBuilder creates a new EVM TxBuilder
func NewTxBuilder(chain *xc.ChainConfig) (TxBuilder, error) {
	return TxBuilder{
		Chain:         chain,
		gethTxBuilder: &EvmTxBuilder{},
	}, nil
}

func (txBuilder TxBuilder) WithTxBuilder(buider GethTxBuilder) TxBuilder {
	txBuilder.gethTxBuilder = buider
	return txBuilder
}

// XTokensAddress is the configured precompile or the well known default.
func (txBuilder TxBuilder) XTokensAddress() xc.Address {
	if txBuilder.Chain.XTokensContract != "" {
		return xc.Address(txBuilder.Chain.XTokensContract)
	}
	return xtokens.PrecompileAddress
}

// NewBridgeTransfer creates an unsigned transferMultiCurrencies call.
func (txBuilder TxBuilder) NewBridgeTransfer(req *xc.BridgeRequest, loc *xc.RoutingLocation, quote *xc.FeeQuote) (xc.Tx, error) {
	payload, err := txBuilder.BuildBridgePayload(req, loc)
	if err != nil {
		return nil, err
	}
	unsigned, err := txBuilder.gethTxBuilder.BuildTxWithPayload(txBuilder.Chain, txBuilder.XTokensAddress(), xc.NewBigIntFromUint64(0), payload, quote)
	if err != nil {
		return nil, err
	}
	return unsigned, nil
}

// BuildBridgePayload encodes the precompile call. The fee currency, when
// present, comes first and is marked as the fee item.
func (txBuilder TxBuilder) BuildBridgePayload(req *xc.BridgeRequest, loc *xc.RoutingLocation) ([]byte, error) {
	if loc == nil {
		return nil, xc.Errorf(xc.ErrInvalidDestination, "routing location not set")
	}
	destination, err := xtokens.NewMultilocation(loc)
	if err != nil {
		return nil, xc.WrapErr(xc.ErrInvalidDestination, err)
	}

	amounts := []xc.AssetAmount{}
	switch {
	case req.FeeAsset == nil:
		amounts = append(amounts, req.TransferAsset)
	case sameCurrency(req.FeeAsset.Asset, req.TransferAsset.Asset):
		// xTokens rejects a currency listed twice
		merged := req.TransferAsset
		merged.Amount = merged.Amount.Add(&req.FeeAsset.Amount)
		amounts = append(amounts, merged)
	default:
		amounts = append(amounts, *req.FeeAsset, req.TransferAsset)
	}

	currencies := make([]xtokens.Currency, 0, len(amounts))
	for _, amount := range amounts {
		currency, err := currencyOf(amount)
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, currency)
	}

	weight := txBuilder.Chain.XcmWeight
	if weight == 0 {
		weight = xtokens.DefaultWeight
	}
	return xtokens.PackTransferMultiCurrencies(currencies, 0, destination, weight)
}

func sameCurrency(a, b *xc.Asset) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Native || b.Native {
		return a.Native == b.Native
	}
	return strings.EqualFold(a.Contract, b.Contract)
}

func currencyOf(amount xc.AssetAmount) (xtokens.Currency, error) {
	if amount.Asset == nil {
		return xtokens.Currency{}, xc.Errorf(xc.ErrInvalidAmount, "asset not set")
	}
	contract := amount.Asset.Contract
	if contract == "" && amount.Asset.Native {
		contract = NativeErc20Address
	}
	addr, err := address.FromHex(xc.Address(contract))
	if err != nil {
		return xtokens.Currency{}, xc.Errorf(xc.ErrInvalidAmount, "asset %s has no usable contract: %v", amount.Asset.Symbol, err)
	}
	return xtokens.Currency{CurrencyAddress: addr, Amount: amount.Amount.Int()}, nil
}

func (*EvmTxBuilder) BuildTxWithPayload(chain *xc.ChainConfig, to xc.Address, value xc.BigInt, data []byte, quote *xc.FeeQuote) (*tx.Tx, error) {
	address, err := address.FromHex(to)
	if err != nil {
		return nil, err
	}
	if quote == nil || quote.Units == 0 {
		return nil, errors.New("fee quote required")
	}
	if chain.ChainID == 0 {
		return nil, errors.New("chain id not resolved")
	}
	chainId := new(big.Int).SetInt64(chain.ChainID)

	// Protection from setting very high gas tip
	maxTipGwei := chain.ChainMaxTipGwei
	if maxTipGwei == 0 {
		maxTipGwei = DefaultMaxTipCapGwei
	}
	maxTipWei := GweiToWei(maxTipGwei)
	gasTipCap := quote.PriorityFee

	if gasTipCap.Cmp(&maxTipWei) > 0 {
		// limit to max
		gasTipCap = maxTipWei
	}
	gasFeeCap := quote.PricePerUnit
	if gasFeeCap.Cmp(&gasTipCap) < 0 {
		gasFeeCap = gasTipCap
	}

	return &tx.Tx{
		EthTx: types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainId,
			GasTipCap: gasTipCap.Int(),
			GasFeeCap: gasFeeCap.Int(),
			Gas:       quote.Units,
			To:        &address,
			Value:     value.Int(),
			Data:      data,
		}),
		Signer: types.LatestSignerForChainID(chainId),
	}, nil
}

func GweiToWei(gwei uint64) xc.BigInt {
	bigGwei := new(big.Int).SetUint64(gwei)

	ten := big.NewInt(10)
	nine := big.NewInt(9)
	factor := new(big.Int).Exp(ten, nine, nil)

	wei := new(big.Int).Mul(bigGwei, factor)
	return xc.BigInt(*wei)
}
