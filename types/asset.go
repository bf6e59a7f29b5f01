package types

import (
	"fmt"
	"strings"
)

type ChainConfig struct {
	Name       string     `yaml:"name" mapstructure:"name"`
	Blockchain Blockchain `yaml:"blockchain" mapstructure:"blockchain"`
	URL        string     `yaml:"url" mapstructure:"url"`
	// EVM chain id; 0 means ask the node.
	ChainID int64 `yaml:"chain_id,omitempty" mapstructure:"chain_id"`
	// Parachain id other chains use to route messages here.
	RoutingID  uint32 `yaml:"routing_id" mapstructure:"routing_id"`
	SS58Prefix uint16 `yaml:"ss58_prefix,omitempty" mapstructure:"ss58_prefix"`

	NativeSymbol string `yaml:"native_symbol" mapstructure:"native_symbol"`
	Decimals     int32  `yaml:"decimals,omitempty" mapstructure:"decimals"`
	// Minimum native balance an account needs to exist; 0 when not enforced.
	ExistentialDeposit uint64 `yaml:"existential_deposit,omitempty" mapstructure:"existential_deposit"`

	ChainGasMultiplier float64 `yaml:"chain_gas_multiplier,omitempty" mapstructure:"chain_gas_multiplier"`
	ChainMaxTipGwei    uint64  `yaml:"chain_max_tip_gwei,omitempty" mapstructure:"chain_max_tip_gwei"`
	XTokensContract    string  `yaml:"xtokens_contract,omitempty" mapstructure:"xtokens_contract"`
	XcmWeight          uint64  `yaml:"xcm_weight,omitempty" mapstructure:"xcm_weight"`

	PalletInstance uint8  `yaml:"pallet_instance,omitempty" mapstructure:"pallet_instance"`
	AssetIDType    string `yaml:"asset_id_type,omitempty" mapstructure:"asset_id_type"`
	RefWeight      uint64 `yaml:"ref_weight,omitempty" mapstructure:"ref_weight"`
	FeePerWeight   uint64 `yaml:"fee_per_weight,omitempty" mapstructure:"fee_per_weight"`

	// Depth treated as final when the node has no finalized tag.
	ConfirmationsFinal uint64 `yaml:"confirmations_final,omitempty" mapstructure:"confirmations_final"`
	// Milliseconds between receipt polls on chains without subscriptions.
	PollIntervalMs int64 `yaml:"poll_interval_ms,omitempty" mapstructure:"poll_interval_ms"`

	Assets []*Asset `yaml:"assets,omitempty" mapstructure:"assets"`
}

func (c *ChainConfig) String() string {
	return fmt.Sprintf("ChainConfig(name=%s blockchain=%s url=%s routing_id=%d)", c.Name, c.Blockchain, c.URL, c.RoutingID)
}

func (c *ChainConfig) GetDecimals() int32 {
	return c.Decimals
}

// NativeAsset describes the chain's own currency.
func (c *ChainConfig) NativeAsset() *Asset {
	return &Asset{
		Symbol:   c.NativeSymbol,
		Decimals: c.Decimals,
		Native:   true,
	}
}

// FindAsset resolves a symbol against the native currency and the configured assets.
func (c *ChainConfig) FindAsset(symbol string) (*Asset, bool) {
	if symbol == "" || strings.EqualFold(symbol, c.NativeSymbol) {
		return c.NativeAsset(), true
	}
	for _, asset := range c.Assets {
		if strings.EqualFold(asset.Symbol, symbol) {
			return asset, true
		}
	}
	return nil, false
}

// Asset is a symbolic token identifier plus its resolution on one chain.
type Asset struct {
	Symbol string `yaml:"symbol" mapstructure:"symbol" json:"symbol"`
	// Contract address on EVM chains.
	Contract string `yaml:"contract,omitempty" mapstructure:"contract" json:"contract,omitempty"`
	// Numeric asset id on Substrate chains.
	AssetID  uint64 `yaml:"asset_id,omitempty" mapstructure:"asset_id" json:"assetId,omitempty"`
	Decimals int32  `yaml:"decimals" mapstructure:"decimals" json:"decimals"`
	Native   bool   `yaml:"native,omitempty" mapstructure:"native" json:"native,omitempty"`
}

func (a *Asset) String() string {
	switch {
	case a.Native:
		return fmt.Sprintf("%s(native)", a.Symbol)
	case a.Contract != "":
		return fmt.Sprintf("%s(%s)", a.Symbol, a.Contract)
	default:
		return fmt.Sprintf("%s(#%d)", a.Symbol, a.AssetID)
	}
}

// AssetAmount is an exact minor unit quantity of an asset.
type AssetAmount struct {
	Asset  *Asset `json:"asset"`
	Amount BigInt `json:"amount"`
}

func NewAssetAmount(asset *Asset, amount BigInt) AssetAmount {
	return AssetAmount{Asset: asset, Amount: amount}
}

func (a AssetAmount) String() string {
	if a.Asset == nil {
		return a.Amount.String()
	}
	return fmt.Sprintf("%s %s", a.Amount.ToHuman(a.Asset.Decimals).String(), a.Asset.Symbol)
}
