package xtokens

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	xc "github.com/openweb3-io/xcbridge/types"
)

// PrecompileAddress is where Moonbeam-family runtimes expose xTokens.
const PrecompileAddress = "0x0000000000000000000000000000000000000804"

// DefaultWeight is the destination weight reserved for the XCM message.
const DefaultWeight uint64 = 1_000_000_000

const XTokensABI = `[
	{"inputs":[
		{"components":[{"internalType":"address","name":"currencyAddress","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"internalType":"struct Xtokens.Currency[]","name":"currencies","type":"tuple[]"},
		{"internalType":"uint32","name":"feeItem","type":"uint32"},
		{"components":[{"internalType":"uint8","name":"parents","type":"uint8"},{"internalType":"bytes[]","name":"interior","type":"bytes[]"}],"internalType":"struct Xtokens.Multilocation","name":"destination","type":"tuple"},
		{"internalType":"uint64","name":"weight","type":"uint64"}
	],"name":"transferMultiCurrencies","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var XTokens abi.ABI

func init() {
	var err error
	XTokens, err = abi.JSON(strings.NewReader(XTokensABI))
	if err != nil {
		panic(err)
	}
}

// Currency mirrors Xtokens.Currency.
type Currency struct {
	CurrencyAddress common.Address
	Amount          *big.Int
}

// Multilocation mirrors Xtokens.Multilocation.
type Multilocation struct {
	Parents  uint8
	Interior [][]byte
}

// Junction selectors of the precompile's byte encoding.
const (
	selectorParachain    byte = 0x00
	selectorAccountId32  byte = 0x01
	selectorAccountKey20 byte = 0x03
	networkAny           byte = 0x00
)

// ParachainJunction encodes a routing id as the selector plus a 4 byte big endian id.
func ParachainJunction(routingID uint32) []byte {
	junction := make([]byte, 5)
	junction[0] = selectorParachain
	binary.BigEndian.PutUint32(junction[1:], routingID)
	return junction
}

// AccountJunction encodes an account key with the "any network" suffix.
func AccountJunction(kind xc.AccountKind, key []byte) ([]byte, error) {
	var selector byte
	switch {
	case kind == xc.AccountId32 && len(key) == 32:
		selector = selectorAccountId32
	case kind == xc.AccountKey20 && len(key) == 20:
		selector = selectorAccountKey20
	default:
		return nil, fmt.Errorf("cannot encode %d byte key as %s", len(key), kind)
	}
	junction := append([]byte{selector}, key...)
	return append(junction, networkAny), nil
}

// ParseAccountJunction recovers the account key from an encoded junction.
func ParseAccountJunction(junction []byte) (xc.AccountKind, []byte, error) {
	if len(junction) < 2 {
		return xc.AccountNotSet, nil, fmt.Errorf("junction too short")
	}
	body := junction[1 : len(junction)-1]
	switch {
	case junction[0] == selectorAccountId32 && len(body) == 32:
		return xc.AccountId32, append([]byte(nil), body...), nil
	case junction[0] == selectorAccountKey20 && len(body) == 20:
		return xc.AccountKey20, append([]byte(nil), body...), nil
	}
	return xc.AccountNotSet, nil, fmt.Errorf("unsupported junction %x", junction)
}

// NewMultilocation renders a routing location in the precompile's format:
// {parents, [parachain, account]}.
func NewMultilocation(loc *xc.RoutingLocation) (Multilocation, error) {
	account, err := AccountJunction(loc.Kind, loc.AccountKey)
	if err != nil {
		return Multilocation{}, err
	}
	return Multilocation{
		Parents:  loc.Parents,
		Interior: [][]byte{ParachainJunction(loc.RoutingID), account},
	}, nil
}

// PackTransferMultiCurrencies encodes the call with the fee currency at index feeItem.
func PackTransferMultiCurrencies(currencies []Currency, feeItem uint32, destination Multilocation, weight uint64) ([]byte, error) {
	return XTokens.Pack("transferMultiCurrencies", currencies, feeItem, destination, weight)
}
