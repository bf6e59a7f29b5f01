package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// BigInt is an exact integer amount in minor units, as the chain expects it.
type BigInt big.Int

// AmountHumanReadable is a decimal amount as a human expects it for readability.
type AmountHumanReadable decimal.Decimal

// MaxU128 is the largest amount either ledger can carry.
var MaxU128 = BigInt(*new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

func (amount BigInt) String() string {
	bigInt := big.Int(amount)
	return bigInt.String()
}

// Int converts an BigInt into *big.Int
func (amount BigInt) Int() *big.Int {
	bigInt := big.Int(amount)
	return &bigInt
}

func (amount BigInt) Sign() int {
	bigInt := big.Int(amount)
	return bigInt.Sign()
}

// Uint64 converts an BigInt into uint64
func (amount BigInt) Uint64() uint64 {
	bigInt := big.Int(amount)
	return bigInt.Uint64()
}

// Use the underlying big.Int.Cmp()
func (amount *BigInt) Cmp(other *BigInt) int {
	return amount.Int().Cmp(other.Int())
}

// Arithmetic results get their own storage; operands are never written.

// Use the underlying big.Int.Add()
func (amount *BigInt) Add(x *BigInt) BigInt {
	return BigInt(*new(big.Int).Add(amount.Int(), x.Int()))
}

// Use the underlying big.Int.Sub()
func (amount *BigInt) Sub(x *BigInt) BigInt {
	return BigInt(*new(big.Int).Sub(amount.Int(), x.Int()))
}

// Use the underlying big.Int.Mul()
func (amount *BigInt) Mul(x *BigInt) BigInt {
	return BigInt(*new(big.Int).Mul(amount.Int(), x.Int()))
}

var zero = big.NewInt(0)

func (amount *BigInt) IsZero() bool {
	return amount.Int().Cmp(zero) == 0
}

// FitsU128 reports whether the amount is a valid unsigned 128-bit quantity.
func (amount *BigInt) FitsU128() bool {
	return amount.Sign() >= 0 && amount.Cmp(&MaxU128) <= 0
}

func (amount *BigInt) ToHuman(decimals int32) AmountHumanReadable {
	dec := decimal.NewFromBigInt(amount.Int(), -decimals)
	return AmountHumanReadable(dec)
}

// ApplyMultiplier scales an amount by a float factor, rounding down.
// Factors at or below 0.01 are treated as unset.
func (amount BigInt) ApplyMultiplier(multiplier float64) BigInt {
	if multiplier <= 0.01 || amount.Sign() == 0 {
		return amount
	}
	scaled := decimal.NewFromBigInt(amount.Int(), 0).Mul(decimal.NewFromFloat(multiplier))
	return BigInt(*scaled.Floor().BigInt())
}

// NewBigIntFromUint64 creates a new BigInt from a uint64
func NewBigIntFromUint64(u64 uint64) BigInt {
	bigInt := new(big.Int).SetUint64(u64)
	return BigInt(*bigInt)
}

// NewBigIntFromInt64 creates a new BigInt from a int64
func NewBigIntFromInt64(i64 int64) BigInt {
	bigInt := new(big.Int).SetInt64(i64)
	return BigInt(*bigInt)
}

// NewBigIntFromStr creates a new BigInt from a string, zero when unparsable.
func NewBigIntFromStr(str string) BigInt {
	amount, err := ParseBigInt(str)
	if err != nil {
		return NewBigIntFromUint64(0)
	}
	return amount
}

// ParseBigInt parses a base 10 (or 0x prefixed) integer.
func ParseBigInt(str string) (BigInt, error) {
	bigInt, ok := new(big.Int).SetString(strings.TrimSpace(str), 0)
	if !ok {
		return BigInt{}, fmt.Errorf("not a valid big integer: %q", str)
	}
	return BigInt(*bigInt), nil
}

// NewAmountHumanReadableFromStr creates a new AmountHumanReadable from a string
func NewAmountHumanReadableFromStr(str string) (AmountHumanReadable, error) {
	decimal, err := decimal.NewFromString(str)
	return AmountHumanReadable(decimal), err
}

// ToBlockchain converts to minor units, truncating anything past decimals.
func (amount AmountHumanReadable) ToBlockchain(decimals int32) BigInt {
	factor := decimal.NewFromInt32(10).Pow(decimal.NewFromInt32(decimals))
	raised := ((decimal.Decimal)(amount)).Mul(factor)
	return BigInt(*raised.BigInt())
}

// ToBlockchainExact converts to minor units and refuses amounts that
// cannot be represented exactly with the given decimals.
func (amount AmountHumanReadable) ToBlockchainExact(decimals int32) (BigInt, error) {
	dec := decimal.Decimal(amount)
	if dec.IsNegative() {
		return BigInt{}, fmt.Errorf("negative amount %s", dec.String())
	}
	factor := decimal.NewFromInt32(10).Pow(decimal.NewFromInt32(decimals))
	raised := dec.Mul(factor)
	if !raised.Equal(raised.Truncate(0)) {
		return BigInt{}, fmt.Errorf("amount %s has more than %d decimals", dec.String(), decimals)
	}
	return BigInt(*raised.BigInt()), nil
}

func (amount AmountHumanReadable) String() string {
	return decimal.Decimal(amount).String()
}

func (b AmountHumanReadable) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *AmountHumanReadable) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	decimal, err := decimal.NewFromString(str)
	if err != nil {
		return err
	}
	*b = AmountHumanReadable(decimal)
	return nil
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *BigInt) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	var z big.Int
	_, ok := z.SetString(str, 10)
	if !ok {
		return fmt.Errorf("not a valid big integer: %s", p)
	}
	*b = BigInt(z)
	return nil
}
