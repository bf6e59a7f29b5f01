package validation

import (
	xc "github.com/openweb3-io/xcbridge/types"
)

// CheckAmount requires a strictly positive amount that fits in u128.
func CheckAmount(amount xc.BigInt) error {
	if amount.Sign() <= 0 {
		return xc.Errorf(xc.ErrInvalidAmount, "amount must be positive, got %s", amount.String())
	}
	if !amount.FitsU128() {
		return xc.Errorf(xc.ErrInvalidAmount, "amount %s exceeds u128", amount.String())
	}
	return nil
}

// ParseHumanAmount converts a decimal string into minor units, refusing
// precision the asset cannot carry.
func ParseHumanAmount(human string, decimals int32) (xc.BigInt, error) {
	dec, err := xc.NewAmountHumanReadableFromStr(human)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrInvalidAmount, err)
	}
	amount, err := dec.ToBlockchainExact(decimals)
	if err != nil {
		return xc.BigInt{}, xc.WrapErr(xc.ErrInvalidAmount, err)
	}
	return amount, CheckAmount(amount)
}
