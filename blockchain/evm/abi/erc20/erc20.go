package erc20

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const Erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var ERC20 abi.ABI

func init() {
	var err error
	ERC20, err = abi.JSON(strings.NewReader(Erc20ABI))
	if err != nil {
		panic(err)
	}
}

func PackBalanceOf(owner common.Address) ([]byte, error) {
	return ERC20.Pack("balanceOf", owner)
}

func UnpackBalanceOf(output []byte) (*big.Int, error) {
	values, err := ERC20.Unpack("balanceOf", output)
	if err != nil {
		return nil, errors.Wrap(err, "unpack balanceOf")
	}
	if len(values) != 1 {
		return nil, errors.Errorf("balanceOf returned %d values", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("balanceOf returned %T", values[0])
	}
	return balance, nil
}
