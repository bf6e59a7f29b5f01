package address

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	xc "github.com/openweb3-io/xcbridge/types"
)

// AddressBuilder derives EVM addresses from secp256k1 public keys.
type AddressBuilder struct {
}

func NewAddressBuilder(cfg *xc.ChainConfig) (*AddressBuilder, error) {
	return &AddressBuilder{}, nil
}

// GetAddressFromPublicKey accepts compressed or uncompressed keys.
func (ab *AddressBuilder) GetAddressFromPublicKey(publicKeyBytes []byte) (xc.Address, error) {
	var pub *ecdsa.PublicKey
	var err error
	if len(publicKeyBytes) == 33 {
		pub, err = crypto.DecompressPubkey(publicKeyBytes)
	} else {
		pub, err = crypto.UnmarshalPubkey(publicKeyBytes)
	}
	if err != nil {
		return "", fmt.Errorf("invalid secp256k1 public key: %v", err)
	}
	return xc.Address(crypto.PubkeyToAddress(*pub).Hex()), nil
}

// Valid reports whether s is a 0x-prefixed 20 byte hex address. Mixed
// case input must carry a correct EIP-55 checksum; single case input
// carries no checksum and is accepted as is.
func Valid(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	if !common.IsHexAddress(s) {
		return false
	}
	body := s[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	mixed, err := common.NewMixedcaseAddressFromString(s)
	if err != nil {
		return false
	}
	return mixed.ValidChecksum()
}

// FromHex parses a validated address.
func FromHex(s xc.Address) (common.Address, error) {
	if !Valid(string(s)) {
		return common.Address{}, fmt.Errorf("invalid evm address %q", s)
	}
	return common.HexToAddress(string(s)), nil
}

// Normalize returns the EIP-55 form of an address.
func Normalize(s string) (string, error) {
	addr, err := FromHex(xc.Address(s))
	if err != nil {
		return s, err
	}
	return addr.Hex(), nil
}
