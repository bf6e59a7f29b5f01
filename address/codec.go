// Package address validates destination addresses for both ledger kinds and
// turns them into routing locations.
package address

import (
	"github.com/ethereum/go-ethereum/common"
	evmaddress "github.com/openweb3-io/xcbridge/blockchain/evm/address"
	substrateaddress "github.com/openweb3-io/xcbridge/blockchain/substrate/address"
	xc "github.com/openweb3-io/xcbridge/types"
)

// SiblingParents is the parent count from one parachain to a sibling.
const SiblingParents uint8 = 1

type Codec struct {
	ss58Prefix    uint16
	anySS58Prefix bool
}

type Option func(*Codec)

// WithSS58Prefix sets the network prefix Substrate addresses must carry.
func WithSS58Prefix(prefix uint16) Option {
	return func(c *Codec) {
		c.ss58Prefix = prefix
		c.anySS58Prefix = false
	}
}

// WithAnySS58Prefix accepts Substrate addresses of any network.
func WithAnySS58Prefix() Option {
	return func(c *Codec) {
		c.anySS58Prefix = true
	}
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{ss58Prefix: substrateaddress.DefaultPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate never fails loudly: anything that does not decode is false.
func (c *Codec) Validate(address string, kind xc.Blockchain) bool {
	_, err := c.Decode(address, kind)
	return err == nil
}

// Decode returns the raw account key of a checked address.
func (c *Codec) Decode(address string, kind xc.Blockchain) ([]byte, error) {
	switch kind {
	case xc.BlockchainEVM:
		addr, err := evmaddress.FromHex(xc.Address(address))
		if err != nil {
			return nil, xc.WrapErr(xc.ErrInvalidDestination, err)
		}
		return addr.Bytes(), nil
	case xc.BlockchainSubstrate:
		key, prefix, err := substrateaddress.Decode(address)
		if err != nil {
			return nil, xc.WrapErr(xc.ErrInvalidDestination, err)
		}
		if len(key) != 32 {
			return nil, xc.Errorf(xc.ErrInvalidDestination, "expected 32 byte account, got %d", len(key))
		}
		if !c.anySS58Prefix && prefix != c.ss58Prefix {
			return nil, xc.Errorf(xc.ErrInvalidDestination, "ss58 prefix %d, expected %d", prefix, c.ss58Prefix)
		}
		return key, nil
	}
	return nil, xc.Errorf(xc.ErrUnsupportedChain, "unsupported chain kind %q", kind)
}

// Encode renders a raw account key in the chain's native format.
func (c *Codec) Encode(key []byte, kind xc.Blockchain) (string, error) {
	switch kind {
	case xc.BlockchainEVM:
		if len(key) != common.AddressLength {
			return "", xc.Errorf(xc.ErrInvalidDestination, "expected 20 byte key, got %d", len(key))
		}
		return common.BytesToAddress(key).Hex(), nil
	case xc.BlockchainSubstrate:
		s, err := substrateaddress.Encode(key, c.ss58Prefix)
		if err != nil {
			return "", xc.WrapErr(xc.ErrInvalidDestination, err)
		}
		return s, nil
	}
	return "", xc.Errorf(xc.ErrUnsupportedChain, "unsupported chain kind %q", kind)
}

// ToRoutingLocation resolves where a cross-chain message for address should
// be delivered. kind is the chain the address lives on.
func (c *Codec) ToRoutingLocation(address string, kind xc.Blockchain, routingID uint32) (*xc.RoutingLocation, error) {
	key, err := c.Decode(address, kind)
	if err != nil {
		return nil, err
	}
	loc := &xc.RoutingLocation{
		Chain:      kind,
		Parents:    SiblingParents,
		RoutingID:  routingID,
		Address:    address,
		AccountKey: key,
	}
	switch len(key) {
	case 20:
		loc.Kind = xc.AccountKey20
	case 32:
		loc.Kind = xc.AccountId32
	}
	return loc, nil
}
