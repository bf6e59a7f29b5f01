package address

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	xc "github.com/openweb3-io/xcbridge/types"
	"golang.org/x/crypto/blake2b"
)

// DefaultPrefix is the generic Substrate network prefix.
const DefaultPrefix uint16 = 42

const (
	checksumLength = 2
	maxPrefix      = 16383
)

var ss58Pre = []byte("SS58PRE")

// AddressBuilder encodes raw account keys as SS58 strings.
type AddressBuilder struct {
	prefix uint16
}

func NewAddressBuilder(cfg *xc.ChainConfig) (*AddressBuilder, error) {
	prefix := DefaultPrefix
	if cfg != nil && cfg.SS58Prefix != 0 {
		prefix = cfg.SS58Prefix
	}
	if prefix > maxPrefix {
		return nil, fmt.Errorf("ss58 prefix %d out of range", prefix)
	}
	return &AddressBuilder{prefix: prefix}, nil
}

// GetAddressFromPublicKey takes a 32 byte sr25519/ed25519 public key.
func (ab *AddressBuilder) GetAddressFromPublicKey(publicKeyBytes []byte) (xc.Address, error) {
	if len(publicKeyBytes) != 32 {
		return "", fmt.Errorf("expected 32 byte public key, got %d", len(publicKeyBytes))
	}
	s, err := Encode(publicKeyBytes, ab.prefix)
	return xc.Address(s), err
}

func prefixBytes(prefix uint16) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	return []byte{
		byte((prefix&0x00fc)>>2) | 0x40,
		byte(prefix>>8) | byte((prefix&0x0003)<<6),
	}
}

func checksum(data []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Pre)
	h.Write(data)
	return h.Sum(nil)[:checksumLength]
}

// Encode produces the SS58 string of a 32 byte account key.
func Encode(key []byte, prefix uint16) (string, error) {
	if len(key) != 32 {
		return "", fmt.Errorf("expected 32 byte key, got %d", len(key))
	}
	if prefix > maxPrefix {
		return "", fmt.Errorf("ss58 prefix %d out of range", prefix)
	}
	data := append(prefixBytes(prefix), key...)
	data = append(data, checksum(data)...)
	return base58.Encode(data), nil
}

// Decode returns the account key and network prefix of an SS58 string.
func Decode(s string) ([]byte, uint16, error) {
	data := base58.Decode(s)
	if len(data) < 3 {
		return nil, 0, fmt.Errorf("invalid ss58 address %q", s)
	}

	var prefix uint16
	prefixLen := 1
	switch {
	case data[0] < 64:
		prefix = uint16(data[0])
	case data[0] < 128:
		prefixLen = 2
		prefix = uint16(data[0]&0x3f)<<2 | uint16(data[1])>>6 | uint16(data[1]&0x3f)<<8
	default:
		return nil, 0, fmt.Errorf("invalid ss58 prefix byte %#x", data[0])
	}

	keyLen := len(data) - prefixLen - checksumLength
	if keyLen != 32 && keyLen != 33 {
		return nil, 0, fmt.Errorf("unexpected ss58 key length %d", keyLen)
	}
	body := data[:len(data)-checksumLength]
	key := body[prefixLen:]
	if !bytes.Equal(checksum(body), data[len(data)-checksumLength:]) {
		return nil, 0, fmt.Errorf("invalid ss58 checksum")
	}
	return append([]byte(nil), key...), prefix, nil
}

// Valid reports whether s decodes as a 32 byte account with the expected prefix.
func Valid(s string, prefix uint16) bool {
	key, got, err := Decode(s)
	return err == nil && len(key) == 32 && got == prefix
}
