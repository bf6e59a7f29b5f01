package substrate

import (
	"context"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
)

// KeyringSigner signs with an sr25519 key derived from a mnemonic, seed or
// secret URI such as "//Alice".
type KeyringSigner struct {
	pair signature.KeyringPair
}

var _ signer.Signer = &KeyringSigner{}

func NewKeyringSigner(secret string, ss58Prefix uint16) (*KeyringSigner, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("empty substrate secret")
	}
	pair, err := signature.KeyringPairFromSecret(secret, ss58Prefix)
	if err != nil {
		return nil, errors.Wrap(err, "invalid substrate secret")
	}
	return &KeyringSigner{pair: pair}, nil
}

// Address is the SS58 form of the public key.
func (s *KeyringSigner) Address() xc.Address {
	return xc.Address(s.pair.Address)
}

func (s *KeyringSigner) PublicKey(ctx context.Context) ([]byte, error) {
	return s.pair.PublicKey, nil
}

func (s *KeyringSigner) Sign(ctx context.Context, payload xc.TxDataToSign) (xc.TxSignature, error) {
	sig, err := signature.Sign(payload, s.pair.URI)
	if err != nil {
		return nil, err
	}
	return xc.TxSignature(sig), nil
}
