package evm

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
)

type LocalSigner struct {
	key *ecdsa.PrivateKey
}

var _ signer.Signer = &LocalSigner{}

func NewLocalSigner(key *ecdsa.PrivateKey) signer.Signer {
	return &LocalSigner{key}
}

// NewLocalSignerFromHex accepts a hex private key with or without 0x.
func NewLocalSignerFromHex(secret string) (signer.Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(secret), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid evm private key")
	}
	return NewLocalSigner(key), nil
}

func (s *LocalSigner) PublicKey(ctx context.Context) ([]byte, error) {
	pubkey := s.key.Public().(*ecdsa.PublicKey)
	return crypto.FromECDSAPub(pubkey), nil
}

func (s *LocalSigner) Sign(ctx context.Context, payload xc.TxDataToSign) (xc.TxSignature, error) {
	return crypto.Sign(payload, s.key)
}
