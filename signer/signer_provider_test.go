package signer_test

import (
	"context"
	"testing"

	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/stretchr/testify/require"
)

type staticSigner struct{ key string }

func (s *staticSigner) PublicKey(ctx context.Context) ([]byte, error) { return []byte(s.key), nil }
func (s *staticSigner) Sign(ctx context.Context, payload xc.TxDataToSign) (xc.TxSignature, error) {
	return xc.TxSignature(payload), nil
}

func TestProvide(t *testing.T) {
	provider := signer.NewSignerProvider()
	provider.Register("evm", func(ctx context.Context, key string) (signer.Signer, error) {
		return &staticSigner{key: key}, nil
	})

	s, err := provider.Provide(context.Background(), "evm", "k1")
	require.NoError(t, err)
	pub, _ := s.PublicKey(context.Background())
	require.Equal(t, []byte("k1"), pub)

	_, err = provider.Provide(context.Background(), "substrate", "k2")
	require.ErrorContains(t, err, "signer creator for network substrate not found")
}

func TestProvideFailover(t *testing.T) {
	provider := signer.NewSignerProvider(signer.WithFailoverSignerCreator(func(ctx context.Context, key string) (signer.Signer, error) {
		return &staticSigner{key: "failover:" + key}, nil
	}))
	s, err := provider.Provide(context.Background(), "anything", "k")
	require.NoError(t, err)
	pub, _ := s.PublicKey(context.Background())
	require.Equal(t, []byte("failover:k"), pub)
}
