package blockchains

import (
	"context"
	"fmt"

	"github.com/openweb3-io/xcbridge/address"
	"github.com/openweb3-io/xcbridge/blockchain/evm"
	evmclient "github.com/openweb3-io/xcbridge/blockchain/evm/client"
	"github.com/openweb3-io/xcbridge/blockchain/substrate"
	substrateaddress "github.com/openweb3-io/xcbridge/blockchain/substrate/address"
	substrateclient "github.com/openweb3-io/xcbridge/blockchain/substrate/client"
	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"go.uber.org/zap"
)

// ClientCreator opens a chain endpoint. The signer may be nil for
// read-only use.
type ClientCreator func(ctx context.Context, cfg *xc.ChainConfig, s signer.Signer, logger *zap.Logger) (xclient.Chain, error)

var (
	creatorMap = make(map[xc.Blockchain]ClientCreator)
)

func RegisterClient(blockchain xc.Blockchain, creator ClientCreator) {
	creatorMap[blockchain] = creator
}

func init() {
	RegisterClient(xc.BlockchainEVM, func(ctx context.Context, cfg *xc.ChainConfig, s signer.Signer, logger *zap.Logger) (xclient.Chain, error) {
		opts := []evmclient.Option{evmclient.WithLogger(logger)}
		if s != nil {
			opts = append(opts, evmclient.WithSigner(s))
		}
		return evmclient.NewClient(ctx, cfg, opts...)
	})

	RegisterClient(xc.BlockchainSubstrate, func(ctx context.Context, cfg *xc.ChainConfig, s signer.Signer, logger *zap.Logger) (xclient.Chain, error) {
		opts := []substrateclient.Option{substrateclient.WithLogger(logger)}
		if s != nil {
			opts = append(opts, substrateclient.WithSigner(s))
		}
		return substrateclient.NewClient(ctx, cfg, opts...)
	})
}

// Creator returns the registered creator for a kind of chain.
func Creator(blockchain xc.Blockchain) (ClientCreator, bool) {
	creator, ok := creatorMap[blockchain]
	return creator, ok
}

func NewClient(ctx context.Context, cfg *xc.ChainConfig, s signer.Signer, logger *zap.Logger) (xclient.Chain, error) {
	creator, ok := creatorMap[cfg.Blockchain]
	if !ok {
		return nil, xc.Errorf(xc.ErrUnsupportedChain, "creator %s not found", cfg.Blockchain)
	}
	return creator(ctx, cfg, s, logger)
}

// NewAddressCodec returns a codec that checks addresses the way cfg's
// chain writes them.
func NewAddressCodec(cfg *xc.ChainConfig) *address.Codec {
	return address.NewCodec(address.WithSS58Prefix(cfg.SS58Prefix))
}

// NewSignerProvider knows how to turn key material into a signer for each
// supported kind of chain.
func NewSignerProvider() signer.SignerProvider {
	provider := signer.NewSignerProvider()
	provider.Register(string(xc.BlockchainEVM), func(ctx context.Context, key string) (signer.Signer, error) {
		return evm.NewLocalSignerFromHex(key)
	})
	provider.Register(string(xc.BlockchainSubstrate), func(ctx context.Context, key string) (signer.Signer, error) {
		s, err := substrate.NewKeyringSigner(key, substrateaddress.DefaultPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	return provider
}

// Describe is a one-line summary used in logs.
func Describe(cfg *xc.ChainConfig) string {
	return fmt.Sprintf("%s (%s, routing %d)", cfg.Name, cfg.Blockchain, cfg.RoutingID)
}
