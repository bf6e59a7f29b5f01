// Package factory opens configured chain endpoints and wires them into a
// bridge session.
package factory

import (
	"context"

	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/config"
	"github.com/openweb3-io/xcbridge/confirm"
	"github.com/openweb3-io/xcbridge/factory/blockchains"
	"github.com/openweb3-io/xcbridge/journal"
	"github.com/openweb3-io/xcbridge/signer"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type IFactory interface {
	NewClient(ctx context.Context, chain string, withSigner bool) (xclient.Chain, error)
	OpenSession(ctx context.Context) (*Session, error)
}

type Factory struct {
	cfg      *config.Config
	signers  signer.SignerProvider
	creators map[xc.Blockchain]blockchains.ClientCreator
	observer confirm.Observer
	logger   *zap.Logger
}

var _ IFactory = &Factory{}

type Option func(*Factory)

func WithSignerProvider(provider signer.SignerProvider) Option {
	return func(f *Factory) { f.signers = provider }
}

// WithClientCreator overrides how chains of one kind are opened.
func WithClientCreator(blockchain xc.Blockchain, creator blockchains.ClientCreator) Option {
	return func(f *Factory) { f.creators[blockchain] = creator }
}

// WithObserver adds an observer to every tracker the factory builds.
func WithObserver(observer confirm.Observer) Option {
	return func(f *Factory) { f.observer = observer }
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

func NewFactory(cfg *config.Config, opts ...Option) *Factory {
	f := &Factory{
		cfg:      cfg,
		creators: make(map[xc.Blockchain]blockchains.ClientCreator),
		logger:   zap.L(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.signers == nil {
		f.signers = blockchains.NewSignerProvider()
	}
	return f
}

func (f *Factory) Config() *config.Config {
	return f.cfg
}

func (f *Factory) creator(blockchain xc.Blockchain) (blockchains.ClientCreator, error) {
	if creator, ok := f.creators[blockchain]; ok {
		return creator, nil
	}
	if creator, ok := blockchains.Creator(blockchain); ok {
		return creator, nil
	}
	return nil, xc.Errorf(xc.ErrUnsupportedChain, "creator %s not found", blockchain)
}

// NewSigner loads the signing key for a kind of chain. It returns nil
// without error when no key is configured.
func (f *Factory) NewSigner(ctx context.Context, blockchain xc.Blockchain) (signer.Signer, error) {
	if f.cfg.SignerRef(blockchain) == "" {
		return nil, nil
	}
	secret, err := f.cfg.SignerSecret(ctx, blockchain)
	if err != nil {
		return nil, err
	}
	s, err := f.signers.Provide(ctx, string(blockchain), secret)
	if err != nil {
		return nil, xc.WrapErr(xc.ErrSignerUnavailable, err)
	}
	return s, nil
}

// NewClient opens the named chain. Without a signer the endpoint can read
// balances and estimate nothing that needs a sender.
func (f *Factory) NewClient(ctx context.Context, chain string, withSigner bool) (xclient.Chain, error) {
	cfg, err := f.cfg.Chain(chain)
	if err != nil {
		return nil, err
	}
	creator, err := f.creator(cfg.Blockchain)
	if err != nil {
		return nil, err
	}

	var s signer.Signer
	if withSigner {
		if s, err = f.NewSigner(ctx, cfg.Blockchain); err != nil {
			return nil, err
		}
		if s == nil {
			f.logger.Warn("no signing key configured", zap.String("chain", cfg.Name))
		}
	}

	client, err := creator(ctx, cfg, s, f.logger.With(zap.String("chain", cfg.Name)))
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", blockchains.Describe(cfg))
	}
	return client, nil
}

// NewJournal opens the configured operation journal; nil when disabled.
func (f *Factory) NewJournal(ctx context.Context) (journal.Journal, error) {
	switch f.cfg.Journal.Driver {
	case config.JournalDisabled:
		return nil, nil
	case config.JournalRedis:
		password, err := f.cfg.JournalPassword(ctx)
		if err != nil {
			return nil, err
		}
		pool := journal.NewRedisPool(journal.RedisOptions{
			Addr:     f.cfg.Journal.Addr,
			Password: password,
			DB:       f.cfg.Journal.DB,
			Prefix:   f.cfg.Journal.Prefix,
		})
		return journal.NewRedisJournal(pool, f.cfg.Journal.Prefix), nil
	default:
		return journal.NewMemoryJournal(), nil
	}
}

func (f *Factory) NewTracker() *confirm.Tracker {
	opts := []confirm.Option{confirm.WithLogger(f.logger)}
	if f.observer != nil {
		opts = append(opts, confirm.WithObserver(f.observer))
	}
	return confirm.NewTracker(f.cfg.Retry, opts...)
}

// OpenSession opens the configured source and target with their signers.
// The caller must Close the session.
func (f *Factory) OpenSession(ctx context.Context) (*Session, error) {
	source, err := f.NewClient(ctx, f.cfg.Source, true)
	if err != nil {
		return nil, err
	}
	target, err := f.NewClient(ctx, f.cfg.Target, true)
	if err != nil {
		closeQuietly(source, f.logger)
		return nil, err
	}
	j, err := f.NewJournal(ctx)
	if err != nil {
		closeQuietly(source, f.logger)
		closeQuietly(target, f.logger)
		return nil, err
	}

	f.logger.Info("session opened",
		zap.String("source", blockchains.Describe(source.Config())),
		zap.String("target", blockchains.Describe(target.Config())),
	)
	return &Session{
		Source:  source,
		Target:  target,
		Journal: j,
		tracker: f.NewTracker(),
		logger:  f.logger,
	}, nil
}

func closeQuietly(chain xclient.Chain, logger *zap.Logger) {
	if err := chain.Close(); err != nil {
		logger.Warn("close chain", zap.String("chain", chain.Config().Name), zap.Error(err))
	}
}
