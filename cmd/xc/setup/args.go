package setup

import (
	"context"

	"github.com/openweb3-io/xcbridge/config"
	"github.com/openweb3-io/xcbridge/factory"
	"github.com/openweb3-io/xcbridge/metrics"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type ContextKey string

const (
	ContextXc        ContextKey = "xc"
	ContextCollector ContextKey = "collector"
)

func WrapXc(ctx context.Context, xcFactory *factory.Factory) context.Context {
	return context.WithValue(ctx, ContextXc, xcFactory)
}

func UnwrapXc(ctx context.Context) *factory.Factory {
	return ctx.Value(ContextXc).(*factory.Factory)
}

func WrapCollector(ctx context.Context, collector *metrics.Collector) context.Context {
	return context.WithValue(ctx, ContextCollector, collector)
}

func UnwrapCollector(ctx context.Context) *metrics.Collector {
	return ctx.Value(ContextCollector).(*metrics.Collector)
}

type RpcArgs struct {
	ConfigPath string
	EnvFiles   []string
	Verbose    bool
}

func AddRpcArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Config file. Defaults to ./"+config.DefaultPath+" when present.")
	cmd.PersistentFlags().StringSlice("env-file", nil, "Env files to load before reading config. Defaults to .env.")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging.")
}

func RpcArgsFromCmd(cmd *cobra.Command) (*RpcArgs, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	envFiles, err := cmd.Flags().GetStringSlice("env-file")
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	return &RpcArgs{
		ConfigPath: configPath,
		EnvFiles:   envFiles,
		Verbose:    verbose,
	}, nil
}

// NewLogger installs the global zap logger the library packages use.
func NewLogger(verbose bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// LoadFactory reads configuration and builds a factory whose trackers
// report to collector.
func LoadFactory(args *RpcArgs, collector *metrics.Collector) (*factory.Factory, error) {
	cfg, err := config.Load(args.ConfigPath, args.EnvFiles...)
	if err != nil {
		return nil, err
	}
	if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}
	return factory.NewFactory(cfg,
		factory.WithObserver(collector),
		factory.WithLogger(zap.L()),
	), nil
}

func LoadChain(xcFactory *factory.Factory, chain string) (*xc.ChainConfig, error) {
	if chain == "" {
		return nil, xc.Errorf(xc.ErrUnsupportedChain, "--chain required, options: %v", xcFactory.Config().ChainNames())
	}
	return xcFactory.Config().Chain(chain)
}

func CreateContext(ctx context.Context, xcFactory *factory.Factory, collector *metrics.Collector) context.Context {
	ctx = WrapXc(ctx, xcFactory)
	ctx = WrapCollector(ctx, collector)
	return ctx
}
