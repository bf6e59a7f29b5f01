package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openweb3-io/xcbridge/cmd/xc/setup"
	"github.com/openweb3-io/xcbridge/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cobra.Command{
		Use:          "xc",
		Short:        "Move XC-20 assets between an EVM chain and a Substrate parachain",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			args, err := setup.RpcArgsFromCmd(cmd)
			if err != nil {
				return err
			}
			if args.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			if _, err := setup.NewLogger(args.Verbose); err != nil {
				return err
			}

			collector := metrics.NewCollector()
			xcFactory, err := setup.LoadFactory(args, collector)
			if err != nil {
				return err
			}

			cfg := xcFactory.Config()
			logrus.WithFields(logrus.Fields{
				"source": cfg.Source,
				"target": cfg.Target,
				"chains": cfg.ChainNames(),
			}).Debug("config")

			cmd.SetContext(setup.CreateContext(cmd.Context(), xcFactory, collector))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = zap.L().Sync()
		},
	}
	setup.AddRpcArgs(cmd)

	cmd.AddCommand(CmdValidateAddress())
	cmd.AddCommand(CmdBalance())
	cmd.AddCommand(CmdEstimate())
	cmd.AddCommand(CmdBridge())
	cmd.AddCommand(CmdServe())
	cmd.AddCommand(CmdConfig())
	cmd.AddCommand(CmdChains())

	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
