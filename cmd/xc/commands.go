package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/openweb3-io/xcbridge/api"
	"github.com/openweb3-io/xcbridge/builder"
	"github.com/openweb3-io/xcbridge/builder/validation"
	"github.com/openweb3-io/xcbridge/cmd/xc/setup"
	"github.com/openweb3-io/xcbridge/factory/blockchains"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func CmdChains() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List configured chains.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.UnwrapXc(cmd.Context()).Config()
			chains := make([]*xc.ChainConfig, 0, len(cfg.Chains))
			for _, name := range cfg.ChainNames() {
				chains = append(chains, cfg.Chains[name])
			}
			return printJSON(cmd, chains)
		},
	}
}

func CmdConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := setup.UnwrapXc(cmd.Context()).Config().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func CmdValidateAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate-address <address>",
		Aliases: []string{"address"},
		Short:   "Check an address against a chain's format and show the account it routes to.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xcFactory := setup.UnwrapXc(cmd.Context())
			chainName, _ := cmd.Flags().GetString("chain")
			chain, err := setup.LoadChain(xcFactory, chainName)
			if err != nil {
				return err
			}

			resp := &api.AddressResponse{Chain: chain.Name, Address: args[0]}
			loc, err := blockchains.NewAddressCodec(chain).ToRoutingLocation(args[0], chain.Blockchain, chain.RoutingID)
			if err != nil {
				resp.Reason = err.Error()
				if printErr := printJSON(cmd, resp); printErr != nil {
					return printErr
				}
				return err
			}
			resp.Valid = true
			resp.Kind = loc.Kind
			resp.AccountKey = "0x" + hex.EncodeToString(loc.AccountKey)
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().String("chain", "", "Chain the address belongs to.")
	return cmd
}

func CmdBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Read the native or asset balance of an address.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			xcFactory := setup.UnwrapXc(ctx)
			chainName, _ := cmd.Flags().GetString("chain")
			symbol, _ := cmd.Flags().GetString("asset")
			chainCfg, err := setup.LoadChain(xcFactory, chainName)
			if err != nil {
				return err
			}
			addr := args[0]
			if !blockchains.NewAddressCodec(chainCfg).Validate(addr, chainCfg.Blockchain) {
				return xc.Errorf(xc.ErrInvalidDestination, "invalid %s address %q", chainCfg.Name, addr)
			}
			asset, ok := chainCfg.FindAsset(symbol)
			if !ok {
				return xc.Errorf(xc.ErrInvalidAmount, "unknown asset %q on %s", symbol, chainCfg.Name)
			}

			client, err := xcFactory.NewClient(ctx, chainCfg.Name, false)
			if err != nil {
				return err
			}
			defer client.Close()

			var balance xc.BigInt
			if asset.Native {
				balance, err = client.FetchNativeBalance(ctx, xc.Address(addr))
			} else {
				balance, err = client.FetchAssetBalance(ctx, xc.Address(addr), asset)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, &api.BalanceResponse{
				Chain:   chainCfg.Name,
				Address: addr,
				Asset:   asset.Symbol,
				Balance: balance,
				Human:   balance.ToHuman(asset.Decimals),
			})
		},
	}
	cmd.Flags().String("chain", "", "Chain to query.")
	cmd.Flags().String("asset", "", "Asset symbol. Defaults to the native currency.")
	return cmd
}

func CmdEstimate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Validate a transfer and size its network fee without sending it.",
	}
	for _, dir := range []xc.Direction{xc.SourceToTarget, xc.TargetToSource} {
		dir := dir
		sub := &cobra.Command{
			Use:   directionUse(dir),
			Short: "Estimate a transfer " + directionShort(dir) + ".",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				session, err := setup.UnwrapXc(ctx).OpenSession(ctx)
				if err != nil {
					return err
				}
				defer session.Close()

				orchestrator := session.Orchestrator()
				from, to := orchestrator.Endpoints(dir)
				req, err := requestFromFlags(cmd, from.Config(), to.Config())
				if err != nil {
					return err
				}
				quote, err := orchestrator.Estimate(ctx, dir, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{
					"quote": quote,
					"total": xc.NewAssetAmount(from.Config().NativeAsset(), quote.Total).String(),
				})
			},
		}
		addTransferFlags(sub)
		cmd.AddCommand(sub)
	}
	return cmd
}

type bridgeResult struct {
	TxHash      xc.TxHash          `json:"txHash,omitempty"`
	IsCompleted bool               `json:"isCompleted"`
	Status      xc.TxStatus        `json:"status,omitempty"`
	BlockHash   string             `json:"blockHash,omitempty"`
	Attempts    int                `json:"attempts,omitempty"`
	Failure     *xc.DecodedFailure `json:"failure,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Error       *xc.Error          `json:"error,omitempty"`
}

func CmdBridge() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Send an asset across the bridge and wait for the result.",
	}
	for _, dir := range []xc.Direction{xc.SourceToTarget, xc.TargetToSource} {
		dir := dir
		sub := &cobra.Command{
			Use:   directionUse(dir),
			Short: "Bridge " + directionShort(dir) + ".",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				session, err := setup.UnwrapXc(ctx).OpenSession(ctx)
				if err != nil {
					return err
				}
				defer session.Close()

				orchestrator := session.Orchestrator()
				from, to := orchestrator.Endpoints(dir)
				req, err := requestFromFlags(cmd, from.Config(), to.Config())
				if err != nil {
					return err
				}

				logrus.WithFields(logrus.Fields{
					"from":   from.Config().Name,
					"to":     to.Config().Name,
					"amount": req.TransferAsset.String(),
					"dest":   req.DestinationAddress,
				}).Info("bridging")

				outcome, err := orchestrator.Bridge(ctx, dir, req)
				result := &bridgeResult{}
				if outcome != nil {
					result.TxHash = outcome.TxHash
					result.IsCompleted = outcome.IsCompleted()
					result.Status = outcome.Status
					result.BlockHash = outcome.BlockHash
					result.Attempts = outcome.Attempts
					result.Failure = outcome.Failure
					result.Reason = outcome.Reason
					if err == nil {
						err = outcome.Err()
					}
				}
				var xcErr *xc.Error
				if errors.As(err, &xcErr) {
					result.Error = xcErr
				}
				if printErr := printJSON(cmd, result); printErr != nil {
					return printErr
				}
				return err
			},
		}
		addTransferFlags(sub)
		sub.Flags().Bool("in-block", false, "Accept in-block inclusion without waiting for finality.")
		cmd.AddCommand(sub)
	}
	return cmd
}

func CmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			xcFactory := setup.UnwrapXc(ctx)
			cfg := xcFactory.Config()
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}

			var endpoints []api.Endpoint
			for _, name := range []string{cfg.Source, cfg.Target} {
				client, err := xcFactory.NewClient(ctx, name, false)
				if err != nil {
					return err
				}
				defer client.Close()
				endpoints = append(endpoints, client)
			}
			j, err := xcFactory.NewJournal(ctx)
			if err != nil {
				return err
			}

			opts := []api.Option{api.WithGatherer(prometheus.DefaultGatherer)}
			if j != nil {
				defer j.Close()
				opts = append(opts, api.WithJournal(j))
			}
			logrus.WithField("addr", addr).Info("serving")
			return api.NewServer(endpoints, opts...).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address. Defaults to server.addr from config.")
	return cmd
}

func directionUse(dir xc.Direction) string {
	if dir == xc.TargetToSource {
		return "to-source"
	}
	return "to-target"
}

func directionShort(dir xc.Direction) string {
	if dir == xc.TargetToSource {
		return "from the target chain to the source chain"
	}
	return "from the source chain to the target chain"
}

func addTransferFlags(cmd *cobra.Command) {
	cmd.Flags().String("asset", "", "Symbol of the asset to send, as configured on the sending chain.")
	cmd.Flags().String("amount", "", "Amount in human units, e.g. 1.5.")
	cmd.Flags().String("fee-asset", "", "Optional asset paying the bridge fee.")
	cmd.Flags().String("fee-amount", "", "Fee amount in human units; required with --fee-asset.")
	cmd.Flags().String("dest", "", "Destination address on the receiving chain.")
	cmd.Flags().Uint32("routing-id", 0, "Destination routing id. Defaults to the receiving chain's.")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("dest")
}

func parseAmount(chain *xc.ChainConfig, symbol, amount string) (xc.AssetAmount, error) {
	asset, ok := chain.FindAsset(symbol)
	if !ok {
		return xc.AssetAmount{}, xc.Errorf(xc.ErrInvalidAmount, "unknown asset %q on %s", symbol, chain.Name)
	}
	value, err := validation.ParseHumanAmount(amount, asset.Decimals)
	if err != nil {
		return xc.AssetAmount{}, err
	}
	return xc.NewAssetAmount(asset, value), nil
}

func requestFromFlags(cmd *cobra.Command, from, to *xc.ChainConfig) (*xc.BridgeRequest, error) {
	symbol, _ := cmd.Flags().GetString("asset")
	amount, _ := cmd.Flags().GetString("amount")
	feeSymbol, _ := cmd.Flags().GetString("fee-asset")
	feeAmount, _ := cmd.Flags().GetString("fee-amount")
	dest, _ := cmd.Flags().GetString("dest")
	routingID, _ := cmd.Flags().GetUint32("routing-id")

	transfer, err := parseAmount(from, symbol, amount)
	if err != nil {
		return nil, err
	}
	options := []builder.BuilderOption{builder.WithChains(from.Name, to.Name)}
	if feeSymbol != "" || feeAmount != "" {
		if feeSymbol == "" || feeAmount == "" {
			return nil, xc.Errorf(xc.ErrInvalidAmount, "--fee-asset and --fee-amount go together")
		}
		fee, err := parseAmount(from, feeSymbol, feeAmount)
		if err != nil {
			return nil, err
		}
		options = append(options, builder.WithFeeAsset(fee))
	}
	if cmd.Flags().Lookup("in-block") != nil {
		if inBlock, _ := cmd.Flags().GetBool("in-block"); inBlock {
			options = append(options, builder.WithInBlockConfirmation())
		}
	}
	return builder.NewBridgeRequest(transfer, dest, routingID, options...)
}
