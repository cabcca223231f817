package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/version"
	"github.com/spf13/cobra"

	"github.com/anoma/transferd/walletClient/api"
	"github.com/anoma/transferd/walletClient/config"
	"github.com/anoma/transferd/walletClient/core"
	"github.com/anoma/transferd/walletClient/logger"
)

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
)

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(epochCmd())
	rootCmd.AddCommand(versionCmd())
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config to the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(homeDir); err == nil && !force {
				return fmt.Errorf("config already exists in %s (use --force to overwrite)", homeDir)
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.NodeHome = homeDir
			if err := config.Save(cfg, homeDir); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📝 Config written to %s\n", homeDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the transfer daemon and its query server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(homeDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.Init(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := core.NewTransferClient(ctx, log, &cfg)
			if err != nil {
				return fmt.Errorf("failed to create transfer client: %w", err)
			}
			return client.Start()
		},
	}
}

func submitCmd() *cobra.Command {
	var req api.SubmitTransferRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one transfer and wait for block inclusion",
		Long: `
Build, sign and broadcast a single transfer, then wait until the ledger
applies it or the confirmation timeout elapses.

Examples:
  transferd submit --account acc-1 --to tnam1... --amount 10.5
  transferd submit --account acc-1 --to tnam1... --amount 1 --faucet
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newOneShotClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			outcome, err := client.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, outcome)
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "account", "", "id of the signing account")
	cmd.Flags().StringVar(&req.Target, "to", "", "target address")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "amount in display units")
	cmd.Flags().StringVar(&req.Memo, "memo", "", "optional memo")
	cmd.Flags().BoolVar(&req.Shielded, "shielded", false, "submit as a shielded transfer")
	cmd.Flags().BoolVar(&req.UseFaucet, "faucet", false, "draw the funds from the configured faucet")
	cmd.Flags().StringVar(&req.Channel, "channel", "", "IBC channel for cross-chain transfers")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Query an account's balance from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newOneShotClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			balance, err := client.GetBalance(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			return printJSON(cmd, balance)
		},
	}
}

func epochCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "epoch",
		Short: "Print the ledger's current epoch",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newOneShotClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			epoch, err := client.QueryEpoch(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), epoch)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print transferd version info",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", "transferd")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Commit:     %s\n", Commit)
			fmt.Fprintf(out, "CometBFT:   %s\n", version.TMCoreSemVer)
		},
	}
}

// newOneShotClient builds a client for a single command without the query
// server or metrics.
func newOneShotClient(ctx context.Context) (*core.TransferClient, error) {
	cfg, err := config.Load(homeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.MetricsEnabled = false

	if ctx == nil {
		ctx = context.Background()
	}
	return core.NewTransferClient(ctx, logger.Init(cfg), &cfg)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
