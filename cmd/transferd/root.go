package main

import (
	"github.com/spf13/cobra"

	"github.com/anoma/transferd/walletClient/constant"
)

var homeDir string

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "transferd",
		Short:         "Ledger transfer submission daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", constant.DefaultNodeHome, "directory for config and data")

	InitRootCmd(rootCmd) // add subcommands like `start` and `version`

	return rootCmd
}
