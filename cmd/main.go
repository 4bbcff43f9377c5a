package cmd

import (
	"github.com/netrixframework/kbandit/cmd/serve"
	"github.com/netrixframework/kbandit/cmd/simulate"
	"github.com/netrixframework/kbandit/config"
	"github.com/spf13/cobra"
)

// RootCmd returns the root cobra command of the testbed
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kbandit",
		Short: "Simulate epsilon-greedy agents on the k-armed bandit testbed",
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", "config.json", "Config file path")
	cmd.AddCommand(simulate.SimulateCmd())
	cmd.AddCommand(serve.ServeCmd())
	return cmd
}
