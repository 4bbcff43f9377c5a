package serve

import (
	"fmt"

	"github.com/netrixframework/kbandit/apiserver"
	"github.com/netrixframework/kbandit/cmd/simulate"
	"github.com/netrixframework/kbandit/config"
	"github.com/netrixframework/kbandit/log"
	"github.com/spf13/cobra"
)

// ServeCmd returns the command running the experiment behind the API server
func ServeCmd() *cobra.Command {
	o := &config.Overrides{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the experiment and serve the results over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, driver, err := simulate.Prepare(o)
			if err != nil {
				return err
			}
			defer log.Destroy()

			ctx, cancel := simulate.SignalContext()
			defer cancel()

			server := apiserver.NewAPIServer(conf.ServerAddr, log.DefaultLogger)
			server.Start()
			defer server.Stop()

			result, err := driver.Run(ctx)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			server.SetResult(result)
			if err := simulate.PrintSummary(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}
	simulate.AddFlags(cmd.Flags(), o)
	cmd.Flags().StringVarP(&o.ServerAddr, "addr", "a", "", "Address of the API server")
	return cmd
}
