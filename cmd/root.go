package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/promo/app"
	"github.com/kilianp07/promo/config"
)

type rootOptions struct {
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "promo",
		Short:         "Festival promotion service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(newExecuteCmd(opts), newListCmd(opts), newLogCmd(opts), newServeCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

func (o *rootOptions) service(stdout io.Writer) (*app.Service, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg, stdout)
}
