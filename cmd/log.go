package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/promo/config"
	"github.com/kilianp07/promo/core/audit"
	"github.com/kilianp07/promo/pkg/export"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	var (
		q      audit.Query
		since  time.Duration
		format string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the audit log of promotion executions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Audit.Backend == audit.BackendNone {
				return fmt.Errorf("audit log disabled: set audit.backend to %q or %q", audit.BackendJSONL, audit.BackendSQLite)
			}
			store, err := audit.Open(cfg.Audit)
			if err != nil {
				return err
			}
			defer store.Close()

			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			records, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return export.WriteJSON(cmd.OutOrStdout(), records)
			case "csv":
				return export.WriteCSV(cmd.OutOrStdout(), records)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&q.Festival, "festival", "", "only this festival")
	cmd.Flags().StringVar(&q.Outcome, "outcome", "", "only this outcome (applied, no_promotion)")
	cmd.Flags().DurationVar(&since, "since", 0, "only records newer than this")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	return cmd
}
