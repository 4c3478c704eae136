package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/promo/core/discount"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered festivals and their discounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service(nil)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			entries := svc.Registry.Entries()
			sum := discount.Summarize(svc.Registry)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Promotions []discount.Entry `json:"promotions"`
					Summary    discount.Summary `json:"summary"`
				}{entries, sum})
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FESTIVAL\tPRICE")
			for _, e := range entries {
				price := "-"
				if e.PricePercent > 0 {
					price = fmt.Sprintf("%d%%", e.PricePercent)
				}
				fmt.Fprintf(tw, "%s\t%s\n", e.Festival, price)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if sum.Priced > 0 {
				fmt.Fprintf(out, "\n%d festivals, average price %.1f%% (min %.0f%%, max %.0f%%, stddev %.1f)\n",
					sum.Festivals, sum.MeanPricePercent, sum.MinPricePercent, sum.MaxPricePercent, sum.StdDevPricePercent)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
