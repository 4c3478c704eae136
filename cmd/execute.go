package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/infra/logger"
)

// demoFestivals is the sequence run when no festival is given.
var demoFestivals = []string{
	discount.AprilFoolsDay,
	discount.MidAutumnFestival,
	discount.SpringFestival,
}

func newExecuteCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "execute [festival...]",
		Short: "Apply the discount of each festival",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = demoFestivals
			}
			out := cmd.OutOrStdout()
			svc, err := opts.service(out)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					logger.New("execute").Errorf("service close: %v", err)
				}
			}()

			var missed []string
			for _, festival := range args {
				fmt.Fprintf(out, "%s is here!\n", festival)
				_, err := svc.Registry.Execute(festival)
				if errors.Is(err, discount.ErrNoActivePromotion) {
					fmt.Fprintln(out, err.Error())
					missed = append(missed, festival)
					continue
				}
				if err != nil {
					return err
				}
			}
			if strict && len(missed) > 0 {
				return fmt.Errorf("%d festival(s) without promotion: %q", len(missed), missed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a festival has no active promotion")
	return cmd
}
