package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"salescast/render"
)

func newOverviewCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Load the baseline prediction and the dashboard side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf := a.newWorkflow()
			defer wf.Close()
			d := a.newDashboard()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				select {
				case <-wf.Mount():
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			g.Go(func() error {
				// a load failure is rendered, not returned
				_ = d.Mount(ctx)
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Prediction(wf.Snapshot()))
			fmt.Fprintln(out, render.Dashboard(d, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 40, "Bar width in columns")
	return cmd
}
