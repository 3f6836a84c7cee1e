package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescast/render"
	"salescast/static"
	"salescast/workflow"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		xlsx  string
		width int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the sales statistics as bar charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.newDashboard()
			if err := d.Mount(cmd.Context()); err != nil && xlsx != "" {
				return err
			}

			if xlsx == "" {
				fmt.Fprintln(cmd.OutOrStdout(), render.Dashboard(d, width))
				return nil
			}
			charts, err := d.Charts()
			if err != nil {
				return err
			}
			if err := render.SaveWorkbook(xlsx, charts); err != nil {
				return fmt.Errorf("export %s: %w", xlsx, err)
			}
			a.logger.Info("dashboard exported", zap.String("path", xlsx))
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Write the charts to an Excel workbook instead of the terminal")
	cmd.Flags().IntVar(&width, "width", 40, "Bar width in columns")
	return cmd
}

func (a *app) newDashboard() *workflow.Dashboard {
	return workflow.NewDashboard(static.NewSource(a.cfg.Client.StaticURL, nil, a.logger), a.logger)
}
