package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "analytics",
		Aliases: []string{"dashboard"},
		Short:   "Show pipeline, revenue and conversion analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := app.Analytics.Dashboard(ctx)
			if err != nil {
				return err
			}
			names, err := leadNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(d, app.Money, names))
			return nil
		},
	}
}
