package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

func newActivityCmd(app *App) *cobra.Command {
	var leadInput string
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		Long:  "Show the activity log, newest first. With --lead only that lead's history is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				acts []*domain.Activity
				err  error
			)
			if leadInput != "" {
				id, rerr := resolveLeadID(ctx, app, leadInput)
				if rerr != nil {
					return rerr
				}
				acts, err = app.Activities.ListByLead(ctx, id)
				if err == nil && limit > 0 && len(acts) > limit {
					acts = acts[:limit]
				}
			} else {
				acts, err = app.Activities.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(acts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity yet.")
				return nil
			}

			names, err := leadNames(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(acts, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&leadInput, "lead", "", "Only show activity for this lead")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	return cmd
}

// leadNames maps every lead ID, archived included, to its display name.
func leadNames(ctx context.Context, app *App) (map[string]string, error) {
	leads, err := app.Leads.List(ctx, repository.LeadFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(leads))
	for _, l := range leads {
		names[l.ID] = l.Name
	}
	return names, nil
}
