package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/service"
)

func newCampaignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage email and SMS campaigns",
	}

	cmd.AddCommand(
		newCampaignAddCmd(app),
		newCampaignListCmd(app),
		newCampaignShowCmd(app),
		newCampaignEditCmd(app),
		newCampaignTargetCmd(app),
		newCampaignRecipientsCmd(app),
		newCampaignPreviewCmd(app),
		newCampaignSendCmd(app),
		newCampaignMetricsCmd(app),
		newCampaignRemoveCmd(app),
	)

	return cmd
}

func newCampaignAddCmd(app *App) *cobra.Command {
	var name, channel, subject, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a campaign",
		Long: "Create a campaign. Subject and content may use the variables " +
			fmt.Sprint(domain.TemplateVariables()) + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := domain.ParseChannel(channel)
			if err != nil {
				return err
			}
			c := &domain.Campaign{Name: name, Type: ch, Subject: subject, Content: content}
			if err := app.Campaigns.Create(cmd.Context(), c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created campaign %s %s\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Campaign name")
	cmd.Flags().StringVar(&channel, "type", string(domain.ChannelEmail), "Channel (email, sms)")
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&content, "content", "", "Message body")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newCampaignListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			campaigns, err := app.Campaigns.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(campaigns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No campaigns found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCampaignList(campaigns))
			return nil
		},
	}
}

func newCampaignShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Campaigns.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCampaignDetail(c))
			return nil
		},
	}
}

func newCampaignEditCmd(app *App) *cobra.Command {
	var name, subject, content string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a campaign's name, subject or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Campaigns.Get(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("subject") {
				c.Subject = subject
			}
			if cmd.Flags().Changed("content") {
				c.Content = content
			}
			if err := app.Campaigns.Update(ctx, c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Campaign updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Campaign name")
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&content, "content", "", "Message body")
	return cmd
}

func newCampaignTargetCmd(app *App) *cobra.Command {
	var (
		stages, priorities, sources []string
		customers                   bool
		services, frequencies       []string
	)

	cmd := &cobra.Command{
		Use:   "target ID",
		Short: "Set who a campaign reaches",
		Long:  "Set who a campaign reaches. Omitted filters match everything; customers are only reached with --customers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := parseStages(stages)
			if err != nil {
				return err
			}
			pr, err := parsePriorities(priorities)
			if err != nil {
				return err
			}
			fr, err := parseFrequencies(frequencies)
			if err != nil {
				return err
			}

			c, err := app.Campaigns.SetTargeting(ctx, id, domain.Targeting{
				Stages:              st,
				Priorities:          pr,
				Sources:             toSources(sources),
				IncludeCustomers:    customers,
				CustomerServices:    services,
				CustomerFrequencies: fr,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Targeting: %s\n", formatter.FormatTargeting(c.Targeting))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&stages, "stage", nil, "Lead stages to include")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Lead priorities to include")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Lead sources to include")
	cmd.Flags().BoolVar(&customers, "customers", false, "Include active customers")
	cmd.Flags().StringSliceVar(&services, "service", nil, "Customer service types to include")
	cmd.Flags().StringSliceVar(&frequencies, "frequency", nil, "Customer service frequencies to include")
	return cmd
}

func newCampaignRecipientsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recipients ID",
		Short: "List the leads and customers a campaign would reach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			leads, err := app.Campaigns.Recipients(ctx, id)
			if err != nil {
				return err
			}
			if len(leads) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipients match.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeadList(leads, app.Money, app.now()))
			return nil
		},
	}
}

func newCampaignPreviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview ID LEAD_ID",
		Short: "Render a campaign for one lead",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			leadID, err := resolveLeadID(ctx, app, args[1])
			if err != nil {
				return err
			}
			msg, err := app.Campaigns.Preview(ctx, id, leadID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMessage(msg))
			return nil
		},
	}
}

func newCampaignSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send ID",
		Short: "Send a campaign to its recipients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Campaigns.Send(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSendResult(res))
			return nil
		},
	}
}

func newCampaignMetricsCmd(app *App) *cobra.Command {
	var e service.Engagement

	cmd := &cobra.Command{
		Use:   "metrics ID",
		Short: "Show campaign metrics, optionally recording engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var c *domain.Campaign
			if e != (service.Engagement{}) {
				c, err = app.Campaigns.RecordEngagement(ctx, id, e)
			} else {
				c, err = app.Campaigns.Get(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCampaignMetrics(c))
			return nil
		},
	}

	cmd.Flags().IntVar(&e.Opened, "opened", 0, "Opens to add")
	cmd.Flags().IntVar(&e.Clicked, "clicked", 0, "Clicks to add")
	cmd.Flags().IntVar(&e.Converted, "converted", 0, "Conversions to add")
	return cmd
}

func newCampaignRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCampaignID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Campaigns.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Campaign deleted.")
			return nil
		},
	}
}
