package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/importer"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/service"
)

func newLeadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Manage leads",
	}

	cmd.AddCommand(
		newLeadAddCmd(app),
		newLeadListCmd(app),
		newLeadShowCmd(app),
		newLeadUpdateCmd(app),
		newLeadStageCmd(app),
		newLeadNoteCmd(app),
		newLeadContactCmd(app),
		newLeadArchiveCmd(app),
		newLeadRestoreCmd(app),
		newLeadRemoveCmd(app),
		newLeadScoreCmd(app),
		newLeadImportCmd(app),
	)

	return cmd
}

// leadFlags are the editable lead fields shared by add and update.
type leadFlags struct {
	name, email, phone, address, notes string
	priority, stage, source            string
	value, followUp                    string
}

func (f *leadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Lead name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "Property address")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (Low, Medium, High)")
	cmd.Flags().StringVar(&f.stage, "stage", "", "Funnel stage (e.g. \"New Lead\", qualified)")
	cmd.Flags().StringVar(&f.source, "source", "", "Lead source (e.g. Referral)")
	cmd.Flags().StringVar(&f.value, "value", "", "Projected contract value")
	cmd.Flags().StringVar(&f.followUp, "follow-up", "", "Follow-up date (YYYY-MM-DD)")
}

// apply copies the flags that were set on cmd onto l. With all set, every
// non-empty flag is applied regardless of Changed.
func (f *leadFlags) apply(cmd *cobra.Command, l *domain.Lead, all bool) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }

	if set("name") {
		l.Name = f.name
	}
	if set("email") {
		l.Email = f.email
	}
	if set("phone") {
		l.Phone = f.phone
	}
	if set("address") {
		l.Address = f.address
	}
	if set("notes") {
		l.Notes = f.notes
	}
	if set("priority") && f.priority != "" {
		p, err := domain.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		l.Priority = p
	}
	if set("stage") && f.stage != "" {
		s, err := domain.ParseStage(f.stage)
		if err != nil {
			return err
		}
		l.Stage = s
	}
	if set("source") {
		l.Source = domain.LeadSource(strings.TrimSpace(f.source))
	}
	if set("value") {
		v, err := parseOptionalAmount(f.value)
		if err != nil {
			return err
		}
		l.ProjectedValue = v
	}
	if set("follow-up") {
		d, err := parseOptionalDate(f.followUp)
		if err != nil {
			return err
		}
		l.FollowUpDate = d
	}
	return nil
}

func newLeadAddCmd(app *App) *cobra.Command {
	var f leadFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new lead",
		Long:  "Create a new lead. Without --name on an interactive terminal a form is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if strings.TrimSpace(f.name) == "" {
				if !app.interactive() {
					return fmt.Errorf("--name is required")
				}
				p, err := app.Profile.Get(ctx)
				if err != nil {
					return err
				}
				if err := leadForm(&f, p.LeadSources).Run(); err != nil {
					return err
				}
			}

			l := &domain.Lead{}
			if err := f.apply(cmd, l, true); err != nil {
				return err
			}
			if err := app.Leads.Create(ctx, l); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created lead %s %s\n", l.Name, formatter.TruncID(l.ID))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newLeadListCmd(app *App) *cobra.Command {
	var all bool
	var stage, priority, source, search, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.LeadFilter{IncludeArchived: all, Source: domain.LeadSource(source), Search: search}
			if stage != "" {
				s, err := domain.ParseStage(stage)
				if err != nil {
					return err
				}
				filter.Stage = s
			}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				filter.Priority = p
			}

			switch sortBy {
			case "", "created":
			case "score":
				ranked, err := app.Scoring.Ranked(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(ranked) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No leads found.")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRanked(ranked, app.now()))
				return nil
			default:
				return fmt.Errorf("invalid sort %q (expected created or score)", sortBy)
			}

			leads, err := app.Leads.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(leads) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No leads found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeadList(leads, app.Money, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived leads")
	cmd.Flags().StringVar(&stage, "stage", "", "Only leads in this stage")
	cmd.Flags().StringVar(&priority, "priority", "", "Only leads with this priority")
	cmd.Flags().StringVar(&source, "source", "", "Only leads from this source")
	cmd.Flags().StringVar(&search, "search", "", "Match name, email, phone or address")
	cmd.Flags().StringVar(&sortBy, "sort", "created", "Order by created (newest first) or score")

	return cmd
}

func newLeadShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show lead details, score and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			scored, err := app.Scoring.ScoreLead(ctx, id)
			if err != nil {
				return err
			}
			acts, err := app.Activities.ListByLead(ctx, id)
			if err != nil {
				return err
			}

			d := formatter.LeadDetail{Lead: &scored.Lead, Score: scored.Breakdown, Activities: acts}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeadDetail(d, app.Money, app.now()))
			return nil
		},
	}
}

func newLeadUpdateCmd(app *App) *cobra.Command {
	var f leadFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update lead fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Leads.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, l, false); err != nil {
				return err
			}
			if err := app.Leads.Update(ctx, l); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated lead %s\n", l.Name)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newLeadStageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stage ID STAGE",
		Short: "Move a lead to another funnel stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			stage, err := domain.ParseStage(args[1])
			if err != nil {
				return err
			}
			l, err := app.Leads.ChangeStage(ctx, id, stage)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", l.Name, formatter.StageBadge(l.Stage))
			return nil
		},
	}
}

func newLeadNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note ID TEXT...",
		Short: "Append a note to a lead",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Leads.AddNote(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added note to %s\n", l.Name)
			return nil
		},
	}
}

func newLeadContactCmd(app *App) *cobra.Command {
	var channel, subject, message string

	cmd := &cobra.Command{
		Use:   "contact ID",
		Short: "Record an email or SMS sent to a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ch, err := domain.ParseChannel(channel)
			if err != nil {
				return err
			}
			l, err := app.Leads.RecordContact(ctx, id, service.Contact{Channel: ch, Subject: subject, Message: message})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s contact with %s\n", ch, l.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "email", "Contact channel (email, sms)")
	cmd.Flags().StringVar(&subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&message, "message", "", "Message body")

	return cmd
}

func newLeadArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Leads.Archive(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Lead archived.")
			return nil
		},
	}
}

func newLeadRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Restore an archived lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Leads.Restore(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Lead restored.")
			return nil
		},
	}
}

func newLeadRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a lead (converted leads are archived instead)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			outcome, err := app.Leads.Delete(ctx, id)
			if err != nil {
				return err
			}

			switch outcome {
			case service.Archived:
				fmt.Fprintln(cmd.OutOrStdout(), "Lead is a customer; archived instead of deleted.")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Lead deleted.")
			}
			return nil
		},
	}
}

func newLeadScoreCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "score [ID]",
		Short: "Score one lead, or rank all active leads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				id, err := resolveLeadID(ctx, app, args[0])
				if err != nil {
					return err
				}
				r, err := app.Scoring.ScoreLead(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Bold(r.Lead.Name))
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScoreBreakdown(r.Breakdown))
				return nil
			}

			ranked, err := app.Scoring.Ranked(ctx, repository.LeadFilter{IncludeArchived: all})
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No leads found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRanked(ranked, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived leads")
	return cmd
}

func newLeadImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import leads from a JSON file",
		Long:  "Import a JSON array of leads. The file is validated against the embedded import schema first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			records, err := importer.Parse(data)
			if err != nil {
				return err
			}
			leads, err := importer.Convert(records, app.now())
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d lead(s) valid; nothing imported.\n", len(leads))
				return nil
			}
			n, err := app.Leads.Import(cmd.Context(), leads)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d lead(s).\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without importing")
	return cmd
}
