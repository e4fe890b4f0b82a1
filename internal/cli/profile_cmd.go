package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/profile"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the business profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, app)
		},
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSetCmd(app),
		newProfileServiceCmd(app),
		newProfileImportCmd(app),
		newProfileExportCmd(app),
	)

	return cmd
}

func showProfile(cmd *cobra.Command, app *App) error {
	p, err := app.Profile.Get(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(p, app.Money))
	return nil
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the business profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, app)
		},
	}
}

func newProfileSetCmd(app *App) *cobra.Command {
	var (
		name, company, industry, crm, website string
		avg                                   float64
		sources, frequencies                  []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update business profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("company") {
				p.CompanyName = company
			}
			if flags.Changed("industry") {
				p.Industry = domain.Industry(industry)
			}
			if flags.Changed("crm") {
				p.CRM = crm
			}
			if flags.Changed("website") {
				p.Website = website
			}
			p.AvgContractValue = domain.Float64FromPtrWithDefault(p.AvgContractValue, changedFloat(flags, "avg-value", avg))
			if flags.Changed("source") {
				p.LeadSources = sources
			}
			if flags.Changed("frequency") {
				p.ServiceFrequencies = frequencies
			}

			if err := app.Profile.Save(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Business name")
	cmd.Flags().StringVar(&company, "company", "", "Company name used in campaigns")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry (Home Service, SaaS, Other)")
	cmd.Flags().StringVar(&crm, "crm", "", "CRM in use")
	cmd.Flags().StringVar(&website, "website", "", "Website")
	cmd.Flags().Float64Var(&avg, "avg-value", 0, "Average contract value; 0 uses fixed scoring thresholds")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Lead sources offered in forms")
	cmd.Flags().StringSliceVar(&frequencies, "frequency", nil, "Service frequencies offered")
	return cmd
}

func newProfileServiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the services the business sells",
	}

	var label, kind string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}
			svc := domain.Service{Name: strings.TrimSpace(args[0])}
			if label != "" {
				svc.MeasurementField = &domain.MeasurementField{Label: label, Type: domain.MeasurementType(kind)}
			}
			p.Services = append(p.Services, svc)
			if err := app.Profile.Save(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added service %s\n", svc.Name)
			return nil
		},
	}
	add.Flags().StringVar(&label, "measurement", "", "Measurement label (e.g. \"Window count\")")
	add.Flags().StringVar(&kind, "measurement-type", string(domain.MeasurementNumber), "Measurement type (number, text)")

	rm := &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}
			if _, ok := p.FindService(args[0]); !ok {
				return fmt.Errorf("service not found: %q", args[0])
			}
			p.Services = slices.DeleteFunc(p.Services, func(s domain.Service) bool {
				return strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(args[0]))
			})
			if err := app.Profile.Save(ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service removed.")
			return nil
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newProfileImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.yaml",
		Short: "Replace the business profile from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening profile: %w", err)
			}
			defer f.Close()

			p, err := app.Profile.ImportYAML(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %s\n", p.DisplayCompanyName())
			return nil
		},
	}
}

func newProfileExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE.yaml]",
		Short: "Write the business profile as YAML to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				return app.Profile.ExportYAML(ctx, cmd.OutOrStdout())
			}
			p, err := app.Profile.Get(ctx)
			if err != nil {
				return err
			}
			if err := profile.SaveFile(args[0], p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported profile to %s\n", args[0])
			return nil
		},
	}
}
