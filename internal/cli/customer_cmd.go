package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/export"
	"github.com/alexanderramin/leadpipe/internal/service"
)

func newCustomerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	cmd.AddCommand(
		newCustomerConvertCmd(app),
		newCustomerAddCmd(app),
		newCustomerListCmd(app),
		newCustomerShowCmd(app),
		newCustomerArchiveCmd(app),
		newCustomerRestoreCmd(app),
		newCustomerRemoveCmd(app),
		newCustomerExportCmd(app),
	)

	return cmd
}

type customerFlags struct {
	first, last, company, email, phone string
	service, frequency, measurement    string
	property, billing                  addressFlags
	items                              []string
	notes                              string
}

type addressFlags struct {
	street1, street2, city, state, zip string
}

func (a *addressFlags) register(fs *pflag.FlagSet, prefix, what string) {
	fs.StringVar(&a.street1, prefix+"street", "", what+" street")
	fs.StringVar(&a.street2, prefix+"street2", "", what+" street, second line")
	fs.StringVar(&a.city, prefix+"city", "", what+" city")
	fs.StringVar(&a.state, prefix+"state", "", what+" state")
	fs.StringVar(&a.zip, prefix+"zip", "", what+" ZIP code")
}

func (a addressFlags) address() domain.Address {
	return domain.Address{Street1: a.street1, Street2: a.street2, City: a.city, State: a.state, ZipCode: a.zip}
}

func (f *customerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.first, "first-name", "", "Customer first name")
	cmd.Flags().StringVar(&f.last, "last-name", "", "Customer last name")
	cmd.Flags().StringVar(&f.company, "company", "", "Company name")
	cmd.Flags().StringVar(&f.email, "email", "", "Customer email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&f.service, "service", "", "Service type (job title)")
	cmd.Flags().StringVar(&f.frequency, "frequency", "", "Service frequency (One-Time, Annually, Semi-Annually, Quarterly, Bi-Monthly, Monthly)")
	cmd.Flags().StringVar(&f.measurement, "measurement", "", "Service measurement value")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "Line item as description=price (repeatable)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Customer notes")
	f.property.register(cmd.Flags(), "", "Property")
	f.billing.register(cmd.Flags(), "billing-", "Billing")
}

func (f *customerFlags) data() (domain.CustomerData, error) {
	items, err := parseLineItems(f.items)
	if err != nil {
		return domain.CustomerData{}, err
	}
	c := domain.CustomerData{
		FirstName:        f.first,
		LastName:         f.last,
		CompanyName:      f.company,
		Email:            f.email,
		Phone:            f.phone,
		JobTitle:         f.service,
		MeasurementValue: f.measurement,
		PropertyAddress:  f.property.address(),
		LineItems:        items,
		Notes:            f.notes,
	}
	if f.frequency != "" {
		freq, err := domain.ParseServiceFrequency(f.frequency)
		if err != nil {
			return domain.CustomerData{}, err
		}
		c.JobType = freq
	}
	if b := f.billing.address(); !b.IsZero() {
		c.BillingAddress = &b
	}
	return c, nil
}

func newCustomerConvertCmd(app *App) *cobra.Command {
	var f customerFlags

	cmd := &cobra.Command{
		Use:   "convert LEAD_ID",
		Short: "Convert a lead into a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			data, err := f.data()
			if err != nil {
				return err
			}
			l, err := app.Customers.Convert(ctx, id, data)
			if err != nil {
				return err
			}
			value, err := app.Customers.Value(ctx, l.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to a customer (contract value %s)\n", l.Name, app.Money.Format(value))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newCustomerAddCmd(app *App) *cobra.Command {
	var f customerFlags
	var source string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer directly, without a lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := f.data()
			if err != nil {
				return err
			}
			l, err := app.Customers.AddDirect(cmd.Context(), data, domain.LeadSource(source))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added customer %s %s\n", l.Name, formatter.TruncID(l.ID))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "Lead source")
	return cmd
}

func newCustomerListCmd(app *App) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := app.Customers.List(cmd.Context(), archived)
			if err != nil {
				return err
			}
			if len(customers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No customers found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCustomerList(customers, app.Money))
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "List archived customers instead")
	return cmd
}

func newCustomerShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show customer details and contract value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Customers.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCustomerDetail(l, app.Money))
			return nil
		},
	}
}

func newCustomerArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Customers.Archive(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Customer archived.")
			return nil
		},
	}
}

func newCustomerRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ID",
		Short: "Restore an archived customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Customers.Restore(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Customer restored.")
			return nil
		},
	}
}

func newCustomerRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a customer",
		Long:  "Delete a customer. Direct customers are removed; converted leads lose their customer record and are marked Closed-Lost.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveLeadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			outcome, err := app.Customers.Delete(ctx, id)
			if err != nil {
				return err
			}

			switch outcome {
			case service.Reverted:
				fmt.Fprintln(cmd.OutOrStdout(), "Customer record removed; lead kept as Closed-Lost.")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Customer deleted.")
			}
			return nil
		},
	}
}

func newCustomerExportCmd(app *App) *cobra.Command {
	var archived bool

	cmd := &cobra.Command{
		Use:   "export FILE.xlsx",
		Short: "Export customers and service revenue to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := app.Customers.List(cmd.Context(), archived)
			if err != nil {
				return err
			}
			rows := make([]domain.Lead, len(customers))
			for i, c := range customers {
				rows[i] = *c
			}
			if err := export.SaveFile(args[0], rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d customer(s) to %s\n", len(rows), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Export archived customers instead")
	return cmd
}
