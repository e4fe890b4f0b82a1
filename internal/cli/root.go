package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Leads      service.LeadService
	Customers  service.CustomerService
	Campaigns  service.CampaignService
	Activities service.ActivityService
	Scoring    service.ScoringService
	Analytics  service.AnalyticsService
	Profile    service.ProfileService

	Money formatter.Money
	// Now is the clock used for relative dates; time.Now when nil.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal, which enables forms.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "leadpipe" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadpipe",
		Short:         "Sales pipeline, customers and campaigns for a small service business",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLeadCmd(app),
		newCustomerCmd(app),
		newCampaignCmd(app),
		newActivityCmd(app),
		newAnalyticsCmd(app),
		newProfileCmd(app),
	)

	return root
}
