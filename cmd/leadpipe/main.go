package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/leadpipe/internal/cli"
	"github.com/alexanderramin/leadpipe/internal/cli/formatter"
	"github.com/alexanderramin/leadpipe/internal/config"
	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	leadRepo := repository.NewSQLiteLeadRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	campaignRepo := repository.NewSQLiteCampaignRepo(database)
	profileRepo := repository.NewSQLiteBusinessProfileRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var opts []service.Option
	if cfg.Log.Enabled {
		level, err := cfg.Log.SlogLevel()
		if err != nil {
			return err
		}
		opts = append(opts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr, level)))
	}

	app := &cli.App{
		Leads:      service.NewLeadService(leadRepo, uow, opts...),
		Customers:  service.NewCustomerService(leadRepo, uow, opts...),
		Campaigns:  service.NewCampaignService(campaignRepo, leadRepo, profileRepo, uow, opts...),
		Activities: service.NewActivityService(activityRepo, leadRepo),
		Scoring:    service.NewScoringService(leadRepo, profileRepo, opts...),
		Analytics:  service.NewAnalyticsService(leadRepo, activityRepo, opts...),
		Profile:    service.NewProfileService(profileRepo, opts...),
		Money:      formatter.NewMoney(cfg.Currency),
	}

	// Forms are only offered on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
