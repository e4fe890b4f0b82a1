package service

import (
	"context"

	"github.com/alexanderramin/leadpipe/internal/analytics"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

// RecentActivityLimit is how many activities the dashboard timeline shows.
const RecentActivityLimit = 50

type analyticsService struct {
	leads      repository.LeadRepo
	activities repository.ActivityRepo
	settings
}

func NewAnalyticsService(leads repository.LeadRepo, activities repository.ActivityRepo, opts ...Option) AnalyticsService {
	return &analyticsService{leads: leads, activities: activities, settings: newSettings(opts)}
}

// Dashboard computes every metric over all leads, archived ones included.
func (s *analyticsService) Dashboard(ctx context.Context) (d *Dashboard, err error) {
	startedAt := s.now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "dashboard", startedAt, fields, err) }()

	all, err := s.leads.List(ctx, repository.LeadFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	recent, err := s.activities.ListRecent(ctx, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	fields["leads"] = len(all)

	leads := values(all)
	now := s.now()
	return &Dashboard{
		GeneratedAt: now,
		Metrics:     analytics.Summarize(leads),
		Services:    analytics.ServiceBreakdown(leads),
		Stages:      analytics.LeadsByStage(leads),
		Sources:     analytics.LeadSources(leads),
		Trend:       analytics.ConversionTrend(leads, now, analytics.DefaultTrendMonths),
		Recent:      recent,
	}, nil
}
