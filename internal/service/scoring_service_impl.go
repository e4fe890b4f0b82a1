package service

import (
	"context"

	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/scoring"
)

type scoringService struct {
	leads    repository.LeadRepo
	profiles repository.BusinessProfileRepo
	settings
}

func NewScoringService(leads repository.LeadRepo, profiles repository.BusinessProfileRepo, opts ...Option) ScoringService {
	return &scoringService{leads: leads, profiles: profiles, settings: newSettings(opts)}
}

func (s *scoringService) ScoreLead(ctx context.Context, id string) (*scoring.Ranked, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := loadProfile(ctx, s.profiles)
	if err != nil {
		return nil, err
	}
	return &scoring.Ranked{Lead: *l, Breakdown: scoring.Score(*l, p, s.now())}, nil
}

// Ranked scores the leads selected by f, best first.
func (s *scoringService) Ranked(ctx context.Context, f repository.LeadFilter) (ranked []scoring.Ranked, err error) {
	startedAt := s.now()
	fields := map[string]any{}
	defer func() {
		fields["count"] = len(ranked)
		s.observe(ctx, "rank-leads", startedAt, fields, err)
	}()

	leads, err := s.leads.List(ctx, f)
	if err != nil {
		return nil, err
	}
	p, err := loadProfile(ctx, s.profiles)
	if err != nil {
		return nil, err
	}
	return scoring.Rank(values(leads), p, s.now()), nil
}
