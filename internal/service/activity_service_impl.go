package service

import (
	"context"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

type activityService struct {
	activities repository.ActivityRepo
	leads      repository.LeadRepo
}

func NewActivityService(activities repository.ActivityRepo, leads repository.LeadRepo) ActivityService {
	return &activityService{activities: activities, leads: leads}
}

// ListByLead returns the lead's activity log, newest first. An unknown lead
// is an error rather than an empty log.
func (s *activityService) ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error) {
	if _, err := s.leads.GetByID(ctx, leadID); err != nil {
		return nil, err
	}
	return s.activities.ListByLead(ctx, leadID)
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	return s.activities.ListRecent(ctx, limit)
}
