package repository

import (
	"context"

	"github.com/alexanderramin/leadpipe/internal/domain"
)

// LeadFilter narrows List. Zero values match everything except archived
// leads.
type LeadFilter struct {
	IncludeArchived bool
	Stage           domain.Stage
	Priority        domain.Priority
	Source          domain.LeadSource
	// Search matches name, email, phone or address, ignoring case.
	Search string
}

type LeadRepo interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, f LeadFilter) ([]*domain.Lead, error)
	ListCustomers(ctx context.Context, archived bool) ([]*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error)
	DeleteByLead(ctx context.Context, leadID string) error
}

type CampaignRepo interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id string) error
}

type BusinessProfileRepo interface {
	Get(ctx context.Context) (*domain.BusinessProfile, error)
	Upsert(ctx context.Context, p *domain.BusinessProfile) error
}
