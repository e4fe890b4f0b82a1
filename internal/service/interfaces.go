package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/alexanderramin/leadpipe/internal/analytics"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/scoring"
)

var (
	ErrNotCustomer     = errors.New("lead is not a customer")
	ErrAlreadyCustomer = errors.New("lead is already a customer")
)

// DeleteOutcome says what a delete request actually did.
type DeleteOutcome string

const (
	// Deleted means the record and its activities are gone.
	Deleted DeleteOutcome = "deleted"
	// Archived means the lead was converted and was archived instead.
	Archived DeleteOutcome = "archived"
	// Reverted means the lead lost its customer record and stays as a lost lead.
	Reverted DeleteOutcome = "reverted"
)

// Contact describes one outreach to a lead.
type Contact struct {
	Channel domain.Channel
	Subject string
	Message string
}

type LeadService interface {
	Create(ctx context.Context, l *domain.Lead) error
	Get(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, f repository.LeadFilter) ([]*domain.Lead, error)
	Update(ctx context.Context, l *domain.Lead) error
	ChangeStage(ctx context.Context, id string, to domain.Stage) (*domain.Lead, error)
	AddNote(ctx context.Context, id, note string) (*domain.Lead, error)
	RecordContact(ctx context.Context, id string, c Contact) (*domain.Lead, error)
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (DeleteOutcome, error)
	Import(ctx context.Context, leads []*domain.Lead) (int, error)
}

type CustomerService interface {
	Convert(ctx context.Context, leadID string, data domain.CustomerData) (*domain.Lead, error)
	AddDirect(ctx context.Context, data domain.CustomerData, source domain.LeadSource) (*domain.Lead, error)
	Get(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, archived bool) ([]*domain.Lead, error)
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (DeleteOutcome, error)
	Value(ctx context.Context, id string) (float64, error)
}

// Message is a campaign rendered for one recipient.
type Message struct {
	LeadID  string
	Name    string
	To      string
	Subject string
	Body    string
}

type SendResult struct {
	Campaign *domain.Campaign
	Messages []Message
	// Skipped counts recipients without an address for the campaign channel.
	Skipped int
}

// Engagement is a batch of tracked responses to a campaign.
type Engagement struct {
	Opened    int
	Clicked   int
	Converted int
}

type CampaignService interface {
	Create(ctx context.Context, c *domain.Campaign) error
	Get(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id string) error
	SetTargeting(ctx context.Context, id string, t domain.Targeting) (*domain.Campaign, error)
	Recipients(ctx context.Context, id string) ([]*domain.Lead, error)
	Preview(ctx context.Context, id, leadID string) (Message, error)
	Send(ctx context.Context, id string) (*SendResult, error)
	RecordEngagement(ctx context.Context, id string, e Engagement) (*domain.Campaign, error)
}

type ActivityService interface {
	ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error)
}

type ScoringService interface {
	ScoreLead(ctx context.Context, id string) (*scoring.Ranked, error)
	Ranked(ctx context.Context, f repository.LeadFilter) ([]scoring.Ranked, error)
}

// Dashboard is the analytics snapshot shown by the analytics command.
type Dashboard struct {
	GeneratedAt time.Time
	Metrics     analytics.Metrics
	Services    []analytics.ServiceRevenue
	Stages      []analytics.StageCount
	Sources     []analytics.SourceCount
	Trend       []analytics.MonthRate
	Recent      []*domain.Activity
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.BusinessProfile, error)
	Save(ctx context.Context, p *domain.BusinessProfile) error
	ImportYAML(ctx context.Context, r io.Reader) (*domain.BusinessProfile, error)
	ExportYAML(ctx context.Context, w io.Writer) error
}
