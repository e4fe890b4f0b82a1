package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

type campaignService struct {
	campaigns repository.CampaignRepo
	leads     repository.LeadRepo
	profiles  repository.BusinessProfileRepo
	uow       db.UnitOfWork
	settings
}

func NewCampaignService(
	campaigns repository.CampaignRepo,
	leads repository.LeadRepo,
	profiles repository.BusinessProfileRepo,
	uow db.UnitOfWork,
	opts ...Option,
) CampaignService {
	return &campaignService{
		campaigns: campaigns,
		leads:     leads,
		profiles:  profiles,
		uow:       uow,
		settings:  newSettings(opts),
	}
}

func (s *campaignService) Create(ctx context.Context, c *domain.Campaign) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "create-campaign", startedAt, map[string]any{"campaign": c.Name}, err) }()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Type == "" {
		c.Type = domain.ChannelEmail
	}
	if err = c.Validate(); err != nil {
		return err
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.campaigns.Create(ctx, c)
}

func (s *campaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *campaignService) List(ctx context.Context) ([]*domain.Campaign, error) {
	return s.campaigns.List(ctx)
}

func (s *campaignService) Update(ctx context.Context, c *domain.Campaign) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "update-campaign", startedAt, map[string]any{"campaign_id": c.ID}, err) }()

	if err = c.Validate(); err != nil {
		return err
	}
	c.UpdatedAt = s.now()
	return s.campaigns.Update(ctx, c)
}

func (s *campaignService) Delete(ctx context.Context, id string) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "delete-campaign", startedAt, map[string]any{"campaign_id": id}, err) }()

	return s.campaigns.Delete(ctx, id)
}

func (s *campaignService) SetTargeting(ctx context.Context, id string, t domain.Targeting) (c *domain.Campaign, err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "set-targeting", startedAt, map[string]any{"campaign_id": id}, err) }()

	c, err = s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, st := range t.Stages {
		if !st.Valid() {
			return nil, fmt.Errorf("invalid stage %q", st)
		}
	}
	for _, p := range t.Priorities {
		if !p.Valid() {
			return nil, fmt.Errorf("invalid priority %q", p)
		}
	}
	c.Targeting = t
	c.UpdatedAt = s.now()
	if err = s.campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Recipients lists the leads and customers the campaign targeting selects.
func (s *campaignService) Recipients(ctx context.Context, id string) ([]*domain.Lead, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recipients(ctx, s.leads, c.Targeting)
}

func (s *campaignService) recipients(ctx context.Context, leads repository.LeadRepo, t domain.Targeting) ([]*domain.Lead, error) {
	all, err := leads.List(ctx, repository.LeadFilter{IncludeArchived: true})
	if err != nil {
		return nil, err
	}
	var out []*domain.Lead
	for _, l := range all {
		if t.Matches(*l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *campaignService) Preview(ctx context.Context, id, leadID string) (Message, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return Message{}, err
	}
	l, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return Message{}, err
	}
	p, err := loadProfile(ctx, s.profiles)
	if err != nil {
		return Message{}, err
	}
	return render(c, l, p.DisplayCompanyName()), nil
}

// Send renders the campaign for every recipient that has an address on the
// campaign channel, logs a contact on each and updates the campaign metrics.
// Nothing is delivered.
func (s *campaignService) Send(ctx context.Context, id string) (result *SendResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"campaign_id": id}
	defer func() {
		if result != nil {
			fields["sent"] = len(result.Messages)
			fields["skipped"] = result.Skipped
		}
		s.observe(ctx, "send-campaign", startedAt, fields, err)
	}()

	p, err := loadProfile(ctx, s.profiles)
	if err != nil {
		return nil, err
	}
	company := p.DisplayCompanyName()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCampaigns := repository.NewSQLiteCampaignRepo(tx)
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)

		c, err := txCampaigns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		recipients, err := s.recipients(ctx, txLeads, c.Targeting)
		if err != nil {
			return err
		}

		now := s.now()
		res := &SendResult{Campaign: c}
		for _, l := range recipients {
			msg := render(c, l, company)
			if msg.To == "" {
				res.Skipped++
				continue
			}
			l.MarkContacted(now)
			if err := txLeads.Update(ctx, l); err != nil {
				return err
			}
			meta := domain.ActivityMetadata{ContactType: c.Type, Subject: msg.Subject, Message: msg.Body}
			if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityContacted, meta, now); err != nil {
				return err
			}
			res.Messages = append(res.Messages, msg)
		}

		c.Metrics.RecordSend(len(res.Messages), now)
		c.UpdatedAt = now
		if err := txCampaigns.Update(ctx, c); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordEngagement adds tracked opens, clicks and conversions to the
// campaign metrics.
func (s *campaignService) RecordEngagement(ctx context.Context, id string, e Engagement) (c *domain.Campaign, err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "record-engagement", startedAt, map[string]any{"campaign_id": id}, err) }()

	if e.Opened < 0 || e.Clicked < 0 || e.Converted < 0 {
		return nil, fmt.Errorf("engagement counts must be >= 0")
	}
	c, err = s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Metrics.Opened += e.Opened
	c.Metrics.Clicked += e.Clicked
	c.Metrics.Converted += e.Converted
	c.UpdatedAt = s.now()
	if err = s.campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// render fills the campaign template for l. SMS campaigns have no subject.
func render(c *domain.Campaign, l *domain.Lead, company string) Message {
	msg := Message{
		LeadID: l.ID,
		Name:   l.Name,
		Body:   domain.Render(c.Content, *l, company),
	}
	email, phone := l.Email, l.Phone
	if l.Customer != nil {
		email = domain.CoalesceStr(strings.TrimSpace(email), strings.TrimSpace(l.Customer.Email))
		phone = domain.CoalesceStr(strings.TrimSpace(phone), strings.TrimSpace(l.Customer.Phone))
	}
	switch c.Type {
	case domain.ChannelSMS:
		msg.To = strings.TrimSpace(phone)
	default:
		msg.To = strings.TrimSpace(email)
		msg.Subject = domain.Render(c.Subject, *l, company)
	}
	return msg
}
