package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/valuation"
)

type customerService struct {
	leads repository.LeadRepo
	uow   db.UnitOfWork
	settings
}

func NewCustomerService(leads repository.LeadRepo, uow db.UnitOfWork, opts ...Option) CustomerService {
	return &customerService{leads: leads, uow: uow, settings: newSettings(opts)}
}

// Convert attaches data to an existing lead and closes it as won.
func (s *customerService) Convert(ctx context.Context, leadID string, data domain.CustomerData) (lead *domain.Lead, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": leadID, "service": data.JobTitle}
	defer func() { s.observe(ctx, "convert-lead", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)

		l, err := txLeads.GetByID(ctx, leadID)
		if err != nil {
			return err
		}
		if l.IsCustomer() {
			return fmt.Errorf("%s: %w", l.Name, ErrAlreadyCustomer)
		}

		now := s.now()
		from := l.Stage
		l.Convert(data, now)
		if err := cleanContactInfo(l); err != nil {
			return err
		}
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		if from != l.Stage {
			meta := domain.ActivityMetadata{OldStage: from, NewStage: l.Stage}
			if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityStageChanged, meta, now); err != nil {
				return err
			}
		}
		if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityConverted, domain.ActivityMetadata{}, now); err != nil {
			return err
		}
		lead = l
		return nil
	})
	return lead, err
}

// AddDirect creates a customer that never went through the funnel.
func (s *customerService) AddDirect(ctx context.Context, data domain.CustomerData, source domain.LeadSource) (lead *domain.Lead, err error) {
	startedAt := s.now()
	fields := map[string]any{"service": data.JobTitle}
	defer func() { s.observe(ctx, "add-direct-customer", startedAt, fields, err) }()

	name := domain.CoalesceStr(data.FullName(), strings.TrimSpace(data.CompanyName))
	if name == "" {
		return nil, fmt.Errorf("customer name or company is required")
	}
	now := s.now()
	l := &domain.Lead{
		ID:               uuid.New().String(),
		Name:             name,
		Email:            data.Email,
		Phone:            data.Phone,
		Address:          data.PropertyAddress.String(),
		Priority:         domain.PriorityMedium,
		Source:           domain.LeadSource(domain.CoalesceStr(strings.TrimSpace(string(source)), string(domain.SourceOther))),
		IsDirectCustomer: true,
		CreatedAt:        now,
	}
	l.Convert(data, now)
	if err = cleanContactInfo(l); err != nil {
		return nil, err
	}
	if err = l.Validate(); err != nil {
		return nil, err
	}
	fields["lead_id"] = l.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteLeadRepo(tx).Create(ctx, l); err != nil {
			return err
		}
		txActivities := repository.NewSQLiteActivityRepo(tx)
		if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityCreated, domain.ActivityMetadata{}, now); err != nil {
			return err
		}
		return recordActivity(ctx, txActivities, l.ID, domain.ActivityConverted, domain.ActivityMetadata{}, now)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsCustomer() {
		return nil, fmt.Errorf("%s: %w", l.Name, ErrNotCustomer)
	}
	return l, nil
}

func (s *customerService) List(ctx context.Context, archived bool) ([]*domain.Lead, error) {
	return s.leads.ListCustomers(ctx, archived)
}

func (s *customerService) Archive(ctx context.Context, id string) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "archive-customer", startedAt, map[string]any{"lead_id": id}, err) }()

	return s.mutate(ctx, id, domain.ActivityArchived, func(l *domain.Lead) error {
		return l.ArchiveCustomer(s.now())
	})
}

func (s *customerService) Restore(ctx context.Context, id string) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "restore-customer", startedAt, map[string]any{"lead_id": id}, err) }()

	return s.mutate(ctx, id, domain.ActivityRestored, func(l *domain.Lead) error {
		return l.RestoreCustomer(s.now())
	})
}

// Delete removes a direct customer entirely. A converted lead keeps its lead
// record but loses the customer data and is marked lost.
func (s *customerService) Delete(ctx context.Context, id string) (outcome DeleteOutcome, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": id}
	defer func() {
		fields["outcome"] = string(outcome)
		s.observe(ctx, "delete-customer", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)

		l, err := txLeads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !l.IsCustomer() {
			return fmt.Errorf("%s: %w", l.Name, ErrNotCustomer)
		}
		if l.IsDirectCustomer {
			if err := txActivities.DeleteByLead(ctx, id); err != nil {
				return err
			}
			outcome = Deleted
			return txLeads.Delete(ctx, id)
		}

		now := s.now()
		from := l.Stage
		l.RevertConversion(now)
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		outcome = Reverted
		meta := domain.ActivityMetadata{OldStage: from, NewStage: l.Stage}
		return recordActivity(ctx, txActivities, id, domain.ActivityStageChanged, meta, now)
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (s *customerService) Value(ctx context.Context, id string) (float64, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return valuation.ContractValue(*l), nil
}

func (s *customerService) mutate(ctx context.Context, id string, typ domain.ActivityType, fn func(l *domain.Lead) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		l, err := txLeads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		return recordActivity(ctx, repository.NewSQLiteActivityRepo(tx), id, typ, domain.ActivityMetadata{}, l.UpdatedAt)
	})
}
