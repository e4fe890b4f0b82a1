package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

type leadService struct {
	leads repository.LeadRepo
	uow   db.UnitOfWork
	settings
}

func NewLeadService(leads repository.LeadRepo, uow db.UnitOfWork, opts ...Option) LeadService {
	return &leadService{leads: leads, uow: uow, settings: newSettings(opts)}
}

func (s *leadService) Create(ctx context.Context, l *domain.Lead) (err error) {
	startedAt := s.now()
	fields := map[string]any{"lead": l.Name}
	defer func() { s.observe(ctx, "create-lead", startedAt, fields, err) }()

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	fields["lead_id"] = l.ID
	now := s.now()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Priority == "" {
		l.Priority = domain.PriorityMedium
	}
	if l.Stage == "" {
		l.Stage = domain.StageNewLead
	}
	if l.Source == "" {
		l.Source = domain.SourceOther
	}
	if err = cleanContactInfo(l); err != nil {
		return err
	}
	if err = l.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteLeadRepo(tx).Create(ctx, l); err != nil {
			return err
		}
		return recordActivity(ctx, repository.NewSQLiteActivityRepo(tx), l.ID, domain.ActivityCreated, domain.ActivityMetadata{}, now)
	})
}

func (s *leadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return s.leads.GetByID(ctx, id)
}

func (s *leadService) List(ctx context.Context, f repository.LeadFilter) ([]*domain.Lead, error) {
	return s.leads.List(ctx, f)
}

// Update saves edited lead fields. A changed stage is logged as a stage
// change in addition to the update.
func (s *leadService) Update(ctx context.Context, l *domain.Lead) (err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": l.ID}
	defer func() { s.observe(ctx, "update-lead", startedAt, fields, err) }()

	if err = cleanContactInfo(l); err != nil {
		return err
	}
	if err = l.Validate(); err != nil {
		return err
	}
	now := s.now()
	l.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)

		stored, err := txLeads.GetByID(ctx, l.ID)
		if err != nil {
			return err
		}
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		if stored.Stage != l.Stage {
			meta := domain.ActivityMetadata{OldStage: stored.Stage, NewStage: l.Stage}
			if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityStageChanged, meta, now); err != nil {
				return err
			}
		}
		return recordActivity(ctx, txActivities, l.ID, domain.ActivityUpdated, domain.ActivityMetadata{}, now)
	})
}

func (s *leadService) ChangeStage(ctx context.Context, id string, to domain.Stage) (lead *domain.Lead, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": id, "stage": string(to)}
	defer func() { s.observe(ctx, "change-stage", startedAt, fields, err) }()

	err = s.mutate(ctx, id, func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error) {
		from, err := l.ChangeStage(to, s.now())
		if err != nil {
			return "", domain.ActivityMetadata{}, err
		}
		fields["from"] = string(from)
		return domain.ActivityStageChanged, domain.ActivityMetadata{OldStage: from, NewStage: to}, nil
	}, &lead)
	return lead, err
}

func (s *leadService) AddNote(ctx context.Context, id, note string) (lead *domain.Lead, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": id}
	defer func() { s.observe(ctx, "add-note", startedAt, fields, err) }()

	err = s.mutate(ctx, id, func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error) {
		if err := l.AppendNote(note, s.now()); err != nil {
			return "", domain.ActivityMetadata{}, err
		}
		return domain.ActivityNoteAdded, domain.ActivityMetadata{Note: note}, nil
	}, &lead)
	return lead, err
}

func (s *leadService) RecordContact(ctx context.Context, id string, c Contact) (lead *domain.Lead, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": id, "channel": string(c.Channel)}
	defer func() { s.observe(ctx, "record-contact", startedAt, fields, err) }()

	if c.Channel != domain.ChannelEmail && c.Channel != domain.ChannelSMS {
		return nil, fmt.Errorf("invalid contact channel %q", c.Channel)
	}
	err = s.mutate(ctx, id, func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error) {
		l.MarkContacted(s.now())
		meta := domain.ActivityMetadata{ContactType: c.Channel, Message: c.Message}
		if c.Channel == domain.ChannelEmail {
			meta.Subject = c.Subject
		}
		return domain.ActivityContacted, meta, nil
	}, &lead)
	return lead, err
}

func (s *leadService) Archive(ctx context.Context, id string) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "archive-lead", startedAt, map[string]any{"lead_id": id}, err) }()

	return s.mutate(ctx, id, func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error) {
		return domain.ActivityArchived, domain.ActivityMetadata{}, l.Archive(s.now())
	}, nil)
}

func (s *leadService) Restore(ctx context.Context, id string) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "restore-lead", startedAt, map[string]any{"lead_id": id}, err) }()

	return s.mutate(ctx, id, func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error) {
		return domain.ActivityRestored, domain.ActivityMetadata{}, l.Restore(s.now())
	}, nil)
}

// Delete removes a lead and its activity log. Converted leads carry customer
// history and are archived instead.
func (s *leadService) Delete(ctx context.Context, id string) (outcome DeleteOutcome, err error) {
	startedAt := s.now()
	fields := map[string]any{"lead_id": id}
	defer func() {
		fields["outcome"] = string(outcome)
		s.observe(ctx, "delete-lead", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)

		l, err := txLeads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l.ConvertedToCustomer {
			if l.Archived {
				outcome = Archived
				return nil
			}
			now := s.now()
			if err := l.Archive(now); err != nil {
				return err
			}
			if err := txLeads.Update(ctx, l); err != nil {
				return err
			}
			outcome = Archived
			return recordActivity(ctx, txActivities, id, domain.ActivityArchived, domain.ActivityMetadata{}, now)
		}
		if err := txActivities.DeleteByLead(ctx, id); err != nil {
			return err
		}
		if err := txLeads.Delete(ctx, id); err != nil {
			return err
		}
		outcome = Deleted
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// Import stores already converted leads in one transaction. Each gets a
// created activity, plus converted for leads imported as customers.
func (s *leadService) Import(ctx context.Context, leads []*domain.Lead) (n int, err error) {
	startedAt := s.now()
	fields := map[string]any{"count": len(leads)}
	defer func() { s.observe(ctx, "import-leads", startedAt, fields, err) }()

	for _, l := range leads {
		if err = cleanContactInfo(l); err != nil {
			return 0, fmt.Errorf("lead %q: %w", l.Name, err)
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)
		txActivities := repository.NewSQLiteActivityRepo(tx)
		for _, l := range leads {
			if err := txLeads.Create(ctx, l); err != nil {
				return fmt.Errorf("creating lead %q: %w", l.Name, err)
			}
			if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityCreated, domain.ActivityMetadata{}, l.CreatedAt); err != nil {
				return err
			}
			if l.ConvertedToCustomer {
				if err := recordActivity(ctx, txActivities, l.ID, domain.ActivityConverted, domain.ActivityMetadata{}, l.CreatedAt); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(leads), nil
}

// mutate loads lead id inside a transaction, applies fn, saves the lead and
// logs the activity fn returns. The saved lead is stored in out when non-nil.
func (s *leadService) mutate(ctx context.Context, id string, fn func(l *domain.Lead) (domain.ActivityType, domain.ActivityMetadata, error), out **domain.Lead) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLeads := repository.NewSQLiteLeadRepo(tx)

		l, err := txLeads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		typ, meta, err := fn(l)
		if err != nil {
			return err
		}
		if err := txLeads.Update(ctx, l); err != nil {
			return err
		}
		if err := recordActivity(ctx, repository.NewSQLiteActivityRepo(tx), l.ID, typ, meta, l.UpdatedAt); err != nil {
			return err
		}
		if out != nil {
			*out = l
		}
		return nil
	})
}
