package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/leadpipe/internal/contact"
	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

// recordActivity appends an activity for leadID to the log.
func recordActivity(ctx context.Context, repo repository.ActivityRepo, leadID string, typ domain.ActivityType, meta domain.ActivityMetadata, now time.Time) error {
	a := &domain.Activity{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Type:        typ,
		Description: domain.Describe(typ, meta),
		Timestamp:   now,
		Metadata:    meta,
	}
	if err := repo.Create(ctx, a); err != nil {
		return fmt.Errorf("recording %s activity: %w", typ, err)
	}
	return nil
}

// cleanContactInfo trims the lead's contact fields, rejects a malformed
// email and normalises the phone number to E.164 when possible.
func cleanContactInfo(l *domain.Lead) error {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Address = strings.TrimSpace(l.Address)
	if err := contact.ValidateEmail(l.Email); err != nil {
		return err
	}
	l.Phone = contact.NormalizePhone(l.Phone, contact.DefaultRegion)
	if c := l.Customer; c != nil {
		c.Email = strings.TrimSpace(c.Email)
		if err := contact.ValidateEmail(c.Email); err != nil {
			return fmt.Errorf("customer: %w", err)
		}
		c.Phone = contact.NormalizePhone(c.Phone, contact.DefaultRegion)
	}
	return nil
}

// loadProfile returns the stored business profile, or the default profile
// when none was saved.
func loadProfile(ctx context.Context, repo repository.BusinessProfileRepo) (*domain.BusinessProfile, error) {
	p, err := repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultBusinessProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading business profile: %w", err)
	}
	return p, nil
}

// values copies the leads out of their pointers for the pure core packages.
func values(leads []*domain.Lead) []domain.Lead {
	out := make([]domain.Lead, len(leads))
	for i, l := range leads {
		out[i] = *l
	}
	return out
}
