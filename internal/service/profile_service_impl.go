package service

import (
	"context"
	"io"

	"github.com/alexanderramin/leadpipe/internal/domain"
	"github.com/alexanderramin/leadpipe/internal/profile"
	"github.com/alexanderramin/leadpipe/internal/repository"
)

type profileService struct {
	profiles repository.BusinessProfileRepo
	settings
}

func NewProfileService(profiles repository.BusinessProfileRepo, opts ...Option) ProfileService {
	return &profileService{profiles: profiles, settings: newSettings(opts)}
}

func (s *profileService) Get(ctx context.Context) (*domain.BusinessProfile, error) {
	return loadProfile(ctx, s.profiles)
}

func (s *profileService) Save(ctx context.Context, p *domain.BusinessProfile) (err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "save-profile", startedAt, map[string]any{"name": p.Name}, err) }()

	profile.Normalize(p)
	if err = p.Validate(); err != nil {
		return err
	}
	return s.profiles.Upsert(ctx, p)
}

func (s *profileService) ImportYAML(ctx context.Context, r io.Reader) (*domain.BusinessProfile, error) {
	p, err := profile.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) ExportYAML(ctx context.Context, w io.Writer) error {
	p, err := s.Get(ctx)
	if err != nil {
		return err
	}
	return profile.Encode(w, p)
}
