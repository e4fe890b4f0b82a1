package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/repository"
	"github.com/alexanderramin/leadpipe/internal/testutil"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() Option {
	return WithClock(func() time.Time { return testNow })
}

type repos struct {
	db         *sql.DB
	leads      repository.LeadRepo
	activities repository.ActivityRepo
	campaigns  repository.CampaignRepo
	profiles   repository.BusinessProfileRepo
	uow        db.UnitOfWork
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:         database,
		leads:      repository.NewSQLiteLeadRepo(database),
		activities: repository.NewSQLiteActivityRepo(database),
		campaigns:  repository.NewSQLiteCampaignRepo(database),
		profiles:   repository.NewSQLiteBusinessProfileRepo(database),
		uow:        testutil.NewTestUoW(database),
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}
