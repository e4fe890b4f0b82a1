package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
)

const defaultProfileID = "default"

// SQLiteBusinessProfileRepo stores the single business profile as a JSON
// document.
type SQLiteBusinessProfileRepo struct {
	db db.DBTX
}

func NewSQLiteBusinessProfileRepo(conn db.DBTX) *SQLiteBusinessProfileRepo {
	return &SQLiteBusinessProfileRepo{db: conn}
}

func (r *SQLiteBusinessProfileRepo) Get(ctx context.Context) (*domain.BusinessProfile, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM business_profile WHERE id = ?`, defaultProfileID).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("business profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning business profile: %w", err)
	}

	var p domain.BusinessProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decoding business profile: %w", err)
	}
	return &p, nil
}

func (r *SQLiteBusinessProfileRepo) Upsert(ctx context.Context, p *domain.BusinessProfile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding business profile: %w", err)
	}
	query := `INSERT OR REPLACE INTO business_profile (id, document, updated_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, defaultProfileID, string(doc), formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("upserting business profile: %w", err)
	}
	return nil
}
