package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo. Metadata is stored as a JSON
// object.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activitySelect = `SELECT id, lead_id, type, description, timestamp, metadata FROM activities`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("encoding activity metadata: %w", err)
	}
	query := `INSERT INTO activities (id, lead_id, type, description, timestamp, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		a.LeadID,
		string(a.Type),
		a.Description,
		formatTimestamp(a.Timestamp),
		string(meta),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error) {
	return r.query(ctx, activitySelect+` WHERE lead_id = ? ORDER BY timestamp DESC, rowid DESC`, leadID)
}

// ListRecent returns the newest activities across all leads. A limit <= 0
// returns everything.
func (r *SQLiteActivityRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(ctx, activitySelect+` ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
}

func (r *SQLiteActivityRepo) DeleteByLead(ctx context.Context, leadID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE lead_id = ?`, leadID); err != nil {
		return fmt.Errorf("deleting activities: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var typ, ts, meta string
	if err := row.Scan(&a.ID, &a.LeadID, &typ, &a.Description, &ts, &meta); err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	a.Type = domain.ActivityType(typ)

	var err error
	if a.Timestamp, err = parseTimestamp("timestamp", ts); err != nil {
		return nil, err
	}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &a.Metadata); err != nil {
			return nil, fmt.Errorf("decoding activity metadata: %w", err)
		}
	}
	return &a, nil
}
