package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
)

type SQLiteCampaignRepo struct {
	db db.DBTX
}

func NewSQLiteCampaignRepo(conn db.DBTX) *SQLiteCampaignRepo {
	return &SQLiteCampaignRepo{db: conn}
}

// targetingDoc is the stored JSON shape of domain.Targeting.
type targetingDoc struct {
	Stages              []domain.Stage            `json:"stages,omitempty"`
	Priorities          []domain.Priority         `json:"priorities,omitempty"`
	Sources             []domain.LeadSource       `json:"sources,omitempty"`
	IncludeCustomers    bool                      `json:"includeCustomers,omitempty"`
	CustomerServices    []string                  `json:"customerServices,omitempty"`
	CustomerFrequencies []domain.ServiceFrequency `json:"customerFrequencies,omitempty"`
}

const campaignSelect = `SELECT id, name, type, subject, content, targeting,
	sent, opened, clicked, converted, last_sent, created_at, updated_at FROM campaigns`

func (r *SQLiteCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	targeting, err := encodeTargeting(c.Targeting)
	if err != nil {
		return err
	}
	query := `INSERT INTO campaigns (id, name, type, subject, content, targeting,
		sent, opened, clicked, converted, last_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		string(c.Type),
		c.Subject,
		c.Content,
		targeting,
		c.Metrics.Sent,
		c.Metrics.Opened,
		c.Metrics.Clicked,
		c.Metrics.Converted,
		nullableTimeToString(c.Metrics.LastSent, timeLayout),
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}
	return nil
}

func (r *SQLiteCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx, campaignSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCampaignRepo) List(ctx context.Context) ([]*domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, campaignSelect+` ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var out []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaigns: %w", err)
	}
	return out, nil
}

func (r *SQLiteCampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	targeting, err := encodeTargeting(c.Targeting)
	if err != nil {
		return err
	}
	query := `UPDATE campaigns SET name = ?, type = ?, subject = ?, content = ?, targeting = ?,
		sent = ?, opened = ?, clicked = ?, converted = ?, last_sent = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		string(c.Type),
		c.Subject,
		c.Content,
		targeting,
		c.Metrics.Sent,
		c.Metrics.Opened,
		c.Metrics.Clicked,
		c.Metrics.Converted,
		nullableTimeToString(c.Metrics.LastSent, timeLayout),
		formatTimestamp(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campaign: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("campaign %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCampaignRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting campaign: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	return nil
}

func encodeTargeting(t domain.Targeting) (string, error) {
	b, err := json.Marshal(targetingDoc(t))
	if err != nil {
		return "", fmt.Errorf("encoding targeting: %w", err)
	}
	return string(b), nil
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var typ, targeting, createdAt, updatedAt string
	var lastSent sql.NullString
	err := row.Scan(
		&c.ID, &c.Name, &typ, &c.Subject, &c.Content, &targeting,
		&c.Metrics.Sent, &c.Metrics.Opened, &c.Metrics.Clicked, &c.Metrics.Converted,
		&lastSent, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning campaign: %w", err)
	}
	c.Type = domain.Channel(typ)
	c.Metrics.LastSent = parseNullableTime(lastSent, timeLayout)

	var doc targetingDoc
	if err := json.Unmarshal([]byte(targeting), &doc); err != nil {
		return nil, fmt.Errorf("decoding targeting: %w", err)
	}
	c.Targeting = domain.Targeting(doc)

	if c.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
