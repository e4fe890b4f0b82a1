package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/leadpipe/internal/db"
	"github.com/alexanderramin/leadpipe/internal/domain"
)

// SQLiteLeadRepo implements LeadRepo. A lead's customer record lives in
// customer_data and its line items in line_items; both are written with the
// lead.
type SQLiteLeadRepo struct {
	db db.DBTX
}

func NewSQLiteLeadRepo(conn db.DBTX) *SQLiteLeadRepo {
	return &SQLiteLeadRepo{db: conn}
}

const leadSelect = `SELECT
		l.id, l.name, l.email, l.phone, l.address, l.notes, l.priority, l.stage,
		l.projected_value, l.follow_up_date, l.last_contacted_at, l.source,
		l.archived, l.archived_at, l.converted, l.converted_at, l.is_direct_customer,
		l.created_at, l.updated_at,
		c.lead_id IS NOT NULL,
		COALESCE(c.first_name, ''), COALESCE(c.last_name, ''), COALESCE(c.company_name, ''),
		COALESCE(c.email, ''), COALESCE(c.phone, ''), COALESCE(c.job_title, ''),
		COALESCE(c.job_type, ''), COALESCE(c.measurement_value, ''),
		COALESCE(c.property_street1, ''), COALESCE(c.property_street2, ''), COALESCE(c.property_city, ''),
		COALESCE(c.property_state, ''), COALESCE(c.property_zip, ''),
		COALESCE(c.billing_same, 1),
		COALESCE(c.billing_street1, ''), COALESCE(c.billing_street2, ''), COALESCE(c.billing_city, ''),
		COALESCE(c.billing_state, ''), COALESCE(c.billing_zip, ''),
		COALESCE(c.notes, ''), COALESCE(c.archived, 0), c.archived_at
	FROM leads l
	LEFT JOIN customer_data c ON c.lead_id = l.id`

func (r *SQLiteLeadRepo) Create(ctx context.Context, l *domain.Lead) error {
	query := `INSERT INTO leads (id, name, email, phone, address, notes, priority, stage,
		projected_value, follow_up_date, last_contacted_at, source,
		archived, archived_at, converted, converted_at, is_direct_customer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Address,
		l.Notes,
		string(l.Priority),
		string(l.Stage),
		nullableFloatToValue(l.ProjectedValue),
		nullableTimeToString(l.FollowUpDate, timeLayout),
		nullableTimeToString(l.LastContactedAt, timeLayout),
		string(l.Source),
		boolToInt(l.Archived),
		nullableTimeToString(l.ArchivedAt, timeLayout),
		boolToInt(l.ConvertedToCustomer),
		nullableTimeToString(l.ConvertedAt, timeLayout),
		boolToInt(l.IsDirectCustomer),
		formatTimestamp(l.CreatedAt),
		formatTimestamp(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	return r.saveCustomer(ctx, l)
}

func (r *SQLiteLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	row := r.db.QueryRowContext(ctx, leadSelect+` WHERE l.id = ?`, id)
	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lead %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadLineItems(ctx, []*domain.Lead{l}); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteLeadRepo) List(ctx context.Context, f LeadFilter) ([]*domain.Lead, error) {
	var where []string
	var args []any
	if !f.IncludeArchived {
		where = append(where, "l.archived = 0")
	}
	if f.Stage != "" {
		where = append(where, "l.stage = ?")
		args = append(args, string(f.Stage))
	}
	if f.Priority != "" {
		where = append(where, "l.priority = ?")
		args = append(args, string(f.Priority))
	}
	if f.Source != "" {
		where = append(where, "LOWER(l.source) = LOWER(?)")
		args = append(args, string(f.Source))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(l.name) LIKE ? OR LOWER(l.email) LIKE ? OR LOWER(l.phone) LIKE ? OR LOWER(l.address) LIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}

	query := leadSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY l.created_at DESC, l.name"
	return r.query(ctx, "listing leads", query, args...)
}

func (r *SQLiteLeadRepo) ListCustomers(ctx context.Context, archived bool) ([]*domain.Lead, error) {
	query := leadSelect + ` WHERE l.converted = 1 AND COALESCE(c.archived, 0) = ?
		ORDER BY l.converted_at DESC, l.name`
	return r.query(ctx, "listing customers", query, boolToInt(archived))
}

func (r *SQLiteLeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	query := `UPDATE leads SET name = ?, email = ?, phone = ?, address = ?, notes = ?,
		priority = ?, stage = ?, projected_value = ?, follow_up_date = ?, last_contacted_at = ?,
		source = ?, archived = ?, archived_at = ?, converted = ?, converted_at = ?,
		is_direct_customer = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.Name,
		l.Email,
		l.Phone,
		l.Address,
		l.Notes,
		string(l.Priority),
		string(l.Stage),
		nullableFloatToValue(l.ProjectedValue),
		nullableTimeToString(l.FollowUpDate, timeLayout),
		nullableTimeToString(l.LastContactedAt, timeLayout),
		string(l.Source),
		boolToInt(l.Archived),
		nullableTimeToString(l.ArchivedAt, timeLayout),
		boolToInt(l.ConvertedToCustomer),
		nullableTimeToString(l.ConvertedAt, timeLayout),
		boolToInt(l.IsDirectCustomer),
		formatTimestamp(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lead %s: %w", l.ID, ErrNotFound)
	}
	return r.saveCustomer(ctx, l)
}

func (r *SQLiteLeadRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return nil
}

// saveCustomer writes l.Customer, replacing any stored line items, or removes
// the customer record when l has none.
func (r *SQLiteLeadRepo) saveCustomer(ctx context.Context, l *domain.Lead) error {
	if l.Customer == nil {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM customer_data WHERE lead_id = ?`, l.ID); err != nil {
			return fmt.Errorf("deleting customer data: %w", err)
		}
		return nil
	}

	c := l.Customer
	billing := c.Billing()
	query := `INSERT INTO customer_data (lead_id, first_name, last_name, company_name, email, phone,
		job_title, job_type, measurement_value,
		property_street1, property_street2, property_city, property_state, property_zip,
		billing_same, billing_street1, billing_street2, billing_city, billing_state, billing_zip,
		notes, archived, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lead_id) DO UPDATE SET
		first_name = excluded.first_name, last_name = excluded.last_name,
		company_name = excluded.company_name, email = excluded.email, phone = excluded.phone,
		job_title = excluded.job_title, job_type = excluded.job_type,
		measurement_value = excluded.measurement_value,
		property_street1 = excluded.property_street1, property_street2 = excluded.property_street2,
		property_city = excluded.property_city, property_state = excluded.property_state,
		property_zip = excluded.property_zip, billing_same = excluded.billing_same,
		billing_street1 = excluded.billing_street1, billing_street2 = excluded.billing_street2,
		billing_city = excluded.billing_city, billing_state = excluded.billing_state,
		billing_zip = excluded.billing_zip, notes = excluded.notes,
		archived = excluded.archived, archived_at = excluded.archived_at`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, c.FirstName, c.LastName, c.CompanyName, c.Email, c.Phone,
		c.JobTitle, string(c.JobType), c.MeasurementValue,
		c.PropertyAddress.Street1, c.PropertyAddress.Street2, c.PropertyAddress.City,
		c.PropertyAddress.State, c.PropertyAddress.ZipCode,
		boolToInt(c.BillingAddress == nil),
		billing.Street1, billing.Street2, billing.City, billing.State, billing.ZipCode,
		c.Notes, boolToInt(c.Archived), nullableTimeToString(c.ArchivedAt, timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving customer data: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM line_items WHERE lead_id = ?`, l.ID); err != nil {
		return fmt.Errorf("clearing line items: %w", err)
	}
	for i, item := range c.LineItems {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO line_items (lead_id, position, description, price) VALUES (?, ?, ?, ?)`,
			l.ID, i, item.Description, item.Price)
		if err != nil {
			return fmt.Errorf("inserting line item %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteLeadRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	// Line items are read once the lead cursor is closed.
	rows.Close()

	if err := r.loadLineItems(ctx, leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// loadLineItems fills the line items of every customer in leads with one
// query.
func (r *SQLiteLeadRepo) loadLineItems(ctx context.Context, leads []*domain.Lead) error {
	byID := make(map[string]*domain.CustomerData)
	var ids []any
	for _, l := range leads {
		if l.Customer != nil {
			byID[l.ID] = l.Customer
			ids = append(ids, l.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := r.db.QueryContext(ctx,
		`SELECT lead_id, description, price FROM line_items
		WHERE lead_id IN (`+placeholders+`) ORDER BY lead_id, position, id`, ids...)
	if err != nil {
		return fmt.Errorf("loading line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var leadID string
		var item domain.LineItem
		if err := rows.Scan(&leadID, &item.Description, &item.Price); err != nil {
			return fmt.Errorf("scanning line item: %w", err)
		}
		if c, ok := byID[leadID]; ok {
			c.LineItems = append(c.LineItems, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating line items: %w", err)
	}
	return nil
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var c domain.CustomerData
	var priority, stage, source, jobType, createdAt, updatedAt string
	var projected sql.NullFloat64
	var followUp, lastContacted, archivedAt, convertedAt, customerArchivedAt sql.NullString
	var archived, converted, direct, hasCustomer, billingSame, customerArchived int
	var billing domain.Address

	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Address, &l.Notes, &priority, &stage,
		&projected, &followUp, &lastContacted, &source,
		&archived, &archivedAt, &converted, &convertedAt, &direct,
		&createdAt, &updatedAt,
		&hasCustomer,
		&c.FirstName, &c.LastName, &c.CompanyName,
		&c.Email, &c.Phone, &c.JobTitle,
		&jobType, &c.MeasurementValue,
		&c.PropertyAddress.Street1, &c.PropertyAddress.Street2, &c.PropertyAddress.City,
		&c.PropertyAddress.State, &c.PropertyAddress.ZipCode,
		&billingSame,
		&billing.Street1, &billing.Street2, &billing.City,
		&billing.State, &billing.ZipCode,
		&c.Notes, &customerArchived, &customerArchivedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning lead: %w", err)
	}

	l.Priority = domain.Priority(priority)
	l.Stage = domain.Stage(stage)
	l.Source = domain.LeadSource(source)
	l.ProjectedValue = parseNullableFloat(projected)
	l.FollowUpDate = parseNullableTime(followUp, timeLayout)
	l.LastContactedAt = parseNullableTime(lastContacted, timeLayout)
	l.Archived = intToBool(archived)
	l.ArchivedAt = parseNullableTime(archivedAt, timeLayout)
	l.ConvertedToCustomer = intToBool(converted)
	l.ConvertedAt = parseNullableTime(convertedAt, timeLayout)
	l.IsDirectCustomer = intToBool(direct)

	if l.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}

	if intToBool(hasCustomer) {
		c.JobType = domain.ServiceFrequency(jobType)
		if !intToBool(billingSame) {
			c.BillingAddress = &billing
		}
		c.Archived = intToBool(customerArchived)
		c.ArchivedAt = parseNullableTime(customerArchivedAt, timeLayout)
		l.Customer = &c
	}
	return &l, nil
}
