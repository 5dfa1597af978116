package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactbook/internal/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository { return &ContactRepository{db: db} }

var _ Contacts = (*ContactRepository)(nil)

const (
	insertContactSQL = `INSERT INTO contacts (name, email, phone, photo, created_at, owner_id) VALUES (?, ?, ?, ?, ?, ?)`
	selectContactSQL = `SELECT id, name, email, phone, photo, created_at, owner_id FROM contacts WHERE id = ?`
	updateContactSQL = `UPDATE contacts SET name = ?, email = ?, phone = ?, photo = ? WHERE id = ?`
	deleteContactSQL = `DELETE FROM contacts WHERE id = ?`
)

// SQLite TIMESTAMP format, same as stored by the schema.
const timestampLayout = "2006-01-02 15:04:05"

// Create inserts a new contact. CreatedAt is set if zero.
func (r *ContactRepository) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	} else {
		c.CreatedAt = c.CreatedAt.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertContactSQL,
		c.Name,
		c.Email,
		c.Phone,
		c.Photo,
		c.CreatedAt.Format(timestampLayout),
		c.OwnerID,
	)
	if err != nil {
		return models.Contact{}, fmt.Errorf("insert contact %q: %w", c.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Contact{}, fmt.Errorf("get last insert id for contact %q: %w", c.Name, err)
	}
	c.ID = int(lastID)
	return c, nil
}

// GetByID fetches a contact by id. Returns (nil, nil) if not found.
func (r *ContactRepository) GetByID(ctx context.Context, id int) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, selectContactSQL, id)
	c, err := scanContact(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select contact %d: %w", id, err)
	}
	return &c, nil
}

// List returns one page of contacts matching the filter, ordered by the
// sanitized sort column/direction, plus the total match count before
// LIMIT/OFFSET are applied.
func (r *ContactRepository) List(ctx context.Context, f ContactFilter) ([]models.Contact, int, error) {
	var (
		conds []string
		args  []any
	)

	if f.OwnerID != nil {
		conds = append(conds, "owner_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM contacts` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	q := `SELECT id, name, email, phone, photo, created_at, owner_id FROM contacts` + where
	q += fmt.Sprintf(" ORDER BY %s %s", sortColumn(f.SortBy), sortDirection(f.SortOrder))
	q += " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Contact, 0, f.Limit)
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists the mutable columns of the given contact.
func (r *ContactRepository) Update(ctx context.Context, c models.Contact) error {
	if _, err := r.db.ExecContext(ctx, updateContactSQL, c.Name, c.Email, c.Phone, c.Photo, c.ID); err != nil {
		return fmt.Errorf("update contact %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes the contact row by id.
func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteContactSQL, id); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

// sortColumn whitelists the ORDER BY column; anything unknown falls back to
// created_at. Values are interpolated into SQL, so the whitelist is strict.
func sortColumn(s string) string {
	if s == "name" {
		return "name"
	}
	return "created_at"
}

func sortDirection(s string) string {
	if s == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// scanContact reads one contact row via the provided Scan function, handling
// nullable columns and the stored timestamp format.
func scanContact(scan func(dest ...any) error) (models.Contact, error) {
	var (
		c     models.Contact
		email sql.NullString
		phone sql.NullString
		photo sql.NullString
	)
	if err := scan(&c.ID, &c.Name, &email, &phone, &photo, &c.CreatedAt, &c.OwnerID); err != nil {
		return models.Contact{}, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if photo.Valid {
		c.Photo = &photo.String
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}
