package repository

import (
	"context"
	"database/sql"

	"contactbook/internal/models"
	"contactbook/internal/repository/db"
)

type Users interface {
	Create(ctx context.Context, email, passwordHash string, role models.Role) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// ContactFilter narrows a contact listing. OwnerID nil means no owner scoping.
// SortBy/SortOrder must already be sanitized to valid column/direction tokens.
type ContactFilter struct {
	OwnerID   *int
	Search    string // case-insensitive substring over name/email/phone; empty = no filter
	SortBy    string // "name" | "created_at"
	SortOrder string // "ASC" | "DESC"
	Limit     int
	Offset    int
}

type Contacts interface {
	Create(ctx context.Context, c models.Contact) (models.Contact, error)
	GetByID(ctx context.Context, id int) (*models.Contact, error)
	// List returns one page of matching rows plus the total match count
	// before pagination.
	List(ctx context.Context, f ContactFilter) ([]models.Contact, int, error)
	Update(ctx context.Context, c models.Contact) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users    Users
	Contacts Contacts
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(sqlDB),
		Contacts: NewContactRepository(sqlDB),
	}
}

// InitDB forwards to the db subpackage so callers wire a single package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
