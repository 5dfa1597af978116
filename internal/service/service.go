package service

import (
	"context"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	ParseToken(accessToken string) (*Claims, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
}

// Contacts exposes CRUD over contact records with ownership-based access
// control applied per actor.
type Contacts interface {
	Create(ctx context.Context, actor models.User, in CreateContactInput) (models.Contact, error)
	List(ctx context.Context, actor models.User, q ContactQuery) (ContactPage, error)
	GetByID(ctx context.Context, actor models.User, id int) (models.Contact, error)
	Update(ctx context.Context, actor models.User, id int, in UpdateContactInput) (models.Contact, error)
	Delete(ctx context.Context, actor models.User, id int) error
}

// AuthConfig carries the token-signing settings loaded once at startup.
// The secret is passed explicitly, never read from ambient state.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Contacts
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, auth),
		Contacts:      NewContactService(repos.Contacts),
	}
}
