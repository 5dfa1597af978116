package service

import (
	"context"
	"errors"
	"strings"

	"contactbook/internal/models"
	"contactbook/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	SortByName      = "name"
	SortByCreatedAt = "createdAt"
	SortAsc         = "ASC"
	SortDesc        = "DESC"
)

// Domain errors for contact access.
var (
	ErrContactNotFound = errors.New("contact not found")
	ErrForbidden       = errors.New("you do not own this contact")
)

// CreateContactInput carries the fields for a new contact. Photo is the
// filename produced by the upload handler, if any.
type CreateContactInput struct {
	Name  string
	Email *string
	Phone *string
	Photo *string
}

// UpdateContactInput is a partial update: nil pointers mean "leave as is".
// Photo is applied only when PhotoSet is true; a nil Photo with PhotoSet
// clears the stored filename.
type UpdateContactInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Photo    *string
	PhotoSet bool
}

// ContactQuery holds the raw listing parameters. All is kept untyped because
// the boolean coercion rules are part of the API contract (see asBoolean).
type ContactQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	All       any
}

type ListMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	IsAdmin    bool `json:"isAdmin"`
	FetchAll   bool `json:"fetchAll"`
}

type ContactPage struct {
	Data []models.Contact `json:"data"`
	Meta ListMeta         `json:"meta"`
}

// ContactService applies ownership-based access control on top of the
// contacts repository.
type ContactService struct {
	contacts repository.Contacts
}

func NewContactService(contacts repository.Contacts) *ContactService {
	return &ContactService{contacts: contacts}
}

// Create stores a new contact owned by the actor.
func (s *ContactService) Create(ctx context.Context, actor models.User, in CreateContactInput) (models.Contact, error) {
	return s.contacts.Create(ctx, models.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Photo:   in.Photo,
		OwnerID: actor.ID,
	})
}

// List returns one page of contacts visible to the actor. Non-admins only
// ever see their own rows; an admin sees all rows when the all flag is
// truthy. Unrecognized sortBy/sortOrder values fall back to defaults.
func (s *ContactService) List(ctx context.Context, actor models.User, q ContactQuery) (ContactPage, error) {
	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	isAdmin := actor.IsAdmin()
	fetchAll := isAdmin && asBoolean(q.All)

	filter := repository.ContactFilter{
		Search:    strings.TrimSpace(q.Search),
		SortBy:    sortColumn(q.SortBy),
		SortOrder: sortOrder(q.SortOrder),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	if !fetchAll {
		ownerID := actor.ID
		filter.OwnerID = &ownerID
	}

	items, total, err := s.contacts.List(ctx, filter)
	if err != nil {
		return ContactPage{}, err
	}

	return ContactPage{
		Data: items,
		Meta: ListMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
			IsAdmin:    isAdmin,
			FetchAll:   fetchAll,
		},
	}, nil
}

// GetByID returns a single contact. Existence is checked before ownership,
// so a missing row is NotFound even for a would-be-forbidden actor.
func (s *ContactService) GetByID(ctx context.Context, actor models.User, id int) (models.Contact, error) {
	c, err := s.authorize(ctx, actor, id)
	if err != nil {
		return models.Contact{}, err
	}
	return *c, nil
}

// Update applies a partial update to a contact the actor may modify. Only
// fields explicitly present are touched.
func (s *ContactService) Update(ctx context.Context, actor models.User, id int, in UpdateContactInput) (models.Contact, error) {
	c, err := s.authorize(ctx, actor, id)
	if err != nil {
		return models.Contact{}, err
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = in.Email
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	if in.PhotoSet {
		c.Photo = in.Photo
	}

	if err := s.contacts.Update(ctx, *c); err != nil {
		return models.Contact{}, err
	}
	return *c, nil
}

// Delete removes a contact the actor may modify.
func (s *ContactService) Delete(ctx context.Context, actor models.User, id int) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id)
}

// authorize loads the contact and enforces the owner-or-admin policy.
func (s *ContactService) authorize(ctx context.Context, actor models.User, id int) (*models.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	if !actor.IsAdmin() && c.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return c, nil
}

// asBoolean coerces the all flag. Truthy values are exactly true, "true",
// 1 and "1"; everything else is false. Kept bug-compatible with the API
// consumers that send all three shapes.
func asBoolean(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case int:
		return t == 1
	case float64:
		return t == 1
	default:
		return false
	}
}

// sortColumn maps the API sort key to a storage column, falling back to
// created_at on anything unrecognized.
func sortColumn(s string) string {
	if s == SortByName {
		return "name"
	}
	return "created_at"
}

func sortOrder(s string) string {
	if s == SortAsc {
		return SortAsc
	}
	return SortDesc
}
