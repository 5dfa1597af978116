package service

import (
	"context"
	"errors"
	"testing"

	"contactbook/internal/models"
	"contactbook/internal/repository"
)

func strPtr(s string) *string { return &s }

// mockContactRepo is an in-test mock for repository.Contacts.
type mockContactRepo struct {
	CreateFn  func(c models.Contact) (models.Contact, error)
	GetByIDFn func(id int) (*models.Contact, error)
	ListFn    func(f repository.ContactFilter) ([]models.Contact, int, error)
	UpdateFn  func(c models.Contact) error
	DeleteFn  func(id int) error

	lastFilter  repository.ContactFilter
	lastUpdated *models.Contact
	deleteCalls []int
}

func (m *mockContactRepo) Create(_ context.Context, c models.Contact) (models.Contact, error) {
	return m.CreateFn(c)
}

func (m *mockContactRepo) GetByID(_ context.Context, id int) (*models.Contact, error) {
	return m.GetByIDFn(id)
}

func (m *mockContactRepo) List(_ context.Context, f repository.ContactFilter) ([]models.Contact, int, error) {
	m.lastFilter = f
	return m.ListFn(f)
}

func (m *mockContactRepo) Update(_ context.Context, c models.Contact) error {
	m.lastUpdated = &c
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(c)
}

func (m *mockContactRepo) Delete(_ context.Context, id int) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(id)
}

var (
	owner    = models.User{ID: 3, Email: "owner@x.com", Role: models.RoleUser}
	stranger = models.User{ID: 4, Email: "other@x.com", Role: models.RoleUser}
	admin    = models.User{ID: 5, Email: "admin@x.com", Role: models.RoleAdmin}
)

func ownedContact() *models.Contact {
	return &models.Contact{ID: 7, Name: "Bob", Phone: strPtr("555"), OwnerID: owner.ID}
}

// --- Create ---

func TestContactService_Create_SetsOwner(t *testing.T) {
	mock := &mockContactRepo{
		CreateFn: func(c models.Contact) (models.Contact, error) {
			c.ID = 1
			return c, nil
		},
	}
	svc := NewContactService(mock)

	c, err := svc.Create(context.Background(), owner, CreateContactInput{
		Name:  "Bob",
		Phone: strPtr("555"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %d", owner.ID, c.OwnerID)
	}
	if c.Photo != nil {
		t.Fatalf("expected nil photo without upload, got %v", *c.Photo)
	}
}

// --- access policy (get/update/delete share it) ---

func TestContactService_AccessPolicy(t *testing.T) {
	cases := []struct {
		name    string
		actor   models.User
		stored  *models.Contact
		wantErr error
	}{
		{name: "owner sees own", actor: owner, stored: ownedContact(), wantErr: nil},
		{name: "admin sees anyone's", actor: admin, stored: ownedContact(), wantErr: nil},
		{name: "non-owner forbidden", actor: stranger, stored: ownedContact(), wantErr: ErrForbidden},
		{name: "missing row is not found", actor: owner, stored: nil, wantErr: ErrContactNotFound},
		// Existence is checked before ownership, so a stranger probing a
		// nonexistent id learns nothing beyond NotFound.
		{name: "missing row not found even for stranger", actor: stranger, stored: nil, wantErr: ErrContactNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockContactRepo{
				GetByIDFn: func(id int) (*models.Contact, error) {
					return tc.stored, nil
				},
			}
			svc := NewContactService(mock)

			_, err := svc.GetByID(context.Background(), tc.actor, 7)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("GetByID returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			// Delete must apply the same gate and never reach the repo.
			if err := svc.Delete(context.Background(), tc.actor, 7); !errors.Is(err, tc.wantErr) {
				t.Fatalf("Delete: expected %v, got %v", tc.wantErr, err)
			}
			if len(mock.deleteCalls) != 0 {
				t.Fatalf("Delete must not reach repo on %v", tc.wantErr)
			}
		})
	}
}

func TestContactService_Delete_Owner(t *testing.T) {
	mock := &mockContactRepo{
		GetByIDFn: func(id int) (*models.Contact, error) {
			return ownedContact(), nil
		},
	}
	svc := NewContactService(mock)

	if err := svc.Delete(context.Background(), owner, 7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(mock.deleteCalls) != 1 || mock.deleteCalls[0] != 7 {
		t.Fatalf("expected one repo delete of id 7, got %v", mock.deleteCalls)
	}
}

// --- Update ---

func TestContactService_Update_PartialMerge(t *testing.T) {
	stored := ownedContact()
	stored.Email = strPtr("bob@x.com")
	mock := &mockContactRepo{
		GetByIDFn: func(id int) (*models.Contact, error) {
			c := *stored
			return &c, nil
		},
	}
	svc := NewContactService(mock)

	// Only phone present: name/email/photo must survive untouched.
	updated, err := svc.Update(context.Background(), owner, 7, UpdateContactInput{
		Phone: strPtr("123"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Bob" {
		t.Fatalf("name must be untouched, got %q", updated.Name)
	}
	if updated.Email == nil || *updated.Email != "bob@x.com" {
		t.Fatalf("email must be untouched, got %v", updated.Email)
	}
	if updated.Phone == nil || *updated.Phone != "123" {
		t.Fatalf("expected phone 123, got %v", updated.Phone)
	}
	if mock.lastUpdated == nil || mock.lastUpdated.ID != 7 {
		t.Fatalf("expected repo update of id 7, got %+v", mock.lastUpdated)
	}
}

func TestContactService_Update_PhotoSetAndClear(t *testing.T) {
	stored := ownedContact()
	stored.Photo = strPtr("old.png")
	mock := &mockContactRepo{
		GetByIDFn: func(id int) (*models.Contact, error) {
			c := *stored
			return &c, nil
		},
	}
	svc := NewContactService(mock)

	// Without PhotoSet the photo stays.
	updated, err := svc.Update(context.Background(), owner, 7, UpdateContactInput{Name: strPtr("Bobby")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Photo == nil || *updated.Photo != "old.png" {
		t.Fatalf("photo must be untouched, got %v", updated.Photo)
	}

	// PhotoSet with a new name replaces it.
	updated, err = svc.Update(context.Background(), owner, 7, UpdateContactInput{Photo: strPtr("new.png"), PhotoSet: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Photo == nil || *updated.Photo != "new.png" {
		t.Fatalf("expected photo new.png, got %v", updated.Photo)
	}

	// PhotoSet with nil clears it.
	updated, err = svc.Update(context.Background(), owner, 7, UpdateContactInput{PhotoSet: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Photo != nil {
		t.Fatalf("expected cleared photo, got %v", *updated.Photo)
	}
}

// --- List ---

func TestContactService_List_ScopeAndMeta(t *testing.T) {
	cases := []struct {
		name        string
		actor       models.User
		all         any
		wantScoped  bool
		wantIsAdmin bool
		wantFetch   bool
	}{
		{name: "user is always scoped", actor: owner, all: "true", wantScoped: true},
		{name: "admin without all is scoped", actor: admin, all: nil, wantScoped: true, wantIsAdmin: true},
		{name: "admin with all sees everything", actor: admin, all: "true", wantScoped: false, wantIsAdmin: true, wantFetch: true},
		{name: "admin with junk all is scoped", actor: admin, all: "yes", wantScoped: true, wantIsAdmin: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockContactRepo{
				ListFn: func(f repository.ContactFilter) ([]models.Contact, int, error) {
					return []models.Contact{}, 0, nil
				},
			}
			svc := NewContactService(mock)

			page, err := svc.List(context.Background(), tc.actor, ContactQuery{All: tc.all})
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}

			f := mock.lastFilter
			if tc.wantScoped {
				if f.OwnerID == nil || *f.OwnerID != tc.actor.ID {
					t.Fatalf("expected scope to owner %d, got %v", tc.actor.ID, f.OwnerID)
				}
			} else if f.OwnerID != nil {
				t.Fatalf("expected unscoped listing, got owner %d", *f.OwnerID)
			}
			if page.Meta.IsAdmin != tc.wantIsAdmin || page.Meta.FetchAll != tc.wantFetch {
				t.Fatalf("unexpected meta flags: %+v", page.Meta)
			}
		})
	}
}

func TestContactService_List_DefaultsAndFallbacks(t *testing.T) {
	mock := &mockContactRepo{
		ListFn: func(f repository.ContactFilter) ([]models.Contact, int, error) {
			return nil, 0, nil
		},
	}
	svc := NewContactService(mock)

	// Zero query: all defaults apply.
	if _, err := svc.List(context.Background(), owner, ContactQuery{}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	f := mock.lastFilter
	if f.Limit != 10 || f.Offset != 0 {
		t.Fatalf("expected limit=10 offset=0, got limit=%d offset=%d", f.Limit, f.Offset)
	}
	if f.SortBy != "created_at" || f.SortOrder != "DESC" {
		t.Fatalf("expected created_at DESC default, got %s %s", f.SortBy, f.SortOrder)
	}

	// Unrecognized sort values fall back silently.
	if _, err := svc.List(context.Background(), owner, ContactQuery{SortBy: "email", SortOrder: "sideways"}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	f = mock.lastFilter
	if f.SortBy != "created_at" || f.SortOrder != "DESC" {
		t.Fatalf("expected fallback to created_at DESC, got %s %s", f.SortBy, f.SortOrder)
	}

	// Valid sort values map through; search is trimmed.
	if _, err := svc.List(context.Background(), owner, ContactQuery{Page: 2, Limit: 5, Search: "  an ", SortBy: SortByName, SortOrder: SortAsc}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	f = mock.lastFilter
	if f.SortBy != "name" || f.SortOrder != "ASC" {
		t.Fatalf("expected name ASC, got %s %s", f.SortBy, f.SortOrder)
	}
	if f.Search != "an" {
		t.Fatalf("expected trimmed search 'an', got %q", f.Search)
	}
	if f.Limit != 5 || f.Offset != 5 {
		t.Fatalf("expected limit=5 offset=5 for page 2, got limit=%d offset=%d", f.Limit, f.Offset)
	}
}

func TestContactService_List_TotalPages(t *testing.T) {
	cases := []struct {
		total int
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 21, limit: 5, want: 5},
	}

	for _, tc := range cases {
		mock := &mockContactRepo{
			ListFn: func(f repository.ContactFilter) ([]models.Contact, int, error) {
				return nil, tc.total, nil
			},
		}
		svc := NewContactService(mock)

		page, err := svc.List(context.Background(), owner, ContactQuery{Limit: tc.limit})
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if page.Meta.TotalPages != tc.want {
			t.Fatalf("total=%d limit=%d: expected totalPages=%d, got %d", tc.total, tc.limit, tc.want, page.Meta.TotalPages)
		}
		if page.Meta.Total != tc.total {
			t.Fatalf("expected total=%d in meta, got %d", tc.total, page.Meta.Total)
		}
	}
}

// --- asBoolean ---

func TestAsBoolean_CoercionTable(t *testing.T) {
	truthy := []any{true, "true", 1, float64(1), "1"}
	for _, v := range truthy {
		if !asBoolean(v) {
			t.Errorf("expected %#v to be truthy", v)
		}
	}

	falsy := []any{false, "false", 0, float64(0), "0", "TRUE", "yes", "", nil, 2, float64(1.5), []string{"true"}}
	for _, v := range falsy {
		if asBoolean(v) {
			t.Errorf("expected %#v to be falsy", v)
		}
	}
}
