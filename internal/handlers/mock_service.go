package handlers

import (
	"context"
	"net/http"

	"contactbook/internal/models"
	"contactbook/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginToken   string
	loginUser    models.User
	loginErr     error
	parseClaims  *service.Claims
	parseErr     error
	resolvedUser *models.User
	resolveErr   error

	lastRegisterEmail    string
	lastRegisterPassword string
	lastLoginEmail       string
	lastLoginPassword    string
	lastParseToken       string
	lastResolvedID       int
}

func (m *mockAuth) Register(ctx context.Context, email, password string) (models.User, error) {
	m.lastRegisterEmail = email
	m.lastRegisterPassword = password
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (string, models.User, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginToken, m.loginUser, m.loginErr
}

func (m *mockAuth) ParseToken(accessToken string) (*service.Claims, error) {
	m.lastParseToken = accessToken
	return m.parseClaims, m.parseErr
}

func (m *mockAuth) UserByID(ctx context.Context, id int) (*models.User, error) {
	m.lastResolvedID = id
	return m.resolvedUser, m.resolveErr
}

type mockContacts struct {
	createResp models.Contact
	createErr  error
	listResp   service.ContactPage
	listErr    error
	getResp    models.Contact
	getErr     error
	updateResp models.Contact
	updateErr  error
	deleteErr  error

	lastActor   models.User
	lastCreate  service.CreateContactInput
	lastQuery   service.ContactQuery
	lastID      int
	lastUpdate  service.UpdateContactInput
	deleteCalls int
}

func (m *mockContacts) Create(ctx context.Context, actor models.User, in service.CreateContactInput) (models.Contact, error) {
	m.lastActor = actor
	m.lastCreate = in
	return m.createResp, m.createErr
}

func (m *mockContacts) List(ctx context.Context, actor models.User, q service.ContactQuery) (service.ContactPage, error) {
	m.lastActor = actor
	m.lastQuery = q
	return m.listResp, m.listErr
}

func (m *mockContacts) GetByID(ctx context.Context, actor models.User, id int) (models.Contact, error) {
	m.lastActor = actor
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *mockContacts) Update(ctx context.Context, actor models.User, id int, in service.UpdateContactInput) (models.Contact, error) {
	m.lastActor = actor
	m.lastID = id
	m.lastUpdate = in
	return m.updateResp, m.updateErr
}

func (m *mockContacts) Delete(ctx context.Context, actor models.User, id int) error {
	m.lastActor = actor
	m.lastID = id
	m.deleteCalls++
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, "")
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// authedMock wires a mockAuth that accepts any bearer token and resolves
// to the given user.
func authedMock(u models.User) *mockAuth {
	return &mockAuth{
		parseClaims:  &service.Claims{UserID: u.ID, Email: u.Email, Role: u.Role},
		resolvedUser: &u,
	}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
