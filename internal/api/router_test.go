package api

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/companyhub/companies-api/internal/api/handler"
	"github.com/companyhub/companies-api/internal/core/domain"
	"github.com/companyhub/companies-api/internal/core/service"
	"github.com/companyhub/companies-api/internal/validation"
)

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memCompanies struct {
	mu     sync.Mutex
	byID   map[string]domain.Company
	seq    int
	writes int
}

func (m *memCompanies) Create(_ context.Context, c *domain.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c.ID = fmt.Sprintf("%024x", m.seq)
	m.byID[c.ID] = *c
	m.writes++
	return nil
}

func (m *memCompanies) FindByID(_ context.Context, id string) (*domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	return &c, nil
}

func (m *memCompanies) ListByOwner(_ context.Context, ownerID string) iter.Seq2[*domain.Company, error] {
	return func(yield func(*domain.Company, error) bool) {
		m.mu.Lock()
		var out []*domain.Company
		for _, c := range m.byID {
			if c.Owner == ownerID {
				out = append(out, &c)
			}
		}
		m.mu.Unlock()

		slices.SortFunc(out, func(a, b *domain.Company) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		for _, c := range out {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func (m *memCompanies) Update(_ context.Context, c *domain.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[c.ID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	updated := *c
	updated.Owner = stored.Owner
	updated.CreatedAt = stored.CreatedAt
	m.byID[c.ID] = updated
	m.writes++
	return nil
}

func (m *memCompanies) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(m.byID, id)
	m.writes++
	return nil
}

type memUsers struct {
	mu    sync.Mutex
	users []domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
	}
	created := *u
	created.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users = append(m.users, created)
	return &created, nil
}

func (m *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id })
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username })
}

func (m *memUsers) List(context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, len(m.users))
	for i := range m.users {
		u := m.users[i]
		out[i] = &u
	}
	return out, nil
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memRevocations) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type testServer struct {
	t         *testing.T
	e         *echo.Echo
	companies *memCompanies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	v := validation.New()
	log := zerolog.Nop()
	companies := &memCompanies{byID: make(map[string]domain.Company)}
	users := &memUsers{}
	revocations := &memRevocations{revoked: make(map[string]bool)}
	registry := prometheus.NewRegistry()

	e := NewEcho(Dependencies{
		Companies: service.NewCompanyService(companies, v, log),
		Users:     service.NewUserService(users),
		Auth:      service.NewAuthService(users, revocations, v, log, "test-secret", time.Hour),
		Checks: []handler.DependencyCheck{
			{Name: "mongodb", Ping: func(context.Context) error { return nil }},
		},
		Logger:     log,
		Registerer: registry,
		Gatherer:   registry,
	})

	return &testServer{t: t, e: e, companies: companies}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signup registers username and returns a bearer token and the user ID.
func (s *testServer) signup(username string) (string, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", "",
		fmt.Sprintf(`{"username":%q,"password":"password123"}`, username))
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"username":%q,"password":"password123"}`, username))
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_OwnershipScenario(t *testing.T) {
	s := newTestServer(t)
	tokenA, userA := s.signup("alice")
	tokenB, _ := s.signup("bob")

	rec := s.do(http.MethodPost, "/companies", tokenA, `{"name":"Acme","owner":"someone-else"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeMap(t, rec)
	assert.Equal(t, userA, created["owner"])
	id := created["id"].(string)

	rec = s.do(http.MethodGet, "/companies/"+id, tokenB, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Only owner is allowed to read"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/companies/"+id, tokenB, `{"name":"Hijacked"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Only owner is allowed to edit"}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/companies/"+id, tokenB, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Only owner is allowed to delete"}`, rec.Body.String())

	rec = s.do(http.MethodDelete, "/companies/"+id, tokenA, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = s.do(http.MethodGet, "/companies/"+id, tokenA, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = s.do(http.MethodGet, "/companies/"+id, tokenB, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListReturnsOnlyOwnCompaniesNewestFirst(t *testing.T) {
	s := newTestServer(t)
	tokenA, _ := s.signup("alice")
	tokenB, _ := s.signup("bob")

	rec := s.do(http.MethodGet, "/companies", tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, name := range []string{"First", "Second"} {
		rec = s.do(http.MethodPost, "/companies", tokenA, fmt.Sprintf(`{"name":%q}`, name))
		require.Equal(t, http.StatusCreated, rec.Code)
		time.Sleep(2 * time.Millisecond)
	}
	rec = s.do(http.MethodPost, "/companies", tokenB, `{"name":"Other"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/companies", tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0]["name"])
	assert.Equal(t, "First", list[1]["name"])
}

func TestRouter_UpdateReplacesFieldsAndKeepsOwner(t *testing.T) {
	s := newTestServer(t)
	tokenA, userA := s.signup("alice")
	_, userB := s.signup("bob")

	rec := s.do(http.MethodPost, "/companies", tokenA,
		`{"name":"Acme","description":"old","phone":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeMap(t, rec)["id"].(string)

	rec = s.do(http.MethodPut, "/companies/"+id, tokenA,
		fmt.Sprintf(`{"name":"Acme Corp","owner":%q}`, userB))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeMap(t, rec)
	assert.Equal(t, "Acme Corp", updated["name"])
	assert.Equal(t, "", updated["description"])
	assert.Equal(t, "", updated["phone"])
	assert.Equal(t, userA, updated["owner"])
}

func TestRouter_ValidationFailureLeavesStoreUnchanged(t *testing.T) {
	s := newTestServer(t)
	tokenA, _ := s.signup("alice")

	rec := s.do(http.MethodPost, "/companies", tokenA, `{"name":"","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMap(t, rec)
	assert.Contains(t, body, "name")
	assert.Contains(t, body, "email")
	assert.Zero(t, s.companies.writes)

	rec = s.do(http.MethodPost, "/companies", tokenA, `{"name":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeMap(t, rec)["id"].(string)
	writes := s.companies.writes

	rec = s.do(http.MethodPut, "/companies/"+id, tokenA, `{"name":"","website":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, writes, s.companies.writes)

	rec = s.do(http.MethodGet, "/companies/"+id, tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decodeMap(t, rec)["name"])
}

func TestRouter_NotFoundBeatsValidation(t *testing.T) {
	s := newTestServer(t)
	tokenA, _ := s.signup("alice")

	rec := s.do(http.MethodPut, "/companies/000000000000000000000999", tokenA, `{"name":""}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UpdateChecksAccessBeforeReadingBody(t *testing.T) {
	s := newTestServer(t)
	tokenA, _ := s.signup("alice")
	tokenB, _ := s.signup("bob")

	rec := s.do(http.MethodPost, "/companies", tokenA, `{"name":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeMap(t, rec)["id"].(string)
	writes := s.companies.writes

	for _, body := range []string{`{"name":`, `{"name":5}`} {
		rec = s.do(http.MethodPut, "/companies/"+id, tokenB, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, body)
		assert.JSONEq(t, `{"error":"Only owner is allowed to edit"}`, rec.Body.String())

		rec = s.do(http.MethodPut, "/companies/000000000000000000000999", tokenB, body)
		assert.Equal(t, http.StatusNotFound, rec.Code, body)
	}

	rec = s.do(http.MethodPut, "/companies/"+id, tokenA, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid payload"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/companies/"+id, tokenA, `{"name":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["name must be a string"]}`, rec.Body.String())

	assert.Equal(t, writes, s.companies.writes)
}

func TestRouter_CreateFieldTypes(t *testing.T) {
	s := newTestServer(t)
	tokenA, userA := s.signup("alice")

	rec := s.do(http.MethodPost, "/companies", tokenA, `{"name":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["name must be a string"]}`, rec.Body.String())
	assert.Zero(t, s.companies.writes)

	rec = s.do(http.MethodPost, "/companies", tokenA, `{"name":"A","owner":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, userA, decodeMap(t, rec)["owner"])
}

func TestRouter_Users(t *testing.T) {
	s := newTestServer(t)
	tokenA, userA := s.signup("alice")
	s.signup("bob")

	rec := s.do(http.MethodGet, "/users", tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rec = s.do(http.MethodGet, "/users/"+userA, tokenA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decodeMap(t, rec)["username"])

	rec = s.do(http.MethodGet, "/users/does-not-exist", tokenA, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/companies", "/companies/abc", "/users", "/users/abc"} {
		rec := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/companies", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signup("alice")

	rec := s.do(http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/companies", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token has been revoked"}`, rec.Body.String())
}

func TestRouter_AuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	rec := s.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/auth/register", "", `{"username":"x","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "companies_http_requests_total")
}
