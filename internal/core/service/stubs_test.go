package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/companyhub/companies-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubCompanyRepo struct {
	byID      map[string]*domain.Company
	seq       int
	writes    int
	listCalls int
	failErr   error // if set, every call returns this error
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{byID: make(map[string]*domain.Company)}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.seq++
	c.ID = fmt.Sprintf("c%d", r.seq)
	clone := *c
	r.byID[c.ID] = &clone
	r.writes++
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

// ListByOwner mirrors the real query: owner filter, created_at descending.
func (r *stubCompanyRepo) ListByOwner(_ context.Context, ownerID string) iter.Seq2[*domain.Company, error] {
	return func(yield func(*domain.Company, error) bool) {
		r.listCalls++
		if r.failErr != nil {
			yield(nil, r.failErr)
			return
		}
		var matched []*domain.Company
		for _, c := range r.byID {
			if c.Owner == ownerID {
				clone := *c
				matched = append(matched, &clone)
			}
		}
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
		for _, c := range matched {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) error {
	if r.failErr != nil {
		return r.failErr
	}
	stored, ok := r.byID[c.ID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	clone := *c
	clone.Owner = stored.Owner
	clone.CreatedAt = stored.CreatedAt
	r.byID[c.ID] = &clone
	r.writes++
	return nil
}

func (r *stubCompanyRepo) Delete(_ context.Context, id string) error {
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(r.byID, id)
	r.writes++
	return nil
}

type stubUserRepo struct {
	users map[string]*domain.User // keyed by ID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	created := cloneUser(user)
	created.ID = "u-" + user.Username
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubRevocationStore struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocationStore() *stubRevocationStore {
	return &stubRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *stubRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *stubRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	errStore      = errors.New("store unavailable")
)

// fixedClock returns a clock that advances by one second on every call, so
// records created in sequence have distinct timestamps.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}
