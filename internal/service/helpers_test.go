package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"realestate/internal/auth"
	"realestate/internal/db"
	"realestate/internal/model"
	"realestate/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]auth.Session{}}
}

func (m *memorySessionStore) Save(ctx context.Context, id string, s auth.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return nil
}

func (m *memorySessionStore) Load(ctx context.Context, id string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// countingViews records calls instead of writing them.
type countingViews struct {
	mu    sync.Mutex
	calls map[uint]int
}

func newCountingViews() *countingViews {
	return &countingViews{calls: map[uint]int{}}
}

func (c *countingViews) Record(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[id]++
}

func (c *countingViews) count(id uint) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[id]
}

type fixture struct {
	db         *gorm.DB
	owner      *model.User
	otherOwner *model.User
	tenant     *model.User
	admin      *model.User
	category   *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB := newTestDB(t)
	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	mk := func(email, first, last string, role model.Role) *model.User {
		u := &model.User{Email: email, PasswordHash: "x", FirstName: first, LastName: last, Phone: "0102030405", Role: role}
		require.NoError(t, users.Create(ctx, u))
		return u
	}

	category, err := repository.NewCategoryRepository(gormDB).FindOrCreate(ctx, "Apartment")
	require.NoError(t, err)

	return &fixture{
		db:         gormDB,
		owner:      mk("owner@example.com", "olga", "berg", model.RoleOwner),
		otherOwner: mk("other@example.com", "Oscar", "Holm", model.RoleOwner),
		tenant:     mk("tenant@example.com", "Tom", "Ek", model.RoleTenant),
		admin:      mk("admin@example.com", "Ada", "Sand", model.RoleAdmin),
		category:   category,
	}
}

func (f *fixture) property(t *testing.T, p model.Property) *model.Property {
	t.Helper()
	if p.OwnerID == 0 {
		p.OwnerID = f.owner.ID
	}
	if p.Title == "" {
		p.Title = "Listing"
	}
	if p.Type == "" {
		p.Type = model.PropertyTypeSale
	}
	if p.Status == "" {
		p.Status = model.PropertyStatusAvailable
	}
	require.NoError(t, repository.NewPropertyRepository(f.db).Create(context.Background(), &p))
	return &p
}

func identityOf(u *model.User) auth.Identity {
	return auth.Identity{SessionID: "sid", UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName(), Role: u.Role}
}
