package identity

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id shared.ID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of identity.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*identity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *identity.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) InvalidateByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdministratorRepository is a mock implementation of identity.AdministratorRepository
type MockAdministratorRepository struct {
	mock.Mock
}

func (m *MockAdministratorRepository) FindByUserID(ctx context.Context, userID shared.ID) (*identity.Administrator, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Administrator), args.Error(1)
}

func (m *MockAdministratorRepository) Save(ctx context.Context, a *identity.Administrator) error {
	return m.Called(ctx, a).Error(0)
}

// MockCustomerRepository is a mock implementation of identity.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id shared.ID) (*identity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID shared.ID) (*identity.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[identity.Customer], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(shared.PaginatedList[identity.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *identity.Customer) error {
	return m.Called(ctx, c).Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

// mapSessionCache is a minimal SessionCache for tests
type mapSessionCache struct {
	mu    sync.Mutex
	items map[string]*identity.CachedSession
}

func newMapSessionCache() *mapSessionCache {
	return &mapSessionCache{items: make(map[string]*identity.CachedSession)}
}

func (c *mapSessionCache) Get(_ context.Context, token string) (*identity.CachedSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[token], nil
}

func (c *mapSessionCache) Set(_ context.Context, s *identity.CachedSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[s.Token] = s
	return nil
}

func (c *mapSessionCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, token)
	return nil
}
