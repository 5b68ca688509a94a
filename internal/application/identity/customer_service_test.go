package identity

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCustomerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and customer", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)

		customers.On("FindByEmail", ctx, "hayden.zieme12@hotmail.com").Return(nil, shared.ErrNotFound)
		roles.On("FindByCode", ctx, identity.CustomerRoleCode).Return(identity.NewCustomerRole(), nil)
		users.On("Save", ctx, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*identity.User).ID = 2 }).
			Return(nil)
		customers.On("Save", ctx, mock.AnythingOfType("*identity.Customer")).Return(nil)

		svc := NewCustomerService(customers, users, roles, AuthServiceConfig{BcryptCost: bcrypt.MinCost})
		c, err := svc.Register(ctx, RegisterCustomerInput{
			FirstName:    "Hayden",
			LastName:     "Zieme",
			EmailAddress: "hayden.zieme12@hotmail.com",
			Password:     "test",
			Verified:     true,
		})
		require.NoError(t, err)
		require.NotNil(t, c.UserID)
		assert.Equal(t, shared.ID(2), *c.UserID)

		saved := users.Calls[0].Arguments.Get(1).(*identity.User)
		assert.True(t, saved.Verified)
		assert.True(t, saved.HasRole(identity.CustomerRoleCode))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		customers.On("FindByEmail", ctx, "dup@example.com").Return(&identity.Customer{}, nil)

		svc := NewCustomerService(customers, new(MockUserRepository), new(MockRoleRepository), AuthServiceConfig{})
		_, err := svc.Register(ctx, RegisterCustomerInput{
			FirstName: "A", LastName: "B", EmailAddress: "dup@example.com", Password: "x",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("validates input", func(t *testing.T) {
		svc := NewCustomerService(new(MockCustomerRepository), new(MockUserRepository), new(MockRoleRepository), AuthServiceConfig{})
		_, err := svc.Register(ctx, RegisterCustomerInput{FirstName: "A", LastName: "B", EmailAddress: "nope", Password: "x"})
		assert.Error(t, err)
	})
}
