package identity

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/domain/shared"
)

// CustomerService reads and registers customers
type CustomerService struct {
	customerRepo identity.CustomerRepository
	userRepo     identity.UserRepository
	roleRepo     identity.RoleRepository
	config       AuthServiceConfig
	validate     *validator.Validate
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo identity.CustomerRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	config AuthServiceConfig,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		config:       config,
		validate:     validator.New(),
	}
}

// FindOneByUserID returns the customer registered with the given user
func (s *CustomerService) FindOneByUserID(ctx context.Context, userID shared.ID) (*identity.Customer, error) {
	return s.customerRepo.FindByUserID(ctx, userID)
}

// FindAll lists customers
func (s *CustomerService) FindAll(ctx context.Context, opts shared.ListOptions) (shared.PaginatedList[identity.Customer], error) {
	return s.customerRepo.FindAll(ctx, opts.Normalize())
}

// Register creates a user with the customer role and a customer linked to it
func (s *CustomerService) Register(ctx context.Context, input RegisterCustomerInput) (*identity.Customer, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if _, err := s.customerRepo.FindByEmail(ctx, input.EmailAddress); err == nil {
		return nil, shared.NewDomainError("EMAIL_ADDRESS_CONFLICT", "A customer with this email address already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	customer, err := identity.NewCustomer(input.FirstName, input.LastName, input.EmailAddress)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(customer.EmailAddress, input.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}
	if input.Verified {
		user.MarkVerified()
	}
	role, err := s.roleRepo.FindByCode(ctx, identity.CustomerRoleCode)
	if err != nil {
		return nil, err
	}
	user.AssignRole(*role)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	customer.UserID = shared.IDPtr(user.ID)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
