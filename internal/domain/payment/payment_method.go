// Package payment defines the payment methods a channel accepts.
package payment

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Method is a payment method backed by a named handler
type Method struct {
	shared.BaseEntity
	Code        string
	Name        string
	Enabled     bool
	HandlerCode string
	HandlerArgs map[string]string
}

// NewMethod creates an enabled payment method
func NewMethod(name, handlerCode string, args map[string]string) (*Method, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD_NAME", "Payment method name cannot be empty")
	}
	if strings.TrimSpace(handlerCode) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_HANDLER", "Payment handler code cannot be empty")
	}
	if args == nil {
		args = map[string]string{}
	}
	return &Method{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        name,
		Name:        name,
		Enabled:     true,
		HandlerCode: handlerCode,
		HandlerArgs: args,
	}, nil
}

// Repository persists payment methods
type Repository interface {
	FindAll(ctx context.Context) ([]Method, error)
	Save(ctx context.Context, m *Method) error
}
