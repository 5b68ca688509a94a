package order

import (
	"fmt"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Error result codes
const (
	OrderModificationErrorCode = "ORDER_MODIFICATION_ERROR"
	OrderLimitErrorCode        = "ORDER_LIMIT_ERROR"
	NegativeQuantityErrorCode  = "NEGATIVE_QUANTITY_ERROR"
	InsufficientStockErrorCode = "INSUFFICIENT_STOCK_ERROR"
)

// OrderModificationError is returned when an order can no longer be changed
type OrderModificationError struct {
	shared.BaseErrorResult
}

// NewOrderModificationError creates an OrderModificationError
func NewOrderModificationError() *OrderModificationError {
	return &OrderModificationError{shared.BaseErrorResult{
		Code: OrderModificationErrorCode,
		Msg:  "Order contents may only be modified when in the \"AddingItems\" state",
	}}
}

// OrderLimitError is returned when a quantity limit would be exceeded
type OrderLimitError struct {
	shared.BaseErrorResult
	MaxItems int
}

// NewOrderLimitError creates an OrderLimitError
func NewOrderLimitError(maxItems int) *OrderLimitError {
	return &OrderLimitError{
		BaseErrorResult: shared.BaseErrorResult{
			Code: OrderLimitErrorCode,
			Msg:  fmt.Sprintf("Cannot add items. An order may consist of a maximum of %d items", maxItems),
		},
		MaxItems: maxItems,
	}
}

// NegativeQuantityError is returned for quantities below zero
type NegativeQuantityError struct {
	shared.BaseErrorResult
}

// NewNegativeQuantityError creates a NegativeQuantityError
func NewNegativeQuantityError() *NegativeQuantityError {
	return &NegativeQuantityError{shared.BaseErrorResult{
		Code: NegativeQuantityErrorCode,
		Msg:  "The quantity for an OrderItem cannot be negative",
	}}
}

// InsufficientStockError is returned when only part of the requested quantity
// could be added. Order holds the order as modified with the available quantity.
type InsufficientStockError struct {
	shared.BaseErrorResult
	QuantityAvailable int
	Order             *Order
}

// NewInsufficientStockError creates an InsufficientStockError
func NewInsufficientStockError(quantityAvailable int, o *Order) *InsufficientStockError {
	return &InsufficientStockError{
		BaseErrorResult: shared.BaseErrorResult{
			Code: InsufficientStockErrorCode,
			Msg:  fmt.Sprintf("Only %d items were added to the order due to insufficient stock", quantityAvailable),
		},
		QuantityAvailable: quantityAvailable,
		Order:             o,
	}
}

// ErrLineNotFound is returned when a line ID does not belong to the order
var ErrLineNotFound = shared.NewDomainError("ORDER_LINE_NOT_FOUND", "Order line not found")
