// Package order holds the Order aggregate and its lines.
package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// State is the lifecycle state of an order
type State string

const (
	StateAddingItems       State = "AddingItems"
	StateArrangingPayment  State = "ArrangingPayment"
	StatePaymentAuthorized State = "PaymentAuthorized"
	StatePaymentSettled    State = "PaymentSettled"
	StateCancelled         State = "Cancelled"
)

// IsValid checks if the state is known
func (s State) IsValid() bool {
	switch s {
	case StateAddingItems, StateArrangingPayment, StatePaymentAuthorized, StatePaymentSettled, StateCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the state can transition to the target state
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateAddingItems:
		return target == StateArrangingPayment || target == StateCancelled
	case StateArrangingPayment:
		return target == StateAddingItems || target == StatePaymentAuthorized ||
			target == StatePaymentSettled || target == StateCancelled
	case StatePaymentAuthorized:
		return target == StatePaymentSettled || target == StateCancelled
	case StatePaymentSettled, StateCancelled:
		return false
	}
	return false
}

// Limits bounds order quantities. Zero means unlimited.
type Limits struct {
	MaxItemsPerOrder   int
	MaxQuantityPerLine int
}

// Line is a single product variant in an order
type Line struct {
	shared.BaseEntity
	OrderID          shared.ID
	ProductVariantID shared.ID
	// ProductVariant is only set when explicitly loaded or hydrated
	ProductVariant       *catalog.ProductVariant
	Quantity             int
	ListPrice            int64
	ListPriceIncludesTax bool
	UnitPrice            int64
	UnitPriceWithTax     int64
	TaxRate              decimal.Decimal
}

// ApplyPrice sets the line's list price and derives net and gross unit prices
func (l *Line) ApplyPrice(listPrice int64, listPriceIncludesTax bool, rate tax.Rate) {
	l.ListPrice = listPrice
	l.ListPriceIncludesTax = listPriceIncludesTax
	l.TaxRate = rate.Value
	if listPriceIncludesTax {
		l.UnitPriceWithTax = listPrice
		l.UnitPrice = rate.NetPriceOf(listPrice)
	} else {
		l.UnitPrice = listPrice
		l.UnitPriceWithTax = rate.GrossPriceOf(listPrice)
	}
}

// LinePrice is the net price of all units
func (l *Line) LinePrice() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// LinePriceWithTax is the gross price of all units
func (l *Line) LinePriceWithTax() int64 {
	return l.UnitPriceWithTax * int64(l.Quantity)
}

// Order is the aggregate root of a shopping cart and its checkout lifecycle
type Order struct {
	shared.BaseAggregateRoot
	Code             string
	State            State
	Active           bool
	CustomerID       *shared.ID
	ChannelID        shared.ID
	CurrencyCode     string
	PricesIncludeTax bool
	ShippingMethodID *shared.ID
	// ShippingCountryCode is the destination country, empty until an address is set
	ShippingCountryCode string
	Lines               []Line
	SubTotal            int64
	SubTotalWithTax     int64
	Shipping            int64
	ShippingWithTax     int64
	Total               int64
	TotalWithTax        int64
	TotalQuantity       int
	OrderPlacedAt       *time.Time
}

// GenerateCode returns a random 16 character upper-case hex order code
func GenerateCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// NewOrder creates an empty active order in the AddingItems state
func NewOrder(channelID shared.ID, currencyCode string, pricesIncludeTax bool) (*Order, error) {
	if channelID.IsZero() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Order needs a channel")
	}
	if currencyCode == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Order needs a currency code")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              GenerateCode(),
		State:             StateAddingItems,
		Active:            true,
		ChannelID:         channelID,
		CurrencyCode:      currencyCode,
		PricesIncludeTax:  pricesIncludeTax,
		Lines:             make([]Line, 0),
	}, nil
}

// SetCustomer assigns the order to a customer
func (o *Order) SetCustomer(customerID shared.ID) {
	o.CustomerID = shared.IDPtr(customerID)
	o.Touch()
}

// BelongsTo reports whether the order is owned by the customer
func (o *Order) BelongsTo(customerID shared.ID) bool {
	return o.CustomerID != nil && *o.CustomerID == customerID
}

// CanModify reports whether lines may be changed
func (o *Order) CanModify() bool {
	return o.State == StateAddingItems
}

// Line returns the line with the given ID
func (o *Order) Line(lineID shared.ID) *Line {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}

// LineForVariant returns the line holding the variant, if any
func (o *Order) LineForVariant(variantID shared.ID) *Line {
	for i := range o.Lines {
		if o.Lines[i].ProductVariantID == variantID {
			return &o.Lines[i]
		}
	}
	return nil
}

// AddItem adds quantity of a variant, merging into an existing line for the same variant.
// A zero quantity leaves the order unchanged.
func (o *Order) AddItem(variantID shared.ID, quantity int, limits Limits) (*Line, shared.ErrorResult) {
	if !o.CanModify() {
		return nil, NewOrderModificationError()
	}
	if quantity < 0 {
		return nil, NewNegativeQuantityError()
	}
	existing := o.LineForVariant(variantID)
	if quantity == 0 {
		return existing, nil
	}
	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	if er := o.checkLimits(current, current+quantity, limits); er != nil {
		return nil, er
	}

	if existing != nil {
		existing.Quantity += quantity
		existing.Touch()
		o.afterLinesChanged()
		o.AddDomainEvent(NewOrderLineEvent(EventTypeOrderLineUpdated, o, existing))
		return existing, nil
	}

	o.Lines = append(o.Lines, Line{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          o.ID,
		ProductVariantID: variantID,
		Quantity:         quantity,
	})
	line := &o.Lines[len(o.Lines)-1]
	o.afterLinesChanged()
	o.AddDomainEvent(NewOrderLineEvent(EventTypeOrderLineAdded, o, line))
	return line, nil
}

// AdjustLine sets a line's quantity; zero removes the line
func (o *Order) AdjustLine(lineID shared.ID, quantity int, limits Limits) (shared.ErrorResult, error) {
	if !o.CanModify() {
		return NewOrderModificationError(), nil
	}
	if quantity < 0 {
		return NewNegativeQuantityError(), nil
	}
	line := o.Line(lineID)
	if line == nil {
		return nil, ErrLineNotFound
	}
	if quantity == 0 {
		return o.RemoveLine(lineID)
	}
	if er := o.checkLimits(line.Quantity, quantity, limits); er != nil {
		return er, nil
	}
	line.Quantity = quantity
	line.Touch()
	o.afterLinesChanged()
	o.AddDomainEvent(NewOrderLineEvent(EventTypeOrderLineUpdated, o, line))
	return nil, nil
}

// RemoveLine removes a line from the order
func (o *Order) RemoveLine(lineID shared.ID) (shared.ErrorResult, error) {
	if !o.CanModify() {
		return NewOrderModificationError(), nil
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			removed := o.Lines[i]
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.afterLinesChanged()
			o.AddDomainEvent(NewOrderLineEvent(EventTypeOrderLineRemoved, o, &removed))
			return nil, nil
		}
	}
	return nil, ErrLineNotFound
}

func (o *Order) checkLimits(currentLineQty, newLineQty int, limits Limits) shared.ErrorResult {
	if limits.MaxQuantityPerLine > 0 && newLineQty > limits.MaxQuantityPerLine {
		return NewOrderLimitError(limits.MaxQuantityPerLine)
	}
	if limits.MaxItemsPerOrder > 0 {
		total := o.quantitySum() - currentLineQty + newLineQty
		if total > limits.MaxItemsPerOrder {
			return NewOrderLimitError(limits.MaxItemsPerOrder)
		}
	}
	return nil
}

func (o *Order) quantitySum() int {
	sum := 0
	for _, l := range o.Lines {
		sum += l.Quantity
	}
	return sum
}

func (o *Order) afterLinesChanged() {
	o.RecalculateTotals()
	o.Touch()
}

// SetShippingCountry records the destination country used for tax zone resolution
func (o *Order) SetShippingCountry(countryCode string) {
	o.ShippingCountryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	o.Touch()
}

// SetShipping sets the chosen shipping method and its prices
func (o *Order) SetShipping(methodID shared.ID, price, priceWithTax int64) {
	o.ShippingMethodID = shared.IDPtr(methodID)
	o.Shipping = price
	o.ShippingWithTax = priceWithTax
	o.RecalculateTotals()
}

// RecalculateTotals sums line prices and shipping into the order totals
func (o *Order) RecalculateTotals() {
	var sub, subWithTax int64
	for i := range o.Lines {
		sub += o.Lines[i].LinePrice()
		subWithTax += o.Lines[i].LinePriceWithTax()
	}
	o.SubTotal = sub
	o.SubTotalWithTax = subWithTax
	o.Total = sub + o.Shipping
	o.TotalWithTax = subWithTax + o.ShippingWithTax
	o.TotalQuantity = o.quantitySum()
}

// TransitionTo moves the order to another state
func (o *Order) TransitionTo(target State) error {
	if !o.State.CanTransitionTo(target) {
		return shared.NewDomainError("ILLEGAL_ORDER_STATE_TRANSITION",
			"Cannot transition Order from \""+string(o.State)+"\" to \""+string(target)+"\"")
	}
	from := o.State
	o.State = target
	switch target {
	case StatePaymentAuthorized, StatePaymentSettled:
		if o.OrderPlacedAt == nil {
			now := time.Now()
			o.OrderPlacedAt = &now
		}
		o.Active = false
	case StateCancelled:
		o.Active = false
	}
	o.Touch()
	o.AddDomainEvent(NewOrderStateTransitionEvent(o, from, target))
	return nil
}
