// Package channel models sales channels: the partition of a store by
// storefront, currency and tax defaults.
package channel

import (
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DefaultChannelCode is the code of the channel created on first population
const DefaultChannelCode = "__default_channel__"

// Channel is a sales context with its own currency, language and tax defaults
type Channel struct {
	shared.BaseEntity
	Code                  string
	Token                 string
	DefaultLanguageCode   string
	CurrencyCode          string
	PricesIncludeTax      bool
	DefaultTaxZoneID      *shared.ID
	DefaultShippingZoneID *shared.ID
}

// NewChannel creates a channel after validating its language and currency codes
func NewChannel(code, token, languageCode, currencyCode string) (*Channel, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL_CODE", "Channel code cannot be empty")
	}
	if token == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL_TOKEN", "Channel token cannot be empty")
	}
	lang, err := language.Parse(languageCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LANGUAGE_CODE", "Unknown language code: "+languageCode)
	}
	cur, err := currency.ParseISO(strings.ToUpper(currencyCode))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY_CODE", "Unknown currency code: "+currencyCode)
	}

	return &Channel{
		BaseEntity:          shared.NewBaseEntity(),
		Code:                code,
		Token:               token,
		DefaultLanguageCode: lang.String(),
		CurrencyCode:        cur.String(),
	}, nil
}

// IsDefault reports whether this is the default channel
func (c *Channel) IsDefault() bool {
	return c.Code == DefaultChannelCode
}

// SetDefaultZones sets both tax and shipping default zones
func (c *Channel) SetDefaultZones(zoneID shared.ID) {
	c.DefaultTaxZoneID = shared.IDPtr(zoneID)
	c.DefaultShippingZoneID = shared.IDPtr(zoneID)
	c.Touch()
}
