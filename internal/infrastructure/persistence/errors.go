package persistence

import (
	"errors"

	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm's not-found error onto the domain sentinel
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
