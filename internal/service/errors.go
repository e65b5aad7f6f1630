package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrFreeMealHasRecipe  = errors.New("a free meal cannot reference a recipe")
	ErrSlotCompleted      = errors.New("meal slot is already completed")
	ErrParserUnavailable  = errors.New("recipe photo parser is not configured")
	ErrDraftNotFound      = errors.New("draft not found or expired")
	ErrStorageUnavailable = errors.New("storage is not configured")
)

// invalidf wraps ErrInvalidInput with a message for the caller
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// translate maps gorm's not-found error onto ErrNotFound and wraps everything else
func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
