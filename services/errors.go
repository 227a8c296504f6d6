package services

import (
	"errors"

	"notesai/notesai/models"
	"notesai/notesai/utils/notecontent"
)

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrResourceExists     = errors.New("resource already exists")

	ErrTitleRequired = errors.New("title is required")
	ErrTextRequired  = errors.New("text is required")
	ErrTooManyTags   = errors.New("too many tags")
	ErrEmptyContent  = errors.New("note content is empty")

	ErrInvalidSort  = models.ErrInvalidSort
	ErrInvalidColor = notecontent.ErrInvalidColor
	ErrInvalidStyle = notecontent.ErrInvalidStyle
)

// IsValidationError reports whether err should be answered with 400.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrTitleRequired,
		ErrTextRequired,
		ErrTooManyTags,
		ErrEmptyContent,
		ErrInvalidSort,
		ErrInvalidColor,
		ErrInvalidStyle,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
