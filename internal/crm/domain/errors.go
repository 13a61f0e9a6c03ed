package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/storedesk/storedesk-backend/internal/records"
)

var (
	ErrNoLocation = errors.New("no location assigned to the current user")
	ErrForbidden  = errors.New("operation not permitted for this location")

	// ErrNotFound is shared with the store layer so errors.Is matches either.
	ErrNotFound = records.ErrNotFound
)

// ValidationError is a single form-level problem, keyed by the JSON field name.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationErrors is returned by Validate and never reaches a repository write.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
