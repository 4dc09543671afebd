// Package storage provides the data persistence layer for tracking state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parcelflow/parcelflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateState ensures a state document is present and internally consistent.
func validateState(state *model.PersistedState) error {
	if state == nil {
		return fmt.Errorf("%w: state", ErrNilParameter)
	}
	return nil
}
