package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrGameNotFound     = errors.New("game not found")
	ErrNoActiveGame     = errors.New("no active game")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// txErr keeps errors the engine already classified and marks the rest, such
// as a failed begin or commit, as store errors.
func txErr(op string, err error) error {
	for _, known := range []error{ErrValidation, ErrGameNotFound, ErrNoActiveGame, ErrStoreUnavailable} {
		if errors.Is(err, known) {
			return err
		}
	}
	return storeErr(op, err)
}
