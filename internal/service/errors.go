package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation")         // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400, deliberately generic
	ErrNotFound           = errors.New("not found")          // 404
	ErrConflict           = errors.New("conflict")           // 409
)

// Reason strips the sentinel prefix from a wrapped service error, leaving
// the human-readable part for the response body.
func Reason(err error, fallback string) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, ": "); ok {
		return after
	}
	return fallback
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
