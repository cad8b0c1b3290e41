package service

import (
	"errors"
	"time"

	"github.com/GintGld/video-baker/internal/models"
)

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrNoSession           = errors.New("no wallet session")

	ErrNetworkRead   = errors.New("network read failed")
	ErrTransaction   = errors.New("transaction failed")
	ErrValidation    = errors.New("validation failed")
	ErrVideoNotFound = errors.New("video not found")
)

// KindOf maps error to the failure kind shown to the presentation layer.
func KindOf(err error) models.FailureKind {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return models.KindProviderUnavailable
	case errors.Is(err, ErrAuthorizationDenied):
		return models.KindAuthorizationDenied
	case errors.Is(err, ErrNoSession):
		return models.KindNoSession
	case errors.Is(err, ErrValidation):
		return models.KindValidation
	case errors.Is(err, ErrTransaction):
		return models.KindTransaction
	case errors.Is(err, ErrNetworkRead):
		return models.KindNetworkRead
	case errors.Is(err, ErrVideoNotFound):
		return models.KindNotFound
	}
	return models.KindUnknown
}

// Failure builds view-state failure record for err.
func Failure(op string, err error) models.Failure {
	return models.Failure{
		Kind:    KindOf(err),
		Op:      op,
		Message: err.Error(),
		At:      time.Now(),
	}
}
