package entity

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrFlightNotFound      = errors.New("flight not found")
	ErrProviderUnavailable = errors.New("flight provider unavailable")
	ErrReferenceNotFound   = errors.New("reference data not found")
)
