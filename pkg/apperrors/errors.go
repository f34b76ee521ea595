package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNoDecision    = errors.New("no decision for work item")
	ErrNotConfigured = errors.New("not configured")
	ErrBadSignature  = errors.New("webhook signature verification failed")
	ErrUnauthorized  = errors.New("unauthorized")
)
