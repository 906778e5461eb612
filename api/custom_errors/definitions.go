package custom_errors

import "errors"

var (
	ErrConflict             = errors.New("record already exists")
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("invalid credentials")
	ErrInternalServer       = errors.New("internal server error")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrPaymentUnavailable   = errors.New("payment gateway unavailable")
	ErrInvalidSignature     = errors.New("invalid signature")
)
