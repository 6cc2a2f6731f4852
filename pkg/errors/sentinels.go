package errors

import "errors"

// Infrastructure sentinels, kept apart from the business Definitions.
var (
	ErrDatabaseConnectionNil = errors.New("database connection is nil")
	ErrTokenStoreUninitial   = errors.New("token store is not initialized")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidTokenClaims    = errors.New("invalid token claims")
	ErrUnexpectedSigningAlg  = errors.New("unexpected token signing method")
	ErrMQConnectionNil       = errors.New("rabbitmq connection is nil")
	ErrReconcilerAlreadyBusy = errors.New("reconciler run already in progress")
)
