package connection

import "errors"

var (
	// Credential errors
	ErrInvalidSellerID      = errors.New("connection: invalid seller ID")
	ErrInvalidProviderKind  = errors.New("connection: invalid provider kind")
	ErrInvalidProviderCode  = errors.New("connection: invalid provider code")
	ErrProviderKindMismatch = errors.New("connection: provider code does not match provider kind")
	ErrMissingAccountID     = errors.New("connection: account identifier is required")
	ErrMissingAccessToken   = errors.New("connection: access token is required")
	ErrMissingStoreDomain   = errors.New("connection: store domain is required")

	// Probe and fetch errors
	ErrProviderUnreachable = errors.New("connection: provider unreachable")
	ErrProviderAuthFailed  = errors.New("connection: provider authentication failed")

	// State machine precondition errors
	ErrNotConnected         = errors.New("connection: provider is not connected")
	ErrNotPendingActivation = errors.New("connection: provider is not awaiting activation")
	ErrSyncInProgress       = errors.New("connection: a sync is already in progress")
	ErrSyncFatal            = errors.New("connection: initial sync failed for every item")

	// Registry errors
	ErrProviderNotRegistered = errors.New("connection: no adapter registered for provider code")
)
