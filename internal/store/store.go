package store

import (
	"context"
	"errors"

	"engineersday/internal/model"
)

var (
	ErrBackendUnavailable    = errors.New("backend unavailable")
	ErrRejectedByStore       = errors.New("rejected by store")
	ErrEventNotFound         = errors.New("event not found")
	ErrDuplicateRegistration = errors.New("duplicate registration")
)

// Sink is one place a registration can land. The store assigns the
// registration timestamp and the record id at write time.
type Sink interface {
	Submit(ctx context.Context, rec model.RegistrationRecord) (string, error)
	ListAll(ctx context.Context) ([]model.RegistrationRecord, error)
}

// DuplicateChecker is the optional advisory pre-check. Best-effort only:
// callers must treat a failed check as "not registered".
type DuplicateChecker interface {
	CheckDuplicate(ctx context.Context, email, eventID string) (bool, error)
}
