package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"engineersday/internal/model"
)

// SinkName identifies which sink accepted a registration.
type SinkName string

const (
	SinkPrimary  SinkName = "primary"
	SinkFallback SinkName = "fallback"
)

// Registrar runs the two-step write saga: try the hosted store, and when it
// fails for any reason append to the local fallback instead. The attempt
// succeeds iff either sink takes the record. Availability is bought at the
// price of records that may exist only locally.
type Registrar struct {
	primary  Sink
	fallback Sink
	checker  DuplicateChecker
	log      *zerolog.Logger
}

func NewRegistrar(primary, fallback Sink, checker DuplicateChecker, log *zerolog.Logger) *Registrar {
	return &Registrar{
		primary:  primary,
		fallback: fallback,
		checker:  checker,
		log:      log,
	}
}

// Register writes the record. The returned SinkName reports where it landed;
// an error means both sinks refused it.
func (r *Registrar) Register(ctx context.Context, rec model.RegistrationRecord) (string, SinkName, error) {
	id, err := r.primary.Submit(ctx, rec)
	if err == nil {
		return id, SinkPrimary, nil
	}

	r.log.Warn().Err(err).
		Str("event_id", rec.EventID).
		Msg("primary sink failed, trying local fallback")

	if r.fallback == nil {
		return "", "", fmt.Errorf("primary submit: %w", err)
	}

	fid, ferr := r.fallback.Submit(ctx, rec)
	if ferr != nil {
		r.log.Error().Err(ferr).
			Str("event_id", rec.EventID).
			Msg("fallback sink failed")
		return "", "", fmt.Errorf("fallback submit after primary failure (%v): %w", err, ferr)
	}

	r.log.Info().
		Str("registration_id", fid).
		Str("event_id", rec.EventID).
		Msg("registration saved to local fallback")
	return fid, SinkFallback, nil
}

// CheckDuplicate is advisory. Any error from the underlying check reads as
// "not registered" so an unreachable backend never blocks submission.
func (r *Registrar) CheckDuplicate(ctx context.Context, email, eventID string) bool {
	if r.checker == nil {
		return false
	}
	dup, err := r.checker.CheckDuplicate(ctx, email, eventID)
	if err != nil {
		r.log.Warn().Err(err).Msg("duplicate check failed, proceeding with submission")
		return false
	}
	return dup
}

// ListAll reads the primary store newest-first, falling back to the local
// list when the primary is unreachable. Used by the export path only.
func (r *Registrar) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	recs, err := r.primary.ListAll(ctx)
	if err == nil || r.fallback == nil {
		return recs, err
	}
	r.log.Warn().Err(err).Msg("primary list failed, reading local fallback")
	return r.fallback.ListAll(ctx)
}
