package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"engineersday/internal/model"
	"engineersday/internal/store"
)

// Store is the hosted document-store stand-in: the primary sink for
// registrations plus the read path for events.
type Store struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func New(db *dbpg.DB, log *zerolog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := s.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	s.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

// Submit inserts the flattened record. The store assigns the registration
// timestamp; the id is generated here so the fallback path can share the
// same shape.
func (s *Store) Submit(ctx context.Context, rec model.RegistrationRecord) (string, error) {
	query := `
		INSERT INTO registrations (
			id, event_id, event_name, participation_type,
			full_name, roll_number, email, phone, year, division,
			member2_full_name, member2_roll_number, member2_email,
			member2_phone, member2_year, member2_division,
			status, registration_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, NOW())
		RETURNING id
	`

	var m2 model.Participant
	if rec.Participant2 != nil {
		m2 = *rec.Participant2
	}

	row := s.db.QueryRowContext(ctx, query,
		uuid.NewString(), rec.EventID, rec.EventName, string(rec.ParticipationType),
		rec.Participant1.FullName, rec.Participant1.RollNumber, rec.Participant1.Email,
		rec.Participant1.Phone, rec.Participant1.Year, rec.Participant1.Division,
		m2.FullName, m2.RollNumber, m2.Email, m2.Phone, m2.Year, m2.Division,
		string(model.StatusPending),
	)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", classify(err)
	}
	return id, nil
}

// CheckDuplicate reports whether this email already registered for the event.
func (s *Store) CheckDuplicate(ctx context.Context, email, eventID string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND LOWER(email) = LOWER($2) AND status != 'cancelled'
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, eventID, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	query := `
		SELECT id, event_id, event_name, participation_type,
		       full_name, roll_number, email, phone, year, division,
		       member2_full_name, member2_roll_number, member2_email,
		       member2_phone, member2_year, member2_division,
		       status, registration_date
		FROM registrations
		ORDER BY registration_date DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var recs []model.RegistrationRecord
	for rows.Next() {
		rec, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (s *Store) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	query := `
		SELECT id, name, description, category, date, display_time, location,
		       max_participants, current_participants, is_active, created_at, updated_at
		FROM events WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var e model.Event
	if err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Category, &e.Date, &e.DisplayTime, &e.Location,
		&e.MaxParticipants, &e.CurrentParticipants, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, store.ErrEventNotFound
	}
	return &e, nil
}

func (s *Store) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	query := `
		SELECT id, name, description, category, date, display_time, location,
		       max_participants, current_participants, is_active, created_at, updated_at
		FROM events
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Category, &e.Date, &e.DisplayTime, &e.Location,
			&e.MaxParticipants, &e.CurrentParticipants, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// IncrementParticipants bumps the live participant counter after a primary
// write lands. Counter drift on fallback writes is accepted.
func (s *Store) IncrementParticipants(ctx context.Context, eventID string) error {
	query := `
		UPDATE events
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := s.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("failed to increment participant count: %w", err)
	}
	return nil
}

func (s *Store) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status != 'cancelled'
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func scanRegistration(rows *sql.Rows) (model.RegistrationRecord, error) {
	var rec model.RegistrationRecord
	var ptype string
	var status string
	var m2 model.Participant

	if err := rows.Scan(
		&rec.ID, &rec.EventID, &rec.EventName, &ptype,
		&rec.Participant1.FullName, &rec.Participant1.RollNumber, &rec.Participant1.Email,
		&rec.Participant1.Phone, &rec.Participant1.Year, &rec.Participant1.Division,
		&m2.FullName, &m2.RollNumber, &m2.Email, &m2.Phone, &m2.Year, &m2.Division,
		&status, &rec.RegistrationDate,
	); err != nil {
		return rec, err
	}

	rec.ParticipationType = model.ParticipationType(ptype)
	rec.Status = model.RegistrationStatus(status)
	if m2.FullName != "" {
		rec.Participant2 = &m2
	}
	return rec, nil
}

// classify folds driver errors into the store taxonomy: constraint and data
// errors are rejections, anything else means the store is unreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if errors.Is(err, sql.ErrNoRows) ||
		strings.Contains(msg, "violates") ||
		strings.Contains(msg, "duplicate key") {
		return fmt.Errorf("%w: %v", store.ErrRejectedByStore, err)
	}
	return fmt.Errorf("%w: %v", store.ErrBackendUnavailable, err)
}
