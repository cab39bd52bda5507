package local

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"engineersday/internal/model"
)

// Store is the locally durable fallback sink: a single-file sqlite database
// holding the event_registrations list. Records land here only when the
// hosted store refuses a write; nothing in this package ever prunes them.
type Store struct {
	db  *sql.DB
	log *zerolog.Logger
}

// Schema is append-only on purpose; the workflow never updates or deletes.
const schema = `
CREATE TABLE IF NOT EXISTS event_registrations (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    event_name TEXT NOT NULL,
    participation_type TEXT NOT NULL DEFAULT '',
    full_name TEXT NOT NULL,
    roll_number TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL,
    year TEXT NOT NULL,
    division TEXT NOT NULL,
    member2_full_name TEXT NOT NULL DEFAULT '',
    member2_roll_number TEXT NOT NULL DEFAULT '',
    member2_email TEXT NOT NULL DEFAULT '',
    member2_phone TEXT NOT NULL DEFAULT '',
    member2_year TEXT NOT NULL DEFAULT '',
    member2_division TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    registration_date TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_registrations_date
    ON event_registrations(registration_date);
`

func Open(path string, log *zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Submit appends the record with a generated id and a local timestamp.
func (s *Store) Submit(ctx context.Context, rec model.RegistrationRecord) (string, error) {
	query := `
		INSERT INTO event_registrations (
			id, event_id, event_name, participation_type,
			full_name, roll_number, email, phone, year, division,
			member2_full_name, member2_roll_number, member2_email,
			member2_phone, member2_year, member2_division,
			status, registration_date
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var m2 model.Participant
	if rec.Participant2 != nil {
		m2 = *rec.Participant2
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, query,
		id, rec.EventID, rec.EventName, string(rec.ParticipationType),
		rec.Participant1.FullName, rec.Participant1.RollNumber, rec.Participant1.Email,
		rec.Participant1.Phone, rec.Participant1.Year, rec.Participant1.Division,
		m2.FullName, m2.RollNumber, m2.Email, m2.Phone, m2.Year, m2.Division,
		string(model.StatusPending), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to append local registration: %w", err)
	}

	s.log.Debug().Str("registration_id", id).Msg("registration appended to local store")
	return id, nil
}

func (s *Store) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	query := `
		SELECT id, event_id, event_name, participation_type,
		       full_name, roll_number, email, phone, year, division,
		       member2_full_name, member2_roll_number, member2_email,
		       member2_phone, member2_year, member2_division,
		       status, registration_date
		FROM event_registrations
		ORDER BY registration_date DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list local registrations: %w", err)
	}
	defer rows.Close()

	var recs []model.RegistrationRecord
	for rows.Next() {
		var rec model.RegistrationRecord
		var ptype, status string
		var m2 model.Participant
		if err := rows.Scan(
			&rec.ID, &rec.EventID, &rec.EventName, &ptype,
			&rec.Participant1.FullName, &rec.Participant1.RollNumber, &rec.Participant1.Email,
			&rec.Participant1.Phone, &rec.Participant1.Year, &rec.Participant1.Division,
			&m2.FullName, &m2.RollNumber, &m2.Email, &m2.Phone, &m2.Year, &m2.Division,
			&status, &rec.RegistrationDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan local registration: %w", err)
		}
		rec.ParticipationType = model.ParticipationType(ptype)
		rec.Status = model.RegistrationStatus(status)
		if m2.FullName != "" {
			rec.Participant2 = &m2
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
