package model

import "time"

type ParticipationType string

const (
	ParticipationSolo ParticipationType = "Solo"
	ParticipationTeam ParticipationType = "Team"
)

type EventCategory string

const (
	// CategoryOpen events (e.g. poster presentations) have no participation
	// type and never collect a second participant.
	CategoryOpen     EventCategory = "open"
	CategoryStandard EventCategory = "standard"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

type Event struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Description         string    `db:"description,omitempty" json:"description,omitempty"`
	Category            string    `db:"category" json:"category"`
	Date                time.Time `db:"date" json:"date"`
	DisplayTime         string    `db:"display_time" json:"display_time"`
	Location            string    `db:"location,omitempty" json:"location,omitempty"`
	MaxParticipants     int       `db:"max_participants" json:"max_participants"`
	CurrentParticipants int       `db:"current_participants" json:"current_participants"`
	IsActive            bool      `db:"is_active" json:"is_active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

type Participant struct {
	FullName   string `db:"full_name" json:"full_name"`
	RollNumber string `db:"roll_number" json:"roll_number"`
	Email      string `db:"email" json:"email"`
	Phone      string `db:"phone" json:"phone"`
	Year       string `db:"year" json:"year"`
	Division   string `db:"division" json:"division"`
}

// RegistrationRecord is the persisted form of one submission. It is created
// exactly once per successful attempt and never mutated by the workflow
// afterwards; later status transitions belong to the admin side.
type RegistrationRecord struct {
	ID                string             `db:"id" json:"id"`
	EventID           string             `db:"event_id" json:"event_id"`
	EventName         string             `db:"event_name" json:"event_name"`
	ParticipationType ParticipationType  `db:"participation_type" json:"participation_type,omitempty"`
	Participant1      Participant        `json:"participant1"`
	Participant2      *Participant       `json:"participant2,omitempty"`
	Status            RegistrationStatus `db:"status" json:"status"`
	RegistrationDate  time.Time          `db:"registration_date" json:"registration_date"`
}

func (r *RegistrationRecord) IsTeam() bool {
	return r.Participant2 != nil
}
