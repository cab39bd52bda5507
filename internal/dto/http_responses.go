package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"engineersday/internal/notify"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ValidationFailed   = "VALIDATION_FAILED"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound         = "EVENT_NOT_FOUND"
	RegistrationClosed    = "REGISTRATION_CLOSED"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
	RegistrationFailed    = "REGISTRATION_FAILED"
	SubmissionInFlight    = "SUBMISSION_IN_FLIGHT"
)

// RegisterRequest is the raw form snapshot as posted by the page shell. The
// real field rules live in the form engine; the tags here only reject
// structurally hopeless payloads before a form instance is built.
type RegisterRequest struct {
	Event             string `json:"event" validate:"max=255"`
	ParticipationType string `json:"participationType" validate:"max=16"`

	FullName   string `json:"fullName" validate:"max=255"`
	RollNumber string `json:"rollNumber" validate:"max=64"`
	Email      string `json:"email" validate:"max=255"`
	Phone      string `json:"phone" validate:"max=32"`
	Year       string `json:"year" validate:"max=8"`
	Division   string `json:"division" validate:"max=8"`

	Member2FullName   string `json:"member2FullName" validate:"max=255"`
	Member2RollNumber string `json:"member2RollNumber" validate:"max=64"`
	Member2Email      string `json:"member2Email" validate:"max=255"`
	Member2Phone      string `json:"member2Phone" validate:"max=32"`
	Member2Year       string `json:"member2Year" validate:"max=8"`
	Member2Division   string `json:"member2Division" validate:"max=8"`
}

type RegisterResponse struct {
	RegistrationID string               `json:"registration_id"`
	EventID        string               `json:"event_id"`
	EventName      string               `json:"event_name"`
	Status         string               `json:"status"`
	Notification   *notify.Notification `json:"notification,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type EventResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	Date                time.Time `json:"date"`
	DisplayTime         string    `json:"display_time"`
	Location            string    `json:"location"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	IsActive            bool      `json:"is_active"`
	Registrations       int       `json:"registrations,omitempty"`
}

type StatusResponse struct {
	EventName          string    `json:"event_name"`
	EventDate          time.Time `json:"event_date"`
	EventLocation      string    `json:"event_location"`
	Deadline           time.Time `json:"registration_deadline"`
	IsRegistrationOpen bool      `json:"is_registration_open"`
	IsEventLive        bool      `json:"is_event_live"`
	DaysUntilDeadline  int       `json:"days_until_deadline"`
	DaysUntilEvent     int       `json:"days_until_event"`
}

type Response struct {
	Status string            `json:"status"`
	Error  *Error            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

// FieldErrorsResponse surfaces the full violated-field set inline, one
// message per field, never as a toast.
func FieldErrorsResponse(c *ginext.Context, fields map[string]string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: ValidationFailed,
			Desc: "One or more fields are invalid",
		},
		Fields: fields,
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func EventNotFoundError(c *ginext.Context) {
	BadResponseError(c, EventNotFound, "Event not found")
}

func RegistrationClosedError(c *ginext.Context) {
	BadResponseError(c, RegistrationClosed, "Registration is closed")
}

func RegistrationDuplicateError(c *ginext.Context) {
	BadResponseError(c, RegistrationDuplicate, "You have already registered for this event")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
