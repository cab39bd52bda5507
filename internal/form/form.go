package form

import (
	"regexp"
	"strings"

	"engineersday/internal/model"
)

// Data is one raw snapshot of the registration form. Everything is a string
// exactly as the user typed it; Sanitize and Validate decide what it means.
type Data struct {
	Event             string `json:"event"`
	ParticipationType string `json:"participationType"`

	FullName   string `json:"fullName"`
	RollNumber string `json:"rollNumber"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Year       string `json:"year"`
	Division   string `json:"division"`

	Member2FullName   string `json:"member2FullName"`
	Member2RollNumber string `json:"member2RollNumber"`
	Member2Email      string `json:"member2Email"`
	Member2Phone      string `json:"member2Phone"`
	Member2Year       string `json:"member2Year"`
	Member2Division   string `json:"member2Division"`
}

// Context is the active form configuration: which event category is selected
// and how the user chose to participate. It decides which fields are
// required at all.
type Context struct {
	EventCategory     model.EventCategory
	ParticipationType model.ParticipationType
}

// TeamFieldsActive reports whether the participant-2 block is part of the
// form. Open-category events never collect a second participant.
func (c Context) TeamFieldsActive() bool {
	return c.ParticipationType == model.ParticipationTeam && c.EventCategory != model.CategoryOpen
}

// Errors maps a form field name to a human-readable message. Empty means
// submittable.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Clear drops the error for one field. The shell calls this as soon as the
// user edits that field, without re-running full validation.
func (e Errors) Clear(field string) {
	delete(e, field)
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[1-9][0-9]{0,15}$`)

	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

const (
	msgRequired     = "This field is required"
	msgNameTooShort = "Name must be at least 2 characters"
	msgBadEmail     = "Enter a valid email address"
	msgBadPhone     = "Enter a valid phone number"
	msgBadYear      = "Select SE, TE or BE"
	msgBadDivision  = "Select division A, B or C"
	msgBadType      = "Choose Solo or Team"
)

// Validate maps a form snapshot to the full set of violated fields in one
// pass. Fields that are inactive for the given context are never checked and
// never appear in the result. Pure: identical input yields identical errors.
func Validate(d Data, fctx Context) Errors {
	errs := Errors{}

	if strings.TrimSpace(d.Event) == "" {
		errs["event"] = msgRequired
	}

	if fctx.EventCategory != model.CategoryOpen {
		switch model.ParticipationType(strings.TrimSpace(d.ParticipationType)) {
		case model.ParticipationSolo, model.ParticipationTeam:
		case "":
			errs["participationType"] = msgRequired
		default:
			errs["participationType"] = msgBadType
		}
	}

	validateParticipant(errs, participantFields{
		fullName:   d.FullName,
		rollNumber: d.RollNumber,
		email:      d.Email,
		phone:      d.Phone,
		year:       d.Year,
		division:   d.Division,
	}, "")

	if fctx.TeamFieldsActive() {
		validateParticipant(errs, participantFields{
			fullName:   d.Member2FullName,
			rollNumber: d.Member2RollNumber,
			email:      d.Member2Email,
			phone:      d.Member2Phone,
			year:       d.Member2Year,
			division:   d.Member2Division,
		}, "member2")
	}

	return errs
}

type participantFields struct {
	fullName   string
	rollNumber string
	email      string
	phone      string
	year       string
	division   string
}

func validateParticipant(errs Errors, p participantFields, prefix string) {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + strings.ToUpper(name[:1]) + name[1:]
	}

	name := strings.TrimSpace(p.fullName)
	switch {
	case name == "":
		errs[key("fullName")] = msgRequired
	case len(name) < 2:
		errs[key("fullName")] = msgNameTooShort
	}

	if strings.TrimSpace(p.rollNumber) == "" {
		errs[key("rollNumber")] = msgRequired
	}

	email := strings.TrimSpace(p.email)
	switch {
	case email == "":
		errs[key("email")] = msgRequired
	case !emailRe.MatchString(email):
		errs[key("email")] = msgBadEmail
	}

	phone := phoneStripper.Replace(strings.TrimSpace(p.phone))
	switch {
	case phone == "":
		errs[key("phone")] = msgRequired
	case !phoneRe.MatchString(phone):
		errs[key("phone")] = msgBadPhone
	}

	year := strings.TrimSpace(p.year)
	switch year {
	case "":
		errs[key("year")] = msgRequired
	case "SE", "TE", "BE":
	default:
		errs[key("year")] = msgBadYear
	}

	division := strings.TrimSpace(p.division)
	switch division {
	case "":
		errs[key("division")] = msgRequired
	case "A", "B", "C":
	default:
		errs[key("division")] = msgBadDivision
	}
}

// Sanitize trims every string and lower-cases emails. It runs after
// validation passes and before anything leaves for a sink.
func Sanitize(d Data) Data {
	d.Event = strings.TrimSpace(d.Event)
	d.ParticipationType = strings.TrimSpace(d.ParticipationType)

	d.FullName = strings.TrimSpace(d.FullName)
	d.RollNumber = strings.TrimSpace(d.RollNumber)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Year = strings.TrimSpace(d.Year)
	d.Division = strings.TrimSpace(d.Division)

	d.Member2FullName = strings.TrimSpace(d.Member2FullName)
	d.Member2RollNumber = strings.TrimSpace(d.Member2RollNumber)
	d.Member2Email = strings.ToLower(strings.TrimSpace(d.Member2Email))
	d.Member2Phone = strings.TrimSpace(d.Member2Phone)
	d.Member2Year = strings.TrimSpace(d.Member2Year)
	d.Member2Division = strings.TrimSpace(d.Member2Division)

	return d
}

// Record builds the persistable registration from a sanitized snapshot.
func Record(d Data, eventID string, fctx Context) model.RegistrationRecord {
	rec := model.RegistrationRecord{
		EventID:           eventID,
		EventName:         d.Event,
		ParticipationType: model.ParticipationType(d.ParticipationType),
		Participant1: model.Participant{
			FullName:   d.FullName,
			RollNumber: d.RollNumber,
			Email:      d.Email,
			Phone:      d.Phone,
			Year:       d.Year,
			Division:   d.Division,
		},
		Status: model.StatusPending,
	}
	if fctx.EventCategory == model.CategoryOpen {
		rec.ParticipationType = ""
	}
	if fctx.TeamFieldsActive() {
		rec.Participant2 = &model.Participant{
			FullName:   d.Member2FullName,
			RollNumber: d.Member2RollNumber,
			Email:      d.Member2Email,
			Phone:      d.Member2Phone,
			Year:       d.Member2Year,
			Division:   d.Member2Division,
		}
	}
	return rec
}
