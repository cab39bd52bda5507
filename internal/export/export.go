package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"engineersday/internal/model"
)

// Lister is the admin read path: all registrations, newest first.
type Lister interface {
	ListAll(ctx context.Context) ([]model.RegistrationRecord, error)
}

var header = []string{
	"Registration ID",
	"Event",
	"Participation Type",
	"Full Name",
	"Roll Number",
	"Email",
	"Phone",
	"Year",
	"Division",
	"Member 2 Full Name",
	"Member 2 Roll Number",
	"Member 2 Email",
	"Member 2 Phone",
	"Member 2 Year",
	"Member 2 Division",
	"Status",
	"Registration Date",
}

// RegistrationsCSV renders every registration as CSV, newest first (the
// order the lister returns).
func RegistrationsCSV(ctx context.Context, lister Lister) ([]byte, error) {
	recs, err := lister.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range recs {
		var m2 model.Participant
		if rec.Participant2 != nil {
			m2 = *rec.Participant2
		}
		row := []string{
			rec.ID,
			rec.EventName,
			string(rec.ParticipationType),
			rec.Participant1.FullName,
			rec.Participant1.RollNumber,
			rec.Participant1.Email,
			rec.Participant1.Phone,
			rec.Participant1.Year,
			rec.Participant1.Division,
			m2.FullName,
			m2.RollNumber,
			m2.Email,
			m2.Phone,
			m2.Year,
			m2.Division,
			string(rec.Status),
			rec.RegistrationDate.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the dated attachment name for a registrations export.
func Filename(now time.Time) string {
	return fmt.Sprintf("engineersday-registrations-%s.csv", now.Format("2006-01-02"))
}
