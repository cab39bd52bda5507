package export

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engineersday/internal/model"
)

type fakeLister struct {
	recs []model.RegistrationRecord
}

func (f *fakeLister) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	return f.recs, nil
}

func TestRegistrationsCSV(t *testing.T) {
	newer := model.RegistrationRecord{
		ID:                "r2",
		EventName:         "Code Cooking",
		ParticipationType: model.ParticipationTeam,
		Participant1: model.Participant{
			FullName: "Asha Patil", RollNumber: "CE-42", Email: "asha@example.com",
			Phone: "9876543210", Year: "TE", Division: "B",
		},
		Participant2: &model.Participant{
			FullName: "Ravi Kulkarni", RollNumber: "CE-43", Email: "ravi@example.com",
			Phone: "9876543211", Year: "TE", Division: "B",
		},
		Status:           model.StatusPending,
		RegistrationDate: time.Date(2025, 9, 18, 10, 0, 0, 0, time.UTC),
	}
	older := model.RegistrationRecord{
		ID:        "r1",
		EventName: "Technical Poster",
		Participant1: model.Participant{
			FullName: "Neha Joshi", RollNumber: "CE-17", Email: "neha@example.com",
			Phone: "9876500000", Year: "BE", Division: "A",
		},
		Status:           model.StatusConfirmed,
		RegistrationDate: time.Date(2025, 9, 17, 9, 0, 0, 0, time.UTC),
	}

	out, err := RegistrationsCSV(context.Background(), &fakeLister{recs: []model.RegistrationRecord{newer, older}})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Registration ID", rows[0][0])
	assert.Equal(t, "r2", rows[1][0], "newest first")
	assert.Equal(t, "Ravi Kulkarni", rows[1][9])
	assert.Equal(t, "r1", rows[2][0])
	assert.Equal(t, "", rows[2][9], "solo rows leave member 2 columns empty")
	assert.Equal(t, "confirmed", rows[2][15])
}

func TestFilename(t *testing.T) {
	name := Filename(time.Date(2025, 9, 18, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "engineersday-registrations-2025-09-18.csv", name)
}
