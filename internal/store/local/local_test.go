package local

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engineersday/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	log := zerolog.Nop()
	s, err := Open(filepath.Join(t.TempDir(), "eventRegistrations.db"), &log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(email string) model.RegistrationRecord {
	return model.RegistrationRecord{
		EventID:           "code-cooking",
		EventName:         "Code Cooking",
		ParticipationType: model.ParticipationSolo,
		Participant1: model.Participant{
			FullName:   "Asha Patil",
			RollNumber: "CE-42",
			Email:      email,
			Phone:      "9876543210",
			Year:       "TE",
			Division:   "B",
		},
		Status: model.StatusPending,
	}
}

func TestSubmitAndListAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.Submit(ctx, record("first@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	time.Sleep(5 * time.Millisecond)

	id2, err := s.Submit(ctx, record("second@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "second@example.com", recs[0].Participant1.Email, "newest first")
	assert.Equal(t, "first@example.com", recs[1].Participant1.Email)
	assert.Equal(t, model.StatusPending, recs[0].Status)
	assert.False(t, recs[0].RegistrationDate.IsZero(), "store assigns the timestamp")
}

func TestSubmit_TeamRecordRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := record("team@example.com")
	rec.ParticipationType = model.ParticipationTeam
	rec.Participant2 = &model.Participant{
		FullName:   "Ravi Kulkarni",
		RollNumber: "CE-43",
		Email:      "ravi@example.com",
		Phone:      "9876543211",
		Year:       "TE",
		Division:   "B",
	}

	_, err := s.Submit(ctx, rec)
	require.NoError(t, err)

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Participant2)
	assert.Equal(t, "Ravi Kulkarni", recs[0].Participant2.FullName)
	assert.Equal(t, model.ParticipationTeam, recs[0].ParticipationType)
}

func TestOpen_IsIdempotent(t *testing.T) {
	log := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "eventRegistrations.db")

	s1, err := Open(path, &log)
	require.NoError(t, err)
	_, err = s1.Submit(context.Background(), record("kept@example.com"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening must keep the appended list intact.
	s2, err := Open(path, &log)
	require.NoError(t, err)
	defer s2.Close()

	recs, err := s2.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
