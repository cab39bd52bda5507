package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engineersday/internal/model"
)

func validSolo() Data {
	return Data{
		Event:             "Code Cooking",
		ParticipationType: "Solo",
		FullName:          "Asha Patil",
		RollNumber:        "CE-42",
		Email:             "asha@example.com",
		Phone:             "+91 98765-43210",
		Year:              "TE",
		Division:          "B",
	}
}

func soloContext() Context {
	return Context{
		EventCategory:     model.CategoryStandard,
		ParticipationType: model.ParticipationSolo,
	}
}

func teamContext() Context {
	return Context{
		EventCategory:     model.CategoryStandard,
		ParticipationType: model.ParticipationTeam,
	}
}

func TestValidate_ValidSoloHasNoErrors(t *testing.T) {
	errs := Validate(validSolo(), soloContext())
	assert.Empty(t, errs)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	errs := Validate(Data{}, soloContext())

	want := []string{"event", "participationType", "fullName", "rollNumber", "email", "phone", "year", "division"}
	require.Len(t, errs, len(want))
	for _, field := range want {
		assert.True(t, errs.Has(field), "expected error for %s", field)
	}
	for field := range errs {
		assert.NotContains(t, field, "member2", "participant 2 fields are inactive in solo mode")
	}
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Data)
		field   string
		wantErr bool
	}{
		{"name of one rune", func(d *Data) { d.FullName = "A" }, "fullName", true},
		{"name of two runes", func(d *Data) { d.FullName = "Al" }, "fullName", false},
		{"name padded to one rune", func(d *Data) { d.FullName = "  A  " }, "fullName", true},
		{"email without at", func(d *Data) { d.Email = "not-an-email" }, "email", true},
		{"email without dot", func(d *Data) { d.Email = "a@b" }, "email", true},
		{"email with space", func(d *Data) { d.Email = "a b@c.com" }, "email", true},
		{"email trimmed", func(d *Data) { d.Email = "  asha@example.com  " }, "email", false},
		{"phone short but legal", func(d *Data) { d.Phone = "12" }, "phone", false},
		{"phone leading zero", func(d *Data) { d.Phone = "0123" }, "phone", true},
		{"phone plus prefix", func(d *Data) { d.Phone = "+911234567890" }, "phone", false},
		{"phone formatted", func(d *Data) { d.Phone = "(987) 654-3210" }, "phone", false},
		{"phone seventeen digits", func(d *Data) { d.Phone = "12345678901234567" }, "phone", true},
		{"phone letters", func(d *Data) { d.Phone = "98abc210" }, "phone", true},
		{"year lowercase", func(d *Data) { d.Year = "se" }, "year", true},
		{"year FE", func(d *Data) { d.Year = "FE" }, "year", true},
		{"division D", func(d *Data) { d.Division = "D" }, "division", true},
		{"division trimmed", func(d *Data) { d.Division = " A " }, "division", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validSolo()
			tt.mutate(&d)
			errs := Validate(d, soloContext())
			if tt.wantErr {
				assert.True(t, errs.Has(tt.field), "expected error for %s, got %v", tt.field, errs)
			} else {
				assert.False(t, errs.Has(tt.field), "unexpected error for %s: %v", tt.field, errs)
			}
		})
	}
}

// Bad email plus phone "0123": both format rules fire at once, and only
// those two.
func TestValidate_ReportsFullErrorSet(t *testing.T) {
	d := validSolo()
	d.Email = "not-an-email"
	d.Phone = "0123"

	errs := Validate(d, soloContext())
	require.Len(t, errs, 2)
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("phone"))
}

func TestValidate_TeamRequiresSecondParticipant(t *testing.T) {
	d := validSolo()
	d.ParticipationType = "Team"

	errs := Validate(d, teamContext())

	want := []string{"member2FullName", "member2RollNumber", "member2Email", "member2Phone", "member2Year", "member2Division"}
	require.Len(t, errs, len(want))
	for _, field := range want {
		assert.True(t, errs.Has(field), "expected error for %s", field)
	}
}

func TestValidate_OpenCategorySkipsParticipationAndTeam(t *testing.T) {
	d := validSolo()
	d.ParticipationType = ""

	errs := Validate(d, Context{EventCategory: model.CategoryOpen})
	assert.Empty(t, errs)
}

func TestValidate_TeamFieldsInactiveForOpenCategory(t *testing.T) {
	d := validSolo()
	d.ParticipationType = "Team"

	errs := Validate(d, Context{
		EventCategory:     model.CategoryOpen,
		ParticipationType: model.ParticipationTeam,
	})
	assert.Empty(t, errs)
}

func TestValidate_IsPure(t *testing.T) {
	d := validSolo()
	d.Email = "broken"
	fctx := soloContext()

	first := Validate(d, fctx)
	second := Validate(d, fctx)
	assert.Equal(t, first, second)
}

func TestErrors_Clear(t *testing.T) {
	errs := Validate(Data{}, soloContext())
	require.True(t, errs.Has("email"))

	errs.Clear("email")
	assert.False(t, errs.Has("email"))
	assert.True(t, errs.Has("fullName"), "clearing one field leaves the rest")
}

func TestSanitize(t *testing.T) {
	d := validSolo()
	d.FullName = "  Asha Patil  "
	d.Email = "  Asha@Example.COM "
	d.Member2Email = " Second@Example.COM "

	got := Sanitize(d)
	assert.Equal(t, "Asha Patil", got.FullName)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, "second@example.com", got.Member2Email)
}

func TestRecord_TeamAndOpenShapes(t *testing.T) {
	d := validSolo()
	d.ParticipationType = "Team"
	d.Member2FullName = "Ravi Kulkarni"
	d.Member2RollNumber = "CE-43"
	d.Member2Email = "ravi@example.com"
	d.Member2Phone = "9876543211"
	d.Member2Year = "TE"
	d.Member2Division = "B"

	rec := Record(d, "code-cooking", teamContext())
	require.NotNil(t, rec.Participant2)
	assert.Equal(t, "Ravi Kulkarni", rec.Participant2.FullName)
	assert.Equal(t, model.ParticipationTeam, rec.ParticipationType)
	assert.Equal(t, model.StatusPending, rec.Status)

	open := Record(validSolo(), "technical-poster", Context{EventCategory: model.CategoryOpen})
	assert.Nil(t, open.Participant2)
	assert.Empty(t, open.ParticipationType, "participation type is irrelevant for open events")
}
