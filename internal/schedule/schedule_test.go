package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		EventName:            "Engineers' Day 2025",
		EventDate:            time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
		RegistrationDeadline: time.Date(2025, 9, 20, 23, 59, 59, 0, time.UTC),
		EventLocation:        "Computer Engineering Department",
		EventTimes: map[string]string{
			"Code Cooking": "10:00 AM",
		},
	}
}

func providerAt(t time.Time) *Provider {
	return NewProvider(testConfig(), func() time.Time { return t })
}

func TestIsRegistrationOpen(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before deadline", time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC), true},
		{"one second before", time.Date(2025, 9, 20, 23, 59, 58, 0, time.UTC), true},
		{"exactly at deadline", time.Date(2025, 9, 20, 23, 59, 59, 0, time.UTC), false},
		{"after deadline", time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, providerAt(tt.now).IsRegistrationOpen())
		})
	}
}

func TestIsEventLive_DateOnlyComparison(t *testing.T) {
	assert.True(t, providerAt(time.Date(2025, 9, 22, 23, 0, 0, 0, time.UTC)).IsEventLive())
	assert.False(t, providerAt(time.Date(2025, 9, 21, 23, 59, 0, 0, time.UTC)).IsEventLive())
	assert.False(t, providerAt(time.Date(2025, 9, 23, 0, 1, 0, 0, time.UTC)).IsEventLive())
}

func TestDaysUntilDeadline(t *testing.T) {
	// 2.5 days out rounds up to 3.
	p := providerAt(time.Date(2025, 9, 18, 11, 59, 59, 0, time.UTC))
	assert.Equal(t, 3, p.DaysUntilDeadline())

	// Goes negative after the deadline; gating code needs the sign.
	p = providerAt(time.Date(2025, 9, 23, 23, 59, 59, 0, time.UTC))
	assert.Less(t, p.DaysUntilDeadline(), 0)
}

func TestDaysUntilEvent_ClampedAtZero(t *testing.T) {
	p := providerAt(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, p.DaysUntilEvent())

	p = providerAt(time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, p.DaysUntilEvent())
}

func TestDerivedBooleansShareOneClock(t *testing.T) {
	calls := 0
	p := NewProvider(testConfig(), func() time.Time {
		calls++
		return time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	})

	p.IsRegistrationOpen()
	p.IsEventLive()
	p.DaysUntilDeadline()
	assert.Equal(t, 3, calls, "each evaluation consults the clock exactly once")
}

func TestEventTime(t *testing.T) {
	p := providerAt(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "10:00 AM", p.EventTime("Code Cooking"))
	assert.Equal(t, "", p.EventTime("Unknown"))
}
