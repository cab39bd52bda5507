package schedule

import (
	"math"
	"strings"
	"time"
)

// Config is the static event configuration. Dates are parsed once at startup;
// everything derived from them goes through Provider so that all booleans are
// computed from the same clock.
type Config struct {
	EventName            string
	EventDate            time.Time
	RegistrationDeadline time.Time
	EventLocation        string
	// EventTimes maps event name to its display time ("10:00 AM").
	EventTimes map[string]string
}

// Provider answers schedule questions as pure functions of the injected
// clock. Callers re-evaluate on their own cadence; nothing here is cached.
type Provider struct {
	cfg Config
	now func() time.Time
}

func NewProvider(cfg Config, now func() time.Time) *Provider {
	if now == nil {
		now = time.Now
	}
	// Config loaders lower-case map keys; normalize once so lookups by
	// display name always hit.
	times := make(map[string]string, len(cfg.EventTimes))
	for name, t := range cfg.EventTimes {
		times[strings.ToLower(name)] = t
	}
	cfg.EventTimes = times
	return &Provider{cfg: cfg, now: now}
}

func (p *Provider) Config() Config {
	return p.cfg
}

func (p *Provider) IsRegistrationOpen() bool {
	return p.now().Before(p.cfg.RegistrationDeadline)
}

// IsEventLive reports whether the event happens today, compared date-only in
// the local zone of evaluation.
func (p *Provider) IsEventLive() bool {
	now := p.now()
	ty, tm, td := now.Date()
	ey, em, ed := p.cfg.EventDate.In(now.Location()).Date()
	return ty == ey && tm == em && td == ed
}

// DaysUntilDeadline is the ceiling of the remaining time in days. It goes
// negative once the deadline has passed; display code clamps, gating code
// must not.
func (p *Provider) DaysUntilDeadline() int {
	diff := p.cfg.RegistrationDeadline.Sub(p.now())
	return int(math.Ceil(diff.Hours() / 24))
}

// DaysUntilEvent never goes negative; it exists for display only.
func (p *Provider) DaysUntilEvent() int {
	diff := p.cfg.EventDate.Sub(p.now())
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// EventTime returns the display time for a named event, or "" when unknown.
func (p *Provider) EventTime(eventName string) string {
	return p.cfg.EventTimes[strings.ToLower(eventName)]
}
