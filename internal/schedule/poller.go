package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller re-evaluates the registration status on a fixed interval and logs
// transitions. It exists for the hosting shell; the registration workflow
// consults the Provider directly and never reads poller state.
type Poller struct {
	provider *Provider
	interval time.Duration
	log      *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewPoller(provider *Provider, interval time.Duration, log *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		provider: provider,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		wasOpen := p.provider.IsRegistrationOpen()
		wasLive := p.provider.IsEventLive()
		p.log.Info().
			Bool("registration_open", wasOpen).
			Bool("event_live", wasLive).
			Int("days_until_deadline", p.provider.DaysUntilDeadline()).
			Msg("schedule poller started")

		for {
			select {
			case <-cctx.Done():
				p.log.Info().Msg("schedule poller stopped")
				return
			case <-ticker.C:
				open := p.provider.IsRegistrationOpen()
				live := p.provider.IsEventLive()
				if open != wasOpen {
					p.log.Info().Bool("registration_open", open).Msg("registration status changed")
					wasOpen = open
				}
				if live != wasLive {
					p.log.Info().Bool("event_live", live).Msg("event live status changed")
					wasLive = live
				}
			}
		}
	}()
}

func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}
