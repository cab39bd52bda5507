package notify

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"engineersday/internal/mailer"
)

// Worker consumes registration-created messages and sends the confirmation
// email. Same start/stop shape as the schedule poller: Start spawns, Stop
// cancels and waits.
type Worker struct {
	rmq    *RabbitClient
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(rmq *RabbitClient, mail *mailer.Mailer) *Worker {
	return &Worker{
		rmq:  rmq,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	zlog.Logger.Info().Msg("notification worker started")

	go func() {
		defer close(w.done)

		handler := func(body []byte) error {
			var msg RegistrationCreatedMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("registration_id", msg.RegistrationID).
				Str("event_id", msg.EventID).
				Msg("Received registration message")

			if err := w.mail.SendRegistrationEmail(msg.EventName, msg.FullName, msg.Email); err != nil {
				// Mail trouble should not requeue forever; log and ack.
				zlog.Logger.Warn().
					Err(err).
					Str("email", msg.Email).
					Msg("Failed to send confirmation email")
			}

			return nil
		}

		if err := w.rmq.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification worker stopped by context")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
