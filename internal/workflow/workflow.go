package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"engineersday/internal/form"
	"engineersday/internal/model"
	"engineersday/internal/notify"
	"engineersday/internal/store"
)

type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

const (
	// DefaultSubmitTimeout races the registrar call; whichever resolves
	// first wins and the loser is discarded.
	DefaultSubmitTimeout = 10 * time.Second
	// DefaultResetDelay is how long the success view stays up before the
	// form returns to a clean editing state.
	DefaultResetDelay = 2 * time.Second
)

const (
	msgRegistrationClosed = "Registration is closed."
	msgAlreadyRegistered  = "You have already registered for this event with this email address."
	msgSubmitTimedOut     = "Registration timed out. Please try again."
	msgGenericFailure     = "Registration failed. Please try again later."
)

// Registrar is the slice of the store the workflow needs.
type Registrar interface {
	Register(ctx context.Context, rec model.RegistrationRecord) (string, store.SinkName, error)
	CheckDuplicate(ctx context.Context, email, eventID string) bool
}

// Gate answers whether submissions are currently accepted.
type Gate interface {
	IsRegistrationOpen() bool
}

type Options struct {
	SubmitTimeout time.Duration
	ResetDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = DefaultSubmitTimeout
	}
	if o.ResetDelay <= 0 {
		o.ResetDelay = DefaultResetDelay
	}
	return o
}

// Reason says why an attempt did not succeed.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonValidation Reason = "validation"
	ReasonClosed     Reason = "closed"
	ReasonDuplicate  Reason = "duplicate"
	ReasonTimeout    Reason = "timeout"
	ReasonBackend    Reason = "backend"
	ReasonInFlight   Reason = "in_flight"
	ReasonFormClosed Reason = "form_closed"
)

// Outcome is what one submit attempt resolved to.
type Outcome struct {
	State          State
	Reason         Reason
	RegistrationID string
	Sink           store.SinkName
	Errors         form.Errors
	Notification   *notify.Notification
}

// Form is one registration form instance. At most one submit attempt is in
// flight at a time; a second Submit while one runs is rejected. All state
// moves under one mutex, and results of superseded attempts are dropped so a
// late resolution can never overwrite a newer state.
type Form struct {
	mu sync.Mutex

	state     State
	data      form.Data
	fctx      form.Context
	errs      form.Errors
	eventID   string
	submitted bool
	closed    bool

	attempt       int
	settledUpTo   int
	inFlight      bool
	attemptCancel context.CancelFunc
	resetTimer    *time.Timer

	registrar Registrar
	gate      Gate
	notifier  notify.Notifier
	opts      Options
	log       *zerolog.Logger
}

func NewForm(eventID string, fctx form.Context, registrar Registrar, gate Gate, notifier notify.Notifier, opts Options, log *zerolog.Logger) *Form {
	return &Form{
		state:     StateEditing,
		fctx:      fctx,
		errs:      form.Errors{},
		eventID:   eventID,
		registrar: registrar,
		gate:      gate,
		notifier:  notifier,
		opts:      opts.withDefaults(),
		log:       log,
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Errors() form.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := form.Errors{}
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

func (f *Form) Data() form.Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

func (f *Form) IsSubmitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// SetData replaces the whole form snapshot, e.g. when binding an HTTP
// request body.
func (f *Form) SetData(d form.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = d
}

// SetField updates one field and immediately clears any error recorded for
// it. Full validation re-runs only on the next submit attempt.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case "event":
		f.data.Event = value
	case "participationType":
		f.data.ParticipationType = value
		f.fctx.ParticipationType = model.ParticipationType(value)
	case "fullName":
		f.data.FullName = value
	case "rollNumber":
		f.data.RollNumber = value
	case "email":
		f.data.Email = value
	case "phone":
		f.data.Phone = value
	case "year":
		f.data.Year = value
	case "division":
		f.data.Division = value
	case "member2FullName":
		f.data.Member2FullName = value
	case "member2RollNumber":
		f.data.Member2RollNumber = value
	case "member2Email":
		f.data.Member2Email = value
	case "member2Phone":
		f.data.Member2Phone = value
	case "member2Year":
		f.data.Member2Year = value
	case "member2Division":
		f.data.Member2Division = value
	default:
		return
	}

	f.errs.Clear(name)
}

// Submit runs one attempt: Editing -> Validating -> Submitting ->
// Succeeded/Failed. It blocks until the attempt settles (at most the submit
// timeout) and never lets a sink error escape: every path resolves to an
// Outcome, failure outcomes carrying a notification payload.
func (f *Form) Submit(ctx context.Context) Outcome {
	f.mu.Lock()

	if f.closed {
		f.mu.Unlock()
		return Outcome{State: StateFailed, Reason: ReasonFormClosed}
	}
	if f.inFlight {
		f.mu.Unlock()
		return Outcome{
			State:        StateSubmitting,
			Reason:       ReasonInFlight,
			Notification: &notify.Notification{Message: "Submission already in progress.", Kind: notify.KindWarning},
		}
	}

	// Deadline gate. The original site only disabled UI affordances; here
	// the workflow itself refuses once the deadline has passed.
	if f.gate != nil && !f.gate.IsRegistrationOpen() {
		f.state = StateEditing
		f.mu.Unlock()
		return f.fail(ReasonClosed, &notify.Notification{Message: msgRegistrationClosed, Kind: notify.KindError})
	}

	f.state = StateValidating
	f.errs = form.Validate(f.data, f.fctx)
	if len(f.errs) > 0 {
		// Inline errors only, no toast, no sink call.
		f.state = StateEditing
		out := Outcome{State: StateEditing, Reason: ReasonValidation, Errors: f.errs}
		f.mu.Unlock()
		return out
	}

	f.data = form.Sanitize(f.data)
	rec := form.Record(f.data, f.eventID, f.fctx)

	f.state = StateSubmitting
	f.inFlight = true
	f.attempt++
	att := f.attempt

	attemptCtx, cancel := context.WithCancel(ctx)
	f.attemptCancel = cancel
	timeout := f.opts.SubmitTimeout
	f.mu.Unlock()

	if f.registrar.CheckDuplicate(attemptCtx, rec.Participant1.Email, rec.EventID) {
		cancel()
		return f.settle(att, Outcome{
			State:        StateFailed,
			Reason:       ReasonDuplicate,
			Notification: &notify.Notification{Message: msgAlreadyRegistered, Kind: notify.KindError},
		})
	}

	type result struct {
		id   string
		sink store.SinkName
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		id, sink, err := f.registrar.Register(attemptCtx, rec)
		resCh <- result{id: id, sink: sink, err: err}
		// A late arrival lands in settle and is dropped there.
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		cancel()
		if res.err != nil {
			return f.settle(att, Outcome{
				State:        StateFailed,
				Reason:       ReasonBackend,
				Notification: &notify.Notification{Message: failureMessage(res.err), Kind: notify.KindError},
			})
		}
		return f.settle(att, Outcome{
			State:          StateSucceeded,
			RegistrationID: res.id,
			Sink:           res.sink,
			Notification: &notify.Notification{
				Message: fmt.Sprintf("Successfully registered for %s! Check your email for confirmation.", rec.EventName),
				Kind:    notify.KindSuccess,
			},
		})
	case <-timer.C:
		// The in-flight call is abandoned, not awaited. If it ever
		// resolves, the attempt guard discards it.
		cancel()
		go func() {
			res := <-resCh
			f.discardLate(att, res.err)
		}()
		return f.settle(att, Outcome{
			State:        StateFailed,
			Reason:       ReasonTimeout,
			Notification: &notify.Notification{Message: msgSubmitTimedOut, Kind: notify.KindError},
		})
	}
}

// settle applies the outcome of attempt att exactly once. Stale attempts and
// attempts settled after Close change nothing and notify nobody.
func (f *Form) settle(att int, out Outcome) Outcome {
	f.mu.Lock()

	if att <= f.settledUpTo {
		f.mu.Unlock()
		return out
	}
	f.settledUpTo = att
	f.inFlight = false
	f.attemptCancel = nil

	if f.closed {
		f.mu.Unlock()
		out.Notification = nil
		return out
	}

	f.state = out.State
	switch out.State {
	case StateSucceeded:
		f.submitted = true
		f.scheduleResetLocked(att)
	case StateFailed:
		// Form data stays intact so the user can retry without retyping.
		f.state = StateEditing
	}
	f.mu.Unlock()

	if out.Notification != nil && f.notifier != nil {
		f.notifier.Notify(*out.Notification)
	}
	return out
}

// fail reports a failure that never reached Submitting (deadline gate).
func (f *Form) fail(reason Reason, n *notify.Notification) Outcome {
	if n != nil && f.notifier != nil {
		f.notifier.Notify(*n)
	}
	return Outcome{State: StateFailed, Reason: reason, Notification: n}
}

func (f *Form) discardLate(att int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.Debug().Int("attempt", att).Err(err).Msg("late submit resolution discarded")
	} else {
		f.log.Debug().Int("attempt", att).Msg("late submit resolution discarded")
	}
}

// scheduleResetLocked arms the automatic return to a clean editing state
// after a successful submission. Caller holds the lock.
func (f *Form) scheduleResetLocked(att int) {
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
	f.resetTimer = time.AfterFunc(f.opts.ResetDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed || f.attempt != att || f.state != StateSucceeded {
			return
		}
		f.resetLocked()
	})
}

// Reset manually returns the form to a clean editing state (the user closed
// the success view before the automatic reset).
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.data = form.Data{}
	f.errs = form.Errors{}
	f.submitted = false
	f.state = StateEditing
}

// Close aborts the form. An in-flight attempt has its context cancelled but
// is otherwise fire-and-forget; when its result arrives the notification is
// suppressed.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.attemptCancel != nil {
		f.attemptCancel()
	}
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
}

func failureMessage(err error) string {
	if err == nil {
		return msgGenericFailure
	}
	// Sentinel taxonomy errors are meaningful to operators, not to
	// registrants; anything else carries the backend's own message.
	if msg := err.Error(); msg != "" && !isTaxonomy(err) {
		return msg
	}
	return msgGenericFailure
}

func isTaxonomy(err error) bool {
	for _, sentinel := range []error{
		store.ErrBackendUnavailable,
		store.ErrRejectedByStore,
		store.ErrEventNotFound,
		store.ErrDuplicateRegistration,
	} {
		if err == sentinel {
			return true
		}
	}
	return false
}
