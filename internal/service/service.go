package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"engineersday/internal/dto"
	"engineersday/internal/export"
	"engineersday/internal/form"
	"engineersday/internal/model"
	"engineersday/internal/notify"
	"engineersday/internal/schedule"
	"engineersday/internal/store"
	"engineersday/internal/workflow"
	"engineersday/pkg/validator"
)

type Service interface {
	Register(ctx *ginext.Context)
	GetInfo(ctx *ginext.Context)
	GetAllEvents(ctx *ginext.Context)
	Status(ctx *ginext.Context)
	ExportRegistrations(ctx *ginext.Context)
}

// EventStore is the events read path plus the participant counter.
type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)
	IncrementParticipants(ctx context.Context, eventID string) error
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}

// Publisher fans a successful registration out to the mail worker. May be
// nil when rabbit is not configured.
type Publisher interface {
	PublishRegistrationCreated(msg notify.RegistrationCreatedMessage) error
}

type service struct {
	events    EventStore
	registrar *store.Registrar
	provider  *schedule.Provider
	publisher Publisher
	opts      workflow.Options
	log       *zerolog.Logger
}

func NewService(events EventStore, registrar *store.Registrar, provider *schedule.Provider, publisher Publisher, opts workflow.Options, log *zerolog.Logger) Service {
	return &service{
		events:    events,
		registrar: registrar,
		provider:  provider,
		publisher: publisher,
		opts:      opts,
		log:       log,
	}
}

func (s *service) Register(ctx *ginext.Context) {
	eventID := ctx.Param("id")
	if eventID == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse register request")
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	event, err := s.events.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	fctx := form.Context{
		EventCategory:     model.EventCategory(event.Category),
		ParticipationType: model.ParticipationType(req.ParticipationType),
	}

	// One collector per request: the workflow's notification is the
	// response payload's toast.
	collector := &notify.Collector{}
	frm := workflow.NewForm(eventID, fctx, s.registrar, s.provider, collector, s.opts, s.log)
	frm.SetData(form.Data{
		Event:             req.Event,
		ParticipationType: req.ParticipationType,
		FullName:          req.FullName,
		RollNumber:        req.RollNumber,
		Email:             req.Email,
		Phone:             req.Phone,
		Year:              req.Year,
		Division:          req.Division,
		Member2FullName:   req.Member2FullName,
		Member2RollNumber: req.Member2RollNumber,
		Member2Email:      req.Member2Email,
		Member2Phone:      req.Member2Phone,
		Member2Year:       req.Member2Year,
		Member2Division:   req.Member2Division,
	})

	out := frm.Submit(ctx.Request.Context())

	switch out.Reason {
	case workflow.ReasonNone:
	case workflow.ReasonValidation:
		dto.FieldErrorsResponse(ctx, out.Errors)
		return
	case workflow.ReasonClosed:
		dto.RegistrationClosedError(ctx)
		return
	case workflow.ReasonDuplicate:
		dto.RegistrationDuplicateError(ctx)
		return
	case workflow.ReasonInFlight:
		dto.BadResponseError(ctx, dto.SubmissionInFlight, "Submission already in progress")
		return
	default:
		msg := dto.InternalError
		if out.Notification != nil {
			msg = out.Notification.Message
		}
		s.log.Error().
			Str("event_id", eventID).
			Str("reason", string(out.Reason)).
			Msg("registration attempt failed")
		dto.BadResponseError(ctx, dto.RegistrationFailed, msg)
		return
	}

	s.log.Info().
		Str("registration_id", out.RegistrationID).
		Str("event_id", eventID).
		Str("sink", string(out.Sink)).
		Msg("registration created successfully")

	if out.Sink == store.SinkPrimary {
		if err := s.events.IncrementParticipants(ctx.Request.Context(), eventID); err != nil {
			s.log.Warn().Err(err).Msg("failed to increment participant count")
		}
	}

	if s.publisher != nil {
		data := frm.Data()
		if err := s.publisher.PublishRegistrationCreated(notify.RegistrationCreatedMessage{
			RegistrationID: out.RegistrationID,
			EventID:        eventID,
			EventName:      event.Name,
			Email:          data.Email,
			FullName:       data.FullName,
		}); err != nil {
			s.log.Error().Err(err).Msg("failed to publish registration message")
		}
	}

	var toast *notify.Notification
	if n, ok := collector.Last(); ok {
		toast = &n
	}
	dto.SuccessCreatedResponse(ctx, dto.RegisterResponse{
		RegistrationID: out.RegistrationID,
		EventID:        eventID,
		EventName:      event.Name,
		Status:         string(model.StatusPending),
		Notification:   toast,
		CreatedAt:      time.Now(),
	})
}

func (s *service) GetInfo(ctx *ginext.Context) {
	eventID := ctx.Param("id")

	event, err := s.events.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	count, err := s.events.CountRegistrations(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.EventResponse{
		ID:                  event.ID,
		Name:                event.Name,
		Description:         event.Description,
		Category:            event.Category,
		Date:                event.Date,
		DisplayTime:         s.provider.EventTime(event.Name),
		Location:            event.Location,
		MaxParticipants:     event.MaxParticipants,
		CurrentParticipants: event.CurrentParticipants,
		IsActive:            event.IsActive,
		Registrations:       count,
	})
}

func (s *service) GetAllEvents(ctx *ginext.Context) {
	events, err := s.events.GetAllEvents(ctx.Request.Context())
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		count, err := s.events.CountRegistrations(ctx.Request.Context(), e.ID)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to count registrations for event")
			continue
		}

		resp = append(resp, dto.EventResponse{
			ID:                  e.ID,
			Name:                e.Name,
			Description:         e.Description,
			Category:            e.Category,
			Date:                e.Date,
			DisplayTime:         s.provider.EventTime(e.Name),
			Location:            e.Location,
			MaxParticipants:     e.MaxParticipants,
			CurrentParticipants: e.CurrentParticipants,
			IsActive:            e.IsActive,
			Registrations:       count,
		})
	}

	dto.SuccessResponse(ctx, resp)
}

// Status is the schedule snapshot the page shell polls. Days until the
// deadline are clamped for display; the workflow gate never reads this.
func (s *service) Status(ctx *ginext.Context) {
	cfg := s.provider.Config()

	days := s.provider.DaysUntilDeadline()
	if days < 0 {
		days = 0
	}

	dto.SuccessResponse(ctx, dto.StatusResponse{
		EventName:          cfg.EventName,
		EventDate:          cfg.EventDate,
		EventLocation:      cfg.EventLocation,
		Deadline:           cfg.RegistrationDeadline,
		IsRegistrationOpen: s.provider.IsRegistrationOpen(),
		IsEventLive:        s.provider.IsEventLive(),
		DaysUntilDeadline:  days,
		DaysUntilEvent:     s.provider.DaysUntilEvent(),
	})
}

func (s *service) ExportRegistrations(ctx *ginext.Context) {
	csvBytes, err := export.RegistrationsCSV(ctx.Request.Context(), s.registrar)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to export registrations")
		dto.InternalServerError(ctx)
		return
	}

	filename := export.Filename(time.Now())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(200, "text/csv; charset=utf-8", csvBytes)
}
