package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"studio/internal/domain"
	"studio/internal/events"
	"studio/internal/models"

	"github.com/rs/zerolog"
)

const appointmentsPath = "/appointments"

// Submitter owns the booking form and its status. One submission is in
// flight at a time.
type Submitter struct {
	gw      domain.Poster
	drafts  domain.DraftRepository
	pub     domain.EventPublisher
	session string
	logger  *zerolog.Logger

	mu     sync.Mutex
	form   models.BookingForm
	status models.Status
}

// NewSubmitter wires the submitter. drafts and pub are optional.
func NewSubmitter(
	gw domain.Poster,
	drafts domain.DraftRepository,
	pub domain.EventPublisher,
	session string,
	logger *zerolog.Logger,
) *Submitter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Submitter{
		gw:      gw,
		drafts:  drafts,
		pub:     pub,
		session: session,
		logger:  logger,
		status:  models.Idle(),
	}
}

func (s *Submitter) Form() models.BookingForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Submitter) SetForm(form models.BookingForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

func (s *Submitter) Status() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Restore loads the saved draft of the session into the form.
func (s *Submitter) Restore(ctx context.Context) (bool, error) {
	if s.drafts == nil {
		return false, nil
	}
	draft, err := s.drafts.GetDraft(ctx, s.session)
	if err != nil {
		return false, fmt.Errorf("restore booking draft: %w", err)
	}
	if draft == nil || draft.IsEmpty() {
		return false, nil
	}
	s.SetForm(*draft)
	return true, nil
}

// Submit validates the form and sends it. Invalid input never reaches the
// network. On success the form is reset; on failure it is kept as entered.
func (s *Submitter) Submit(ctx context.Context) (models.Status, error) {
	s.mu.Lock()
	if s.status.Pending() {
		s.mu.Unlock()
		return models.Status{}, models.ErrInFlight
	}
	form := s.form
	if err := Validate(form); err != nil {
		s.status = models.Failed(err.Error())
		st := s.status
		s.mu.Unlock()
		events.PublishStatus(s.pub, models.FlowBooking, st)
		return st, err
	}
	s.status = models.Sending()
	s.mu.Unlock()
	events.PublishStatus(s.pub, models.FlowBooking, models.Sending())

	var created models.AppointmentCreated
	err := s.gw.Post(ctx, appointmentsPath, form.Request(), &created)

	s.mu.Lock()
	if err != nil {
		s.status = models.Failed(models.MsgBookingFailed)
	} else {
		s.status = models.Succeeded(fmt.Sprintf(models.MsgBookingSent, created.ID))
		s.form = models.BookingForm{}
	}
	st := s.status
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("booking submission failed")
		s.saveDraft(ctx, form)
	} else {
		s.logger.Info().Str("appointment_id", string(created.ID)).Msg("booking submitted")
		s.clearDraft(ctx)
	}
	events.PublishStatus(s.pub, models.FlowBooking, st)
	return st, err
}

func (s *Submitter) saveDraft(ctx context.Context, form models.BookingForm) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.SaveDraft(ctx, s.session, form); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save booking draft")
	}
}

func (s *Submitter) clearDraft(ctx context.Context) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.ClearDraft(ctx, s.session); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear booking draft")
	}
}

// Validate checks required fields and the shape of optional date and time.
func Validate(form models.BookingForm) error {
	if strings.TrimSpace(form.ClientName) == "" || strings.TrimSpace(form.Phone) == "" {
		return models.ValidationError(models.MsgBookingIncomplete)
	}
	if d := strings.TrimSpace(form.PreferredDate); d != "" {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return models.ValidationError(models.MsgBookingBadDate)
		}
	}
	if tm := strings.TrimSpace(form.PreferredTime); tm != "" {
		if !validTime(tm) {
			return models.ValidationError(models.MsgBookingBadTime)
		}
	}
	return nil
}

func validTime(v string) bool {
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
