package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/garnizeh/offerdesk/internal/escalation"
	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/internal/mailtmpl"
	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/google/uuid"
)

// Result is an offer together with its freshly rendered letter.
type Result struct {
	Offer    *models.Offer    `json:"offer"`
	Artifact *letter.Artifact `json:"artifact"`
	Level    escalation.Level `json:"escalation"`
}

// Dispatch is the offer email as confirmed by the operator.
type Dispatch = models.Dispatch

// Confirmation is returned by ConfirmSend.
type Confirmation struct {
	Offer    *models.Offer    `json:"offer"`
	Dispatch Dispatch         `json:"dispatch"`
	Level    escalation.Level `json:"escalation"`
	// Alerted is true when an escalation notice was delivered.
	Alerted bool `json:"alerted"`
}

// Create validates in, assigns an id, renders the letter and stores the
// offer in preview_ready. An invalid input returns *ValidationError and
// leaves nothing behind.
func (s *Service) Create(ctx context.Context, in Input) (*Result, error) {
	d := in.draft()
	if d.offer.HRName == "" {
		d.offer.HRName = s.cfg.DefaultHRName
	}
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}

	o := d.offer
	o.ID = uuid.NewString()
	o.OfferSent, o.OfferAccepted, o.OnboardingCompleted = false, false, false
	o.State = models.StateDraft

	a, err := s.compose(o)
	if err != nil {
		return nil, err
	}
	o.State = models.StatePreviewReady
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	level := escalation.Classify(o, s.Today())
	logger.Info("workflow: offer created",
		slog.String("offer_id", o.ID),
		slog.String("position", o.Position),
		slog.String("escalation", level.String()),
	)
	return &Result{Offer: o, Artifact: a, Level: level}, nil
}

// Regenerate renders the letter again from the current fields. The state
// is not changed and nothing is stored.
func (s *Service) Regenerate(ctx context.Context, o *models.Offer) (*letter.Artifact, error) {
	return s.compose(o)
}

// Edit applies p to a copy of o, moves it through editing back to
// preview_ready and renders the letter again. o itself is not modified.
func (s *Service) Edit(ctx context.Context, o *models.Offer, p Patch) (*Result, error) {
	if o.State != models.StatePreviewReady && o.State != models.StateEditing {
		return nil, &TransitionError{From: o.State, To: models.StateEditing}
	}

	d := p.apply(o)
	if err := s.validate(ctx, d); err != nil {
		return nil, err
	}
	c := d.offer

	c.State = models.StateEditing
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	a, err := s.compose(c)
	if err != nil {
		return nil, err
	}
	c.State = models.StatePreviewReady
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("workflow: offer edited", slog.String("offer_id", c.ID))
	return &Result{Offer: c, Artifact: a, Level: escalation.Classify(c, s.Today())}, nil
}

// defaults fills the blank parts of d from the confirmed dispatch stored on
// o, then from the offer email template.
func (s *Service) defaults(o *models.Offer, d Dispatch) Dispatch {
	if p := o.Dispatch; p != nil {
		if strings.TrimSpace(d.To) == "" {
			d.To = p.To
		}
		if strings.TrimSpace(d.Subject) == "" {
			d.Subject = p.Subject
		}
		if strings.TrimSpace(d.Body) == "" {
			d.Body = p.Body
		}
	}
	if strings.TrimSpace(d.To) == "" {
		d.To = o.Email
	}
	if strings.TrimSpace(d.Subject) == "" {
		d.Subject = mailtmpl.OfferSubject(o, s.cfg.Company)
	}
	if strings.TrimSpace(d.Body) == "" {
		d.Body = mailtmpl.Offer(o, s.cfg.Company)
	}
	d.To = strings.TrimSpace(d.To)
	return d
}

// ConfirmSend moves o to confirming_send with the email the operator is
// about to send. When the offer needs attention HR is notified first; the
// notice never blocks the send.
func (s *Service) ConfirmSend(ctx context.Context, o *models.Offer, d Dispatch) (*Confirmation, error) {
	if o.State != models.StatePreviewReady {
		return nil, &TransitionError{From: o.State, To: models.StateConfirmingSend}
	}
	d = s.defaults(o, d)
	if !ValidEmail(d.To) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "to", Message: "is not a valid email address"}}}
	}

	c := o.Clone()
	c.State = models.StateConfirmingSend
	c.Dispatch = &d
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	conf := &Confirmation{Offer: c, Dispatch: d, Level: escalation.Classify(c, s.Today())}
	if conf.Level != escalation.None {
		p := conf.Level.Priority()
		conf.Alerted = s.alert(ctx, notify.Message{
			To:       s.cfg.NotificationEmail,
			Subject:  notify.PrefixSubject("Intervention Required: Offer Letter for "+c.Name, p),
			HTML:     notify.WrapHTML(s.cfg.Company, escalation.Message(c, conf.Level), p, s.cfg.Clock().Year()),
			Priority: p,
			Kind:     notify.KindEscalation,
			OfferID:  c.ID,
		})
	}
	return conf, nil
}

// Send delivers the offer email with the letter attached. Blank parts of d
// are taken from the dispatch confirmed by ConfirmSend. On success the
// offer is marked sent and HR gets a summary; on failure it stays in
// confirming_send and the error wraps ErrDispatchFailed.
func (s *Service) Send(ctx context.Context, o *models.Offer, d Dispatch) (*models.Offer, error) {
	if o.State != models.StateConfirmingSend {
		return nil, &TransitionError{From: o.State, To: models.StateSent}
	}
	d = s.defaults(o, d)
	if !ValidEmail(d.To) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "to", Message: "is not a valid email address"}}}
	}

	a, err := s.compose(o)
	if err != nil {
		return nil, err
	}
	year := s.cfg.Clock().Year()
	err = s.cfg.Delivery.Notify(ctx, notify.Message{
		To:       d.To,
		Subject:  d.Subject,
		HTML:     notify.WrapHTML(s.cfg.Company, mailtmpl.ToHTML(d.Body), notify.PriorityNormal, year),
		Priority: notify.PriorityNormal,
		Kind:     notify.KindOfferEmail,
		OfferID:  o.ID,
		Attachments: []notify.Attachment{{
			Filename:    a.Filename,
			ContentType: "application/pdf",
			Content:     a.Content,
		}},
	})
	if err != nil {
		logger.Warn("workflow: offer email failed", slog.String("offer_id", o.ID), slog.Any("err", err))
		return nil, fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	c := o.Clone()
	c.Email = d.To
	c.Dispatch = &d
	c.OfferSent = true
	c.OfferSentDate = s.Today().Ptr()
	c.State = models.StateSent
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("workflow: offer sent", slog.String("offer_id", c.ID), slog.String("to", c.Email))

	s.alert(ctx, notify.Message{
		To:       s.cfg.NotificationEmail,
		Subject:  "Offer Letter Sent to " + c.Name,
		HTML:     notify.WrapHTML(s.cfg.Company, sentSummary(c), notify.PriorityNormal, year),
		Priority: notify.PriorityNormal,
		Kind:     notify.KindOfferSent,
		OfferID:  c.ID,
	})
	return c, nil
}

func sentSummary(o *models.Offer) string {
	return summaryHTML(struct {
		Name, Position, Email, StartDate, Salary string
	}{o.Name, o.Position, o.Email, o.StartDate.Display(), humanize.Comma(o.MonthlySalary)})
}

// RecordAcceptance marks a sent offer as accepted. Recording it twice keeps
// the first date.
func (s *Service) RecordAcceptance(ctx context.Context, id string) (*models.Offer, error) {
	o, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OfferAccepted {
		return o, nil
	}
	if !o.OfferSent {
		return nil, fmt.Errorf("%w: offer %s has not been sent", ErrPrecondition, id)
	}
	o.OfferAccepted = true
	o.OfferAcceptedDate = s.Today().Ptr()
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	logger.Info("workflow: offer accepted", slog.String("offer_id", id))
	return o, nil
}

// RecordOnboardingCompleted marks an accepted offer's onboarding as done.
func (s *Service) RecordOnboardingCompleted(ctx context.Context, id string) (*models.Offer, error) {
	o, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OnboardingCompleted {
		return o, nil
	}
	if !o.OfferAccepted {
		return nil, fmt.Errorf("%w: offer %s has not been accepted", ErrPrecondition, id)
	}
	o.OnboardingCompleted = true
	o.OnboardingCompletedDate = s.Today().Ptr()
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	logger.Info("workflow: onboarding completed", slog.String("offer_id", id))
	return o, nil
}
