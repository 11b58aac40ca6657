// Package workflow drives an offer through its lifecycle:
// draft, preview_ready, editing, confirming_send and sent.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
)

// package-level logger for workflow; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by workflow. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Composer renders the offer letter for a record.
type Composer interface {
	Compose(o *models.Offer) (*letter.Artifact, error)
}

// RetryQueue accepts informational notices whose delivery failed.
type RetryQueue interface {
	EnqueueNotification(ctx context.Context, msg notify.Message) error
}

type Config struct {
	Offers   repository.OfferRepo
	Roles    repository.RoleRepo
	Composer Composer
	// Delivery carries the offer email to the candidate.
	Delivery notify.Notifier
	// Alerts carries escalation and summary notices to HR.
	Alerts notify.Notifier
	// Retry is optional.
	Retry RetryQueue

	Clock                 func() time.Time
	Location              *time.Location
	NotificationEmail     string
	Company               string
	DefaultContractMonths int
	// DefaultHRName signs offers created without an hr_name.
	DefaultHRName string
}

type Service struct {
	cfg Config
}

func New(cfg Config) (*Service, error) {
	if cfg.Offers == nil {
		return nil, errors.New("workflow: offer repository is required")
	}
	if cfg.Composer == nil {
		return nil, errors.New("workflow: composer is required")
	}
	if cfg.Delivery == nil {
		return nil, errors.New("workflow: delivery notifier is required")
	}
	if cfg.Alerts == nil {
		cfg.Alerts = cfg.Delivery
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultContractMonths <= 0 {
		cfg.DefaultContractMonths = 6
	}
	return &Service{cfg: cfg}, nil
}

// Today is the operator's calendar date.
func (s *Service) Today() models.Date {
	return models.DateOf(s.cfg.Clock().In(s.cfg.Location))
}

func (s *Service) save(ctx context.Context, o *models.Offer) error {
	if err := s.cfg.Offers.SaveOffer(ctx, o); err != nil {
		return fmt.Errorf("workflow: save offer %s: %w", o.ID, err)
	}
	return nil
}

func (s *Service) compose(o *models.Offer) (*letter.Artifact, error) {
	a, err := s.cfg.Composer.Compose(o)
	if err != nil {
		return nil, fmt.Errorf("workflow: compose letter for %s: %w", o.ID, err)
	}
	return a, nil
}

// Load returns the offer with id or ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*models.Offer, error) {
	o, err := s.cfg.Offers.GetOffer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("workflow: load offer %s: %w", id, err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}

// alert sends an informational notice. A failure is logged and queued for
// redelivery; it never fails the calling operation.
func (s *Service) alert(ctx context.Context, msg notify.Message) bool {
	err := s.cfg.Alerts.Notify(ctx, msg)
	if err == nil {
		return true
	}
	logger.Warn("workflow: notice not delivered",
		slog.String("offer_id", msg.OfferID),
		slog.String("kind", string(msg.Kind)),
		slog.Any("err", err),
	)
	if s.cfg.Retry != nil {
		if qerr := s.cfg.Retry.EnqueueNotification(ctx, msg); qerr != nil {
			logger.Error("workflow: enqueue notice retry failed", slog.String("offer_id", msg.OfferID), slog.Any("err", qerr))
		}
	}
	return false
}
