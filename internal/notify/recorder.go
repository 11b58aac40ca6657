package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
	"github.com/google/uuid"
)

// Recorder wraps a Notifier and writes every attempt to the dispatch history.
// A history write failure is logged and never masks the delivery result.
type Recorder struct {
	next Notifier
	repo repository.NotificationRepo
	now  func() time.Time
}

func NewRecorder(next Notifier, repo repository.NotificationRepo) *Recorder {
	return &Recorder{next: next, repo: repo, now: time.Now}
}

func (r *Recorder) Notify(ctx context.Context, msg Message) error {
	err := r.next.Notify(ctx, msg)

	n := &models.Notification{
		ID:        uuid.NewString(),
		OfferID:   msg.OfferID,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Priority:  string(msg.Priority),
		Kind:      string(msg.Kind),
		Status:    "sent",
		Created:   r.now().UTC(),
	}
	if n.Priority == "" {
		n.Priority = string(PriorityNormal)
	}
	if err != nil {
		n.Status = "failed"
		n.Error = err.Error()
	}
	if rerr := r.repo.RecordNotification(ctx, n); rerr != nil {
		logger.Warn("record notification failed", slog.Any("err", rerr), slog.String("to", msg.To))
	}

	return err
}
