package api

import (
	"encoding/json"
	"html"
	"net/http"
	"time"

	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/internal/workflow"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
)

type NotificationsHandler struct {
	history  repository.NotificationRepo
	notifier notify.Notifier
	company  string
}

func NewNotificationsHandler(history repository.NotificationRepo, n notify.Notifier, company string) *NotificationsHandler {
	return &NotificationsHandler{history: history, notifier: n, company: company}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r, 100, 1000)
	rows, err := h.history.ListNotifications(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	writeJSON(w, rows, http.StatusOK)
}

type testNotificationRequest struct {
	To string `json:"to"`
}

// Test sends a short message so an operator can check the delivery setup.
func (h *NotificationsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !workflow.ValidEmail(req.To) {
		writeError(w, &workflow.ValidationError{Fields: []workflow.FieldError{{Field: "to", Message: "is not a valid email address"}}})
		return
	}
	body := "<p>This is a test notification requested by " + html.EscapeString(OperatorFrom(r.Context())) + ".</p>"
	err := h.notifier.Notify(r.Context(), notify.Message{
		To:       req.To,
		Subject:  h.company + " notification test",
		HTML:     notify.WrapHTML(h.company, body, notify.PriorityNormal, time.Now().Year()),
		Priority: notify.PriorityNormal,
		Kind:     notify.KindTest,
	})
	if err != nil {
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
