package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/internal/workflow"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
	"github.com/gorilla/mux"
)

type OffersHandler struct {
	svc     *workflow.Service
	offers  repository.OfferRepo
	schemas *Schemas
}

func NewOffersHandler(svc *workflow.Service, offers repository.OfferRepo, schemas *Schemas) *OffersHandler {
	return &OffersHandler{svc: svc, offers: offers, schemas: schemas}
}

type letterResponse struct {
	Filename      string    `json:"filename"`
	ContentBase64 string    `json:"content_base64"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func newLetterResponse(a *letter.Artifact) *letterResponse {
	if a == nil {
		return nil
	}
	return &letterResponse{Filename: a.Filename, ContentBase64: a.Base64(), GeneratedAt: a.GeneratedAt}
}

type offerResponse struct {
	Offer      *models.Offer   `json:"offer"`
	Letter     *letterResponse `json:"letter,omitempty"`
	Escalation string          `json:"escalation"`
}

// decode validates body against schema and unmarshals it into v. An empty
// body is accepted when allowEmpty is set.
func (h *OffersHandler) decode(r *http.Request, schema string, allowEmpty bool, v any) error {
	body, err := readBody(r)
	if err != nil {
		return &workflow.ValidationError{Fields: []workflow.FieldError{{Field: "body", Message: err.Error()}}}
	}
	if len(body) == 0 && allowEmpty {
		return nil
	}
	if err := h.schemas.Validate(r.Context(), schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &workflow.ValidationError{Fields: []workflow.FieldError{{Field: "body", Message: err.Error()}}}
	}
	return nil
}

func (h *OffersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in workflow.Input
	if err := h.decode(r, "offer_create", false, &in); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, offerResponse{Offer: res.Offer, Letter: newLetterResponse(res.Artifact), Escalation: res.Level.String()}, http.StatusCreated)
}

func (h *OffersHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 500)
	offers, err := h.offers.ListOffers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if offers == nil {
		offers = []models.Offer{}
	}
	writeJSON(w, map[string]any{"limit": limit, "offset": offset, "items": offers}, http.StatusOK)
}

func (h *OffersHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, o, http.StatusOK)
}

func (h *OffersHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var p workflow.Patch
	if err := h.decode(r, "offer_patch", false, &p); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.svc.Edit(r.Context(), o, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, offerResponse{Offer: res.Offer, Letter: newLetterResponse(res.Artifact), Escalation: res.Level.String()}, http.StatusOK)
}

func (h *OffersHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.svc.Regenerate(r.Context(), o)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, newLetterResponse(a), http.StatusOK)
}

// Letter returns the rendered letter as JSON, or as a PDF download when
// ?format=pdf is given.
func (h *OffersHandler) Letter(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.svc.Regenerate(r.Context(), o)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(a.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(a.Content)
		return
	}
	writeJSON(w, newLetterResponse(a), http.StatusOK)
}

func (h *OffersHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var d workflow.Dispatch
	if err := h.decode(r, "dispatch", true, &d); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.ConfirmSend(r.Context(), o, d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *OffersHandler) Send(w http.ResponseWriter, r *http.Request) {
	var d workflow.Dispatch
	if err := h.decode(r, "dispatch", true, &d); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	sent, err := h.svc.Send(r.Context(), o, d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, sent, http.StatusOK)
}

func (h *OffersHandler) Accept(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.RecordAcceptance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, o, http.StatusOK)
}

func (h *OffersHandler) OnboardingComplete(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.RecordOnboardingCompleted(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, o, http.StatusOK)
}

type onboardingEmailRequest struct {
	InitialPassword string `json:"initial_password"`
}

// OnboardingEmail previews the welcome email of an accepted offer.
func (h *OffersHandler) OnboardingEmail(w http.ResponseWriter, r *http.Request) {
	var req onboardingEmailRequest
	body, err := readBody(r)
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	o, err := h.svc.Load(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !o.OfferAccepted {
		writeError(w, fmt.Errorf("%w: offer %s has not been accepted", workflow.ErrPrecondition, o.ID))
		return
	}
	subject, text, err := h.svc.OnboardingEmail(r.Context(), o, req.InitialPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"to": o.Email, "subject": subject, "body": text}, http.StatusOK)
}

func (h *OffersHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, sum, http.StatusOK)
}
