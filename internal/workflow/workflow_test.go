package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/internal/escalation"
	"github.com/garnizeh/offerdesk/internal/letter"
	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/internal/workflow"
	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository/mock"
)

var now = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

var today = models.DateOf(now)

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (r *recorder) Notify(ctx context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

type countingComposer struct {
	inner *letter.Composer
	calls int
}

func (c *countingComposer) Compose(o *models.Offer) (*letter.Artifact, error) {
	c.calls++
	return c.inner.Compose(o)
}

type queue struct {
	msgs []notify.Message
}

func (q *queue) EnqueueNotification(ctx context.Context, msg notify.Message) error {
	q.msgs = append(q.msgs, msg)
	return nil
}

type harness struct {
	svc      *workflow.Service
	mocks    *mock.Mocks
	composer *countingComposer
	delivery *recorder
	alerts   *recorder
	retry    *queue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		mocks:    mock.NewMocks(),
		composer: &countingComposer{inner: letter.NewComposer(config.CompanyConfig{Name: "AI Planet", LegalName: "DPhi Tech", Address: "Hyderabad"}, func() time.Time { return now })},
		delivery: &recorder{},
		alerts:   &recorder{},
		retry:    &queue{},
	}
	svc, err := workflow.New(workflow.Config{
		Offers:                h.mocks.Offers,
		Roles:                 h.mocks.Roles,
		Composer:              h.composer,
		Delivery:              h.delivery,
		Alerts:                h.alerts,
		Retry:                 h.retry,
		Clock:                 func() time.Time { return now },
		NotificationEmail:     "hr@aiplanet.com",
		Company:               "AI Planet",
		DefaultContractMonths: 6,
	})
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	h.svc = svc
	return h
}

func input(daysOut int) workflow.Input {
	return workflow.Input{
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Address:          "1 Main St",
		Position:         "Data Scientist",
		StartDate:        today.AddDays(daysOut),
		Location:         "Hyderabad",
		MonthlySalary:    50000,
		HRName:           "Priya",
		ReportingManager: "Ravi",
	}
}

func TestNew_RequiresPorts(t *testing.T) {
	if _, err := workflow.New(workflow.Config{}); err == nil {
		t.Fatalf("expected error without ports")
	}
}

func TestCreate_Valid(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Create(context.Background(), input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	o := res.Offer
	if o.ID == "" || o.State != models.StatePreviewReady {
		t.Fatalf("unexpected offer: %+v", o)
	}
	if o.OfferSent || o.OfferAccepted || o.OnboardingCompleted {
		t.Fatalf("flags must start false")
	}
	if o.EmploymentType != models.FullTime || o.EndDate != nil {
		t.Fatalf("full time offer must not have an end date: %+v", o)
	}
	if res.Artifact == nil || res.Artifact.Filename != "AI Planet_Jane Doe_Offer_Letter.pdf" {
		t.Fatalf("unexpected artifact: %+v", res.Artifact)
	}
	if res.Level != escalation.None {
		t.Fatalf("unexpected level %v", res.Level)
	}
	stored, err := h.svc.Load(context.Background(), o.ID)
	if err != nil || stored.State != models.StatePreviewReady {
		t.Fatalf("offer not stored: %+v %v", stored, err)
	}
	if h.alerts.count() != 0 || h.delivery.count() != 0 {
		t.Fatalf("create must not notify")
	}
}

func TestCreate_ContractEndDate(t *testing.T) {
	h := newHarness(t)
	in := input(30)
	in.EmploymentType = "Contract"
	res, err := h.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := in.StartDate.AddDays(180)
	if res.Offer.EndDate == nil || *res.Offer.EndDate != want || res.Offer.ContractMonths != 6 {
		t.Fatalf("expected default 6 month term ending %v, got %+v", want, res.Offer)
	}

	in.ContractMonths = 3
	res, err = h.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if *res.Offer.EndDate != in.StartDate.AddDays(90) {
		t.Fatalf("unexpected end date %v", res.Offer.EndDate)
	}
}

func TestCreate_NotAnEmail(t *testing.T) {
	h := newHarness(t)
	in := input(30)
	in.Email = "not-an-email"

	res, err := h.svc.Create(context.Background(), in)
	var verr *workflow.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result")
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "email" {
		t.Fatalf("expected only email to be reported, got %+v", verr.Fields)
	}
	if h.mocks.Offers.Saves != 0 || h.composer.calls != 0 {
		t.Fatalf("expected no persistence and no artifact, got %d saves and %d renders", h.mocks.Offers.Saves, h.composer.calls)
	}
	if list, _ := h.mocks.Offers.ListOffers(context.Background(), 0, 0); len(list) != 0 {
		t.Fatalf("expected no record, got %d", len(list))
	}
}

func TestCreate_ListsEveryMissingField(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Create(context.Background(), workflow.Input{Position: "Astronaut", MonthlySalary: -1, EmploymentType: "freelance"})
	var verr *workflow.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"name", "email", "address", "start_date", "reporting_manager", "position", "monthly_salary", "employment_type"} {
		if !verr.Has(f) {
			t.Errorf("expected %s in %v", f, verr.Fields)
		}
	}
	if !strings.Contains(verr.Error(), "reporting_manager: is required") {
		t.Errorf("unexpected message %q", verr.Error())
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	orig := res.Offer
	saves := h.mocks.Offers.Saves

	name := "Janet Doe"
	et := "contract"
	edited, err := h.svc.Edit(ctx, orig, workflow.Patch{Name: &name, EmploymentType: &et})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if edited.Offer.Name != name || edited.Offer.State != models.StatePreviewReady || edited.Offer.ID != orig.ID {
		t.Fatalf("unexpected edit result: %+v", edited.Offer)
	}
	if edited.Offer.EndDate == nil {
		t.Fatalf("switching to contract must set an end date")
	}
	if orig.Name != "Jane Doe" {
		t.Fatalf("Edit modified its input")
	}
	if h.mocks.Offers.Saves != saves+2 {
		t.Fatalf("expected editing and preview_ready saves, got %d", h.mocks.Offers.Saves-saves)
	}
	if !strings.Contains(edited.Artifact.Filename, "Janet Doe") {
		t.Fatalf("letter not regenerated: %s", edited.Artifact.Filename)
	}

	bad := "nope"
	if _, err := h.svc.Edit(ctx, edited.Offer, workflow.Patch{Email: &bad}); err == nil {
		t.Fatalf("expected validation error for bad email")
	}
	stored, _ := h.svc.Load(ctx, orig.ID)
	if stored.Email != "jane@example.com" || stored.Name != name {
		t.Fatalf("failed edit must not change the record: %+v", stored)
	}

	full := "full_time"
	back, err := h.svc.Edit(ctx, edited.Offer, workflow.Patch{EmploymentType: &full})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if back.Offer.EndDate != nil || back.Offer.ContractMonths != 0 {
		t.Fatalf("full time must clear the term: %+v", back.Offer)
	}
}

func TestRegenerate_KeepsState(t *testing.T) {
	h := newHarness(t)
	res, err := h.svc.Create(context.Background(), input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	saves := h.mocks.Offers.Saves
	a, err := h.svc.Regenerate(context.Background(), res.Offer)
	if err != nil || a == nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if res.Offer.State != models.StatePreviewReady || h.mocks.Offers.Saves != saves {
		t.Fatalf("Regenerate must not change or store the offer")
	}
}

func sendFlow(t *testing.T, h *harness, daysOut int) (*workflow.Confirmation, *models.Offer) {
	t.Helper()
	ctx := context.Background()
	res, err := h.svc.Create(ctx, input(daysOut))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	conf, err := h.svc.ConfirmSend(ctx, res.Offer, workflow.Dispatch{})
	if err != nil {
		t.Fatalf("ConfirmSend: %v", err)
	}
	sent, err := h.svc.Send(ctx, conf.Offer, conf.Dispatch)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return conf, sent
}

func TestEndToEnd_NoEscalation(t *testing.T) {
	h := newHarness(t)
	conf, sent := sendFlow(t, h, 30)

	if conf.Level != escalation.None || conf.Alerted {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if !sent.OfferSent || sent.OfferSentDate == nil || *sent.OfferSentDate != today || sent.State != models.StateSent {
		t.Fatalf("unexpected sent offer: %+v", sent)
	}
	if h.alerts.count() != 1 {
		t.Fatalf("expected exactly one notice, got %d", h.alerts.count())
	}
	if h.alerts.msgs[0].Kind != notify.KindOfferSent || h.alerts.msgs[0].Subject != "Offer Letter Sent to Jane Doe" {
		t.Fatalf("unexpected notice: %+v", h.alerts.msgs[0])
	}

	if h.delivery.count() != 1 {
		t.Fatalf("expected one offer email, got %d", h.delivery.count())
	}
	email := h.delivery.msgs[0]
	if email.To != "jane@example.com" || email.Subject != "Job Offer: Data Scientist at AI Planet" {
		t.Fatalf("unexpected offer email: %+v", email)
	}
	if len(email.Attachments) != 1 || !strings.HasPrefix(string(email.Attachments[0].Content), "%PDF") {
		t.Fatalf("expected the letter attached")
	}

	stored, _ := h.svc.Load(context.Background(), sent.ID)
	if stored.State != models.StateSent || !stored.OfferSent {
		t.Fatalf("sent offer not stored: %+v", stored)
	}
}

func TestEndToEnd_WithEscalation(t *testing.T) {
	h := newHarness(t)
	conf, sent := sendFlow(t, h, 3)

	if conf.Level != escalation.Urgent || !conf.Alerted {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if sent.State != models.StateSent {
		t.Fatalf("escalation must not block the send")
	}
	if h.alerts.count() != 2 {
		t.Fatalf("expected exactly two notices, got %d", h.alerts.count())
	}
	esc := h.alerts.msgs[0]
	if esc.Kind != notify.KindEscalation || esc.Priority != notify.PriorityUrgent || esc.To != "hr@aiplanet.com" {
		t.Fatalf("unexpected escalation notice: %+v", esc)
	}
	if esc.Subject != "URGENT: Intervention Required: Offer Letter for Jane Doe" {
		t.Fatalf("priority not reflected in subject: %q", esc.Subject)
	}
	if !strings.Contains(esc.HTML, "URGENT ACTION REQUIRED") {
		t.Fatalf("unexpected escalation body")
	}
	if h.alerts.msgs[1].Kind != notify.KindOfferSent {
		t.Fatalf("second notice must be the send summary")
	}
}

func TestConfirmSend_EditedRecipient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := h.svc.ConfirmSend(ctx, res.Offer, workflow.Dispatch{To: "bogus"}); err == nil {
		t.Fatalf("expected validation error for bad recipient")
	}

	conf, err := h.svc.ConfirmSend(ctx, res.Offer, workflow.Dispatch{To: "jane.doe@example.org", Subject: "Your offer", Body: "Hello"})
	if err != nil {
		t.Fatalf("ConfirmSend: %v", err)
	}
	if conf.Offer.State != models.StateConfirmingSend || res.Offer.State != models.StatePreviewReady {
		t.Fatalf("unexpected states %s / %s", conf.Offer.State, res.Offer.State)
	}
	sent, err := h.svc.Send(ctx, conf.Offer, conf.Dispatch)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.Email != "jane.doe@example.org" || h.delivery.msgs[0].Subject != "Your offer" {
		t.Fatalf("edited dispatch not used: %+v", h.delivery.msgs[0])
	}
}

func TestSend_UsesConfirmedDispatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := h.svc.ConfirmSend(ctx, res.Offer, workflow.Dispatch{To: "jane.doe@example.org", Subject: "Your offer"}); err != nil {
		t.Fatalf("ConfirmSend: %v", err)
	}

	stored, err := h.svc.Load(ctx, res.Offer.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.Dispatch == nil || stored.Dispatch.To != "jane.doe@example.org" || stored.Dispatch.Body == "" {
		t.Fatalf("confirmed dispatch not stored: %+v", stored.Dispatch)
	}

	sent, err := h.svc.Send(ctx, stored, workflow.Dispatch{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	msg := h.delivery.msgs[0]
	if msg.To != "jane.doe@example.org" || msg.Subject != "Your offer" {
		t.Fatalf("confirmed dispatch not used: to=%q subject=%q", msg.To, msg.Subject)
	}
	if sent.Email != "jane.doe@example.org" || sent.Dispatch == nil || sent.Dispatch.Subject != "Your offer" {
		t.Fatalf("unexpected sent offer: %+v", sent)
	}
}

func TestSend_FailureIsRetryable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	conf, err := h.svc.ConfirmSend(ctx, res.Offer, workflow.Dispatch{})
	if err != nil {
		t.Fatalf("ConfirmSend: %v", err)
	}

	h.delivery.err = errors.New("smtp down")
	if _, err := h.svc.Send(ctx, conf.Offer, conf.Dispatch); !errors.Is(err, workflow.ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
	stored, _ := h.svc.Load(ctx, res.Offer.ID)
	if stored.State != models.StateConfirmingSend || stored.OfferSent {
		t.Fatalf("failed send must keep confirming_send: %+v", stored)
	}
	if h.alerts.count() != 0 {
		t.Fatalf("no summary on failure")
	}

	h.delivery.err = nil
	sent, err := h.svc.Send(ctx, stored, conf.Dispatch)
	if err != nil {
		t.Fatalf("retried Send: %v", err)
	}
	if sent.State != models.StateSent {
		t.Fatalf("unexpected state %s", sent.State)
	}
}

func TestAlertFailureIsQueued(t *testing.T) {
	h := newHarness(t)
	h.alerts.err = errors.New("api down")
	conf, sent := sendFlow(t, h, 3)
	if conf.Alerted {
		t.Fatalf("expected alert failure to be reported")
	}
	if sent.State != models.StateSent {
		t.Fatalf("notice failure must not block")
	}
	if len(h.retry.msgs) != 2 {
		t.Fatalf("expected both notices queued, got %d", len(h.retry.msgs))
	}
}

func TestForbiddenTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, sent := sendFlow(t, h, 30)

	var terr *workflow.TransitionError
	name := "X"
	if _, err := h.svc.Edit(ctx, sent, workflow.Patch{Name: &name}); !errors.As(err, &terr) {
		t.Fatalf("expected transition error editing a sent offer, got %v", err)
	}
	if terr.From != models.StateSent || terr.To != models.StateEditing {
		t.Fatalf("unexpected transition error %+v", terr)
	}
	if _, err := h.svc.ConfirmSend(ctx, sent, workflow.Dispatch{}); !errors.As(err, &terr) {
		t.Fatalf("expected transition error confirming a sent offer, got %v", err)
	}
	if _, err := h.svc.Send(ctx, sent, workflow.Dispatch{}); !errors.As(err, &terr) {
		t.Fatalf("expected transition error resending, got %v", err)
	}

	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := h.svc.Send(ctx, res.Offer, workflow.Dispatch{}); !errors.As(err, &terr) {
		t.Fatalf("expected send to require confirmation, got %v", err)
	}
}

func TestFlagsAreCausal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.Create(ctx, input(30))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := h.svc.RecordAcceptance(ctx, res.Offer.ID); !errors.Is(err, workflow.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if _, err := h.svc.RecordOnboardingCompleted(ctx, res.Offer.ID); !errors.Is(err, workflow.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if _, err := h.svc.RecordAcceptance(ctx, "missing"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, sent := sendFlow(t, h, 30)
	acc, err := h.svc.RecordAcceptance(ctx, sent.ID)
	if err != nil || !acc.OfferAccepted || *acc.OfferAcceptedDate != today {
		t.Fatalf("RecordAcceptance: %+v %v", acc, err)
	}
	done, err := h.svc.RecordOnboardingCompleted(ctx, sent.ID)
	if err != nil || !done.OnboardingCompleted || !done.OfferAccepted || !done.OfferSent {
		t.Fatalf("RecordOnboardingCompleted: %+v %v", done, err)
	}
	again, err := h.svc.RecordAcceptance(ctx, sent.ID)
	if err != nil || !again.OnboardingCompleted {
		t.Fatalf("repeat acceptance must be a no-op: %+v %v", again, err)
	}
}

func TestPersistenceFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	h.mocks.Offers.SaveErr = errors.New("disk full")
	if _, err := h.svc.Create(context.Background(), input(30)); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestSummarizeAndOnboardingEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, sent := sendFlow(t, h, 30)
	if _, err := h.svc.Create(ctx, input(3)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sum, err := h.svc.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Total != 2 || sum.Sent != 1 || sum.ByState[models.StateSent] != 1 || sum.ByState[models.StatePreviewReady] != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.NeedsAttention["urgent"] != 1 {
		t.Fatalf("expected one urgent offer, got %v", sum.NeedsAttention)
	}

	subject, body, err := h.svc.OnboardingEmail(ctx, sent, "temp123")
	if err != nil {
		t.Fatalf("OnboardingEmail: %v", err)
	}
	if !strings.Contains(subject, "Jane Doe") || !strings.Contains(body, "ml_pipelines.pdf") || !strings.Contains(body, "temp123") {
		t.Fatalf("unexpected onboarding email: %s\n%s", subject, body)
	}
}

func TestCreate_DefaultHRName(t *testing.T) {
	m := mock.NewMocks()
	svc, err := workflow.New(workflow.Config{
		Offers:        m.Offers,
		Roles:         m.Roles,
		Composer:      letter.NewComposer(config.CompanyConfig{Name: "AI Planet"}, func() time.Time { return now }),
		Delivery:      &recorder{},
		Clock:         func() time.Time { return now },
		DefaultHRName: "People Team",
	})
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	in := input(30)
	in.HRName = ""
	res, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Offer.HRName != "People Team" {
		t.Fatalf("expected default hr name, got %q", res.Offer.HRName)
	}
}
