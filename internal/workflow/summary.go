package workflow

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/garnizeh/offerdesk/internal/escalation"
	"github.com/garnizeh/offerdesk/internal/mailtmpl"
	"github.com/garnizeh/offerdesk/pkg/models"
)

var sentTemplate = template.Must(template.New("sent").Parse(`<h2>Offer Letter Sent</h2>
<p>An offer letter has been sent to <strong>{{.Name}}</strong> for the position of {{.Position}}.</p>
<p><strong>Details:</strong></p>
<ul>
<li><strong>Email:</strong> {{.Email}}</li>
<li><strong>Start Date:</strong> {{.StartDate}}</li>
<li><strong>Monthly Salary:</strong> INR {{.Salary}}</li>
</ul>
<p>The candidate has been requested to respond by {{.StartDate}}.</p>
`))

func summaryHTML(data any) string {
	var buf bytes.Buffer
	if err := sentTemplate.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}

// Summary counts offers for the dashboard.
type Summary struct {
	Total               int                          `json:"total"`
	ByState             map[models.WorkflowState]int `json:"by_state"`
	Sent                int                          `json:"sent"`
	Accepted            int                          `json:"accepted"`
	OnboardingCompleted int                          `json:"onboarding_completed"`
	// NeedsAttention counts unsent offers per escalation level.
	NeedsAttention map[string]int `json:"needs_attention"`
}

const summaryPage = 200

// Summarize walks all offers and classifies each unsent one as of today.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	sum := &Summary{ByState: map[models.WorkflowState]int{}, NeedsAttention: map[string]int{}}
	today := s.Today()
	for offset := 0; ; offset += summaryPage {
		page, err := s.cfg.Offers.ListOffers(ctx, summaryPage, offset)
		if err != nil {
			return nil, fmt.Errorf("workflow: list offers: %w", err)
		}
		for i := range page {
			o := &page[i]
			sum.Total++
			sum.ByState[o.State]++
			if o.OfferSent {
				sum.Sent++
			} else if l := escalation.Classify(o, today); l != escalation.None {
				sum.NeedsAttention[l.String()]++
			}
			if o.OfferAccepted {
				sum.Accepted++
			}
			if o.OnboardingCompleted {
				sum.OnboardingCompleted++
			}
		}
		if len(page) < summaryPage {
			return sum, nil
		}
	}
}

// OnboardingEmail renders the welcome email for o with the documents of
// its role.
func (s *Service) OnboardingEmail(ctx context.Context, o *models.Offer, initialPassword string) (subject, body string, err error) {
	var docs []string
	if s.cfg.Roles != nil {
		role, err := s.cfg.Roles.GetRole(ctx, o.Position)
		if err != nil {
			return "", "", fmt.Errorf("workflow: look up role %q: %w", o.Position, err)
		}
		if role != nil {
			docs = role.OnboardingDocs
		}
	}
	subject, body = mailtmpl.Onboarding(o, docs, initialPassword, s.cfg.Company)
	return subject, body, nil
}
