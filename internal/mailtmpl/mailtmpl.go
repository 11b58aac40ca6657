// Package mailtmpl holds the candidate facing email templates and fills
// their {Placeholder} fields.
package mailtmpl

import (
	"html"
	"strings"

	"github.com/garnizeh/offerdesk/pkg/models"
)

// OfferTemplate uses {Full_Name}, {Position}, {Start_Date}, {HR_Name} and {Company}.
const OfferTemplate = `Hi {Full_Name},

I am delighted to welcome you to {Company} as a {Position} and we'd like to extend you an offer to join us. Congratulations!

We are confident that you would play a significant role in driving the vision of {Company} forward and we look forward to having you onboard for what promises to be a rewarding journey.

The details of your offer letter in the attached PDF. Please go through the same and feel free to ask if there are any questions.

If all is in order, please sign on all 3 pages of the offer letter (including the last page), and send a scanned copy back as your acceptance latest by {Start_Date}. Also, please check the details such as address or any other relevant details.

I look forward to you joining the team and taking {Company} to newer heights. If you have any questions, please don't hesitate to reach out to us.

Best regards,
{HR_Name}
`

// OfferSubjectTemplate is the default subject of the offer email.
const OfferSubjectTemplate = "Job Offer: {Position} at {Company}"

// OnboardingTemplate uses {employee_name}, {start_date}, {location},
// {manager_name}, {manager_email}, {company_email}, {initial_password},
// {buddy_name}, {role_specific_docs} and {company}.
const OnboardingTemplate = `Dear {employee_name},

Welcome to {company}! We are excited to have you join us on {start_date} at our {location} office.

Your reporting manager will be {manager_name} ({manager_email}). Your onboarding buddy, {buddy_name}, will help you settle in during your first weeks.

Your company account:
Email: {company_email}
Initial password: {initial_password}
Please change your password after your first login.

Before your first day, please go through the following documents for your role:
{role_specific_docs}

See you soon!

People Team, {company}
`

const OnboardingSubjectTemplate = "Welcome to {company}, {employee_name}!"

// Offer fills the offer email for o.
func Offer(o *models.Offer, company string) string {
	return offerReplacer(o, company).Replace(OfferTemplate)
}

// OfferSubject fills the default offer email subject for o.
func OfferSubject(o *models.Offer, company string) string {
	return offerReplacer(o, company).Replace(OfferSubjectTemplate)
}

func offerReplacer(o *models.Offer, company string) *strings.Replacer {
	return strings.NewReplacer(
		"{Full_Name}", o.Name,
		"{Position}", o.Position,
		"{Start_Date}", o.StartDate.Display(),
		"{HR_Name}", o.HRName,
		"{Company}", company,
	)
}

// Onboarding fills the onboarding email for o. docs lists the role's
// onboarding documents; an empty list prints a note instead.
func Onboarding(o *models.Offer, docs []string, initialPassword, company string) (subject, body string) {
	list := "(no role specific documents)"
	if len(docs) > 0 {
		list = "- " + strings.Join(docs, "\n- ")
	}
	location := o.Location
	if location == "" {
		location = company
	}
	r := strings.NewReplacer(
		"{employee_name}", o.Name,
		"{start_date}", o.StartDate.Display(),
		"{location}", location,
		"{manager_name}", o.ReportingManager,
		"{manager_email}", o.ManagerEmail,
		"{company_email}", o.CompanyEmail,
		"{initial_password}", initialPassword,
		"{buddy_name}", o.BuddyName,
		"{role_specific_docs}", list,
		"{company}", company,
	)
	return r.Replace(OnboardingSubjectTemplate), r.Replace(OnboardingTemplate)
}

// ToHTML escapes a plain text email and keeps its line breaks.
func ToHTML(text string) string {
	esc := html.EscapeString(strings.TrimSpace(text))
	return strings.ReplaceAll(esc, "\n", "<br>\n")
}
