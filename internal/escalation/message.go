package escalation

import (
	"bytes"
	"html/template"

	"github.com/garnizeh/offerdesk/pkg/models"
)

var messages = template.Must(template.New("urgent").Parse(`<h2>URGENT ACTION REQUIRED</h2>
<p>An urgent issue has been detected with the onboarding process for <strong>{{.Name}}</strong> ({{.Position}}).</p>
<p>The employee's start date is approaching rapidly and the offer letter has not been sent yet.</p>
<p>Please take immediate action to ensure a smooth onboarding process.</p>
<h3>Required Actions:</h3>
<ul>
<li>Send the offer letter immediately</li>
<li>Contact the employee to confirm receipt and acceptance</li>
<li>Expedite the onboarding process</li>
</ul>
`))

func init() {
	template.Must(messages.New("high_priority").Parse(`<h2>High Priority Intervention Needed</h2>
<p>A high priority issue has been detected with the onboarding process for <strong>{{.Name}}</strong> ({{.Position}}).</p>
<p>There may be missing critical information or unusual parameters in the employee's data.</p>
<h3>Please review:</h3>
<ul>
<li>Check all required fields are complete</li>
<li>Verify salary information is correct</li>
<li>Ensure start date is realistic and provides adequate time for onboarding</li>
</ul>
`))
	template.Must(messages.New("normal").Parse(`<h2>Onboarding Review Needed</h2>
<p>The onboarding process for <strong>{{.Name}}</strong> ({{.Position}}) requires review.</p>
<p>There may be unusual parameters or information that should be verified before proceeding.</p>
<h3>Suggested actions:</h3>
<ul>
<li>Review employee information for accuracy</li>
<li>Verify all critical fields are filled correctly</li>
<li>Ensure the onboarding process is on track</li>
</ul>
`))
}

// Message returns the HTML body describing what a human has to do for the
// given level. It is empty for None.
func Message(o *models.Offer, l Level) string {
	if l == None {
		return ""
	}
	data := struct{ Name, Position string }{Name: "Unknown", Position: "Unknown position"}
	if o != nil {
		if !blank(o.Name) {
			data.Name = o.Name
		}
		if !blank(o.Position) {
			data.Position = o.Position
		}
	}
	var buf bytes.Buffer
	if err := messages.ExecuteTemplate(&buf, l.String(), data); err != nil {
		panic(err)
	}
	return buf.String()
}
