package notify

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"os"
	"strings"
)

// Priority of a notification. High and urgent are reflected in the subject.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Kind tags what a message is for in the dispatch history.
type Kind string

const (
	KindOfferEmail Kind = "offer_email"
	KindEscalation Kind = "escalation"
	KindOfferSent  Kind = "offer_sent"
	KindTest       Kind = "test"
)

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Message is one request to the notification port.
type Message struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Priority    Priority     `json:"priority"`
	Kind        Kind         `json:"kind"`
	OfferID     string       `json:"offer_id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Notifier delivers a message and reports whether it succeeded.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg Message) error

func (f NotifierFunc) Notify(ctx context.Context, msg Message) error { return f(ctx, msg) }

// package-level logger for notify; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by notify. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// PrefixSubject marks high and urgent subjects. Already prefixed subjects are left alone.
func PrefixSubject(subject string, p Priority) string {
	var prefix string
	switch p {
	case PriorityUrgent:
		prefix = "URGENT: "
	case PriorityHigh:
		prefix = "HIGH PRIORITY: "
	default:
		return subject
	}
	if strings.HasPrefix(subject, prefix) {
		return subject
	}
	return prefix + subject
}

var envelope = template.Must(template.New("envelope").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { padding: 10px 0; border-bottom: 1px solid #eee; }
.logo { font-size: 24px; font-weight: bold; color: #2E5090; }
.content { padding: 20px 0; }
.footer { padding: 10px 0; border-top: 1px solid #eee; font-size: 12px; color: #777; }
.alert { padding: 15px; margin-bottom: 20px; border-radius: 4px; }
.urgent { background-color: #f8d7da; border: 1px solid #f5c6cb; color: #721c24; }
.high { background-color: #fff3cd; border: 1px solid #ffeeba; color: #856404; }
</style>
</head>
<body>
<div class="container">
<div class="header"><div class="logo">{{.Company}}</div></div>
<div class="content">
{{if .Banner}}<div class="alert {{.Class}}">This is a {{.Banner}} notification.</div>
{{end}}{{.Body}}
</div>
<div class="footer">
<p>This is an automated message from {{.Company}} Onboarding System.</p>
<p>&copy; {{.Year}} {{.Company}}. All rights reserved.</p>
</div>
</div>
</body>
</html>
`))

// WrapHTML places a trusted HTML body into the notification envelope.
// Body must already be escaped; company is escaped here.
func WrapHTML(company, body string, p Priority, year int) string {
	data := struct {
		Company, Banner, Class string
		Body                   template.HTML
		Year                   int
	}{Company: company, Body: template.HTML(body), Year: year}
	switch p {
	case PriorityUrgent:
		data.Banner, data.Class = "urgent", "urgent"
	case PriorityHigh:
		data.Banner, data.Class = "high priority", "high"
	}
	var buf bytes.Buffer
	if err := envelope.Execute(&buf, data); err != nil {
		// the template is static; a failure here means a programming error
		panic(err)
	}
	return buf.String()
}

// LogNotifier only logs messages. It is the default driver in development.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(l *slog.Logger) *LogNotifier {
	if l == nil {
		l = logger
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.Info("notification",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("priority", string(msg.Priority)),
		slog.String("kind", string(msg.Kind)),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
