package letter

import (
	"encoding/base64"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/pkg/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// package-level logger for letter; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by letter. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Artifact is a rendered letter ready to attach or download.
type Artifact struct {
	Filename    string    `json:"filename"`
	Content     []byte    `json:"-"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Base64 is the transport encoding of the PDF.
func (a *Artifact) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Content)
}

// Filename suggests "{company}_{candidate}_Offer_Letter.pdf". Both parts
// are reduced to printable ASCII: accents are stripped, path separators and
// quotes removed, anything else outside ASCII dropped.
func Filename(company, candidate string) string {
	company = filenamePart(company)
	candidate = filenamePart(candidate)
	if candidate == "" {
		return company + "_Offer_Letter.pdf"
	}
	return company + "_" + candidate + "_Offer_Letter.pdf"
}

func filenamePart(s string) string {
	s = punctuation.Replace(s)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/' || r == '\\' || r == '"':
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Composer produces artifacts for a fixed company identity.
type Composer struct {
	company config.CompanyConfig
	clock   func() time.Time
}

// NewComposer returns a Composer. clock defaults to time.Now.
func NewComposer(company config.CompanyConfig, clock func() time.Time) *Composer {
	if clock == nil {
		clock = time.Now
	}
	return &Composer{company: company, clock: clock}
}

// Compose lays out and renders the letter for o at the current clock instant.
func (c *Composer) Compose(o *models.Offer) (*Artifact, error) {
	at := c.clock()
	doc := Compose(o, c.company, at)
	content, err := Render(doc, c.company.LogoPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("letter composed", slog.String("offer_id", o.ID), slog.Int("bytes", len(content)))
	return &Artifact{
		Filename:    Filename(c.company.Name, o.Name),
		Content:     content,
		GeneratedAt: at,
	}, nil
}
