// Package letter builds the three page offer letter for an offer record.
// Laying out the pages, substituting parameters, sanitizing text and
// rendering to PDF are separate steps.
package letter

import (
	"time"

	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/pkg/models"
)

// Kind tells the renderer how to draw a block.
type Kind int

const (
	KindTitle Kind = iota
	KindDate
	KindHighlight
	KindLine
	KindParagraph
	KindHeading
	KindClause
	KindSignature
	KindFields
	KindFooter
)

// Block is one drawable element. Number is set for clauses only; Aside is the
// second line of a signature or the right column of a fields row.
type Block struct {
	Kind   Kind
	Text   string
	Aside  string
	Number int
	Center bool
}

type Page struct {
	Blocks []Block
}

// Document is the laid out letter before rendering.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Pages       []Page
}

// Clauses returns the numbered clauses across all pages in print order.
func (d *Document) Clauses() []Block {
	var out []Block
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == KindClause {
				out = append(out, b)
			}
		}
	}
	return out
}

// DateLine is the letter date header for the given instant.
func DateLine(at time.Time) string {
	return "Date: " + at.Format("02 January 2006")
}

// Compose lays out the letter for o. It reads o and never modifies it.
func Compose(o *models.Offer, company config.CompanyConfig, at time.Time) *Document {
	p := NewParams(o, company)
	title := p.Expand(titleTemplate)
	footer := Block{Kind: KindFooter, Text: Sanitize(p.LegalName + " | " + p.CompanyAddress)}

	first := Page{Blocks: []Block{
		{Kind: KindTitle, Text: title, Center: true},
		{Kind: KindDate, Text: DateLine(at)},
		{Kind: KindHighlight, Text: p.Name},
		{Kind: KindLine, Text: labeled("Address:", p.Address)},
		{Kind: KindLine, Text: labeled("Email:", p.Email)},
		{Kind: KindLine, Text: "Phone no:"},
		{Kind: KindLine, Text: "Dear " + p.FirstName + ","},
		{Kind: KindParagraph, Text: p.Expand(welcomeTemplate)},
		{Kind: KindParagraph, Text: annexureRef},
		{Kind: KindParagraph, Text: closingText},
		{Kind: KindLine, Text: "Congratulations!"},
		{Kind: KindSignature, Text: p.HRName, Aside: p.Signatory},
		footer,
	}}

	n := 0
	clause := func(text string) Block {
		n++
		return Block{Kind: KindClause, Number: n, Text: p.Expand(text)}
	}

	second := Page{Blocks: []Block{
		{Kind: KindTitle, Text: title},
		{Kind: KindHeading, Text: "Annexure A"},
		{Kind: KindParagraph, Text: p.Expand(preambleTemplate)},
	}}
	for _, c := range annexureClauses[:clausesOnAnnexurePage] {
		second.Blocks = append(second.Blocks, clause(c))
	}
	second.Blocks = append(second.Blocks, footer)

	third := Page{Blocks: []Block{{Kind: KindTitle, Text: title}}}
	for _, c := range annexureClauses[clausesOnAnnexurePage:] {
		third.Blocks = append(third.Blocks, clause(c))
	}
	for _, c := range extraClauses {
		third.Blocks = append(third.Blocks, clause(c))
	}
	third.Blocks = append(third.Blocks,
		Block{Kind: KindParagraph, Text: acceptanceText},
		Block{Kind: KindFields, Text: "Date: ________________", Aside: "Signature: ________________"},
		Block{Kind: KindFields, Text: "Place: ________________", Aside: "Name: ________________"},
		footer,
	)

	return &Document{Title: title, GeneratedAt: at, Pages: []Page{first, second, third}}
}

func labeled(label, value string) string {
	if value == "" {
		return label
	}
	return label + " " + value
}
