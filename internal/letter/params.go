package letter

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/garnizeh/offerdesk/internal/config"
	"github.com/garnizeh/offerdesk/pkg/models"
)

// Params holds the sanitized values substituted into letter templates.
type Params struct {
	Company        string
	LegalName      string
	CompanyAddress string
	Signatory      string

	Name      string
	FirstName string
	Address   string
	Email     string
	Position  string
	StartDate string
	Location  string
	Salary    string
	HRName    string
}

// NewParams extracts and sanitizes everything the letter prints from o.
func NewParams(o *models.Offer, company config.CompanyConfig) Params {
	p := Params{
		Company:        Sanitize(company.Name),
		LegalName:      Sanitize(company.LegalName),
		CompanyAddress: Sanitize(company.Address),
		Signatory:      Sanitize(company.SignatoryTitle),
		Name:           Sanitize(strings.TrimSpace(o.Name)),
		Address:        Sanitize(o.Address),
		Email:          Sanitize(o.Email),
		Position:       Sanitize(o.Position),
		StartDate:      Sanitize(o.StartDate.Display()),
		Location:       Sanitize(o.Location),
		Salary:         humanize.Comma(o.MonthlySalary),
		HRName:         Sanitize(o.HRName),
	}
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		p.FirstName = fields[0]
	}
	if p.Location == "" {
		p.Location = p.Company
	}
	return p
}

// Expand substitutes the placeholders in text and sanitizes the result, so
// punctuation in the templates themselves is covered too.
func (p Params) Expand(text string) string {
	r := strings.NewReplacer(
		"{company}", p.Company,
		"{position}", p.Position,
		"{start_date}", p.StartDate,
		"{location}", p.Location,
		"{salary}", p.Salary,
	)
	return Sanitize(r.Replace(text))
}
