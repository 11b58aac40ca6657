package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/garnizeh/offerdesk/pkg/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Input is what an operator submits to create an offer.
type Input struct {
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Address          string      `json:"address"`
	Position         string      `json:"position"`
	StartDate        models.Date `json:"start_date"`
	EmploymentType   string      `json:"employment_type"`
	ContractMonths   int         `json:"contract_months"`
	Location         string      `json:"location"`
	MonthlySalary    int64       `json:"monthly_salary"`
	BonusDetails     string      `json:"bonus_details"`
	EquityDetails    string      `json:"equity_details"`
	Benefits         string      `json:"benefits"`
	Contingencies    string      `json:"contingencies"`
	HRName           string      `json:"hr_name"`
	ReportingManager string      `json:"reporting_manager"`
	ManagerEmail     string      `json:"manager_email"`
	CompanyEmail     string      `json:"company_email"`
	BuddyName        string      `json:"buddy_name"`
}

// Patch changes selected fields of an offer. Nil fields are left alone.
type Patch struct {
	Name             *string      `json:"name,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Address          *string      `json:"address,omitempty"`
	Position         *string      `json:"position,omitempty"`
	StartDate        *models.Date `json:"start_date,omitempty"`
	EmploymentType   *string      `json:"employment_type,omitempty"`
	ContractMonths   *int         `json:"contract_months,omitempty"`
	Location         *string      `json:"location,omitempty"`
	MonthlySalary    *int64       `json:"monthly_salary,omitempty"`
	BonusDetails     *string      `json:"bonus_details,omitempty"`
	EquityDetails    *string      `json:"equity_details,omitempty"`
	Benefits         *string      `json:"benefits,omitempty"`
	Contingencies    *string      `json:"contingencies,omitempty"`
	HRName           *string      `json:"hr_name,omitempty"`
	ReportingManager *string      `json:"reporting_manager,omitempty"`
	ManagerEmail     *string      `json:"manager_email,omitempty"`
	CompanyEmail     *string      `json:"company_email,omitempty"`
	BuddyName        *string      `json:"buddy_name,omitempty"`
}

// draft holds an offer under construction with the raw employment type, so
// an unknown value is reported as a field error instead of being lost.
type draft struct {
	offer          *models.Offer
	employmentType string
}

func (in Input) draft() draft {
	return draft{
		offer: &models.Offer{
			Name:             strings.TrimSpace(in.Name),
			Email:            strings.TrimSpace(in.Email),
			Address:          strings.TrimSpace(in.Address),
			Position:         strings.TrimSpace(in.Position),
			StartDate:        in.StartDate,
			ContractMonths:   in.ContractMonths,
			Location:         strings.TrimSpace(in.Location),
			MonthlySalary:    in.MonthlySalary,
			BonusDetails:     in.BonusDetails,
			EquityDetails:    in.EquityDetails,
			Benefits:         in.Benefits,
			Contingencies:    in.Contingencies,
			HRName:           strings.TrimSpace(in.HRName),
			ReportingManager: strings.TrimSpace(in.ReportingManager),
			ManagerEmail:     strings.TrimSpace(in.ManagerEmail),
			CompanyEmail:     strings.TrimSpace(in.CompanyEmail),
			BuddyName:        strings.TrimSpace(in.BuddyName),
		},
		employmentType: in.EmploymentType,
	}
}

// apply merges p into a copy of o.
func (p Patch) apply(o *models.Offer) draft {
	c := o.Clone()
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Address, p.Address)
	set(&c.Position, p.Position)
	set(&c.Location, p.Location)
	set(&c.HRName, p.HRName)
	set(&c.ReportingManager, p.ReportingManager)
	set(&c.ManagerEmail, p.ManagerEmail)
	set(&c.CompanyEmail, p.CompanyEmail)
	set(&c.BuddyName, p.BuddyName)
	if p.BonusDetails != nil {
		c.BonusDetails = *p.BonusDetails
	}
	if p.EquityDetails != nil {
		c.EquityDetails = *p.EquityDetails
	}
	if p.Benefits != nil {
		c.Benefits = *p.Benefits
	}
	if p.Contingencies != nil {
		c.Contingencies = *p.Contingencies
	}
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.MonthlySalary != nil {
		c.MonthlySalary = *p.MonthlySalary
	}

	et := string(c.EmploymentType)
	if p.EmploymentType != nil {
		et = *p.EmploymentType
	}
	if p.ContractMonths != nil {
		c.ContractMonths = *p.ContractMonths
	}
	return draft{offer: c, employmentType: et}
}

// validate checks d and normalizes its employment terms. Role lookups are
// the only I/O; their failure is returned as a plain error.
func (s *Service) validate(ctx context.Context, d draft) error {
	o := d.offer
	var fields []FieldError
	required := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, FieldError{Field: name, Message: "is required"})
		}
	}
	required("name", o.Name)
	required("email", o.Email)
	required("address", o.Address)
	required("position", o.Position)
	if o.StartDate.IsZero() {
		fields = append(fields, FieldError{Field: "start_date", Message: "is required"})
	}
	required("reporting_manager", o.ReportingManager)

	if o.Email != "" && !ValidEmail(o.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "is not a valid email address"})
	}
	if o.ManagerEmail != "" && !ValidEmail(o.ManagerEmail) {
		fields = append(fields, FieldError{Field: "manager_email", Message: "is not a valid email address"})
	}
	if o.CompanyEmail != "" && !ValidEmail(o.CompanyEmail) {
		fields = append(fields, FieldError{Field: "company_email", Message: "is not a valid email address"})
	}
	if o.MonthlySalary < 0 {
		fields = append(fields, FieldError{Field: "monthly_salary", Message: "must not be negative"})
	}

	et, ok := models.ParseEmploymentType(d.employmentType)
	if !ok {
		fields = append(fields, FieldError{Field: "employment_type", Message: fmt.Sprintf("unknown employment type %q", d.employmentType)})
	}
	if o.ContractMonths < 0 {
		fields = append(fields, FieldError{Field: "contract_months", Message: "must not be negative"})
	}

	if o.Position != "" && s.cfg.Roles != nil {
		role, err := s.cfg.Roles.GetRole(ctx, o.Position)
		if err != nil {
			return fmt.Errorf("workflow: look up role %q: %w", o.Position, err)
		}
		if role == nil {
			fields = append(fields, FieldError{Field: "position", Message: fmt.Sprintf("unknown role %q", o.Position)})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	o.EmploymentType = et
	s.applyTerm(o)
	return nil
}

// applyTerm keeps end_date set exactly for contracts.
func (s *Service) applyTerm(o *models.Offer) {
	if o.EmploymentType != models.Contract {
		o.ContractMonths = 0
		o.EndDate = nil
		return
	}
	if o.ContractMonths == 0 {
		o.ContractMonths = s.cfg.DefaultContractMonths
	}
	o.EndDate = o.StartDate.AddDays(30 * o.ContractMonths).Ptr()
}
