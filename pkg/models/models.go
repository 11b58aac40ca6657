package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

// EmploymentType is the kind of engagement an offer is made for.
type EmploymentType string

const (
	FullTime EmploymentType = "full_time"
	Intern   EmploymentType = "intern"
	Contract EmploymentType = "contract"
)

// ParseEmploymentType accepts both the stored form and the display form
// ("Full-time", "Intern", "Contract"). An empty string yields FullTime.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	switch s {
	case "", "full_time", "Full-time", "full-time":
		return FullTime, true
	case "intern", "Intern":
		return Intern, true
	case "contract", "Contract":
		return Contract, true
	}
	return "", false
}

func (t EmploymentType) Label() string {
	switch t {
	case Intern:
		return "Intern"
	case Contract:
		return "Contract"
	default:
		return "Full-time"
	}
}

// WorkflowState is the stage of an offer within the send lifecycle.
type WorkflowState string

const (
	StateDraft          WorkflowState = "draft"
	StatePreviewReady   WorkflowState = "preview_ready"
	StateEditing        WorkflowState = "editing"
	StateConfirmingSend WorkflowState = "confirming_send"
	StateSent           WorkflowState = "sent"
)

// Offer is the single persisted entity tracking one candidate from offer to onboarding.
type Offer struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Email            string         `json:"email" db:"email"`
	Address          string         `json:"address" db:"address"`
	Position         string         `json:"position" db:"position"`
	StartDate        Date           `json:"start_date" db:"start_date"`
	EndDate          *Date          `json:"end_date,omitempty" db:"end_date"`
	EmploymentType   EmploymentType `json:"employment_type" db:"employment_type"`
	ContractMonths   int            `json:"contract_months,omitempty" db:"contract_months"`
	Location         string         `json:"location" db:"location"`
	MonthlySalary    int64          `json:"monthly_salary" db:"monthly_salary"`
	BonusDetails     string         `json:"bonus_details,omitempty" db:"bonus_details"`
	EquityDetails    string         `json:"equity_details,omitempty" db:"equity_details"`
	Benefits         string         `json:"benefits,omitempty" db:"benefits"`
	Contingencies    string         `json:"contingencies,omitempty" db:"contingencies"`
	HRName           string         `json:"hr_name" db:"hr_name"`
	ReportingManager string         `json:"reporting_manager" db:"reporting_manager"`
	ManagerEmail     string         `json:"manager_email,omitempty" db:"manager_email"`
	CompanyEmail     string         `json:"company_email,omitempty" db:"company_email"`
	BuddyName        string         `json:"buddy_name,omitempty" db:"buddy_name"`

	OfferSent               bool  `json:"offer_sent" db:"offer_sent"`
	OfferSentDate           *Date `json:"offer_sent_date,omitempty" db:"offer_sent_date"`
	OfferAccepted           bool  `json:"offer_accepted" db:"offer_accepted"`
	OfferAcceptedDate       *Date `json:"offer_accepted_date,omitempty" db:"offer_accepted_date"`
	OnboardingCompleted     bool  `json:"onboarding_completed" db:"onboarding_completed"`
	OnboardingCompletedDate *Date `json:"onboarding_completed_date,omitempty" db:"onboarding_completed_date"`

	// Dispatch is the email confirmed for sending. It is set when the offer
	// enters confirming_send and kept once sent.
	Dispatch *Dispatch `json:"dispatch,omitempty" db:"-"`

	State     WorkflowState `json:"state" db:"state"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	c := *o
	c.EndDate = o.EndDate.clone()
	c.OfferSentDate = o.OfferSentDate.clone()
	c.OfferAcceptedDate = o.OfferAcceptedDate.clone()
	c.OnboardingCompletedDate = o.OnboardingCompletedDate.clone()
	if o.Dispatch != nil {
		d := *o.Dispatch
		c.Dispatch = &d
	}
	return &c
}

// Dispatch is the offer email as confirmed by the operator.
type Dispatch struct {
	To      string `json:"to" db:"dispatch_to"`
	Subject string `json:"subject" db:"dispatch_subject"`
	Body    string `json:"body" db:"dispatch_body"`
}

// Role is an entry of the role catalog offers draw their position from.
type Role struct {
	Name            string    `json:"name" yaml:"name" db:"name"`
	Description     string    `json:"description" yaml:"description" db:"description"`
	SkillsRequired  []string  `json:"skills_required" yaml:"skills_required" db:"skills_required"`
	OnboardingDocs  []string  `json:"onboarding_docs" yaml:"onboarding_docs" db:"onboarding_docs"`
	TrainingModules []string  `json:"training_modules" yaml:"training_modules" db:"training_modules"`
	Updated         time.Time `json:"updated" yaml:"-" db:"updated"`
}

// Operator roles.
const (
	OperatorHR      = "HR"
	OperatorManager = "Manager"
)

// Operator is a signed-in user of the HR desk.
type Operator struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	Updated      int64  `json:"updated" db:"updated"`
}

// Notification is one entry of the dispatch history.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	OfferID   string    `json:"offer_id,omitempty" db:"offer_id"`
	Recipient string    `json:"recipient" db:"recipient"`
	Subject   string    `json:"subject" db:"subject"`
	Priority  string    `json:"priority" db:"priority"`
	Kind      string    `json:"kind" db:"kind"`
	Status    string    `json:"status" db:"status"`
	Error     string    `json:"error,omitempty" db:"error"`
	Created   time.Time `json:"created" db:"created"`
}
