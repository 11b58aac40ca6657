// Package escalation decides whether an offer needs a human to look at it
// before it goes out, and how urgently.
package escalation

import (
	"strings"

	"github.com/garnizeh/offerdesk/internal/notify"
	"github.com/garnizeh/offerdesk/pkg/models"
)

// Level is the intervention level of an offer.
type Level int

const (
	None Level = iota
	Normal
	HighPriority
	Urgent
)

func (l Level) String() string {
	switch l {
	case Normal:
		return "normal"
	case HighPriority:
		return "high_priority"
	case Urgent:
		return "urgent"
	default:
		return "none"
	}
}

// MarshalText lets levels appear as strings in API responses.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Priority maps a level to the notification priority. None maps to normal.
func (l Level) Priority() notify.Priority {
	switch l {
	case HighPriority:
		return notify.PriorityHigh
	case Urgent:
		return notify.PriorityUrgent
	default:
		return notify.PriorityNormal
	}
}

const (
	highSalary = 200000
	lowSalary  = 10000
)

// Classify evaluates the rules in order and returns the first that matches.
// today is the operator's current calendar date. o is not modified.
func Classify(o *models.Offer, today models.Date) Level {
	if o == nil {
		return HighPriority
	}
	if blank(o.Name) || blank(o.Email) || blank(o.Position) || o.StartDate.IsZero() {
		return HighPriority
	}
	if o.MonthlySalary > highSalary {
		return HighPriority
	}
	if o.MonthlySalary > 0 && o.MonthlySalary < lowSalary {
		return Normal
	}

	days := today.DaysUntil(o.StartDate)
	if !o.OfferSent {
		if days < 7 {
			return Urgent
		}
		if days < 14 {
			return HighPriority
		}
	}
	return None
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
