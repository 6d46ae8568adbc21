package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TicketType classifies a registrant and drives price and workflow.
type TicketType string

const (
	TicketStudent      TicketType = "student"
	TicketProfessional TicketType = "professional"
	TicketStudentGroup TicketType = "student-group"
)

// Bounds on the size of a student-group ticket.
const (
	MinGroupSize = 5
	MaxGroupSize = 500
)

// Ticket prices in minor currency units (cents).
const (
	StudentPriceMinorUnits          int64 = 5000
	ProfessionalPriceMinorUnits     int64 = 10000
	StudentGroupPerPersonMinorUnits int64 = 4000
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	switch t {
	case TicketStudent, TicketProfessional, TicketStudentGroup:
		return true
	}
	return false
}

// IsGroup reports whether t is the group variant.
func (t TicketType) IsGroup() bool {
	return t == TicketStudentGroup
}

// PriceQuote is the charge computed for a ticket request.
// swagger:model PriceQuote
type PriceQuote struct {
	TicketType           TicketType `json:"ticket_type"`
	AmountMinorUnits     int64      `json:"amount_minor_units"`
	UnitAmountMinorUnits int64      `json:"unit_amount_minor_units"`
	Quantity             int64      `json:"quantity"`
	Description          string     `json:"description"`
	IsGroup              bool       `json:"is_group"`
	GroupSize            int        `json:"group_size,omitempty"`
	DiscountPercent      int        `json:"discount_percent,omitempty"`
}

// CalculatePrice maps a ticket type and group size to a charge. groupSize is
// ignored for individual tickets. It has no side effects.
func CalculatePrice(ticketType TicketType, groupSize int) (*PriceQuote, error) {
	switch ticketType {
	case TicketStudent:
		return &PriceQuote{
			TicketType:           ticketType,
			AmountMinorUnits:     StudentPriceMinorUnits,
			UnitAmountMinorUnits: StudentPriceMinorUnits,
			Quantity:             1,
			Description:          "Student Ticket - " + FormatMinorUnits(StudentPriceMinorUnits),
		}, nil
	case TicketProfessional:
		return &PriceQuote{
			TicketType:           ticketType,
			AmountMinorUnits:     ProfessionalPriceMinorUnits,
			UnitAmountMinorUnits: ProfessionalPriceMinorUnits,
			Quantity:             1,
			Description:          "Professional Ticket - " + FormatMinorUnits(ProfessionalPriceMinorUnits),
		}, nil
	case TicketStudentGroup:
		if groupSize < MinGroupSize {
			return nil, NewValidationError(
				fmt.Sprintf("group size must be at least %d for student-group tickets", MinGroupSize),
				"groupSize",
			)
		}
		if groupSize > MaxGroupSize {
			return nil, NewValidationError(
				fmt.Sprintf("group size must be at most %d for student-group tickets", MaxGroupSize),
				"groupSize",
			)
		}
		total := StudentGroupPerPersonMinorUnits * int64(groupSize)
		return &PriceQuote{
			TicketType:           ticketType,
			AmountMinorUnits:     total,
			UnitAmountMinorUnits: StudentGroupPerPersonMinorUnits,
			Quantity:             int64(groupSize),
			Description:          fmt.Sprintf("Student Group Ticket (%d attendees) - %s", groupSize, FormatMinorUnits(total)),
			IsGroup:              true,
			GroupSize:            groupSize,
		}, nil
	default:
		return nil, NewValidationError(fmt.Sprintf("invalid ticket type %q", string(ticketType)), "ticketType")
	}
}

// ApplyDiscount returns a copy of q reduced by percent (clamped to 0..100).
// Fractions of a cent are dropped in the customer's favour.
func (q PriceQuote) ApplyDiscount(percent int) *PriceQuote {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	out := q
	if percent == 0 {
		return &out
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	out.UnitAmountMinorUnits = decimal.NewFromInt(q.UnitAmountMinorUnits).Mul(factor).Floor().IntPart()
	out.AmountMinorUnits = out.UnitAmountMinorUnits * q.Quantity
	out.DiscountPercent = percent
	out.Description = fmt.Sprintf("%s (%d%% off, now %s)", q.Description, percent, FormatMinorUnits(out.AmountMinorUnits))
	return &out
}

// FormatMinorUnits renders cents as a dollar amount, e.g. 5000 -> "$50.00".
func FormatMinorUnits(amount int64) string {
	return "$" + decimal.New(amount, -2).StringFixed(2)
}
