package domain

import (
	"context"
	"time"
)

// RegistrationStatus tracks whether a registration has been paid for.
type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
)

// StatusFor returns the status a registration should have for the given payment state.
func StatusFor(paymentComplete bool) RegistrationStatus {
	if paymentComplete {
		return StatusConfirmed
	}
	return StatusPending
}

// Registration is one attendee's registration for the conference. Email is the natural key.
// swagger:model Registration
type Registration struct {
	ID                 string             `json:"id"`
	FullName           string             `json:"full_name"`
	Email              string             `json:"email"`
	Organization       string             `json:"organization"`
	Role               string             `json:"role"`
	TicketType         TicketType         `json:"ticket_type"`
	Status             RegistrationStatus `json:"status"`
	SpecialRequests    *string            `json:"special_requests,omitempty"`
	ReferralSource     *string            `json:"referral_source,omitempty"`
	VerificationMethod *string            `json:"verification_method,omitempty"`
	CouponCode         *string            `json:"coupon_code,omitempty"`
	CheckoutSessionID  *string            `json:"checkout_session_id,omitempty"`
	EmailVerified      bool               `json:"email_verified"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// GroupRegistration is the group record owned by a group lead. LeadEmail is the natural key.
// swagger:model GroupRegistration
type GroupRegistration struct {
	ID               string     `json:"id"`
	LeadName         string     `json:"lead_name"`
	LeadEmail        string     `json:"lead_email"`
	LeadOrganization string     `json:"lead_organization"`
	GroupSize        int        `json:"group_size"`
	TicketType       TicketType `json:"ticket_type"`
	PaymentCompleted bool       `json:"payment_completed"`
	Completed        bool       `json:"completed"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// GroupMember is one attendee covered by a group registration.
// swagger:model GroupMember
type GroupMember struct {
	ID                   string    `json:"id"`
	GroupID              string    `json:"group_id"`
	Email                string    `json:"email"`
	EmailVerified        bool      `json:"email_verified"`
	FromKnownInstitution bool      `json:"from_known_institution"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// GroupWithMembers bundles a group registration with its roster.
type GroupWithMembers struct {
	Group   *GroupRegistration `json:"group"`
	Members []*GroupMember     `json:"members"`
}

// RegistrationDetails is a registration plus its group, when the registrant leads one.
type RegistrationDetails struct {
	Registration *Registration     `json:"registration"`
	Group        *GroupWithMembers `json:"group,omitempty"`
}

// FinalizeRequest carries the fields submitted when a registration is persisted,
// either from the browser after the checkout redirect or from a payment webhook.
type FinalizeRequest struct {
	RequestID          string
	FullName           string
	Email              string
	Organization       string
	Role               string
	TicketType         TicketType
	GroupSize          int
	GroupEmails        []string
	SpecialRequests    string
	ReferralSource     string
	VerificationMethod string
	CouponCode         string
	CheckoutSessionID  string
	PaymentComplete    bool
	// PartialGroupEmails marks GroupEmails as a subset of the roster, as rebuilt from
	// cut-down payment metadata. Members are then only added, never removed.
	PartialGroupEmails bool
}

// FinalizeAction tells whether Finalize inserted or updated the registration.
type FinalizeAction string

const (
	ActionCreated FinalizeAction = "created"
	ActionUpdated FinalizeAction = "updated"
)

// FinalizeResult is the outcome of a successful Finalize call.
type FinalizeResult struct {
	Action       FinalizeAction     `json:"action"`
	Registration *Registration      `json:"registration"`
	Group        *GroupRegistration `json:"group,omitempty"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts reg and fills ID and timestamps. Returns ErrDuplicateEmail when the email exists.
	Create(ctx context.Context, reg *Registration) error
	GetByEmail(ctx context.Context, email string) (*Registration, error)
	// Update writes the mutable fields of reg (matched by email). email_verified is left untouched.
	Update(ctx context.Context, reg *Registration) error
	List(ctx context.Context, params PaginationParams) ([]*Registration, int, error)
	MarkEmailVerified(ctx context.Context, email string) (bool, error)
}

// GroupRepository defines storage operations for group registrations and their members.
type GroupRepository interface {
	// Upsert inserts or updates the group keyed by lead email and fills ID and timestamps.
	Upsert(ctx context.Context, group *GroupRegistration) error
	GetByLeadEmail(ctx context.Context, leadEmail string) (*GroupRegistration, error)
	// ReplaceMembers makes the group's roster exactly emails. Members already present keep
	// their rows; returns the emails that were newly added.
	ReplaceMembers(ctx context.Context, groupID string, emails []string) (added []string, err error)
	// AddMembers inserts the emails not yet on the roster and leaves every other member in place.
	AddMembers(ctx context.Context, groupID string, emails []string) (added []string, err error)
	ListMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
	MarkMemberEmailVerified(ctx context.Context, email string) (bool, error)
}

// RegistrationService persists registrations after checkout.
type RegistrationService interface {
	Finalize(ctx context.Context, req *FinalizeRequest) (*FinalizeResult, error)
	GetDetails(ctx context.Context, email string) (*RegistrationDetails, error)
	List(ctx context.Context, params PaginationParams) ([]*Registration, int, error)
}
