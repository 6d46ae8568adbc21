package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferenceregistration/internal/domain"
	"conferenceregistration/internal/monitoring"
)

type registrationService struct {
	registrations domain.RegistrationRepository
	groups        domain.GroupRepository
	coupons       domain.CouponService
	checkout      domain.CheckoutService
	emails        domain.EmailService
	verification  domain.VerificationService
	logger        *slog.Logger
}

// RegistrationDeps are the collaborators of the registration service. Coupons,
// Checkout, Emails and Verification are optional.
type RegistrationDeps struct {
	Registrations domain.RegistrationRepository
	Groups        domain.GroupRepository
	Coupons       domain.CouponService
	Checkout      domain.CheckoutService
	Emails        domain.EmailService
	Verification  domain.VerificationService
	Logger        *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(deps RegistrationDeps) domain.RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &registrationService{
		registrations: deps.Registrations,
		groups:        deps.Groups,
		coupons:       deps.Coupons,
		checkout:      deps.Checkout,
		emails:        deps.Emails,
		verification:  deps.Verification,
		logger:        logger,
	}
}

func (s *registrationService) Finalize(ctx context.Context, req *domain.FinalizeRequest) (*domain.FinalizeResult, error) {
	if req == nil {
		return nil, domain.NewValidationError("request body is required")
	}
	if err := normalizeFinalizeRequest(req); err != nil {
		return nil, err
	}

	if req.CheckoutSessionID != "" && s.checkout != nil {
		status, err := s.checkout.SessionStatus(ctx, req.CheckoutSessionID)
		if err != nil {
			return nil, fmt.Errorf("get checkout session: %w", err)
		}
		if status.CustomerEmail != "" && domain.NormalizeEmail(status.CustomerEmail) != req.Email {
			return nil, domain.NewValidationError("checkout session belongs to a different email", "sessionId")
		}
		req.PaymentComplete = status.Paid
	}

	reg, previous, action, err := s.upsertRegistration(ctx, req)
	if err != nil {
		return nil, err
	}
	log := s.logger.With("request_id", req.RequestID, "email", reg.Email)
	result := &domain.FinalizeResult{Action: action, Registration: reg}

	var addedMembers []string
	if req.TicketType.IsGroup() && len(req.GroupEmails) > 0 {
		group, added, err := s.syncGroup(ctx, req)
		if err != nil {
			monitoring.BestEffortFailure(monitoring.StepGroupSync)
			log.WarnContext(ctx, "group member sync failed", "err", err)
		} else {
			result.Group = group
			addedMembers = added
		}
	}

	if req.CouponCode != "" && req.PaymentComplete && s.coupons != nil {
		if _, err := s.coupons.RecordUsage(ctx, req.CouponCode, reg.Email); err != nil {
			monitoring.BestEffortFailure(monitoring.StepCouponUsage)
			log.WarnContext(ctx, "coupon usage not recorded", "coupon_code", req.CouponCode, "err", err)
		}
	}

	s.sendEmails(ctx, log, req, reg, previous, action, addedMembers)

	monitoring.RegistrationFinalized(string(action), string(reg.TicketType), string(reg.Status))
	return result, nil
}

// upsertRegistration inserts or updates the registration keyed by email. A unique
// violation on insert means a concurrent submission won the race, so the write is
// retried as an update.
func (s *registrationService) upsertRegistration(ctx context.Context, req *domain.FinalizeRequest) (*domain.Registration, *domain.Registration, domain.FinalizeAction, error) {
	existing, err := s.registrations.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, "", fmt.Errorf("get registration: %w", err)
	}

	if existing == nil {
		now := time.Now()
		reg := &domain.Registration{
			Email:         req.Email,
			Status:        domain.StatusFor(req.PaymentComplete),
			EmailVerified: req.TicketType == domain.TicketProfessional,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		applyFinalizeFields(reg, req)
		err := s.registrations.Create(ctx, reg)
		if err == nil {
			return reg, nil, domain.ActionCreated, nil
		}
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, nil, "", fmt.Errorf("create registration: %w", err)
		}
		existing, err = s.registrations.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, nil, "", fmt.Errorf("get registration after conflict: %w", err)
		}
	}

	previous := *existing
	reg := existing
	applyFinalizeFields(reg, req)
	reg.Status = domain.StatusFor(req.PaymentComplete)
	reg.UpdatedAt = time.Now()
	if err := s.registrations.Update(ctx, reg); err != nil {
		return nil, nil, "", fmt.Errorf("update registration: %w", err)
	}
	return reg, &previous, domain.ActionUpdated, nil
}

func (s *registrationService) syncGroup(ctx context.Context, req *domain.FinalizeRequest) (*domain.GroupRegistration, []string, error) {
	group := &domain.GroupRegistration{
		LeadName:         req.FullName,
		LeadEmail:        req.Email,
		LeadOrganization: req.Organization,
		GroupSize:        req.GroupSize,
		TicketType:       req.TicketType,
		PaymentCompleted: req.PaymentComplete,
		Completed:        req.PaymentComplete,
	}
	if err := s.groups.Upsert(ctx, group); err != nil {
		return nil, nil, fmt.Errorf("upsert group: %w", err)
	}
	if req.PartialGroupEmails {
		added, err := s.groups.AddMembers(ctx, group.ID, req.GroupEmails)
		if err != nil {
			return group, nil, fmt.Errorf("add group members: %w", err)
		}
		return group, added, nil
	}
	added, err := s.groups.ReplaceMembers(ctx, group.ID, req.GroupEmails)
	if err != nil {
		return group, nil, fmt.Errorf("replace group members: %w", err)
	}
	return group, added, nil
}

func (s *registrationService) sendEmails(ctx context.Context, log *slog.Logger, req *domain.FinalizeRequest, reg, previous *domain.Registration, action domain.FinalizeAction, addedMembers []string) {
	if s.emails == nil {
		return
	}
	warn := func(msg string, err error, args ...any) {
		monitoring.BestEffortFailure(monitoring.StepEmail)
		log.WarnContext(ctx, msg, append(args, "err", err)...)
	}

	becameConfirmed := reg.Status == domain.StatusConfirmed &&
		(previous == nil || previous.Status != domain.StatusConfirmed)
	if becameConfirmed {
		quote, _ := domain.CalculatePrice(reg.TicketType, req.GroupSize)
		data := &domain.RegistrationConfirmationEmailData{
			Email:      reg.Email,
			FullName:   reg.FullName,
			TicketType: reg.TicketType,
			GroupSize:  req.GroupSize,
		}
		if quote != nil {
			data.Description = quote.Description
		}
		if err := s.emails.SendRegistrationConfirmation(ctx, data); err != nil {
			warn("confirmation email failed", err)
		}
	}

	if s.verification == nil {
		return
	}
	hours := int(s.verification.TTL().Hours())
	if action == domain.ActionCreated && !reg.EmailVerified {
		link, err := s.verification.VerificationURL(reg.Email)
		if err != nil {
			warn("verification link failed", err)
		} else if err := s.emails.SendEmailVerification(ctx, &domain.EmailVerificationData{
			Email:           reg.Email,
			FullName:        reg.FullName,
			VerificationURL: link,
			ExpiresInHours:  hours,
		}); err != nil {
			warn("verification email failed", err)
		}
	}
	for _, member := range addedMembers {
		link, err := s.verification.VerificationURL(member)
		if err != nil {
			warn("verification link failed", err, "member", member)
			continue
		}
		if err := s.emails.SendGroupMemberInvite(ctx, &domain.GroupMemberInviteEmailData{
			Email:           member,
			LeadName:        reg.FullName,
			LeadEmail:       reg.Email,
			Organization:    reg.Organization,
			VerificationURL: link,
			ExpiresInHours:  hours,
		}); err != nil {
			warn("group invite email failed", err, "member", member)
		}
	}
}

func (s *registrationService) GetDetails(ctx context.Context, email string) (*domain.RegistrationDetails, error) {
	email = domain.NormalizeEmail(email)
	reg, err := s.registrations.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	details := &domain.RegistrationDetails{Registration: reg}
	if !reg.TicketType.IsGroup() {
		return details, nil
	}
	group, err := s.groups.GetByLeadEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return details, nil
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	members, err := s.groups.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	details.Group = &domain.GroupWithMembers{Group: group, Members: members}
	return details, nil
}

func (s *registrationService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	regs, total, err := s.registrations.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func normalizeFinalizeRequest(req *domain.FinalizeRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = domain.NormalizeEmail(req.Email)
	req.Organization = strings.TrimSpace(req.Organization)
	req.Role = strings.TrimSpace(req.Role)
	req.TicketType = domain.TicketType(strings.TrimSpace(string(req.TicketType)))
	req.CouponCode = domain.NormalizeCouponCode(req.CouponCode)
	req.CheckoutSessionID = strings.TrimSpace(req.CheckoutSessionID)
	req.GroupEmails = domain.SanitizeEmails(req.GroupEmails)

	var missing []string
	if req.FullName == "" {
		missing = append(missing, "fullName")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.Organization == "" {
		missing = append(missing, "organization")
	}
	if req.Role == "" {
		missing = append(missing, "role")
	}
	if req.TicketType == "" {
		missing = append(missing, "ticketType")
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldsError(missing...)
	}
	if !strings.Contains(req.Email, "@") {
		return domain.NewValidationError("email is not a valid address", "email")
	}
	quote, err := domain.CalculatePrice(req.TicketType, req.GroupSize)
	if err != nil {
		return err
	}
	if quote.IsGroup && len(req.GroupEmails) > quote.GroupSize {
		return domain.NewValidationError(
			fmt.Sprintf("%d group emails supplied for a group of %d", len(req.GroupEmails), quote.GroupSize),
			"groupEmails",
		)
	}
	if !quote.IsGroup {
		req.GroupSize = 0
		req.GroupEmails = nil
	}
	return nil
}

// applyFinalizeFields copies the mutable fields onto reg. Optional fields are only
// overwritten when supplied, so a webhook carrying truncated metadata cannot blank them.
func applyFinalizeFields(reg *domain.Registration, req *domain.FinalizeRequest) {
	reg.FullName = req.FullName
	reg.Organization = req.Organization
	reg.Role = req.Role
	reg.TicketType = req.TicketType
	setOptional(&reg.SpecialRequests, req.SpecialRequests)
	setOptional(&reg.ReferralSource, req.ReferralSource)
	setOptional(&reg.VerificationMethod, req.VerificationMethod)
	setOptional(&reg.CouponCode, req.CouponCode)
	setOptional(&reg.CheckoutSessionID, req.CheckoutSessionID)
}

func setOptional(dst **string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*dst = &value
}
