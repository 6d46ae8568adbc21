package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferenceregistration/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

const registrationColumns = `id, full_name, email, organization, role, ticket_type, status,
		special_requests, referral_source, verification_method, coupon_code, checkout_session_id,
		email_verified, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(
		&reg.ID, &reg.FullName, &reg.Email, &reg.Organization, &reg.Role, &reg.TicketType, &reg.Status,
		&reg.SpecialRequests, &reg.ReferralSource, &reg.VerificationMethod, &reg.CouponCode, &reg.CheckoutSessionID,
		&reg.EmailVerified, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (full_name, email, organization, role, ticket_type, status,
			special_requests, referral_source, verification_method, coupon_code, checkout_session_id,
			email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.FullName, reg.Email, reg.Organization, reg.Role, reg.TicketType, reg.Status,
		reg.SpecialRequests, reg.ReferralSource, reg.VerificationMethod, reg.CouponCode, reg.CheckoutSessionID,
		reg.EmailVerified, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE email = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET full_name = $1, organization = $2, role = $3, ticket_type = $4, status = $5,
			special_requests = $6, referral_source = $7, verification_method = $8,
			coupon_code = $9, checkout_session_id = $10, updated_at = $11
		WHERE email = $12
	`
	result, err := r.DB.ExecContext(ctx, query,
		reg.FullName, reg.Organization, reg.Role, reg.TicketType, reg.Status,
		reg.SpecialRequests, reg.ReferralSource, reg.VerificationMethod,
		reg.CouponCode, reg.CheckoutSessionID, reg.UpdatedAt,
		reg.Email,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at DESC, email LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *registrationRepository) MarkEmailVerified(ctx context.Context, email string) (bool, error) {
	query := `UPDATE registrations SET email_verified = TRUE, updated_at = NOW() WHERE email = $1`
	result, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
