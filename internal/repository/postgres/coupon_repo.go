package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferenceregistration/internal/domain"
)

type couponRepository struct {
	DB *sql.DB
}

func NewCouponRepository(db *sql.DB) domain.CouponRepository {
	return &couponRepository{DB: db}
}

func (r *couponRepository) Create(ctx context.Context, c *domain.CouponCode) error {
	query := `
		INSERT INTO coupon_codes (code, discount_percent, usage_count, usage_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Code, c.DiscountPercent, c.UsageCount, c.UsageLimit, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.CouponCode, error) {
	query := `
		SELECT id, code, discount_percent, usage_count, usage_limit, created_at, updated_at
		FROM coupon_codes
		WHERE code = $1
	`
	c := &domain.CouponCode{}
	var limit sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, code).Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.UsageCount, &limit, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if limit.Valid {
		l := int(limit.Int64)
		c.UsageLimit = &l
	}
	return c, nil
}

func (r *couponRepository) List(ctx context.Context) ([]*domain.CouponCode, error) {
	query := `
		SELECT id, code, discount_percent, usage_count, usage_limit, created_at, updated_at
		FROM coupon_codes
		ORDER BY code
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	coupons := make([]*domain.CouponCode, 0)
	for rows.Next() {
		c := &domain.CouponCode{}
		var limit sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.UsageCount, &limit, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if limit.Valid {
			l := int(limit.Int64)
			c.UsageLimit = &l
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *couponRepository) HasRedemption(ctx context.Context, code, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM coupon_redemptions WHERE code = $1 AND email = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, code, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Redeem inserts the (code, email) redemption and, when it is new and incrementUsage
// is set, bumps the coupon's usage counter in the same transaction.
func (r *couponRepository) Redeem(ctx context.Context, code, email string, incrementUsage bool) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO coupon_redemptions (code, email)
		VALUES ($1, $2)
		ON CONFLICT (code, email) DO NOTHING
	`, code, email)
	if err != nil {
		return false, fmt.Errorf("insert redemption: %w", err)
	}
	inserted, _ := result.RowsAffected()
	if inserted == 0 {
		return false, tx.Commit()
	}

	if incrementUsage {
		result, err := tx.ExecContext(ctx,
			`UPDATE coupon_codes SET usage_count = usage_count + 1, updated_at = NOW() WHERE code = $1`,
			code,
		)
		if err != nil {
			return false, fmt.Errorf("increment usage: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return false, domain.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
