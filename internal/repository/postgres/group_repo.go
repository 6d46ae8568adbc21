package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferenceregistration/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) Upsert(ctx context.Context, g *domain.GroupRegistration) error {
	query := `
		INSERT INTO group_registrations (lead_name, lead_email, lead_organization, group_size, ticket_type,
			payment_completed, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (lead_email) DO UPDATE
		SET lead_name = EXCLUDED.lead_name,
			lead_organization = EXCLUDED.lead_organization,
			group_size = EXCLUDED.group_size,
			ticket_type = EXCLUDED.ticket_type,
			payment_completed = EXCLUDED.payment_completed,
			completed = EXCLUDED.completed,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		g.LeadName, g.LeadEmail, g.LeadOrganization, g.GroupSize, g.TicketType, g.PaymentCompleted, g.Completed,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *groupRepository) GetByLeadEmail(ctx context.Context, leadEmail string) (*domain.GroupRegistration, error) {
	query := `
		SELECT id, lead_name, lead_email, lead_organization, group_size, ticket_type,
			payment_completed, completed, created_at, updated_at
		FROM group_registrations
		WHERE lead_email = $1
	`
	g := &domain.GroupRegistration{}
	err := r.DB.QueryRowContext(ctx, query, leadEmail).Scan(
		&g.ID, &g.LeadName, &g.LeadEmail, &g.LeadOrganization, &g.GroupSize, &g.TicketType,
		&g.PaymentCompleted, &g.Completed, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// ReplaceMembers reconciles the roster in one transaction: rows for emails outside the
// new set are deleted, new emails are inserted, and existing rows keep their flags.
func (r *groupRepository) ReplaceMembers(ctx context.Context, groupID string, emails []string) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND NOT (email = ANY($2))`,
		groupID, pq.Array(emails),
	); err != nil {
		return nil, fmt.Errorf("delete removed members: %w", err)
	}

	added, err := insertMembers(ctx, tx, groupID, emails)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return added, nil
}

func (r *groupRepository) AddMembers(ctx context.Context, groupID string, emails []string) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	added, err := insertMembers(ctx, tx, groupID, emails)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return added, nil
}

// insertMembers inserts emails that are not on the roster yet and returns those it added.
func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, emails []string) ([]string, error) {
	added := make([]string, 0)
	insert := `
		INSERT INTO group_members (group_id, email)
		VALUES ($1, $2)
		ON CONFLICT (group_id, email) DO NOTHING
	`
	for _, email := range emails {
		result, err := tx.ExecContext(ctx, insert, groupID, email)
		if err != nil {
			return nil, fmt.Errorf("insert member %s: %w", email, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			added = append(added, email)
		}
	}
	return added, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	query := `
		SELECT id, group_id, email, email_verified, from_known_institution, created_at, updated_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY created_at, email
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.GroupMember, 0)
	for rows.Next() {
		m := &domain.GroupMember{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Email, &m.EmailVerified, &m.FromKnownInstitution, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *groupRepository) MarkMemberEmailVerified(ctx context.Context, email string) (bool, error) {
	query := `UPDATE group_members SET email_verified = TRUE, updated_at = NOW() WHERE email = $1`
	result, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
