package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// SharedBudgetRepository implements domain.SharedBudgetRepository using PostgreSQL
type SharedBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewSharedBudgetRepository creates a new SharedBudgetRepository
func NewSharedBudgetRepository(pool *pgxpool.Pool) *SharedBudgetRepository {
	return &SharedBudgetRepository{pool: pool}
}

const budgetColumns = `id, name, description, created_by, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.SharedBudget, error) {
	var b domain.SharedBudget
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSharedBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts a shared budget
func (r *SharedBudgetRepository) Create(budget *domain.SharedBudget) (*domain.SharedBudget, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO shared_budgets (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING `+budgetColumns,
		budget.Name, budget.Description, budget.CreatedBy)
	return scanBudget(row)
}

// GetByID retrieves a shared budget
func (r *SharedBudgetRepository) GetByID(id uuid.UUID) (*domain.SharedBudget, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+budgetColumns+` FROM shared_budgets WHERE id = $1`, id)
	return scanBudget(row)
}

// GetByUser retrieves the budget the user is an accepted member of
func (r *SharedBudgetRepository) GetByUser(userID uuid.UUID) (*domain.SharedBudget, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT b.id, b.name, b.description, b.created_by, b.created_at, b.updated_at
		FROM shared_budgets b
		JOIN shared_budget_members m ON m.budget_id = b.id
		WHERE m.user_id = $1 AND m.invitation_status = 'accepted'
		LIMIT 1`, userID)
	return scanBudget(row)
}

// Delete removes a shared budget. Memberships cascade.
func (r *SharedBudgetRepository) Delete(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM shared_budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSharedBudgetNotFound
	}
	return nil
}

const memberColumns = `id, budget_id, user_id, invited_email, role,
	invitation_status, created_at, updated_at`

func scanMember(row pgx.Row) (*domain.SharedBudgetMember, error) {
	var m domain.SharedBudgetMember
	var userID pgtype.UUID
	err := row.Scan(
		&m.ID, &m.BudgetID, &userID, &m.InvitedEmail, &m.Role,
		&m.InvitationStatus, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	m.UserID = uuidPtrFromPg(userID)
	return &m, nil
}

func scanMembers(rows pgx.Rows) ([]*domain.SharedBudgetMember, error) {
	defer rows.Close()
	var members []*domain.SharedBudgetMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddMember inserts a membership row
func (r *SharedBudgetRepository) AddMember(member *domain.SharedBudgetMember) (*domain.SharedBudgetMember, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO shared_budget_members (budget_id, user_id, invited_email, role, invitation_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+memberColumns,
		member.BudgetID, pgUUIDPtr(member.UserID), member.InvitedEmail,
		member.Role, member.InvitationStatus)
	return scanMember(row)
}

// GetMembers retrieves the membership rows of a budget
func (r *SharedBudgetRepository) GetMembers(budgetID uuid.UUID) ([]*domain.SharedBudgetMember, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+memberColumns+` FROM shared_budget_members
		WHERE budget_id = $1
		ORDER BY created_at`, budgetID)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

// GetMemberByUser retrieves a member row by budget and user
func (r *SharedBudgetRepository) GetMemberByUser(budgetID, userID uuid.UUID) (*domain.SharedBudgetMember, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+memberColumns+` FROM shared_budget_members
		WHERE budget_id = $1 AND user_id = $2`, budgetID, userID)
	return scanMember(row)
}

// GetPendingInvitation retrieves a pending invitation by budget and email
func (r *SharedBudgetRepository) GetPendingInvitation(budgetID uuid.UUID, email string) (*domain.SharedBudgetMember, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+memberColumns+` FROM shared_budget_members
		WHERE budget_id = $1 AND lower(invited_email) = lower($2)
			AND invitation_status = 'pending'`, budgetID, email)
	return scanMember(row)
}

// GetPendingInvitationsByEmail retrieves all pending invitations for an email
func (r *SharedBudgetRepository) GetPendingInvitationsByEmail(email string) ([]*domain.SharedBudgetMember, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+memberColumns+` FROM shared_budget_members
		WHERE lower(invited_email) = lower($1) AND invitation_status = 'pending'
		ORDER BY created_at`, email)
	if err != nil {
		return nil, err
	}
	return scanMembers(rows)
}

// UpdateMember replaces a membership row
func (r *SharedBudgetRepository) UpdateMember(member *domain.SharedBudgetMember) (*domain.SharedBudgetMember, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE shared_budget_members
		SET user_id = $2, role = $3, invitation_status = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns,
		member.ID, pgUUIDPtr(member.UserID), member.Role, member.InvitationStatus)
	return scanMember(row)
}

// RemoveMember removes a membership row
func (r *SharedBudgetRepository) RemoveMember(budgetID, memberID uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM shared_budget_members WHERE id = $1 AND budget_id = $2`, memberID, budgetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
