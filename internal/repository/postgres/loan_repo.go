package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, user_id, name, lender, total_amount, interest_rate,
	installments_total, installments_paid, installment_amount, start_date,
	status, is_shared, shared_budget_id, created_at, updated_at`

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	var sharedBudgetID pgtype.UUID
	err := row.Scan(
		&l.ID, &l.UserID, &l.Name, &l.Lender, &l.TotalAmount, &l.InterestRate,
		&l.InstallmentsTotal, &l.InstallmentsPaid, &l.InstallmentAmount, &l.StartDate,
		&l.Status, &l.IsShared, &sharedBudgetID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	l.SharedBudgetID = uuidPtrFromPg(sharedBudgetID)
	return &l, nil
}

func scanLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	defer rows.Close()
	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Create inserts a loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO loans (user_id, name, lender, total_amount, interest_rate,
			installments_total, installments_paid, installment_amount, start_date,
			status, is_shared, shared_budget_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+loanColumns,
		loan.UserID, loan.Name, loan.Lender, loan.TotalAmount, loan.InterestRate,
		loan.InstallmentsTotal, loan.InstallmentsPaid, loan.InstallmentAmount, loan.StartDate,
		loan.Status, loan.IsShared, pgUUIDPtr(loan.SharedBudgetID))
	return scanLoan(row)
}

// GetByID retrieves a loan scoped to a user
func (r *LoanRepository) GetByID(userID, id uuid.UUID) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND user_id = $2`, id, userID)
	return scanLoan(row)
}

// GetAllByUser retrieves all loans for a user, newest first
func (r *LoanRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanLoans(rows)
}

// GetActiveByUser retrieves loans with pending installments
func (r *LoanRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+loanColumns+` FROM loans
		WHERE user_id = $1 AND installments_paid < installments_total
		ORDER BY start_date`, userID)
	if err != nil {
		return nil, err
	}
	return scanLoans(rows)
}

// GetSharedByBudget retrieves loans shared into a budget
func (r *LoanRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+loanColumns+` FROM loans
		WHERE is_shared AND shared_budget_id = $1
		ORDER BY start_date`, budgetID)
	if err != nil {
		return nil, err
	}
	return scanLoans(rows)
}

// Update replaces a loan's mutable fields, including the origination terms
// and the installment amount re-derived from them
func (r *LoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE loans
		SET name = $3, lender = $4, total_amount = $5, interest_rate = $6,
			installments_total = $7, installments_paid = $8,
			installment_amount = $9, start_date = $10, status = $11,
			is_shared = $12, shared_budget_id = $13, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+loanColumns,
		loan.ID, loan.UserID, loan.Name, loan.Lender, loan.TotalAmount,
		loan.InterestRate, loan.InstallmentsTotal, loan.InstallmentsPaid,
		loan.InstallmentAmount, loan.StartDate, loan.Status, loan.IsShared,
		pgUUIDPtr(loan.SharedBudgetID))
	return scanLoan(row)
}

// Delete removes a loan scoped to a user
func (r *LoanRepository) Delete(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM loans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}
