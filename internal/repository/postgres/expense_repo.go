package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, category, description, amount, expense_date,
	is_paid, paid_by, is_shared, shared_budget_id, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var paidBy, sharedBudgetID pgtype.UUID
	err := row.Scan(
		&e.ID, &e.UserID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate,
		&e.IsPaid, &paidBy, &e.IsShared, &sharedBudgetID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	e.PaidBy = uuidPtrFromPg(paidBy)
	e.SharedBudgetID = uuidPtrFromPg(sharedBudgetID)
	return &e, nil
}

func scanExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	defer rows.Close()
	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Create inserts an expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO expenses (user_id, category, description, amount, expense_date,
			is_paid, paid_by, is_shared, shared_budget_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+expenseColumns,
		expense.UserID, expense.Category, expense.Description, expense.Amount,
		expense.ExpenseDate, expense.IsPaid, pgUUIDPtr(expense.PaidBy),
		expense.IsShared, pgUUIDPtr(expense.SharedBudgetID))
	return scanExpense(row)
}

// GetByID retrieves an expense scoped to a user
func (r *ExpenseRepository) GetByID(userID, id uuid.UUID) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	return scanExpense(row)
}

// GetAllByUser retrieves all expenses for a user, newest first
func (r *ExpenseRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1
		ORDER BY expense_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

// GetByUserInRange retrieves expenses with dates inside a window (inclusive)
func (r *ExpenseRepository) GetByUserInRange(userID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = $1 AND expense_date >= $2 AND expense_date <= $3
		ORDER BY expense_date`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

// GetSharedByBudget retrieves expenses shared into a budget
func (r *ExpenseRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+expenseColumns+` FROM expenses
		WHERE is_shared AND shared_budget_id = $1
		ORDER BY expense_date`, budgetID)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

// Update replaces an expense
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE expenses
		SET category = $3, description = $4, amount = $5, expense_date = $6,
			is_paid = $7, paid_by = $8, is_shared = $9, shared_budget_id = $10,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+expenseColumns,
		expense.ID, expense.UserID, expense.Category, expense.Description,
		expense.Amount, expense.ExpenseDate, expense.IsPaid, pgUUIDPtr(expense.PaidBy),
		expense.IsShared, pgUUIDPtr(expense.SharedBudgetID))
	return scanExpense(row)
}

// Delete removes an expense scoped to a user
func (r *ExpenseRepository) Delete(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
