package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

const incomeColumns = `id, user_id, description, gross_amount, income_type,
	net_amount, received_date, created_at, updated_at`

func scanIncome(row pgx.Row) (*domain.IncomeRecord, error) {
	var i domain.IncomeRecord
	err := row.Scan(
		&i.ID, &i.UserID, &i.Description, &i.GrossAmount, &i.IncomeType,
		&i.NetAmount, &i.ReceivedDate, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Create inserts an income record
func (r *IncomeRepository) Create(income *domain.IncomeRecord) (*domain.IncomeRecord, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO incomes (user_id, description, gross_amount, income_type,
			net_amount, received_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+incomeColumns,
		income.UserID, income.Description, income.GrossAmount, income.IncomeType,
		income.NetAmount, income.ReceivedDate)
	return scanIncome(row)
}

// GetByID retrieves an income record scoped to a user
func (r *IncomeRepository) GetByID(userID, id uuid.UUID) (*domain.IncomeRecord, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+incomeColumns+` FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	return scanIncome(row)
}

// GetAllByUser retrieves all income records for a user, newest first
func (r *IncomeRepository) GetAllByUser(userID uuid.UUID) ([]*domain.IncomeRecord, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+incomeColumns+` FROM incomes
		WHERE user_id = $1
		ORDER BY received_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []*domain.IncomeRecord
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// TotalNetByUser sums the user's net income across all records
func (r *IncomeRepository) TotalNetByUser(userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(net_amount), 0) FROM incomes WHERE user_id = $1`, userID).
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Update replaces an income record
func (r *IncomeRepository) Update(income *domain.IncomeRecord) (*domain.IncomeRecord, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE incomes
		SET description = $3, gross_amount = $4, income_type = $5,
			net_amount = $6, received_date = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+incomeColumns,
		income.ID, income.UserID, income.Description, income.GrossAmount,
		income.IncomeType, income.NetAmount, income.ReceivedDate)
	return scanIncome(row)
}

// Delete removes an income record scoped to a user
func (r *IncomeRepository) Delete(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}
