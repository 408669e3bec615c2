package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// GroceryRepository implements domain.GroceryRepository using PostgreSQL
type GroceryRepository struct {
	pool *pgxpool.Pool
}

// NewGroceryRepository creates a new GroceryRepository
func NewGroceryRepository(pool *pgxpool.Pool) *GroceryRepository {
	return &GroceryRepository{pool: pool}
}

const groceryBudgetColumns = `id, user_id, budget_amount, cycle_start_date,
	cycle_end_date, created_at, updated_at`

func scanGroceryBudget(row pgx.Row) (*domain.GroceryBudget, error) {
	var b domain.GroceryBudget
	err := row.Scan(
		&b.ID, &b.UserID, &b.BudgetAmount, &b.CycleStartDate,
		&b.CycleEndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGroceryBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetBudgetForCycle retrieves the grocery envelope keyed by a cycle window
func (r *GroceryRepository) GetBudgetForCycle(userID uuid.UUID, cycleStart, cycleEnd time.Time) (*domain.GroceryBudget, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+groceryBudgetColumns+` FROM grocery_budgets
		WHERE user_id = $1 AND cycle_start_date = $2 AND cycle_end_date = $3`,
		userID, cycleStart, cycleEnd)
	return scanGroceryBudget(row)
}

// UpsertBudget creates or replaces the envelope for a cycle window
func (r *GroceryRepository) UpsertBudget(budget *domain.GroceryBudget) (*domain.GroceryBudget, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO grocery_budgets (user_id, budget_amount, cycle_start_date, cycle_end_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, cycle_start_date, cycle_end_date) DO UPDATE
		SET budget_amount = EXCLUDED.budget_amount, updated_at = now()
		RETURNING `+groceryBudgetColumns,
		budget.UserID, budget.BudgetAmount, budget.CycleStartDate, budget.CycleEndDate)
	return scanGroceryBudget(row)
}

const groceryPurchaseColumns = `id, user_id, grocery_budget_id, description,
	amount, purchase_date, created_at`

func scanGroceryPurchase(row pgx.Row) (*domain.GroceryPurchase, error) {
	var p domain.GroceryPurchase
	err := row.Scan(
		&p.ID, &p.UserID, &p.GroceryBudgetID, &p.Description,
		&p.Amount, &p.PurchaseDate, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGroceryPurchaseNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreatePurchase inserts a grocery purchase
func (r *GroceryRepository) CreatePurchase(purchase *domain.GroceryPurchase) (*domain.GroceryPurchase, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO grocery_purchases (user_id, grocery_budget_id, description, amount, purchase_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+groceryPurchaseColumns,
		purchase.UserID, purchase.GroceryBudgetID, purchase.Description,
		purchase.Amount, purchase.PurchaseDate)
	return scanGroceryPurchase(row)
}

// GetPurchasesInRange retrieves purchases with dates inside a window (inclusive)
func (r *GroceryRepository) GetPurchasesInRange(userID uuid.UUID, from, to time.Time) ([]*domain.GroceryPurchase, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+groceryPurchaseColumns+` FROM grocery_purchases
		WHERE user_id = $1 AND purchase_date >= $2 AND purchase_date <= $3
		ORDER BY purchase_date DESC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.GroceryPurchase
	for rows.Next() {
		purchase, err := scanGroceryPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

// DeletePurchase removes a purchase scoped to a user
func (r *GroceryRepository) DeletePurchase(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM grocery_purchases WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroceryPurchaseNotFound
	}
	return nil
}
