package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
)

// CreditCardRepository implements domain.CreditCardRepository using PostgreSQL
type CreditCardRepository struct {
	pool *pgxpool.Pool
}

// NewCreditCardRepository creates a new CreditCardRepository
func NewCreditCardRepository(pool *pgxpool.Pool) *CreditCardRepository {
	return &CreditCardRepository{pool: pool}
}

const cardColumns = `id, user_id, name, bank, credit_limit, cut_off_day,
	payment_due_day, interest_rate, is_shared, shared_budget_id, created_at, updated_at`

func scanCard(row pgx.Row) (*domain.CreditCard, error) {
	var c domain.CreditCard
	var sharedBudgetID pgtype.UUID
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Bank, &c.CreditLimit, &c.CutOffDay,
		&c.PaymentDueDay, &c.InterestRate, &c.IsShared, &sharedBudgetID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}
	c.SharedBudgetID = uuidPtrFromPg(sharedBudgetID)
	return &c, nil
}

func scanCards(rows pgx.Rows) ([]*domain.CreditCard, error) {
	defer rows.Close()
	var cards []*domain.CreditCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Create inserts a credit card
func (r *CreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO credit_cards (user_id, name, bank, credit_limit, cut_off_day,
			payment_due_day, interest_rate, is_shared, shared_budget_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+cardColumns,
		card.UserID, card.Name, card.Bank, card.CreditLimit, card.CutOffDay,
		card.PaymentDueDay, card.InterestRate, card.IsShared, pgUUIDPtr(card.SharedBudgetID))
	return scanCard(row)
}

// GetByID retrieves a card scoped to a user
func (r *CreditCardRepository) GetByID(userID, id uuid.UUID) (*domain.CreditCard, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+cardColumns+` FROM credit_cards WHERE id = $1 AND user_id = $2`, id, userID)
	return scanCard(row)
}

// GetAllByUser retrieves all cards for a user
func (r *CreditCardRepository) GetAllByUser(userID uuid.UUID) ([]*domain.CreditCard, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+cardColumns+` FROM credit_cards WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	return scanCards(rows)
}

// GetSharedByBudget retrieves cards shared into a budget
func (r *CreditCardRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.CreditCard, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+cardColumns+` FROM credit_cards
		WHERE is_shared AND shared_budget_id = $1
		ORDER BY name`, budgetID)
	if err != nil {
		return nil, err
	}
	return scanCards(rows)
}

// Update replaces a card's mutable fields
func (r *CreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE credit_cards
		SET name = $3, bank = $4, credit_limit = $5, cut_off_day = $6,
			payment_due_day = $7, interest_rate = $8, is_shared = $9,
			shared_budget_id = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+cardColumns,
		card.ID, card.UserID, card.Name, card.Bank, card.CreditLimit, card.CutOffDay,
		card.PaymentDueDay, card.InterestRate, card.IsShared, pgUUIDPtr(card.SharedBudgetID))
	return scanCard(row)
}

// Delete removes a card scoped to a user. Purchases cascade.
func (r *CreditCardRepository) Delete(userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM credit_cards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// CardPurchaseRepository implements domain.CardPurchaseRepository using PostgreSQL
type CardPurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewCardPurchaseRepository creates a new CardPurchaseRepository
func NewCardPurchaseRepository(pool *pgxpool.Pool) *CardPurchaseRepository {
	return &CardPurchaseRepository{pool: pool}
}

const purchaseColumns = `id, credit_card_id, description, total_amount,
	installments_total, installments_paid, installment_amount, purchase_date, created_at`

func scanPurchase(row pgx.Row) (*domain.CardPurchase, error) {
	var p domain.CardPurchase
	err := row.Scan(
		&p.ID, &p.CreditCardID, &p.Description, &p.TotalAmount,
		&p.InstallmentsTotal, &p.InstallmentsPaid, &p.InstallmentAmount,
		&p.PurchaseDate, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a card purchase
func (r *CardPurchaseRepository) Create(purchase *domain.CardPurchase) (*domain.CardPurchase, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO card_purchases (credit_card_id, description, total_amount,
			installments_total, installments_paid, installment_amount, purchase_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+purchaseColumns,
		purchase.CreditCardID, purchase.Description, purchase.TotalAmount,
		purchase.InstallmentsTotal, purchase.InstallmentsPaid, purchase.InstallmentAmount,
		purchase.PurchaseDate)
	return scanPurchase(row)
}

// GetByID retrieves a purchase
func (r *CardPurchaseRepository) GetByID(id uuid.UUID) (*domain.CardPurchase, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+purchaseColumns+` FROM card_purchases WHERE id = $1`, id)
	return scanPurchase(row)
}

// GetByCard retrieves the purchases of a card, newest first
func (r *CardPurchaseRepository) GetByCard(cardID uuid.UUID) ([]*domain.CardPurchase, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+purchaseColumns+` FROM card_purchases
		WHERE credit_card_id = $1
		ORDER BY purchase_date DESC`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.CardPurchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

// Update replaces a purchase's payment counter
func (r *CardPurchaseRepository) Update(purchase *domain.CardPurchase) (*domain.CardPurchase, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE card_purchases
		SET description = $2, installments_paid = $3
		WHERE id = $1
		RETURNING `+purchaseColumns,
		purchase.ID, purchase.Description, purchase.InstallmentsPaid)
	return scanPurchase(row)
}

// Delete removes a purchase
func (r *CardPurchaseRepository) Delete(id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM card_purchases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}
	return nil
}
