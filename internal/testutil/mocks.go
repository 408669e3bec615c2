// Package testutil provides in-memory mock implementations of the domain
// repository interfaces for service and handler tests.
package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	ws "github.com/presupuesta/presupuesta-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, fullName *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   auth0ID,
		Email:     email,
		FullName:  fullName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	for _, user := range m.ByID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockPreferenceRepository is a mock implementation of domain.PreferenceRepository
type MockPreferenceRepository struct {
	Prefs map[uuid.UUID]*domain.UserPreferences
}

// NewMockPreferenceRepository creates a new MockPreferenceRepository
func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{
		Prefs: make(map[uuid.UUID]*domain.UserPreferences),
	}
}

// Get retrieves preferences for a user, falling back to the defaults
func (m *MockPreferenceRepository) Get(userID uuid.UUID) (*domain.UserPreferences, error) {
	if prefs, ok := m.Prefs[userID]; ok {
		return prefs, nil
	}
	return domain.DefaultPreferences(userID), nil
}

// Upsert stores the preferences
func (m *MockPreferenceRepository) Upsert(prefs *domain.UserPreferences) (*domain.UserPreferences, error) {
	prefs.UpdatedAt = time.Now()
	m.Prefs[prefs.UserID] = prefs
	return prefs, nil
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes map[uuid.UUID]*domain.IncomeRecord
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{
		Incomes: make(map[uuid.UUID]*domain.IncomeRecord),
	}
}

// Create stores a new income record
func (m *MockIncomeRepository) Create(income *domain.IncomeRecord) (*domain.IncomeRecord, error) {
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt
	m.Incomes[income.ID] = income
	return income, nil
}

// GetByID retrieves an income record scoped to a user
func (m *MockIncomeRepository) GetByID(userID, id uuid.UUID) (*domain.IncomeRecord, error) {
	if income, ok := m.Incomes[id]; ok && income.UserID == userID {
		return income, nil
	}
	return nil, domain.ErrIncomeNotFound
}

// GetAllByUser retrieves all income records for a user
func (m *MockIncomeRepository) GetAllByUser(userID uuid.UUID) ([]*domain.IncomeRecord, error) {
	var out []*domain.IncomeRecord
	for _, income := range m.Incomes {
		if income.UserID == userID {
			out = append(out, income)
		}
	}
	return out, nil
}

// TotalNetByUser sums the net amounts of a user's income records
func (m *MockIncomeRepository) TotalNetByUser(userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, income := range m.Incomes {
		if income.UserID == userID {
			total = total.Add(income.NetAmount)
		}
	}
	return total, nil
}

// Update replaces an income record
func (m *MockIncomeRepository) Update(income *domain.IncomeRecord) (*domain.IncomeRecord, error) {
	if _, ok := m.Incomes[income.ID]; !ok {
		return nil, domain.ErrIncomeNotFound
	}
	income.UpdatedAt = time.Now()
	m.Incomes[income.ID] = income
	return income, nil
}

// Delete removes an income record scoped to a user
func (m *MockIncomeRepository) Delete(userID, id uuid.UUID) error {
	if income, ok := m.Incomes[id]; ok && income.UserID == userID {
		delete(m.Incomes, id)
		return nil
	}
	return domain.ErrIncomeNotFound
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans map[uuid.UUID]*domain.Loan
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans: make(map[uuid.UUID]*domain.Loan),
	}
}

// Create stores a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.Loans[loan.ID] = loan
	return loan, nil
}

// GetByID retrieves a loan scoped to a user
func (m *MockLoanRepository) GetByID(userID, id uuid.UUID) (*domain.Loan, error) {
	if loan, ok := m.Loans[id]; ok && loan.UserID == userID {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

// GetAllByUser retrieves all loans for a user
func (m *MockLoanRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, loan := range m.Loans {
		if loan.UserID == userID {
			out = append(out, loan)
		}
	}
	return out, nil
}

// GetActiveByUser retrieves loans with pending installments for a user
func (m *MockLoanRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, loan := range m.Loans {
		if loan.UserID == userID && loan.IsActive() {
			out = append(out, loan)
		}
	}
	return out, nil
}

// GetSharedByBudget retrieves loans shared into a budget
func (m *MockLoanRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, loan := range m.Loans {
		if loan.IsShared && loan.SharedBudgetID != nil && *loan.SharedBudgetID == budgetID {
			out = append(out, loan)
		}
	}
	return out, nil
}

// Update replaces a loan
func (m *MockLoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	if _, ok := m.Loans[loan.ID]; !ok {
		return nil, domain.ErrLoanNotFound
	}
	loan.UpdatedAt = time.Now()
	m.Loans[loan.ID] = loan
	return loan, nil
}

// Delete removes a loan scoped to a user
func (m *MockLoanRepository) Delete(userID, id uuid.UUID) error {
	if loan, ok := m.Loans[id]; ok && loan.UserID == userID {
		delete(m.Loans, id)
		return nil
	}
	return domain.ErrLoanNotFound
}

// MockCreditCardRepository is a mock implementation of domain.CreditCardRepository
type MockCreditCardRepository struct {
	Cards map[uuid.UUID]*domain.CreditCard
}

// NewMockCreditCardRepository creates a new MockCreditCardRepository
func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{
		Cards: make(map[uuid.UUID]*domain.CreditCard),
	}
}

// Create stores a new credit card
func (m *MockCreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.Cards[card.ID] = card
	return card, nil
}

// GetByID retrieves a card scoped to a user
func (m *MockCreditCardRepository) GetByID(userID, id uuid.UUID) (*domain.CreditCard, error) {
	if card, ok := m.Cards[id]; ok && card.UserID == userID {
		return card, nil
	}
	return nil, domain.ErrCardNotFound
}

// GetAllByUser retrieves all cards for a user
func (m *MockCreditCardRepository) GetAllByUser(userID uuid.UUID) ([]*domain.CreditCard, error) {
	var out []*domain.CreditCard
	for _, card := range m.Cards {
		if card.UserID == userID {
			out = append(out, card)
		}
	}
	return out, nil
}

// GetSharedByBudget retrieves cards shared into a budget
func (m *MockCreditCardRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.CreditCard, error) {
	var out []*domain.CreditCard
	for _, card := range m.Cards {
		if card.IsShared && card.SharedBudgetID != nil && *card.SharedBudgetID == budgetID {
			out = append(out, card)
		}
	}
	return out, nil
}

// Update replaces a card
func (m *MockCreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	if _, ok := m.Cards[card.ID]; !ok {
		return nil, domain.ErrCardNotFound
	}
	card.UpdatedAt = time.Now()
	m.Cards[card.ID] = card
	return card, nil
}

// Delete removes a card scoped to a user
func (m *MockCreditCardRepository) Delete(userID, id uuid.UUID) error {
	if card, ok := m.Cards[id]; ok && card.UserID == userID {
		delete(m.Cards, id)
		return nil
	}
	return domain.ErrCardNotFound
}

// MockCardPurchaseRepository is a mock implementation of domain.CardPurchaseRepository
type MockCardPurchaseRepository struct {
	Purchases map[uuid.UUID]*domain.CardPurchase
}

// NewMockCardPurchaseRepository creates a new MockCardPurchaseRepository
func NewMockCardPurchaseRepository() *MockCardPurchaseRepository {
	return &MockCardPurchaseRepository{
		Purchases: make(map[uuid.UUID]*domain.CardPurchase),
	}
}

// Create stores a new card purchase
func (m *MockCardPurchaseRepository) Create(purchase *domain.CardPurchase) (*domain.CardPurchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	purchase.CreatedAt = time.Now()
	m.Purchases[purchase.ID] = purchase
	return purchase, nil
}

// GetByID retrieves a purchase
func (m *MockCardPurchaseRepository) GetByID(id uuid.UUID) (*domain.CardPurchase, error) {
	if purchase, ok := m.Purchases[id]; ok {
		return purchase, nil
	}
	return nil, domain.ErrPurchaseNotFound
}

// GetByCard retrieves the purchases of a card
func (m *MockCardPurchaseRepository) GetByCard(cardID uuid.UUID) ([]*domain.CardPurchase, error) {
	var out []*domain.CardPurchase
	for _, purchase := range m.Purchases {
		if purchase.CreditCardID == cardID {
			out = append(out, purchase)
		}
	}
	return out, nil
}

// Update replaces a purchase
func (m *MockCardPurchaseRepository) Update(purchase *domain.CardPurchase) (*domain.CardPurchase, error) {
	if _, ok := m.Purchases[purchase.ID]; !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	m.Purchases[purchase.ID] = purchase
	return purchase, nil
}

// Delete removes a purchase
func (m *MockCardPurchaseRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Purchases[id]; ok {
		delete(m.Purchases, id)
		return nil
	}
	return domain.ErrPurchaseNotFound
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

// Create stores a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense scoped to a user
func (m *MockExpenseRepository) GetByID(userID, id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok && expense.UserID == userID {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetAllByUser retrieves all expenses for a user
func (m *MockExpenseRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID == userID {
			out = append(out, expense)
		}
	}
	return out, nil
}

// GetByUserInRange retrieves expenses inside a date window (inclusive)
func (m *MockExpenseRepository) GetByUserInRange(userID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID != userID {
			continue
		}
		if expense.ExpenseDate.Before(from) || expense.ExpenseDate.After(to) {
			continue
		}
		out = append(out, expense)
	}
	return out, nil
}

// GetSharedByBudget retrieves expenses shared into a budget
func (m *MockExpenseRepository) GetSharedByBudget(budgetID uuid.UUID) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.IsShared && expense.SharedBudgetID != nil && *expense.SharedBudgetID == budgetID {
			out = append(out, expense)
		}
	}
	return out, nil
}

// Update replaces an expense
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	if _, ok := m.Expenses[expense.ID]; !ok {
		return nil, domain.ErrExpenseNotFound
	}
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense scoped to a user
func (m *MockExpenseRepository) Delete(userID, id uuid.UUID) error {
	if expense, ok := m.Expenses[id]; ok && expense.UserID == userID {
		delete(m.Expenses, id)
		return nil
	}
	return domain.ErrExpenseNotFound
}

// MockGroceryRepository is a mock implementation of domain.GroceryRepository
type MockGroceryRepository struct {
	Budgets   map[uuid.UUID]*domain.GroceryBudget
	Purchases map[uuid.UUID]*domain.GroceryPurchase
}

// NewMockGroceryRepository creates a new MockGroceryRepository
func NewMockGroceryRepository() *MockGroceryRepository {
	return &MockGroceryRepository{
		Budgets:   make(map[uuid.UUID]*domain.GroceryBudget),
		Purchases: make(map[uuid.UUID]*domain.GroceryPurchase),
	}
}

// GetBudgetForCycle retrieves the grocery budget matching a cycle window
func (m *MockGroceryRepository) GetBudgetForCycle(userID uuid.UUID, cycleStart, cycleEnd time.Time) (*domain.GroceryBudget, error) {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.CycleStartDate.Equal(cycleStart) && budget.CycleEndDate.Equal(cycleEnd) {
			return budget, nil
		}
	}
	return nil, domain.ErrGroceryBudgetNotFound
}

// UpsertBudget creates or replaces the grocery budget for a cycle window
func (m *MockGroceryRepository) UpsertBudget(budget *domain.GroceryBudget) (*domain.GroceryBudget, error) {
	existing, err := m.GetBudgetForCycle(budget.UserID, budget.CycleStartDate, budget.CycleEndDate)
	if err == nil {
		existing.BudgetAmount = budget.BudgetAmount
		existing.UpdatedAt = time.Now()
		return existing, nil
	}
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// CreatePurchase stores a grocery purchase
func (m *MockGroceryRepository) CreatePurchase(purchase *domain.GroceryPurchase) (*domain.GroceryPurchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	purchase.CreatedAt = time.Now()
	m.Purchases[purchase.ID] = purchase
	return purchase, nil
}

// GetPurchasesInRange retrieves purchases inside a date window (inclusive)
func (m *MockGroceryRepository) GetPurchasesInRange(userID uuid.UUID, from, to time.Time) ([]*domain.GroceryPurchase, error) {
	var out []*domain.GroceryPurchase
	for _, purchase := range m.Purchases {
		if purchase.UserID != userID {
			continue
		}
		if purchase.PurchaseDate.Before(from) || purchase.PurchaseDate.After(to) {
			continue
		}
		out = append(out, purchase)
	}
	return out, nil
}

// DeletePurchase removes a purchase scoped to a user
func (m *MockGroceryRepository) DeletePurchase(userID, id uuid.UUID) error {
	if purchase, ok := m.Purchases[id]; ok && purchase.UserID == userID {
		delete(m.Purchases, id)
		return nil
	}
	return domain.ErrGroceryPurchaseNotFound
}

// MockSharedBudgetRepository is a mock implementation of domain.SharedBudgetRepository
type MockSharedBudgetRepository struct {
	Budgets map[uuid.UUID]*domain.SharedBudget
	Members map[uuid.UUID]*domain.SharedBudgetMember
}

// NewMockSharedBudgetRepository creates a new MockSharedBudgetRepository
func NewMockSharedBudgetRepository() *MockSharedBudgetRepository {
	return &MockSharedBudgetRepository{
		Budgets: make(map[uuid.UUID]*domain.SharedBudget),
		Members: make(map[uuid.UUID]*domain.SharedBudgetMember),
	}
}

// Create stores a new shared budget
func (m *MockSharedBudgetRepository) Create(budget *domain.SharedBudget) (*domain.SharedBudget, error) {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a shared budget
func (m *MockSharedBudgetRepository) GetByID(id uuid.UUID) (*domain.SharedBudget, error) {
	if budget, ok := m.Budgets[id]; ok {
		return budget, nil
	}
	return nil, domain.ErrSharedBudgetNotFound
}

// GetByUser retrieves the budget a user is an accepted member of
func (m *MockSharedBudgetRepository) GetByUser(userID uuid.UUID) (*domain.SharedBudget, error) {
	for _, member := range m.Members {
		if member.UserID != nil && *member.UserID == userID && member.InvitationStatus == domain.InvitationAccepted {
			return m.GetByID(member.BudgetID)
		}
	}
	return nil, domain.ErrSharedBudgetNotFound
}

// Delete removes a shared budget and its memberships
func (m *MockSharedBudgetRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Budgets[id]; !ok {
		return domain.ErrSharedBudgetNotFound
	}
	delete(m.Budgets, id)
	for memberID, member := range m.Members {
		if member.BudgetID == id {
			delete(m.Members, memberID)
		}
	}
	return nil
}

// AddMember stores a membership row
func (m *MockSharedBudgetRepository) AddMember(member *domain.SharedBudgetMember) (*domain.SharedBudgetMember, error) {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	m.Members[member.ID] = member
	return member, nil
}

// GetMembers retrieves the membership rows of a budget
func (m *MockSharedBudgetRepository) GetMembers(budgetID uuid.UUID) ([]*domain.SharedBudgetMember, error) {
	var out []*domain.SharedBudgetMember
	for _, member := range m.Members {
		if member.BudgetID == budgetID {
			out = append(out, member)
		}
	}
	return out, nil
}

// GetMemberByUser retrieves a member row by budget and user
func (m *MockSharedBudgetRepository) GetMemberByUser(budgetID, userID uuid.UUID) (*domain.SharedBudgetMember, error) {
	for _, member := range m.Members {
		if member.BudgetID == budgetID && member.UserID != nil && *member.UserID == userID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// GetPendingInvitation retrieves a pending invitation by budget and email
func (m *MockSharedBudgetRepository) GetPendingInvitation(budgetID uuid.UUID, email string) (*domain.SharedBudgetMember, error) {
	for _, member := range m.Members {
		if member.BudgetID == budgetID && member.InvitedEmail != nil && *member.InvitedEmail == email &&
			member.InvitationStatus == domain.InvitationPending {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// GetPendingInvitationsByEmail retrieves all pending invitations for an email
func (m *MockSharedBudgetRepository) GetPendingInvitationsByEmail(email string) ([]*domain.SharedBudgetMember, error) {
	var out []*domain.SharedBudgetMember
	for _, member := range m.Members {
		if member.InvitedEmail != nil && *member.InvitedEmail == email &&
			member.InvitationStatus == domain.InvitationPending {
			out = append(out, member)
		}
	}
	return out, nil
}

// UpdateMember replaces a membership row
func (m *MockSharedBudgetRepository) UpdateMember(member *domain.SharedBudgetMember) (*domain.SharedBudgetMember, error) {
	if _, ok := m.Members[member.ID]; !ok {
		return nil, domain.ErrMemberNotFound
	}
	member.UpdatedAt = time.Now()
	m.Members[member.ID] = member
	return member, nil
}

// RemoveMember removes a membership row
func (m *MockSharedBudgetRepository) RemoveMember(budgetID, memberID uuid.UUID) error {
	if member, ok := m.Members[memberID]; ok && member.BudgetID == budgetID {
		delete(m.Members, memberID)
		return nil
	}
	return domain.ErrMemberNotFound
}

// PublishedEvent captures one call to MockEventPublisher.Publish
type PublishedEvent struct {
	BudgetID uuid.UUID
	Event    ws.Event
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(budgetID uuid.UUID, event ws.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{BudgetID: budgetID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
