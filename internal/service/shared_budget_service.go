package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/presupuesta/presupuesta-backend/internal/calc"
	"github.com/presupuesta/presupuesta-backend/internal/domain"
	ws "github.com/presupuesta/presupuesta-backend/internal/websocket"
)

// SharedBudgetService handles shared budget membership and the
// income-proportional allocation summary
type SharedBudgetService struct {
	budgetRepo   domain.SharedBudgetRepository
	userRepo     domain.UserRepository
	incomeRepo   domain.IncomeRepository
	expenseRepo  domain.ExpenseRepository
	loanRepo     domain.LoanRepository
	cardRepo     domain.CreditCardRepository
	purchaseRepo domain.CardPurchaseRepository
	prefService  *PreferenceService
	publisher    ws.EventPublisher
}

// NewSharedBudgetService creates a new SharedBudgetService
func NewSharedBudgetService(
	budgetRepo domain.SharedBudgetRepository,
	userRepo domain.UserRepository,
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	loanRepo domain.LoanRepository,
	cardRepo domain.CreditCardRepository,
	purchaseRepo domain.CardPurchaseRepository,
	prefService *PreferenceService,
	publisher ws.EventPublisher,
) *SharedBudgetService {
	return &SharedBudgetService{
		budgetRepo:   budgetRepo,
		userRepo:     userRepo,
		incomeRepo:   incomeRepo,
		expenseRepo:  expenseRepo,
		loanRepo:     loanRepo,
		cardRepo:     cardRepo,
		purchaseRepo: purchaseRepo,
		prefService:  prefService,
		publisher:    publisher,
	}
}

// CreateBudgetInput contains input for creating a shared budget
type CreateBudgetInput struct {
	Name        string
	Description *string
}

// CreateBudget creates a shared budget with the creator as its owner
func (s *SharedBudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.SharedBudget, error) {
	budget := &domain.SharedBudget{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CreatedBy:   userID,
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}

	owner := &domain.SharedBudgetMember{
		BudgetID:         created.ID,
		UserID:           &userID,
		Role:             domain.MemberRoleOwner,
		InvitationStatus: domain.InvitationAccepted,
	}
	if _, err := s.budgetRepo.AddMember(owner); err != nil {
		return nil, err
	}

	return created, nil
}

// GetBudgetForUser retrieves the budget the user is an accepted member of
func (s *SharedBudgetService) GetBudgetForUser(userID uuid.UUID) (*domain.SharedBudget, error) {
	return s.budgetRepo.GetByUser(userID)
}

// InviteMember invites an email to the budget. Only the owner may invite.
// Email delivery is out of scope; the invitation is surfaced when the
// invitee logs in.
func (s *SharedBudgetService) InviteMember(userID, budgetID uuid.UUID, email string) (*domain.SharedBudgetMember, error) {
	member, err := s.budgetRepo.GetMemberByUser(budgetID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.MemberRoleOwner {
		return nil, domain.ErrForbidden
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.budgetRepo.GetPendingInvitation(budgetID, email); err == nil {
		return nil, domain.ErrMemberAlreadyInvited
	}

	// If the invitee already has an account, bind the invitation to it
	var inviteeID *uuid.UUID
	if user, err := s.userRepo.GetByEmail(email); err == nil {
		if _, err := s.budgetRepo.GetMemberByUser(budgetID, user.ID); err == nil {
			return nil, domain.ErrMemberAlreadyInvited
		}
		inviteeID = &user.ID
	}

	return s.budgetRepo.AddMember(&domain.SharedBudgetMember{
		BudgetID:         budgetID,
		UserID:           inviteeID,
		InvitedEmail:     &email,
		Role:             domain.MemberRoleMember,
		InvitationStatus: domain.InvitationPending,
	})
}

// PendingInvitations lists the pending invitations addressed to a user's email
func (s *SharedBudgetService) PendingInvitations(userID uuid.UUID) ([]*domain.SharedBudgetMember, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.budgetRepo.GetPendingInvitationsByEmail(user.Email)
}

// RespondInvitation accepts or rejects a pending invitation
func (s *SharedBudgetService) RespondInvitation(userID, memberID uuid.UUID, accept bool) (*domain.SharedBudgetMember, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	invitations, err := s.budgetRepo.GetPendingInvitationsByEmail(user.Email)
	if err != nil {
		return nil, err
	}

	var invitation *domain.SharedBudgetMember
	for _, inv := range invitations {
		if inv.ID == memberID {
			invitation = inv
			break
		}
	}
	if invitation == nil {
		return nil, domain.ErrInvitationNotPending
	}

	if accept {
		invitation.InvitationStatus = domain.InvitationAccepted
		invitation.UserID = &user.ID
	} else {
		invitation.InvitationStatus = domain.InvitationRejected
	}

	updated, err := s.budgetRepo.UpdateMember(invitation)
	if err != nil {
		return nil, err
	}

	if accept {
		s.publisher.Publish(updated.BudgetID, ws.MemberJoined(updated))
	}

	return updated, nil
}

// RemoveMember removes a member from the budget. Owners may remove anyone;
// members may only remove themselves.
func (s *SharedBudgetService) RemoveMember(userID, budgetID, memberID uuid.UUID) error {
	caller, err := s.budgetRepo.GetMemberByUser(budgetID, userID)
	if err != nil {
		return err
	}

	if caller.Role != domain.MemberRoleOwner && caller.ID != memberID {
		return domain.ErrForbidden
	}

	return s.budgetRepo.RemoveMember(budgetID, memberID)
}

// GetSummary derives the cycle-scoped allocation summary for a shared budget.
// Member shares are proportional to each member's total net income.
func (s *SharedBudgetService) GetSummary(userID, budgetID uuid.UUID, referenceDate time.Time) (*domain.SharedBudgetSummary, error) {
	if _, err := s.budgetRepo.GetMemberByUser(budgetID, userID); err != nil {
		return nil, domain.ErrNotBudgetMember
	}

	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		return nil, err
	}

	members, err := s.budgetRepo.GetMembers(budgetID)
	if err != nil {
		return nil, err
	}

	shareMembers, err := s.shareMembers(members)
	if err != nil {
		return nil, err
	}

	// The owner's preference fixes the cycle window so every member sees
	// the same summary
	cycle, err := s.prefService.CurrentCycle(budget.CreatedBy, referenceDate)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.GetSharedByBudget(budgetID)
	if err != nil {
		return nil, err
	}

	sharedExpenses := make([]domain.SharedExpense, 0, len(expenses))
	for _, e := range expenses {
		if !calc.DateInCycle(e.ExpenseDate, cycle) {
			continue
		}
		sharedExpenses = append(sharedExpenses, domain.SharedExpense{
			Amount: e.Amount,
			PaidBy: e.PaidBy,
			IsPaid: e.IsPaid,
		})
	}

	debtExpenses, err := s.sharedDebtExpenses(budgetID)
	if err != nil {
		return nil, err
	}
	sharedExpenses = append(sharedExpenses, debtExpenses...)

	totalExpenses := decimal.Zero
	for _, e := range sharedExpenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}

	summaries := calc.MemberSummaries(shareMembers, sharedExpenses)

	totalIncome := decimal.Zero
	for _, m := range shareMembers {
		totalIncome = totalIncome.Add(m.NetIncome)
	}

	return &domain.SharedBudgetSummary{
		Budget:          budget,
		Cycle:           cycle,
		Members:         members,
		MemberSummaries: summaries,
		TotalIncome:     totalIncome,
		TotalExpenses:   totalExpenses,
		Balance:         totalIncome.Sub(totalExpenses),
	}, nil
}

// sharedDebtExpenses folds the budget's shared debt obligations into the
// allocation: each active shared loan contributes its installment and each
// active purchase on a shared card contributes its installment. Debt entries
// are always pending, so they weigh on expected contributions without
// crediting anyone's actual contribution.
func (s *SharedBudgetService) sharedDebtExpenses(budgetID uuid.UUID) ([]domain.SharedExpense, error) {
	var out []domain.SharedExpense

	loans, err := s.loanRepo.GetSharedByBudget(budgetID)
	if err != nil {
		return nil, err
	}
	for _, loan := range loans {
		if !loan.IsActive() {
			continue
		}
		out = append(out, domain.SharedExpense{
			Amount: loan.InstallmentAmount,
			PaidBy: &loan.UserID,
			IsPaid: false,
		})
	}

	cards, err := s.cardRepo.GetSharedByBudget(budgetID)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		purchases, err := s.purchaseRepo.GetByCard(card.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range purchases {
			if !p.IsActive() {
				continue
			}
			out = append(out, domain.SharedExpense{
				Amount: p.InstallmentAmount,
				PaidBy: &card.UserID,
				IsPaid: false,
			})
		}
	}

	return out, nil
}

// shareMembers resolves accepted members into allocation inputs with their
// aggregated net incomes
func (s *SharedBudgetService) shareMembers(members []*domain.SharedBudgetMember) ([]domain.ShareMember, error) {
	out := make([]domain.ShareMember, 0, len(members))
	for _, m := range members {
		if m.InvitationStatus != domain.InvitationAccepted || m.UserID == nil {
			continue
		}

		user, err := s.userRepo.GetByID(*m.UserID)
		if err != nil {
			return nil, err
		}

		net, err := s.incomeRepo.TotalNetByUser(user.ID)
		if err != nil {
			return nil, err
		}

		name := user.Email
		if user.FullName != nil && *user.FullName != "" {
			name = *user.FullName
		}

		out = append(out, domain.ShareMember{
			UserID:    user.ID,
			Name:      name,
			NetIncome: net,
		})
	}
	return out, nil
}
