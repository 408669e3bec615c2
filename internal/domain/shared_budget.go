package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSharedBudgetNotFound = errors.New("shared budget not found")
	ErrMemberNotFound       = errors.New("shared budget member not found")
	ErrMemberAlreadyInvited = errors.New("member is already invited to this budget")
	ErrInvitationNotPending = errors.New("invitation is not pending")
	ErrNotBudgetMember      = errors.New("user is not a member of this budget")
	ErrBudgetNameRequired   = errors.New("shared budget name is required")
)

// MemberRole is a member's role inside a shared budget.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

// InvitationStatus tracks a member invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// SharedBudget pools finances between members, splitting shared costs
// proportionally to each member's net income.
type SharedBudget struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *SharedBudget) Validate() error {
	if b.Name == "" {
		return ErrBudgetNameRequired
	}
	return nil
}

// SharedBudgetMember is one membership row, possibly still a pending
// email invitation without a resolved user.
type SharedBudgetMember struct {
	ID               uuid.UUID        `json:"id"`
	BudgetID         uuid.UUID        `json:"budgetId"`
	UserID           *uuid.UUID       `json:"userId,omitempty"`
	InvitedEmail     *string          `json:"invitedEmail,omitempty"`
	Role             MemberRole       `json:"role"`
	InvitationStatus InvitationStatus `json:"invitationStatus"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ShareMember is the allocation input: a member identity with its aggregated
// net income for the cycle.
type ShareMember struct {
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// SharedExpense is the allocation input for one shared cost.
type SharedExpense struct {
	Amount decimal.Decimal `json:"amount"`
	PaidBy *uuid.UUID      `json:"paidBy,omitempty"`
	IsPaid bool            `json:"isPaid"`
}

// MemberSummary is the derived allocation result for one member.
type MemberSummary struct {
	UserID               uuid.UUID       `json:"userId"`
	Name                 string          `json:"name"`
	NetIncome            decimal.Decimal `json:"netIncome"`
	IncomePercentage     decimal.Decimal `json:"incomePercentage"`
	ExpectedContribution decimal.Decimal `json:"expectedContribution"`
	ActualContribution   decimal.Decimal `json:"actualContribution"`
	Difference           decimal.Decimal `json:"difference"`
}

// SharedBudgetSummary is the cycle-scoped view returned to the client.
type SharedBudgetSummary struct {
	Budget          *SharedBudget         `json:"budget"`
	Cycle           BudgetCycle           `json:"cycle"`
	Members         []*SharedBudgetMember `json:"members"`
	MemberSummaries []MemberSummary       `json:"memberSummaries"`
	TotalIncome     decimal.Decimal       `json:"totalIncome"`
	TotalExpenses   decimal.Decimal       `json:"totalExpenses"`
	Balance         decimal.Decimal       `json:"balance"`
}

type SharedBudgetRepository interface {
	Create(budget *SharedBudget) (*SharedBudget, error)
	GetByID(id uuid.UUID) (*SharedBudget, error)
	GetByUser(userID uuid.UUID) (*SharedBudget, error)
	Delete(id uuid.UUID) error

	AddMember(member *SharedBudgetMember) (*SharedBudgetMember, error)
	GetMembers(budgetID uuid.UUID) ([]*SharedBudgetMember, error)
	GetMemberByUser(budgetID, userID uuid.UUID) (*SharedBudgetMember, error)
	GetPendingInvitation(budgetID uuid.UUID, email string) (*SharedBudgetMember, error)
	GetPendingInvitationsByEmail(email string) ([]*SharedBudgetMember, error)
	UpdateMember(member *SharedBudgetMember) (*SharedBudgetMember, error)
	RemoveMember(budgetID, memberID uuid.UUID) error
}
