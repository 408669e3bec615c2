package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/presupuesta/presupuesta-backend/internal/domain"
	"github.com/presupuesta/presupuesta-backend/internal/middleware"
	"github.com/presupuesta/presupuesta-backend/internal/service"
)

// SharedBudgetHandler handles shared budget HTTP requests
type SharedBudgetHandler struct {
	budgetService *service.SharedBudgetService
}

// NewSharedBudgetHandler creates a new SharedBudgetHandler
func NewSharedBudgetHandler(budgetService *service.SharedBudgetService) *SharedBudgetHandler {
	return &SharedBudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create shared budget request body
type CreateBudgetRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// InviteMemberRequest represents the invite member request body
type InviteMemberRequest struct {
	Email string `json:"email"`
}

// RespondInvitationRequest represents the respond invitation request body
type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

// CreateBudget handles POST /api/v1/shared-budgets
func (h *SharedBudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budget, err := h.budgetService.CreateBudget(userID, service.CreateBudgetInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create shared budget")
		return NewInternalError(c, "Failed to create shared budget")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", budget.ID.String()).Str("name", budget.Name).Msg("Shared budget created")

	return c.JSON(http.StatusCreated, budget)
}

// GetMyBudget handles GET /api/v1/shared-budgets/mine
// Returns the budget the user is an accepted member of
func (h *SharedBudgetHandler) GetMyBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budget, err := h.budgetService.GetBudgetForUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrSharedBudgetNotFound) {
			return NewNotFoundError(c, "No shared budget")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get shared budget")
		return NewInternalError(c, "Failed to get shared budget")
	}

	return c.JSON(http.StatusOK, budget)
}

// InviteMember handles POST /api/v1/shared-budgets/:id/members
func (h *SharedBudgetHandler) InviteMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req InviteMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.budgetService.InviteMember(userID, budgetID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewForbiddenError(c, "You are not a member of this budget")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Only the owner can invite members")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "email", Message: "Email is required"},
			})
		}
		if errors.Is(err, domain.ErrMemberAlreadyInvited) {
			return NewConflictError(c, "Member is already invited to this budget")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", budgetID.String()).Msg("Failed to invite member")
		return NewInternalError(c, "Failed to invite member")
	}

	log.Info().Str("user_id", userID.String()).Str("budget_id", budgetID.String()).Str("member_id", member.ID.String()).Msg("Member invited")

	return c.JSON(http.StatusCreated, member)
}

// GetPendingInvitations handles GET /api/v1/shared-budgets/invitations
func (h *SharedBudgetHandler) GetPendingInvitations(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	invitations, err := h.budgetService.PendingInvitations(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get pending invitations")
		return NewInternalError(c, "Failed to get pending invitations")
	}

	if invitations == nil {
		invitations = []*domain.SharedBudgetMember{}
	}

	return c.JSON(http.StatusOK, invitations)
}

// RespondInvitation handles POST /api/v1/shared-budgets/invitations/:id/respond
func (h *SharedBudgetHandler) RespondInvitation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invitation ID", nil)
	}

	var req RespondInvitationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	member, err := h.budgetService.RespondInvitation(userID, memberID, req.Accept)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotPending) {
			return NewNotFoundError(c, "No pending invitation")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("invitation_id", memberID.String()).Msg("Failed to respond to invitation")
		return NewInternalError(c, "Failed to respond to invitation")
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("budget_id", member.BudgetID.String()).
		Bool("accepted", req.Accept).
		Msg("Invitation responded")

	return c.JSON(http.StatusOK, member)
}

// RemoveMember handles DELETE /api/v1/shared-budgets/:id/members/:memberId
func (h *SharedBudgetHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return NewValidationError(c, "Invalid member ID", nil)
	}

	if err := h.budgetService.RemoveMember(userID, budgetID, memberID); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return NewNotFoundError(c, "Member not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Members can only remove themselves")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", budgetID.String()).Msg("Failed to remove member")
		return NewInternalError(c, "Failed to remove member")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/shared-budgets/:id/summary
// Returns the income-proportional allocation summary
func (h *SharedBudgetHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	summary, err := h.budgetService.GetSummary(userID, budgetID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotBudgetMember) {
			return NewForbiddenError(c, "You are not a member of this budget")
		}
		if errors.Is(err, domain.ErrSharedBudgetNotFound) {
			return NewNotFoundError(c, "Shared budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("budget_id", budgetID.String()).Msg("Failed to get budget summary")
		return NewInternalError(c, "Failed to get budget summary")
	}

	return c.JSON(http.StatusOK, summary)
}
