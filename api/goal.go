package api

import (
	"strconv"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalHandler serves financial goal endpoints.
type GoalHandler struct{}

// NewGoalHandler creates a goal handler.
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// CreateGoalRequest is the goal creation payload.
type CreateGoalRequest struct {
	GoalName       string  `json:"goal_name" binding:"required,max=100" example:"Vacation"`
	TargetAmount   float64 `json:"target_amount" binding:"required,gt=0" example:"5000"`
	CurrentSavings float64 `json:"current_savings" binding:"gte=0" example:"500"`
	TargetDate     string  `json:"target_date" binding:"required" example:"2025-06-01"`
}

// Create adds a financial goal for the current user.
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "goal info"
// @Success 200 {object} Response{data=models.FinancialGoal} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		BadRequest(c, "target_date must be YYYY-MM-DD")
		return
	}

	goal := models.FinancialGoal{
		UserID:         userID,
		GoalName:       req.GoalName,
		TargetAmount:   decimal.NewFromFloat(req.TargetAmount),
		CurrentSavings: decimal.NewFromFloat(req.CurrentSavings),
		TargetDate:     targetDate,
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create goal failed"))
		return
	}

	SuccessWithMessage(c, "goal created", goal)
}

// List returns the current user's goals, nearest deadline first.
// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.FinancialGoal} "goals"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var goals []models.FinancialGoal
	if err := database.DB.Where("user_id = ?", userID).
		Order("target_date ASC").
		Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list goals failed"))
		return
	}

	Success(c, goals)
}

// Delete removes a goal.
// @Summary Delete goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "goal not found"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid goal id")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FinancialGoal{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "delete goal failed"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "goal not found or unauthorized")
		return
	}

	SuccessWithMessage(c, "goal deleted", nil)
}
