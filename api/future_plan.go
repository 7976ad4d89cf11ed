package api

import (
	"strconv"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"
	"budgetbuddy/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FuturePlanHandler serves savings plan endpoints. Plan creation consults
// the ML reverse planner to compute the monthly savings figure.
type FuturePlanHandler struct {
	ml *service.MLClient
}

// NewFuturePlanHandler creates a future plan handler.
func NewFuturePlanHandler(ml *service.MLClient) *FuturePlanHandler {
	return &FuturePlanHandler{ml: ml}
}

// CreateFuturePlanRequest is the plan creation payload.
type CreateFuturePlanRequest struct {
	GoalName       string  `json:"goal_name" binding:"required,max=100" example:"House deposit"`
	TargetAmount   float64 `json:"target_amount" binding:"required,gt=0" example:"20000"`
	CurrentSavings float64 `json:"current_savings" binding:"gte=0" example:"3000"`
	TargetDate     string  `json:"target_date" binding:"required" example:"2027-01-01"`
}

// Create adds a savings plan, asking the reverse planner for the monthly
// figure. When the ML service is down the plan is still saved with a
// straight-line fallback.
// @Summary Create future plan
// @Tags future-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateFuturePlanRequest true "plan info"
// @Success 200 {object} Response{data=models.FuturePlan} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/future-plans [post]
func (h *FuturePlanHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateFuturePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		BadRequest(c, "target_date must be YYYY-MM-DD")
		return
	}
	if !targetDate.After(time.Now()) {
		BadRequest(c, "target_date must be in the future")
		return
	}

	target := decimal.NewFromFloat(req.TargetAmount)
	current := decimal.NewFromFloat(req.CurrentSavings)

	monthly := straightLineMonthly(target, current, targetDate)
	plan, err := h.ml.ReversePlan(userID, target, current, req.TargetDate)
	if err != nil {
		logrus.WithError(err).Warn("reverse planner unavailable, using straight-line fallback")
	} else {
		monthly = decimal.NewFromFloat(plan.MonthlySavings)
	}

	futurePlan := models.FuturePlan{
		UserID:         userID,
		GoalName:       req.GoalName,
		TargetAmount:   target,
		CurrentSavings: current,
		TargetDate:     targetDate,
		MonthlySavings: monthly,
	}
	if err := database.DB.Create(&futurePlan).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create future plan failed"))
		return
	}

	SuccessWithMessage(c, "future plan created", futurePlan)
}

// straightLineMonthly divides the remaining amount evenly over the months
// until the target date. Used when the reverse planner cannot be reached.
func straightLineMonthly(target, current decimal.Decimal, targetDate time.Time) decimal.Decimal {
	remaining := target.Sub(current)
	if remaining.Sign() <= 0 {
		return decimal.Zero
	}
	months := int64(time.Until(targetDate).Hours() / (24 * 30))
	if months < 1 {
		months = 1
	}
	return remaining.DivRound(decimal.NewFromInt(months), 2)
}

// List returns the current user's savings plans.
// @Summary List future plans
// @Tags future-plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.FuturePlan} "plans"
// @Router /api/v1/future-plans [get]
func (h *FuturePlanHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var plans []models.FuturePlan
	if err := database.DB.Where("user_id = ?", userID).
		Order("target_date ASC").
		Find(&plans).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list future plans failed"))
		return
	}

	Success(c, plans)
}

// Delete removes a savings plan.
// @Summary Delete future plan
// @Tags future-plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "plan id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "plan not found"
// @Router /api/v1/future-plans/{id} [delete]
func (h *FuturePlanHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid plan id")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FuturePlan{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "delete future plan failed"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "plan not found or unauthorized")
		return
	}

	SuccessWithMessage(c, "future plan deleted", nil)
}
