package api

import (
	"errors"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetHandler serves the overall budget endpoints. Each user has at most
// one overall budget row.
type BudgetHandler struct{}

// NewBudgetHandler creates a budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// SetBudgetRequest is the upsert payload for the overall budget.
type SetBudgetRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0" example:"2000"`
	StartDate string  `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate   string  `json:"end_date" binding:"required" example:"2024-01-31"`
}

// BudgetSpending reports spending against the overall budget.
type BudgetSpending struct {
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
}

// Set creates or replaces the current user's overall budget.
// @Summary Set overall budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetBudgetRequest true "budget info"
// @Success 200 {object} Response{data=models.Budget} "saved"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/budgets/overall [put]
func (h *BudgetHandler) Set(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		BadRequest(c, "end_date must not be before start_date")
		return
	}

	amount := decimal.NewFromFloat(req.Amount)

	var budget models.Budget
	err = database.DB.Where("user_id = ?", userID).First(&budget).Error
	switch {
	case err == nil:
		budget.Amount = amount
		budget.StartDate = start
		budget.EndDate = end
		if err := database.DB.Model(&budget).Updates(map[string]interface{}{
			"amount":     amount,
			"start_date": start,
			"end_date":   end,
			"status":     models.BudgetStatusActive,
		}).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update budget failed"))
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = models.Budget{
			UserID:    userID,
			Amount:    amount,
			StartDate: start,
			EndDate:   end,
			Status:    models.BudgetStatusActive,
		}
		if err := database.DB.Create(&budget).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "create budget failed"))
			return
		}
	default:
		InternalError(c, SafeErrorMessage(err, "load budget failed"))
		return
	}

	SuccessWithMessage(c, "budget saved", budget)
}

// Get returns the current user's overall budget.
// @Summary Get overall budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Budget} "budget"
// @Failure 404 {object} Response "no budget set"
// @Router /api/v1/budgets/overall [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budget models.Budget
	if err := database.DB.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		NotFound(c, "no budget set")
		return
	}

	Success(c, budget)
}

// Spending returns expense totals inside the budget period against the
// budget amount.
// @Summary Budget spending
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=BudgetSpending} "spending"
// @Failure 404 {object} Response "no budget set"
// @Router /api/v1/budgets/spending [get]
func (h *BudgetHandler) Spending(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budget models.Budget
	if err := database.DB.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		NotFound(c, "no budget set")
		return
	}

	var row struct {
		Spent decimal.Decimal
	}
	if err := database.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS spent").
		Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&row).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "sum spending failed"))
		return
	}

	Success(c, BudgetSpending{
		Budget:    budget.Amount,
		Spent:     row.Spent,
		Remaining: budget.Amount.Sub(row.Spent),
		StartDate: budget.StartDate,
		EndDate:   budget.EndDate,
	})
}
