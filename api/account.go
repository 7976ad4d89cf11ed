package api

import (
	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler serves money account endpoints.
type AccountHandler struct{}

// NewAccountHandler creates an account handler.
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest is the account creation payload.
type CreateAccountRequest struct {
	AccountType string  `json:"account_type" binding:"required,max=50" example:"checking"`
	Balance     float64 `json:"balance" binding:"gte=0" example:"1000"`
}

// UpdateBalanceRequest sets an account's balance to an absolute value.
type UpdateBalanceRequest struct {
	AccountID uint    `json:"account_id" binding:"required" example:"1"`
	Balance   float64 `json:"balance" binding:"gte=0" example:"1500"`
}

// Create adds an account for the current user.
// @Summary Create account
// @Description Create a money account with an opening balance
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "account info"
// @Success 200 {object} Response{data=models.Account} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	account := models.Account{
		UserID:      userID,
		AccountType: req.AccountType,
		Balance:     decimal.NewFromFloat(req.Balance),
	}
	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create account failed"))
		return
	}

	SuccessWithMessage(c, "account created", account)
}

// List returns the current user's accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Account} "accounts"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var accounts []models.Account
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list accounts failed"))
		return
	}

	Success(c, accounts)
}

// UpdateBalance overwrites an account's balance. This is the manual
// correction path; everyday balance changes flow through transactions.
// @Summary Set account balance
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateBalanceRequest true "account and new balance"
// @Success 200 {object} Response{data=models.Account} "updated"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/accounts/balance [put]
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", req.AccountID, userID).
		First(&account).Error; err != nil {
		NotFound(c, "account not found or unauthorized")
		return
	}

	account.Balance = decimal.NewFromFloat(req.Balance)
	if err := database.DB.Model(&account).
		Update("balance", account.Balance).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update balance failed"))
		return
	}

	SuccessWithMessage(c, "balance updated", account)
}
