package api

import (
	"errors"
	"strconv"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"
	"budgetbuddy/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves transaction endpoints. All balance effects go
// through the ledger service.
type TransactionHandler struct{}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

func (h *TransactionHandler) ledger() *service.Ledger {
	return service.NewLedger(database.DB)
}

// TransactionRequest is the create/update payload. Updates are full
// replacements, so the same fields are required on both.
type TransactionRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required" example:"100"`
	Category  string          `json:"category" binding:"required,max=50" example:"Food"`
	Type      string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Date      string          `json:"date" binding:"required" example:"2024-01-15"`
	Note      string          `json:"note" binding:"max=255" example:"groceries"`
	AccountID *uint           `json:"account_id" binding:"required" example:"1"`
}

func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	if r.Amount.Sign() <= 0 {
		return service.TransactionInput{}, errors.New("amount must be positive")
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.TransactionInput{}, errors.New("date must be YYYY-MM-DD")
	}
	return service.TransactionInput{
		Amount:    r.Amount,
		Category:  r.Category,
		Type:      r.Type,
		Date:      date,
		Note:      r.Note,
		AccountID: r.AccountID,
	}, nil
}

// ownsAccount reports whether the account exists and belongs to the user.
func ownsAccount(accountID, userID uint) bool {
	var account models.Account
	return database.DB.Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error == nil
}

// Create records a transaction and applies it to the linked account.
// @Summary Create transaction
// @Description Record an income or expense and adjust the account balance
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "transaction info"
// @Success 200 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if !ownsAccount(*in.AccountID, userID) {
		NotFound(c, "account not found or unauthorized")
		return
	}

	txn, err := h.ledger().CreateTransaction(userID, in)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "create transaction failed"))
		return
	}

	SuccessWithMessage(c, "transaction created", txn)
}

// List returns the current user's transactions, newest first, with
// optional category/type/date filters and pagination.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number" default(1)
// @Param page_size query int false "page size" default(20)
// @Param category query string false "filter by category"
// @Param type query string false "filter by type" Enums(income, expense)
// @Param start_date query string false "filter from date (YYYY-MM-DD)"
// @Param end_date query string false "filter to date (YYYY-MM-DD)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "transactions"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if txType := c.Query("type"); txType != "" {
		if !models.IsValidTransactionType(txType) {
			BadRequest(c, "type must be income or expense")
			return
		}
		query = query.Where("type = ?", txType)
	}
	if start := c.Query("start_date"); start != "" {
		query = query.Where("date >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("date <= ?", end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "count transactions failed"))
		return
	}

	var txns []models.Transaction
	if err := query.Order("date DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list transactions failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     txns,
	})
}

// Update replaces a transaction and reconciles the affected balances.
// @Summary Update transaction
// @Description Replace a transaction's fields, reconciling old and new account balances
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Param request body TransactionRequest true "new transaction fields"
// @Success 200 {object} Response{data=models.Transaction} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "transaction not found"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid transaction id")
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	if !ownsAccount(*in.AccountID, userID) {
		NotFound(c, "account not found or unauthorized")
		return
	}

	txn, err := h.ledger().UpdateTransaction(uint(id), userID, in)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			NotFound(c, "transaction not found or unauthorized")
			return
		}
		InternalError(c, SafeErrorMessage(err, "update transaction failed"))
		return
	}

	SuccessWithMessage(c, "transaction updated", txn)
}

// Delete removes a transaction and reverses its balance contribution.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "transaction not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid transaction id")
		return
	}

	if err := h.ledger().DeleteTransaction(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			NotFound(c, "transaction not found or unauthorized")
			return
		}
		InternalError(c, SafeErrorMessage(err, "delete transaction failed"))
		return
	}

	SuccessWithMessage(c, "transaction deleted", nil)
}
