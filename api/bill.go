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

// BillHandler serves bill endpoints.
type BillHandler struct{}

// NewBillHandler creates a bill handler.
func NewBillHandler() *BillHandler {
	return &BillHandler{}
}

// CreateBillRequest is the bill creation payload.
type CreateBillRequest struct {
	BillName string  `json:"bill_name" binding:"required,max=100" example:"Rent"`
	Amount   float64 `json:"amount" binding:"required,gt=0" example:"800"`
	DueDate  string  `json:"due_date" binding:"required" example:"2024-02-01"`
}

// Create adds a bill for the current user.
// @Summary Create bill
// @Tags bills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBillRequest true "bill info"
// @Success 200 {object} Response{data=models.Bill} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		BadRequest(c, "due_date must be YYYY-MM-DD")
		return
	}

	bill := models.Bill{
		UserID:   userID,
		BillName: req.BillName,
		Amount:   decimal.NewFromFloat(req.Amount),
		DueDate:  dueDate,
		Status:   models.BillStatusUnpaid,
	}
	if err := database.DB.Create(&bill).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create bill failed"))
		return
	}

	SuccessWithMessage(c, "bill created", bill)
}

// List returns the current user's bills, soonest due first.
// @Summary List bills
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Param status query string false "filter by status" Enums(unpaid, paid)
// @Success 200 {object} Response{data=[]models.Bill} "bills"
// @Router /api/v1/bills [get]
func (h *BillHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		if status != models.BillStatusUnpaid && status != models.BillStatusPaid {
			BadRequest(c, "status must be unpaid or paid")
			return
		}
		query = query.Where("status = ?", status)
	}

	var bills []models.Bill
	if err := query.Order("due_date ASC").Find(&bills).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "list bills failed"))
		return
	}

	Success(c, bills)
}

// Pay marks a bill as paid.
// @Summary Pay bill
// @Tags bills
// @Produce json
// @Security BearerAuth
// @Param id path int true "bill id"
// @Success 200 {object} Response{data=models.Bill} "paid"
// @Failure 404 {object} Response "bill not found"
// @Router /api/v1/bills/{id}/pay [put]
func (h *BillHandler) Pay(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid bill id")
		return
	}

	var bill models.Bill
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&bill).Error; err != nil {
		NotFound(c, "bill not found or unauthorized")
		return
	}

	if bill.Status == models.BillStatusPaid {
		BadRequest(c, "bill is already paid")
		return
	}

	bill.Status = models.BillStatusPaid
	if err := database.DB.Model(&bill).
		Update("status", models.BillStatusPaid).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "pay bill failed"))
		return
	}

	SuccessWithMessage(c, "bill paid", bill)
}
