package api

import (
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportHandler serves spending report endpoints.
type ReportHandler struct{}

// NewReportHandler creates a report handler.
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// CategoryTotal is one category's total inside the report period.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// Report is the period summary: income and expense totals, net, the
// per-category breakdown, and the overall budget when one is set.
type Report struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	ByCategory   []CategoryTotal `json:"by_category"`
	Budget       *models.Budget  `json:"budget,omitempty"`
}

func parsePeriod(c *gin.Context) (start, end string, ok bool) {
	start = c.Query("start_date")
	end = c.Query("end_date")
	if start == "" || end == "" {
		BadRequest(c, "start_date and end_date are required")
		return "", "", false
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		BadRequest(c, "start_date must be YYYY-MM-DD")
		return "", "", false
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		BadRequest(c, "end_date must be YYYY-MM-DD")
		return "", "", false
	}
	return start, end, true
}

// Get builds the spending report for a period.
// @Summary Spending report
// @Description Income/expense totals and per-category breakdown for a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "period start (YYYY-MM-DD)"
// @Param end_date query string true "period end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=Report} "report"
// @Failure 400 {object} Response "invalid period"
// @Router /api/v1/reports [get]
func (h *ReportHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	var typeTotals []struct {
		Type  string
		Total decimal.Decimal
	}
	if err := database.DB.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Group("type").
		Scan(&typeTotals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "build report failed"))
		return
	}

	report := Report{
		StartDate:  start,
		EndDate:    end,
		ByCategory: []CategoryTotal{},
	}
	for _, t := range typeTotals {
		switch t.Type {
		case models.TransactionTypeIncome:
			report.TotalIncome = t.Total
		case models.TransactionTypeExpense:
			report.TotalExpense = t.Total
		}
	}
	report.Net = report.TotalIncome.Sub(report.TotalExpense)

	if err := database.DB.Model(&models.Transaction{}).
		Select("category, type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Group("category, type").
		Order("total DESC").
		Scan(&report.ByCategory).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "build report failed"))
		return
	}

	var budget models.Budget
	if err := database.DB.Where("user_id = ?", userID).First(&budget).Error; err == nil {
		report.Budget = &budget
	}

	Success(c, report)
}
