package api

import (
	"fmt"
	"net/http"
	"time"

	"budgetbuddy/database"
	"budgetbuddy/middleware"
	"budgetbuddy/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves spreadsheet exports.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Transactions streams the user's transactions as an xlsx workbook.
// @Summary Export transactions
// @Description Download the user's transactions as an Excel file
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string false "filter from date (YYYY-MM-DD)"
// @Param end_date query string false "filter to date (YYYY-MM-DD)"
// @Success 200 {file} binary "xlsx file"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) Transactions(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if start := c.Query("start_date"); start != "" {
		query = query.Where("date >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("date <= ?", end)
	}

	var txns []models.Transaction
	if err := query.Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "load transactions failed"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Date", "Type", "Category", "Amount", "Account ID", "Note"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, txn := range txns {
		accountID := ""
		if txn.AccountID != nil {
			accountID = fmt.Sprintf("%d", *txn.AccountID)
		}
		values := []interface{}{
			txn.ID,
			txn.Date.Format("2006-01-02"),
			txn.Type,
			txn.Category,
			txn.Amount.InexactFloat64(),
			accountID,
			txn.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "build export failed"))
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
