package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/reports", NewReportHandler().Get)
	return router
}

func TestReportHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT type, COALESCE\\(SUM\\(amount\\), 0\\) AS total FROM `transactions`").
		WithArgs(uint(1), "2024-01-01", "2024-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"type", "total"}).
			AddRow("income", "3000").
			AddRow("expense", "1200"))

	mock.ExpectQuery("SELECT category, type, COALESCE\\(SUM\\(amount\\), 0\\) AS total, COUNT\\(\\*\\) AS count FROM `transactions`").
		WithArgs(uint(1), "2024-01-01", "2024-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"category", "type", "total", "count"}).
			AddRow("Salary", "income", "3000", 1).
			AddRow("Food", "expense", "700", 12).
			AddRow("Transport", "expense", "500", 8))

	// no overall budget set, the report omits it
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	req := httptest.NewRequest("GET", "/reports?start_date=2024-01-01&end_date=2024-01-31", nil)
	w := httptest.NewRecorder()
	reportRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			TotalIncome  string `json:"total_income"`
			TotalExpense string `json:"total_expense"`
			Net          string `json:"net"`
			ByCategory   []struct {
				Category string `json:"category"`
				Total    string `json:"total"`
				Count    int64  `json:"count"`
			} `json:"by_category"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "3000", resp.Data.TotalIncome)
	assert.Equal(t, "1200", resp.Data.TotalExpense)
	assert.Equal(t, "1800", resp.Data.Net)
	require.Len(t, resp.Data.ByCategory, 3)
	assert.Equal(t, "Salary", resp.Data.ByCategory[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_Get_MissingPeriod(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/reports?start_date=2024-01-01", nil)
	w := httptest.NewRecorder()
	reportRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "required")
}

func TestReportHandler_Get_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/reports?start_date=Jan&end_date=2024-01-31", nil)
	w := httptest.NewRecorder()
	reportRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
