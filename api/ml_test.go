package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetbuddy/config"
	"budgetbuddy/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mlRouter(userID uint, baseURL string) *gin.Engine {
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewMLHandler(service.NewMLClient(&config.MLConfig{BaseURL: baseURL, TimeoutSeconds: 5}))
	router.GET("/ml/health", h.Health)
	router.POST("/ml/train", h.Train)
	router.GET("/ml/predictions", h.Predictions)
	router.POST("/ml/goals/reverse-plan", h.ReversePlan)
	router.GET("/ml/insights/summary", h.InsightsSummary)
	return router
}

func TestMLHandler_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	req := httptest.NewRequest("GET", "/ml/health", nil)
	w := httptest.NewRecorder()
	mlRouter(1, srv.URL).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMLHandler_Health_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	req := httptest.NewRequest("GET", "/ml/health", nil)
	w := httptest.NewRecorder()
	mlRouter(1, srv.URL).ServeHTTP(w, req)

	assert.Equal(t, 503, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestMLHandler_Train_NoTransactions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	req := httptest.NewRequest("POST", "/ml/train", nil)
	w := httptest.NewRecorder()
	mlRouter(1, "http://unused").ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "no transactions")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMLHandler_Predictions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "account_id", "amount", "category", "type",
			"date", "note", "created_at", "updated_at",
		}).AddRow(1, 1, 5, "100", "Salary", "income", time.Now(), "", time.Now(), time.Now()))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/1", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("months"))
		w.Write([]byte(`{"predictions":[1,2,3]}`))
	}))
	defer srv.Close()

	req := httptest.NewRequest("GET", "/ml/predictions?months=3", nil)
	w := httptest.NewRecorder()
	mlRouter(1, srv.URL).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "predictions")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMLHandler_ReversePlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/goals/reverse-plan", r.URL.Path)
		w.Write([]byte(`{"monthly_savings":250.5,"feasible":true,"message":"on track"}`))
	}))
	defer srv.Close()

	body := `{"target_amount":10000,"current_savings":2000,"target_date":"2026-06-01"}`
	req := httptest.NewRequest("POST", "/ml/goals/reverse-plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mlRouter(1, srv.URL).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "250.5")
}

func TestMLHandler_ReversePlan_BadDate(t *testing.T) {
	body := `{"target_amount":10000,"current_savings":2000,"target_date":"June 2026"}`
	req := httptest.NewRequest("POST", "/ml/goals/reverse-plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mlRouter(1, "http://unused").ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
