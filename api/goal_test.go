package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewGoalHandler()
	router.POST("/goals", h.Create)
	router.GET("/goals", h.List)
	router.DELETE("/goals/:id", h.Delete)
	return router
}

func TestGoalHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `financial_goals`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"goal_name":"Vacation","target_amount":5000,"current_savings":500,"target_date":"2025-06-01"}`
	req := httptest.NewRequest("POST", "/goals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	goalRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_Create_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"goal_name":"Vacation","target_amount":5000,"target_date":"next summer"}`
	req := httptest.NewRequest("POST", "/goals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	goalRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestGoalHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `financial_goals`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "goal_name", "target_amount", "current_savings",
			"target_date", "created_at", "updated_at",
		}).
			AddRow(1, 1, "Vacation", "5000", "500", time.Now(), time.Now(), time.Now()).
			AddRow(2, 1, "Car", "12000", "0", time.Now(), time.Now(), time.Now()))

	req := httptest.NewRequest("GET", "/goals", nil)
	w := httptest.NewRecorder()
	goalRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []struct {
			GoalName string `json:"goal_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Vacation", resp.Data[0].GoalName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `financial_goals`").
		WithArgs(uint(7), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req := httptest.NewRequest("DELETE", "/goals/7", nil)
	w := httptest.NewRecorder()
	goalRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
