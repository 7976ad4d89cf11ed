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

func accountRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	h := NewAccountHandler()
	router.POST("/accounts", h.Create)
	router.GET("/accounts", h.List)
	router.PUT("/accounts/balance", h.UpdateBalance)
	return router
}

func TestAccountHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `accounts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{"account_type":"checking","balance":1000}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "account created", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Create_MissingType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"balance":1000}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestAccountHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "account_type", "balance", "created_at", "updated_at"}).
			AddRow(2, 1, "savings", "2500", time.Now(), time.Now()).
			AddRow(1, 1, "checking", "1000", time.Now(), time.Now()))

	req := httptest.NewRequest("GET", "/accounts", nil)
	w := httptest.NewRecorder()
	accountRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data []struct {
			ID          uint   `json:"id"`
			AccountType string `json:"account_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "savings", resp.Data[0].AccountType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_UpdateBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WithArgs(uint(1), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "account_type", "balance", "created_at", "updated_at"}).
			AddRow(1, 1, "checking", "1000", time.Now(), time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET `balance`=\\?").
		WithArgs("1500", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"account_id":1,"balance":1500}`
	req := httptest.NewRequest("PUT", "/accounts/balance", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_UpdateBalance_NotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WithArgs(uint(9), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	body := `{"account_id":9,"balance":1500}`
	req := httptest.NewRequest("PUT", "/accounts/balance", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter(1).ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
