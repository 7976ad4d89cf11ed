package service

import (
	"errors"
	"testing"
	"time"

	"budgetbuddy/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLedger(t *testing.T) (*Ledger, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewLedger(gormDB), mock, func() { sqlDB.Close() }
}

func uintPtr(v uint) *uint { return &v }

func txnColumns() []string {
	return []string{"id", "user_id", "account_id", "amount", "category", "type", "date", "note", "created_at", "updated_at"}
}

func TestLedger_CreateTransaction_Income(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("100", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ledger.CreateTransaction(1, TransactionInput{
		Amount:    decimal.NewFromInt(100),
		Category:  "Salary",
		Type:      models.TransactionTypeIncome,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		AccountID: uintPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), txn.ID)
	assert.True(t, txn.SignedAmount().Equal(decimal.NewFromInt(100)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_CreateTransaction_Expense(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("-40", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ledger.CreateTransaction(1, TransactionInput{
		Amount:    decimal.NewFromInt(40),
		Category:  "Food",
		Type:      models.TransactionTypeExpense,
		Date:      time.Date(2024, 1, 16, 0, 0, 0, 0, time.Local),
		AccountID: uintPtr(5),
	})
	require.NoError(t, err)
	assert.True(t, txn.SignedAmount().Equal(decimal.NewFromInt(-40)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_CreateTransaction_Unlinked(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	// no account linked: the insert is the only statement
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	txn, err := ledger.CreateTransaction(1, TransactionInput{
		Amount:   decimal.NewFromInt(10),
		Category: "Other",
		Type:     models.TransactionTypeExpense,
		Date:     time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, txn.AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_CreateTransaction_BalanceFailureRollsBack(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := ledger.CreateTransaction(1, TransactionInput{
		Amount:    decimal.NewFromInt(100),
		Category:  "Salary",
		Type:      models.TransactionTypeIncome,
		Date:      time.Now(),
		AccountID: uintPtr(5),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdateTransaction_SameAccountAmountChange(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(1, 1, 5, "100", "Salary", "income", time.Now(), "", time.Now(), time.Now()))
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// net adjustment only: 150 - 100 = +50
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("50", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ledger.UpdateTransaction(1, 1, TransactionInput{
		Amount:    decimal.NewFromInt(150),
		Category:  "Salary",
		Type:      models.TransactionTypeIncome,
		Date:      time.Now(),
		AccountID: uintPtr(5),
	})
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(150)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdateTransaction_MoveBetweenAccounts(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(1, 1, 5, "100", "Salary", "income", time.Now(), "", time.Now(), time.Now()))
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// account 5 gives the +100 back, account 7 receives it
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("-100", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("100", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ledger.UpdateTransaction(1, 1, TransactionInput{
		Amount:    decimal.NewFromInt(100),
		Category:  "Salary",
		Type:      models.TransactionTypeIncome,
		Date:      time.Now(),
		AccountID: uintPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), *txn.AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdateTransaction_DetachFromAccount(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(1, 1, 5, "100", "Salary", "income", time.Now(), "", time.Now(), time.Now()))
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// only the reversal on the old account, nothing to credit
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("-100", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ledger.UpdateTransaction(1, 1, TransactionInput{
		Amount:   decimal.NewFromInt(100),
		Category: "Salary",
		Type:     models.TransactionTypeIncome,
		Date:     time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, txn.AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdateTransaction_AttachToAccount(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(1, 1, nil, "60", "Food", "expense", time.Now(), "", time.Now(), time.Now()))
	mock.ExpectExec("UPDATE `transactions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("-60", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := ledger.UpdateTransaction(1, 1, TransactionInput{
		Amount:    decimal.NewFromInt(60),
		Category:  "Food",
		Type:      models.TransactionTypeExpense,
		Date:      time.Now(),
		AccountID: uintPtr(7),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_UpdateTransaction_NotFoundOrUnauthorized(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	// owner 2 asks for owner 1's transaction: no row, no balance change
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(txnColumns()))
	mock.ExpectRollback()

	_, err := ledger.UpdateTransaction(1, 2, TransactionInput{
		Amount:    decimal.NewFromInt(1),
		Category:  "Food",
		Type:      models.TransactionTypeExpense,
		Date:      time.Now(),
		AccountID: uintPtr(5),
	})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_DeleteTransaction_ReversesBalance(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(1, 1, 5, "40", "Food", "expense", time.Now(), "", time.Now(), time.Now()))
	mock.ExpectExec("DELETE FROM `transactions`").
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// deleting a -40 expense credits the account with +40
	mock.ExpectExec("UPDATE `accounts` SET `balance`=balance \\+ \\?").
		WithArgs("40", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ledger.DeleteTransaction(1, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_DeleteTransaction_NotFoundOrUnauthorized(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE id = \\? AND user_id = \\?").
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows(txnColumns()))
	mock.ExpectRollback()

	err := ledger.DeleteTransaction(99, 1)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_ListTransactions(t *testing.T) {
	ledger, mock, cleanup := setupLedger(t)
	defer cleanup()

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows(txnColumns()).
			AddRow(2, 1, 5, "40", "Food", "expense", time.Now(), "", time.Now(), time.Now()).
			AddRow(1, 1, 5, "100", "Salary", "income", time.Now(), "", time.Now(), time.Now())
	}

	// listing twice without a mutation yields identical result sets
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE user_id = \\?").
		WithArgs(1).WillReturnRows(rows())
	mock.ExpectQuery("SELECT \\* FROM `transactions` WHERE user_id = \\?").
		WithArgs(1).WillReturnRows(rows())

	first, err := ledger.ListTransactions(1)
	require.NoError(t, err)
	second, err := ledger.ListTransactions(1)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].Amount.Equal(second[0].Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignedDelta(t *testing.T) {
	assert.True(t, signedDelta("income", decimal.NewFromInt(10)).Equal(decimal.NewFromInt(10)))
	assert.True(t, signedDelta("expense", decimal.NewFromInt(10)).Equal(decimal.NewFromInt(-10)))
}
