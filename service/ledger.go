package service

import (
	"errors"
	"fmt"
	"time"

	"budgetbuddy/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrTransactionNotFound is returned when an (id, owner) pair does not
// resolve to a transaction. A missing row and a row owned by someone else
// are deliberately indistinguishable.
var ErrTransactionNotFound = errors.New("transaction not found or unauthorized")

// Ledger keeps account balances consistent with the transactions linked
// to them. Invariant: after any committed operation, an account's balance
// equals the signed sum of its linked transactions. Balance mutations are
// always additive SQL expressions issued inside the same database
// transaction as the row mutation, so a failure on either side rolls both
// back.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger over the given database handle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// TransactionInput carries the caller-supplied fields of a transaction.
type TransactionInput struct {
	Amount    decimal.Decimal
	Category  string
	Type      string
	Date      time.Time
	Note      string
	AccountID *uint
}

// signedDelta is the balance contribution of an amount with the given
// type: +amount for income, -amount for expense.
func signedDelta(txType string, amount decimal.Decimal) decimal.Decimal {
	if txType == models.TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

// adjustBalance adds delta to the account's balance as a single additive
// statement, so concurrent adjustments cannot lose updates.
func adjustBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	return tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

// CreateTransaction persists a new transaction and, when it is linked to
// an account, applies its signed amount to that account's balance.
func (l *Ledger) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	txn := models.Transaction{
		UserID:    userID,
		AccountID: in.AccountID,
		Amount:    in.Amount,
		Category:  in.Category,
		Type:      in.Type,
		Date:      in.Date,
		Note:      in.Note,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		if txn.AccountID != nil {
			return adjustBalance(tx, *txn.AccountID, txn.SignedAmount())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"type":           txn.Type,
	}).Debug("transaction created")
	return &txn, nil
}

// UpdateTransaction replaces a transaction's fields and reconciles the
// affected account balances. Four cases, keyed on the old and new account
// links:
//
//  1. moved between accounts: reverse the old delta on the old account,
//     apply the new delta on the new one
//  2. same account: apply only the net adjustment (new - old)
//  3. newly linked: apply the new delta, nothing to reverse
//  4. unlinked: reverse the old delta, nothing to credit
func (l *Ledger) UpdateTransaction(id, userID uint, in TransactionInput) (*models.Transaction, error) {
	var txn models.Transaction

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var original models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		oldAccountID := original.AccountID
		oldDelta := original.SignedAmount()
		newDelta := signedDelta(in.Type, in.Amount)

		txn = original
		txn.Amount = in.Amount
		txn.Category = in.Category
		txn.Type = in.Type
		txn.Date = in.Date
		txn.Note = in.Note
		txn.AccountID = in.AccountID

		if err := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]interface{}{
				"amount":     in.Amount,
				"category":   in.Category,
				"type":       in.Type,
				"date":       in.Date,
				"note":       in.Note,
				"account_id": in.AccountID,
			}).Error; err != nil {
			return err
		}

		switch {
		case oldAccountID != nil && (in.AccountID == nil || *in.AccountID != *oldAccountID):
			// cases 1 and 4: the old account gives the contribution back
			if err := adjustBalance(tx, *oldAccountID, oldDelta.Neg()); err != nil {
				return err
			}
			if in.AccountID != nil {
				return adjustBalance(tx, *in.AccountID, newDelta)
			}
		case oldAccountID != nil:
			// case 2: net adjustment only
			return adjustBalance(tx, *oldAccountID, newDelta.Sub(oldDelta))
		case in.AccountID != nil:
			// case 3
			return adjustBalance(tx, *in.AccountID, newDelta)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction and reverses its contribution
// to the linked account's balance, if any.
func (l *Ledger) DeleteTransaction(id, userID uint) error {
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if err := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}

		if txn.AccountID != nil {
			return adjustBalance(tx, *txn.AccountID, txn.SignedAmount().Neg())
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Debug("transaction deleted")
	return nil
}

// ListTransactions returns all of a user's transactions, newest first.
// Listing has no side effects; calling it twice without an intervening
// mutation yields identical results.
func (l *Ledger) ListTransactions(userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := l.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
