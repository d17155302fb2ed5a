package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payledger/account"
)

// AccountStore is the slice of the account repository the engine consumes.
// The tx-scoped methods participate in the engine's atomic phase; the lock
// taken by GetForUpdate is released when that phase commits or rolls back.
type AccountStore interface {
	Get(id string) (*account.Account, error)
	GetTx(tx *sqlx.Tx, id string) (*account.Account, error)
	GetForUpdate(tx *sqlx.Tx, id string) (*account.Account, error)
	ApplyDelta(tx *sqlx.Tx, id string, delta decimal.Decimal) error
}

// Config used to create a new Engine
type Config struct {
	DB       *sqlx.DB
	Accounts AccountStore
	Logger   *zap.Logger
}

// amounts and balances are NUMERIC(15, 2): two fractional digits leave
// room for thirteen integer digits
var maxAmount = decimal.New(1, 13)

// Engine validates and executes transfers. It is the only writer of
// account balances and of Transaction/Payment rows, and is safe for use
// from any number of goroutines: all shared state lives in the store.
type Engine struct {
	db       *sqlx.DB
	accounts AccountStore
	logger   *zap.Logger
}

func NewEngine(config *Config) (*Engine, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		db:       config.DB,
		accounts: config.Accounts,
		logger:   logger,
	}

	return e, nil
}

// Execute moves amount from one account to another in the given currency.
// It returns the committed Transaction, or one of the failure kinds in
// errors.go. Validation failures before the atomic phase never touch
// storage; an authoritative insufficient-funds rejection additionally
// commits a failed Transaction as an audit record.
func (e *Engine) Execute(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	// a sub-cent amount would be rounded per column by the additive updates,
	// letting the two sides of the transfer disagree
	if amount.Exponent() < -2 {
		return nil, fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidAmount, amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return nil, fmt.Errorf("%w: %s does not fit the ledger scale", ErrInvalidAmount, amount)
	}

	from, err := e.accounts.Get(fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := e.accounts.Get(toAccountID)
	if err != nil {
		return nil, err
	}

	if !from.CanUseCurrency(currencyCode) {
		return nil, fmt.Errorf("%w: withdrawal account %s holds %s, payment is in %s",
			ErrCurrencyMismatch, from.ID, from.CurrencyCode, currencyCode)
	}
	if !to.CanUseCurrency(currencyCode) {
		return nil, fmt.Errorf("%w: deposit account %s holds %s, payment is in %s",
			ErrCurrencyMismatch, to.ID, to.CurrencyCode, currencyCode)
	}

	// advisory pre-check: fail obviously-doomed transfers before taking the
	// row lock; the authoritative check happens again under lock
	if from.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: account %s", ErrInsufficientFunds, fromAccountID)
	}

	return e.executeLocked(ctx, fromAccountID, toAccountID, amount, currencyCode)
}

// executeLocked is the atomic phase. Everything here runs in one storage
// transaction: the source row lock, the balance re-check, both additive
// balance updates and the Transaction/Payment writes commit or roll back
// as a unit.
func (e *Engine) executeLocked(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string) (*Transaction, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	// only the source row is locked; credits never lock, so opposing
	// transfers between the same pair of accounts cannot deadlock
	from, err := e.accounts.GetForUpdate(tx, fromAccountID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, account.ErrNotFound) {
			return nil, err
		}
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	// the destination might have vanished since the pre-checks
	if _, err = e.accounts.GetTx(tx, toAccountID); err != nil {
		tx.Rollback()
		if errors.Is(err, account.ErrNotFound) {
			return nil, err
		}
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	// authoritative funds check: a concurrent transfer may have drained the
	// account after the advisory pre-check passed
	if from.Balance.LessThan(amount) {
		message := "insufficient funds"
		failed := &Transaction{
			FromAccountID: fromAccountID,
			ToAccountID:   toAccountID,
			Amount:        amount,
			Message:       &message,
			State:         StateFailed,
		}
		if err = insertTransaction(tx, failed); err != nil {
			tx.Rollback()
			return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
		}
		// the failed attempt is an audit record, so it must survive the rejection
		if err = tx.Commit(); err != nil {
			return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
		}

		return nil, fmt.Errorf("%w: account %s", ErrInsufficientFunds, fromAccountID)
	}

	if err = e.accounts.ApplyDelta(tx, fromAccountID, amount.Neg()); err != nil {
		tx.Rollback()
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}
	if err = e.accounts.ApplyDelta(tx, toAccountID, amount); err != nil {
		tx.Rollback()
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	t := &Transaction{
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		State:         StateSucceeded,
	}
	if err = insertTransaction(tx, t); err != nil {
		tx.Rollback()
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	incoming, outgoing, err := ProjectPayments(t)
	if err != nil {
		tx.Rollback()
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}
	if err = insertPayments(tx, []*Payment{incoming, outgoing}); err != nil {
		tx.Rollback()
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	if err = tx.Commit(); err != nil {
		return nil, e.processingError(err, fromAccountID, toAccountID, amount, currencyCode)
	}

	return t, nil
}

// processingError logs the underlying failure with full context and returns
// the opaque error callers see. Internal detail, invariant violations
// included, never leaves the engine.
func (e *Engine) processingError(err error, fromAccountID, toAccountID string, amount decimal.Decimal, currencyCode string) error {
	e.logger.Error("failed to process transfer",
		zap.String("from_account", fromAccountID),
		zap.String("to_account", toAccountID),
		zap.String("amount", amount.String()),
		zap.String("currency", currencyCode),
		zap.Error(err),
	)

	return ErrProcessing
}
