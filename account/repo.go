package account

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the account id does not resolve to an account.
var ErrNotFound = errors.New("account not found")

// Data store abstraction for reading and mutating accounts.
// GetForUpdate, GetTx and ApplyDelta run inside the caller's transaction; the
// row lock taken by GetForUpdate is held until that transaction commits or
// rolls back.
type AccountRepo interface {
	Get(id string) (*Account, error)
	GetTx(tx *sqlx.Tx, id string) (*Account, error)
	GetForUpdate(tx *sqlx.Tx, id string) (*Account, error)
	ApplyDelta(tx *sqlx.Tx, id string, delta decimal.Decimal) error
	Find(opts ...*AccountOptions) ([]*Account, error)
	Create(*Account) error
}

var _ AccountRepo = (*PostgresAccountRepo)(nil)

type PostgresAccountRepo struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) (*PostgresAccountRepo, error) {
	r := &PostgresAccountRepo{db: db}

	return r, nil
}

func (r *PostgresAccountRepo) Get(id string) (*Account, error) {
	var result Account
	err := r.db.Get(&result, "SELECT * FROM account WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Reads an account inside the given transaction without locking it
func (r *PostgresAccountRepo) GetTx(tx *sqlx.Tx, id string) (*Account, error) {
	var result Account
	err := tx.Get(&result, "SELECT * FROM account WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Reads an account and takes an exclusive row lock on it.
// Blocks until any concurrent holder of the lock commits or rolls back.
func (r *PostgresAccountRepo) GetForUpdate(tx *sqlx.Tx, id string) (*Account, error) {
	var result Account
	err := tx.Get(&result, "SELECT * FROM account WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Applies a signed delta to the account balance additively in SQL.
// The update never round-trips the balance through application memory, so
// interleaved writers cannot lose each other's updates.
func (r *PostgresAccountRepo) ApplyDelta(tx *sqlx.Tx, id string, delta decimal.Decimal) error {
	res, err := tx.Exec("UPDATE account SET balance = balance + $1 WHERE id = $2", delta, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

func (r *PostgresAccountRepo) Create(account *Account) error {
	_, err := r.db.NamedExec(
		`INSERT INTO account (id, balance, currency_code) VALUES (:id, :balance, :currency_code)`,
		account,
	)

	return err
}

// Executes a Find operation and returns a list of Accounts
// The `accountOptions` can be used to specify options for the operation
func (r *PostgresAccountRepo) Find(accountOptions ...*AccountOptions) ([]*Account, error) {
	var result []*Account
	// build query
	query := "SELECT * FROM account"

	if len(accountOptions) == 0 {
		err := r.db.Select(&result, query)
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	opt := accountOptions[0]

	var where []string
	namedParams := make(map[string]interface{})

	if len(opt.IDs) > 0 {
		where = append(where, "id in (:id)")
		namedParams["id"] = opt.IDs
	}
	if opt.CurrencyCode != "" {
		where = append(where, "currency_code = :currency_code")
		namedParams["currency_code"] = opt.CurrencyCode
	}

	if len(where) > 0 {
		query = fmt.Sprintf("%s WHERE %s",
			query,
			strings.Join(where, " AND "),
		)
	}

	query, args, err := sqlx.Named(query, namedParams)
	if err != nil {
		return nil, err
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)
	err = r.db.Select(&result, query, args...)
	if err != nil {
		return nil, err
	}

	return result, nil
}
