package transfer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"payledger/transfer/options"
)

// Data store abstraction for querying transactions.
// Transactions are write-once facts owned by the engine; there is no
// public create path.
type TransactionRepo interface {
	FindById(id int64) (*Transaction, error)
	Find(opts ...*options.TransactionOptions) ([]*Transaction, error)
}

// Data store abstraction for querying payments
type PaymentRepo interface {
	Find(opts ...*options.PaymentOptions) ([]*Payment, error)
}

// insertTransaction persists a transaction inside the engine's atomic phase
// and fills in its generated id and timestamp
func insertTransaction(tx *sqlx.Tx, t *Transaction) error {
	rows, err := tx.NamedQuery(
		`INSERT INTO transaction (from_account_id, to_account_id, amount, message, state)
		VALUES (:from_account_id, :to_account_id, :amount, :message, :state)
		RETURNING id, created_at`,
		t,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		return sql.ErrNoRows
	}

	return rows.Scan(&t.ID, &t.CreatedAt)
}

// insertPayments appends a ledger pair in one statement so a partial
// projection cannot be written
func insertPayments(tx *sqlx.Tx, payments []*Payment) error {
	_, err := tx.NamedExec(
		`INSERT INTO payment (transaction_id, direction, account_id, from_account_id, to_account_id, amount)
		VALUES (:transaction_id, :direction, :account_id, :from_account_id, :to_account_id, :amount)`,
		payments,
	)

	return err
}

var _ TransactionRepo = (*PostgresTransactionRepo)(nil)

type PostgresTransactionRepo struct {
	db *sqlx.DB
}

func NewPostgresTransactionRepo(db *sqlx.DB) (*PostgresTransactionRepo, error) {
	r := &PostgresTransactionRepo{db: db}

	return r, nil
}

func (r *PostgresTransactionRepo) FindById(id int64) (*Transaction, error) {
	var result Transaction
	err := r.db.Get(&result, "SELECT * FROM transaction WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Executes a Find operation and returns a list of Transactions
// The `transactionOptions` can be used to specify options for the operation
func (r *PostgresTransactionRepo) Find(transactionOptions ...*options.TransactionOptions) ([]*Transaction, error) {
	var result []*Transaction
	// build query
	query := "SELECT * FROM transaction"

	if len(transactionOptions) == 0 {
		err := r.db.Select(&result, query)
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	opt := transactionOptions[0]
	filters := make(map[string]interface{})
	if len(opt.IDs) > 0 {
		filters["id"] = opt.IDs
	}
	if len(opt.FromAccountIDs) > 0 {
		filters["from_account_id"] = opt.FromAccountIDs
	}
	if len(opt.ToAccountIDs) > 0 {
		filters["to_account_id"] = opt.ToAccountIDs
	}
	if len(opt.States) > 0 {
		filters["state"] = opt.States
	}
	if opt.Amount != nil {
		filters["amount"] = opt.Amount
	}
	if opt.Timestamp != nil {
		filters["created_at"] = opt.Timestamp
	}

	where, args, err := buildWhere(query, filters, r.db)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&result, where, args...)
	if err != nil {
		return nil, err
	}

	return result, nil
}

var _ PaymentRepo = (*PostgresPaymentRepo)(nil)

type PostgresPaymentRepo struct {
	db *sqlx.DB
}

func NewPostgresPaymentRepo(db *sqlx.DB) (*PostgresPaymentRepo, error) {
	r := &PostgresPaymentRepo{db: db}

	return r, nil
}

// Executes a Find operation and returns a list of Payments
// The `paymentOptions` can be used to specify options for the operation
func (r *PostgresPaymentRepo) Find(paymentOptions ...*options.PaymentOptions) ([]*Payment, error) {
	var result []*Payment
	// build query
	query := "SELECT * FROM payment"

	if len(paymentOptions) == 0 {
		err := r.db.Select(&result, query)
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	opt := paymentOptions[0]
	filters := make(map[string]interface{})
	if len(opt.TransactionIDs) > 0 {
		filters["transaction_id"] = opt.TransactionIDs
	}
	if len(opt.AccountIDs) > 0 {
		filters["account_id"] = opt.AccountIDs
	}
	if len(opt.FromAccountIDs) > 0 {
		filters["from_account_id"] = opt.FromAccountIDs
	}
	if len(opt.ToAccountIDs) > 0 {
		filters["to_account_id"] = opt.ToAccountIDs
	}
	if len(opt.Directions) > 0 {
		filters["direction"] = opt.Directions
	}
	if opt.Amount != nil {
		filters["amount"] = opt.Amount
	}

	where, args, err := buildWhere(query, filters, r.db)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&result, where, args...)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// buildWhere compiles a filter map into a rebindable WHERE clause.
// Range filters become inclusive bounds, everything else an IN clause.
func buildWhere(query string, filters map[string]interface{}, db *sqlx.DB) (string, []interface{}, error) {
	var where []string
	namedParams := make(map[string]interface{})

	updateQueryParams := func(stmt, key string, value interface{}) {
		where = append(where, stmt)
		namedParams[key] = value
	}

	for columnName, arg := range filters {
		switch v := arg.(type) {
		case options.Range:
			var key string

			from, ok := v.From()
			if ok {
				key = columnName + "_from"
				fromStmt := fmt.Sprintf("%s >= :%s", columnName, key)
				updateQueryParams(fromStmt, key, from)
			}
			to, ok := v.To()
			if ok {
				key = columnName + "_to"
				toStmt := fmt.Sprintf("%s <= :%s", columnName, key)
				updateQueryParams(toStmt, key, to)
			}

		default:
			stmt := fmt.Sprintf("%s in (:%s)", columnName, columnName)
			updateQueryParams(stmt, columnName, v)
		}
	}

	if len(where) > 0 {
		query = fmt.Sprintf("%s WHERE %s",
			query,
			strings.Join(where, " AND "),
		)
	}

	query, args, err := sqlx.Named(query, namedParams)
	if err != nil {
		return "", nil, err
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	query = db.Rebind(query)

	return query, args, nil
}
