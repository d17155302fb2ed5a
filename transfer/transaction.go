package transfer

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the outcome of a transfer attempt
type State string

const (
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Transaction is the durable record of one transfer attempt.
// It is written exactly once, by the engine, and never updated.
type Transaction struct {
	ID            int64           `db:"id"`
	FromAccountID string          `db:"from_account_id"`
	ToAccountID   string          `db:"to_account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Message       *string         `db:"message"`
	State         State           `db:"state"`
	CreatedAt     time.Time       `db:"created_at"`
}
