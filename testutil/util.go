package testutil

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func NewUUID() string {
	id := uuid.New()
	return id.String()
}

// account fixtures shared by the test suites
type AccountFixture struct {
	ID       string
	Currency string
	Balance  string
}

var Fixtures = []AccountFixture{
	{ID: "john", Currency: "USD", Balance: "100.00"},
	{ID: "alice", Currency: "EUR", Balance: "200.00"},
	{ID: "bob", Currency: "USD", Balance: "50.00"},
	{ID: "mark", Currency: "EUR", Balance: "10.00"},
}

// Seed wipes the ledger relations and inserts the shared fixtures
func Seed(db *sqlx.DB) error {
	wipe := []string{
		"DELETE FROM payment",
		"DELETE FROM transaction",
		"DELETE FROM account",
		"DELETE FROM currency",
	}
	for _, stmt := range wipe {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, code := range []string{"USD", "EUR"} {
		if _, err := db.Exec("INSERT INTO currency (code) VALUES ($1)", code); err != nil {
			return err
		}
	}

	for _, f := range Fixtures {
		_, err := db.Exec(
			"INSERT INTO account (id, balance, currency_code) VALUES ($1, $2, $3)",
			f.ID, f.Balance, f.Currency,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
