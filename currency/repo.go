package currency

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound indicates the currency code is not registered.
var ErrNotFound = errors.New("currency not found")

// Data store abstraction for looking up currencies
type CurrencyRepo interface {
	Get(code string) (*Currency, error)
	Find() ([]*Currency, error)
	Create(*Currency) error
}

var _ CurrencyRepo = (*PostgresCurrencyRepo)(nil)

type PostgresCurrencyRepo struct {
	db *sqlx.DB
}

func NewPostgresRepo(db *sqlx.DB) (*PostgresCurrencyRepo, error) {
	r := &PostgresCurrencyRepo{db: db}

	return r, nil
}

func (r *PostgresCurrencyRepo) Get(code string) (*Currency, error) {
	var result Currency
	err := r.db.Get(&result, "SELECT * FROM currency WHERE code = $1", code)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *PostgresCurrencyRepo) Find() ([]*Currency, error) {
	var result []*Currency
	err := r.db.Select(&result, "SELECT * FROM currency ORDER BY code")
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Ensure registers the given reference codes, skipping any that already exist
func Ensure(repo CurrencyRepo, codes ...string) error {
	for _, code := range codes {
		if err := repo.Create(&Currency{Code: code}); err != nil {
			return fmt.Errorf("registering currency %s: %v", code, err)
		}
	}

	return nil
}

// Registers a currency, ignoring codes that already exist.
// The engine never calls this; reference data is seeded out-of-band.
func (r *PostgresCurrencyRepo) Create(currency *Currency) error {
	_, err := r.db.NamedExec(
		`INSERT INTO currency (code, description) VALUES (:code, :description) ON CONFLICT (code) DO NOTHING`,
		currency,
	)

	return err
}
