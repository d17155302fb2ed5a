package account

import (
	"github.com/shopspring/decimal"
)

// Account holds a balance in a single currency.
// The balance is only ever mutated by the transfer engine through ApplyDelta;
// it is never written from a value cached in application memory.
type Account struct {
	ID           string          `db:"id"`
	Balance      decimal.Decimal `db:"balance"`
	CurrencyCode string          `db:"currency_code"`
}

// Reports whether the account can take part in a payment denominated in the given currency
func (a *Account) CanUseCurrency(currencyCode string) bool {
	return a.CurrencyCode == currencyCode
}
