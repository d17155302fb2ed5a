package postgres

import "github.com/jmoiron/sqlx"

// creates the four ledger relations in dependency order
func createTables(db *sqlx.DB) error {
	var schema = `
	CREATE TABLE IF NOT EXISTS currency (
	code varchar(3) PRIMARY KEY,
	description text
	                         );

	CREATE TABLE IF NOT EXISTS account (
	id text PRIMARY KEY,
	balance NUMERIC(15, 2) DEFAULT 0 NOT NULL,
	currency_code varchar(3) NOT NULL REFERENCES currency (code)
	                         );

	CREATE TABLE IF NOT EXISTS transaction (
	id bigserial PRIMARY KEY,
	from_account_id text NOT NULL REFERENCES account (id),
	to_account_id text NOT NULL REFERENCES account (id),
	amount NUMERIC(15, 2) NOT NULL,
	message text,
	state varchar(9) NOT NULL,
	created_at timestamp DEFAULT now()
	                         );

	CREATE TABLE IF NOT EXISTS payment (
	id bigserial PRIMARY KEY,
	transaction_id bigint NOT NULL REFERENCES transaction (id),
	direction varchar(8) NOT NULL,
	account_id text NOT NULL REFERENCES account (id),
	from_account_id text REFERENCES account (id),
	to_account_id text REFERENCES account (id),
	amount NUMERIC(15, 2) NOT NULL
	                         )
	`
	_, err := db.Exec(schema)
	if err != nil {
		return err
	}
	return nil
}
