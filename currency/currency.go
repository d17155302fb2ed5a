package currency

// Currency is static reference data identified by its three-letter code
type Currency struct {
	Code        string  `db:"code"`
	Description *string `db:"description"`
}
