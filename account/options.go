package account

// AccountOptions represent options that can be used to configure a Find operation
type AccountOptions struct {
	// filters accounts that match any id in this slice
	IDs []string
	// filters accounts held in this currency
	CurrencyCode string
}

func NewAccountOptions() *AccountOptions {
	return &AccountOptions{}
}

func (this *AccountOptions) SetIDs(v ...string) *AccountOptions {
	this.IDs = v
	return this
}

func (this *AccountOptions) SetCurrencyCode(v string) *AccountOptions {
	this.CurrencyCode = v
	return this
}
