package options

// TransactionOptions represent options that can be used to configure a Find operation
type TransactionOptions struct {
	// filters transactions that match any id in this slice
	IDs []int64
	// filters transactions that match any account id in this slice, on either side
	FromAccountIDs []string
	ToAccountIDs   []string
	// filters transactions that match any state in this slice
	States []string
	// filters transactions that have an amount in this range (inclusive)
	Amount *DecimalRange
	// filters transactions that were created in this range (inclusive)
	Timestamp *TimeRange
}

func NewTransactionOptions() *TransactionOptions {
	return &TransactionOptions{}
}

func (this *TransactionOptions) SetIDs(v ...int64) *TransactionOptions {
	this.IDs = v
	return this
}

func (this *TransactionOptions) SetFromAccountIDs(v ...string) *TransactionOptions {
	this.FromAccountIDs = v
	return this
}

func (this *TransactionOptions) SetToAccountIDs(v ...string) *TransactionOptions {
	this.ToAccountIDs = v
	return this
}

func (this *TransactionOptions) SetStates(v ...string) *TransactionOptions {
	this.States = v
	return this
}

func (this *TransactionOptions) SetAmountRange(v *DecimalRange) *TransactionOptions {
	this.Amount = v
	return this
}

func (this *TransactionOptions) SetTimeRange(v *TimeRange) *TransactionOptions {
	this.Timestamp = v
	return this
}

// PaymentOptions represent options that can be used to configure a Find operation
type PaymentOptions struct {
	// filters payments belonging to any transaction id in this slice
	TransactionIDs []int64
	// filters payments projected onto any account id in this slice
	AccountIDs []string
	// filters payments by counterparty
	FromAccountIDs []string
	ToAccountIDs   []string
	// filters payments that match any direction in this slice
	Directions []string
	// filters payments that have an amount in this range (inclusive)
	Amount *DecimalRange
}

func NewPaymentOptions() *PaymentOptions {
	return &PaymentOptions{}
}

func (this *PaymentOptions) SetTransactionIDs(v ...int64) *PaymentOptions {
	this.TransactionIDs = v
	return this
}

func (this *PaymentOptions) SetAccountIDs(v ...string) *PaymentOptions {
	this.AccountIDs = v
	return this
}

func (this *PaymentOptions) SetFromAccountIDs(v ...string) *PaymentOptions {
	this.FromAccountIDs = v
	return this
}

func (this *PaymentOptions) SetToAccountIDs(v ...string) *PaymentOptions {
	this.ToAccountIDs = v
	return this
}

func (this *PaymentOptions) SetDirections(v ...string) *PaymentOptions {
	this.Directions = v
	return this
}

func (this *PaymentOptions) SetAmountRange(v *DecimalRange) *PaymentOptions {
	this.Amount = v
	return this
}
