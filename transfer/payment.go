package transfer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction tells whether a payment credited or debited the account it belongs to
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Payment is a per-account projection of a succeeded Transaction.
// An incoming payment names its sender in FromAccountID and leaves
// ToAccountID nil; an outgoing payment does the reverse. Exactly two
// payments exist per succeeded transaction, one per side.
type Payment struct {
	ID            int64           `db:"id"`
	TransactionID int64           `db:"transaction_id"`
	Direction     Direction       `db:"direction"`
	AccountID     string          `db:"account_id"`
	FromAccountID *string         `db:"from_account_id"`
	ToAccountID   *string         `db:"to_account_id"`
	Amount        decimal.Decimal `db:"amount"`
}

// checks the direction/counterparty invariant at construction time,
// before the row can reach storage
func (p *Payment) validate() error {
	switch p.Direction {
	case DirectionIncoming:
		if p.FromAccountID == nil || p.ToAccountID != nil {
			return fmt.Errorf("%w: incoming payment for %s must name only its sender", ErrInvariantViolation, p.AccountID)
		}
	case DirectionOutgoing:
		if p.ToAccountID == nil || p.FromAccountID != nil {
			return fmt.Errorf("%w: outgoing payment for %s must name only its receiver", ErrInvariantViolation, p.AccountID)
		}
	default:
		return fmt.Errorf("%w: unknown payment direction %q", ErrInvariantViolation, p.Direction)
	}

	return nil
}

// NewIncomingPayment builds the receiver-side projection of a succeeded transaction
func NewIncomingPayment(t *Transaction) (*Payment, error) {
	from := t.FromAccountID
	p := &Payment{
		TransactionID: t.ID,
		Direction:     DirectionIncoming,
		AccountID:     t.ToAccountID,
		FromAccountID: &from,
		Amount:        t.Amount,
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewOutgoingPayment builds the sender-side projection of a succeeded transaction
func NewOutgoingPayment(t *Transaction) (*Payment, error) {
	to := t.ToAccountID
	p := &Payment{
		TransactionID: t.ID,
		Direction:     DirectionOutgoing,
		AccountID:     t.FromAccountID,
		ToAccountID:   &to,
		Amount:        t.Amount,
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProjectPayments derives the ledger pair for a succeeded transaction.
// Both payments are built before either is stored so a malformed pair can
// never be half written.
func ProjectPayments(t *Transaction) (*Payment, *Payment, error) {
	if t.State != StateSucceeded {
		return nil, nil, fmt.Errorf("%w: cannot project payments for a %s transaction", ErrInvariantViolation, t.State)
	}

	incoming, err := NewIncomingPayment(t)
	if err != nil {
		return nil, nil, err
	}
	outgoing, err := NewOutgoingPayment(t)
	if err != nil {
		return nil, nil, err
	}

	return incoming, outgoing, nil
}
