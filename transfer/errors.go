package transfer

import (
	"errors"

	"payledger/account"
)

// The closed set of failure kinds a transfer can surface.
// Callers branch with errors.Is; details are wrapped with %w at the
// point of failure. The boundary layer owns any wire-protocol mapping.
var (
	// ErrAccountNotFound indicates an account id did not resolve. Aliased
	// from the account store so both spellings match with errors.Is.
	ErrAccountNotFound = account.ErrNotFound
	// ErrCurrencyMismatch indicates one side of the transfer holds a
	// currency different from the payment currency.
	ErrCurrencyMismatch = errors.New("different currencies are not supported")
	// ErrInsufficientFunds indicates the source balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates a zero or negative transfer amount.
	ErrInvalidAmount = errors.New("transfer amount must be positive")
	// ErrInvariantViolation indicates the engine broke its own contract.
	// It is logged with full context and never returned to callers (see ErrProcessing).
	ErrInvariantViolation = errors.New("ledger invariant violated")
	// ErrProcessing indicates an unexpected failure inside the atomic phase.
	// Every write in the phase has been rolled back; the whole call is safe to retry.
	ErrProcessing = errors.New("error processing transaction")
)
