package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"payledger/account"
	"payledger/transfer"
)

// Config used to create a new API server
type Config struct {
	Engine   *transfer.Engine
	Accounts account.AccountRepo
	Payments transfer.PaymentRepo
	Logger   *zap.Logger
}

// NewHTTPServer builds the API server on the given address.
// The surface is the transfer create endpoint plus read-only listings of
// accounts and payments; everything it serves is state written by the engine.
func NewHTTPServer(addr string, config *Config) *http.Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &httpServer{
		engine:   config.Engine,
		accounts: config.Accounts,
		payments: config.Payments,
		logger:   logger,
	}

	r := mux.NewRouter().StrictSlash(true)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/transfer/create/", s.handleCreateTransfer).Methods("POST")
	api.HandleFunc("/accounts/", s.handleListAccounts).Methods("GET")
	api.HandleFunc("/accounts/{id}/", s.handleGetAccount).Methods("GET")
	api.HandleFunc("/payments/", s.handleListPayments).Methods("GET")

	return &http.Server{
		Addr:    addr,
		Handler: r,
	}
}

type httpServer struct {
	engine   *transfer.Engine
	accounts account.AccountRepo
	payments transfer.PaymentRepo
	logger   *zap.Logger
}

// statusForError maps the engine's closed error set onto HTTP status codes.
// The core never sees these codes; the mapping lives only here.
func statusForError(err error) int {
	switch {
	case errors.Is(err, transfer.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, transfer.ErrCurrencyMismatch):
		return http.StatusExpectationFailed
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, transfer.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
