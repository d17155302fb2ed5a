package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payledger/account"
	"payledger/transfer"
	"payledger/transfer/options"
)

// request/response shapes are the durable wire contract; field names and
// nullability follow the persisted relations
type createTransferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type transactionResponse struct {
	ID          int64           `json:"id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Message     *string         `json:"message"`
	State       transfer.State  `json:"state"`
}

type accountResponse struct {
	ID       string          `json:"id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// from_account/to_account are omitted when null, matching the persisted
// nullability rule for each direction
type paymentResponse struct {
	Account     string             `json:"account"`
	FromAccount *string            `json:"from_account,omitempty"`
	ToAccount   *string            `json:"to_account,omitempty"`
	Amount      decimal.Decimal    `json:"amount"`
	Direction   transfer.Direction `json:"direction"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *httpServer) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "provided data is not valid"})
		return
	}
	if req.FromAccount == "" || req.ToAccount == "" || req.Currency == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "provided data is not valid"})
		return
	}

	t, err := s.engine.Execute(r.Context(), req.FromAccount, req.ToAccount, req.Amount, req.Currency)
	if err != nil {
		status := statusForError(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			// opaque by contract
			message = transfer.ErrProcessing.Error()
		}
		s.writeJSON(w, status, errorResponse{Error: message})
		return
	}

	s.writeJSON(w, http.StatusCreated, transactionResponse{
		ID:          t.ID,
		FromAccount: t.FromAccountID,
		ToAccount:   t.ToAccountID,
		Amount:      t.Amount,
		Message:     t.Message,
		State:       t.State,
	})
}

func (s *httpServer) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	opts := account.NewAccountOptions()
	if v := r.URL.Query().Get("currency"); v != "" {
		opts.SetCurrencyCode(v)
	}

	accounts, err := s.accounts.Find(opts)
	if err != nil {
		s.logger.Error("failed to list accounts", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	result := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, accountResponse{ID: a.ID, Balance: a.Balance, Currency: a.CurrencyCode})
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *httpServer) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := s.accounts.Get(id)
	if errors.Is(err, account.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("failed to get account", zap.String("id", id), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	s.writeJSON(w, http.StatusOK, accountResponse{ID: a.ID, Balance: a.Balance, Currency: a.CurrencyCode})
}

func (s *httpServer) handleListPayments(w http.ResponseWriter, r *http.Request) {
	opts := options.NewPaymentOptions()
	query := r.URL.Query()
	if v := query.Get("account"); v != "" {
		opts.SetAccountIDs(v)
	}
	if v := query.Get("from_account"); v != "" {
		opts.SetFromAccountIDs(v)
	}
	if v := query.Get("to_account"); v != "" {
		opts.SetToAccountIDs(v)
	}
	if v := query.Get("direction"); v != "" {
		opts.SetDirections(v)
	}

	payments, err := s.payments.Find(opts)
	if err != nil {
		s.logger.Error("failed to list payments", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	result := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, paymentResponse{
			Account:     p.AccountID,
			FromAccount: p.FromAccountID,
			ToAccount:   p.ToAccountID,
			Amount:      p.Amount,
			Direction:   p.Direction,
		})
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *httpServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}
