package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	dynaport "github.com/travisjeffery/go-dynaport"
	"go.uber.org/zap"

	"payledger/account"
	"payledger/postgres"
	"payledger/testutil"
	"payledger/transfer"
)

func TestServer(t *testing.T) {
	s := NewSuite(t)
	suite.Run(t, s)
}

func NewSuite(t *testing.T) *Suite {
	return &Suite{
		Assertions: require.New(t),
	}
}

type Suite struct {
	suite.Suite
	*require.Assertions // default to require behavior
	db                  *sqlx.DB
	server              *http.Server
	baseURL             string
}

func (s *Suite) SetupSuite() {
	// load environment
	err := godotenv.Load("../.env")
	s.NoError(err)

	config, err := postgres.Parse()
	s.NoError(err)

	db, err := postgres.Connect(config)
	s.NoError(err)
	s.db = db

	accounts, err := account.NewPostgresRepo(db)
	s.NoError(err)

	payments, err := transfer.NewPostgresPaymentRepo(db)
	s.NoError(err)

	engine, err := transfer.NewEngine(&transfer.Config{
		DB:       db,
		Accounts: accounts,
		Logger:   zap.NewNop(),
	})
	s.NoError(err)

	ports := dynaport.Get(1)
	addr := fmt.Sprintf("127.0.0.1:%d", ports[0])
	s.baseURL = fmt.Sprintf("http://%s/api/v1", addr)

	s.server = NewHTTPServer(addr, &Config{
		Engine:   engine,
		Accounts: accounts,
		Payments: payments,
		Logger:   zap.NewNop(),
	})

	l, err := net.Listen("tcp", addr)
	s.NoError(err)
	go s.server.Serve(l)
}

func (s *Suite) SetupTest() {
	s.NoError(testutil.Seed(s.db))
}

func (s *Suite) TearDownSuite() {
	s.NoError(s.server.Close())
	s.NoError(s.db.Close())
}

func (s *Suite) postTransfer(body map[string]interface{}) *http.Response {
	b, err := json.Marshal(body)
	s.NoError(err)

	res, err := http.Post(s.baseURL+"/transfer/create/", "application/json", bytes.NewReader(b))
	s.NoError(err)
	return res
}

func (s *Suite) decode(res *http.Response, v interface{}) {
	defer res.Body.Close()
	s.NoError(json.NewDecoder(res.Body).Decode(v))
}

func (s *Suite) TestCreateTransfer() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "bob",
		"amount":       "50.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusCreated, res.StatusCode)

	var created transactionResponse
	s.decode(res, &created)
	s.NotZero(created.ID)
	s.Equal("john", created.FromAccount)
	s.Equal("bob", created.ToAccount)
	s.Equal(transfer.StateSucceeded, created.State)
	s.True(created.Amount.Equal(decimal.RequireFromString("50.00")))

	// balances visible through the query surface
	res, err := http.Get(s.baseURL + "/accounts/john/")
	s.NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var john accountResponse
	s.decode(res, &john)
	s.True(john.Balance.Equal(decimal.RequireFromString("50.00")))
	s.Equal("USD", john.Currency)
}

func (s *Suite) TestCreateTransferCurrencyMismatch() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "alice",
		"amount":       "50.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusExpectationFailed, res.StatusCode)

	var body errorResponse
	s.decode(res, &body)
	s.NotEmpty(body.Error)
}

func (s *Suite) TestCreateTransferInsufficientFunds() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "bob",
		"amount":       "101.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *Suite) TestCreateTransferUnknownAccount() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": testutil.NewUUID(),
		"to_account":   "bob",
		"amount":       "10.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *Suite) TestCreateTransferInvalidAmount() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "bob",
		"amount":       "-5.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusBadRequest, res.StatusCode)

	// more decimal places than the ledger scale
	res = s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "bob",
		"amount":       "50.005",
		"currency":     "USD",
	})
	s.Equal(http.StatusBadRequest, res.StatusCode)

	res = s.postTransfer(map[string]interface{}{
		"to_account": "bob",
	})
	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *Suite) TestListAccounts() {
	res, err := http.Get(s.baseURL + "/accounts/")
	s.NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var accounts []accountResponse
	s.decode(res, &accounts)
	s.Len(accounts, len(testutil.Fixtures))

	res, err = http.Get(s.baseURL + "/accounts/?currency=EUR")
	s.NoError(err)
	s.decode(res, &accounts)
	s.Len(accounts, 2)
}

func (s *Suite) TestGetAccountNotFound() {
	res, err := http.Get(s.baseURL + "/accounts/" + testutil.NewUUID() + "/")
	s.NoError(err)
	s.Equal(http.StatusNotFound, res.StatusCode)
}

func (s *Suite) TestListPayments() {
	res := s.postTransfer(map[string]interface{}{
		"from_account": "john",
		"to_account":   "bob",
		"amount":       "25.00",
		"currency":     "USD",
	})
	s.Equal(http.StatusCreated, res.StatusCode)

	res, err := http.Get(s.baseURL + "/payments/")
	s.NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var payments []paymentResponse
	s.decode(res, &payments)
	s.Len(payments, 2)

	res, err = http.Get(s.baseURL + "/payments/?direction=incoming&account=bob")
	s.NoError(err)
	s.decode(res, &payments)
	s.Len(payments, 1)

	p := payments[0]
	s.Equal(transfer.DirectionIncoming, p.Direction)
	s.Equal("bob", p.Account)
	s.NotNil(p.FromAccount)
	s.Equal("john", *p.FromAccount)
	// the receiving side never names a to_account
	s.Nil(p.ToAccount)
	s.True(p.Amount.Equal(decimal.RequireFromString("25.00")))
}
