package currency

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"payledger/postgres"
)

func TestCurrencyRepo(t *testing.T) {
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
	repo                CurrencyRepo
	db                  *sqlx.DB
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

	repo, err := NewPostgresRepo(db)
	s.NoError(err)

	s.repo = repo
}

func (s *Suite) SetupTest() {
	// currency is referenced by every other relation, wipe in dependency order
	for _, stmt := range []string{
		"DELETE FROM payment",
		"DELETE FROM transaction",
		"DELETE FROM account",
		"DELETE FROM currency",
	} {
		s.db.MustExec(stmt)
	}
}

func (s *Suite) TearDownSuite() {
	s.NoError(s.db.Close())
}

func (s *Suite) TestCreateAndGet() {
	description := "United States dollar"
	want := &Currency{Code: "USD", Description: &description}
	s.NoError(s.repo.Create(want))

	// creating the same code again is a no-op
	s.NoError(s.repo.Create(&Currency{Code: "USD"}))

	got, err := s.repo.Get("USD")
	s.NoError(err)
	s.Equal(want, got)
}

func (s *Suite) TestGetNotFound() {
	_, err := s.repo.Get("XXX")
	s.ErrorIs(err, ErrNotFound)
}

func (s *Suite) TestEnsure() {
	s.NoError(Ensure(s.repo, "USD", "EUR"))
	// re-registering existing codes is a no-op
	s.NoError(Ensure(s.repo, "USD", "GBP"))

	got, err := s.repo.Find()
	s.NoError(err)
	s.Len(got, 3)
}

func (s *Suite) TestFind() {
	for _, code := range []string{"USD", "EUR", "GBP"} {
		s.NoError(s.repo.Create(&Currency{Code: code}))
	}

	got, err := s.repo.Find()
	s.NoError(err)
	s.Len(got, 3)
	// ordered by code
	s.Equal("EUR", got[0].Code)
	s.Equal("GBP", got[1].Code)
	s.Equal("USD", got[2].Code)
}
