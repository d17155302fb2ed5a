package account

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"payledger/postgres"
	"payledger/testutil"
)

func TestAccountRepo(t *testing.T) {
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
	repo                AccountRepo
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
	s.NoError(testutil.Seed(s.db))
}

func (s *Suite) TearDownSuite() {
	s.NoError(s.db.Close())
}

func (s *Suite) TestGet() {
	got, err := s.repo.Get("john")
	s.NoError(err)

	s.Equal("john", got.ID)
	s.Equal("USD", got.CurrencyCode)
	s.True(got.Balance.Equal(decimal.RequireFromString("100.00")))
}

func (s *Suite) TestGetNotFound() {
	_, err := s.repo.Get(testutil.NewUUID())
	s.ErrorIs(err, ErrNotFound)
}

func (s *Suite) TestCreate() {
	id := testutil.NewUUID()
	want := &Account{
		ID:           id,
		Balance:      decimal.RequireFromString("12.34"),
		CurrencyCode: "EUR",
	}
	s.NoError(s.repo.Create(want))

	got, err := s.repo.Get(id)
	s.NoError(err)
	s.Equal(want.ID, got.ID)
	s.Equal(want.CurrencyCode, got.CurrencyCode)
	s.True(want.Balance.Equal(got.Balance))
}

func (s *Suite) TestApplyDelta() {
	tx, err := s.db.Beginx()
	s.NoError(err)

	s.NoError(s.repo.ApplyDelta(tx, "john", decimal.RequireFromString("-30.00")))
	s.NoError(s.repo.ApplyDelta(tx, "john", decimal.RequireFromString("5.50")))
	s.NoError(tx.Commit())

	got, err := s.repo.Get("john")
	s.NoError(err)
	s.True(got.Balance.Equal(decimal.RequireFromString("75.50")))
}

func (s *Suite) TestApplyDeltaRollback() {
	tx, err := s.db.Beginx()
	s.NoError(err)

	s.NoError(s.repo.ApplyDelta(tx, "john", decimal.RequireFromString("-30.00")))
	s.NoError(tx.Rollback())

	// nothing leaks out of a rolled back transaction
	got, err := s.repo.Get("john")
	s.NoError(err)
	s.True(got.Balance.Equal(decimal.RequireFromString("100.00")))
}

func (s *Suite) TestApplyDeltaNotFound() {
	tx, err := s.db.Beginx()
	s.NoError(err)
	defer tx.Rollback()

	err = s.repo.ApplyDelta(tx, testutil.NewUUID(), decimal.RequireFromString("1.00"))
	s.ErrorIs(err, ErrNotFound)
}

func (s *Suite) TestGetForUpdate() {
	tx, err := s.db.Beginx()
	s.NoError(err)
	defer tx.Rollback()

	got, err := s.repo.GetForUpdate(tx, "john")
	s.NoError(err)
	s.Equal("john", got.ID)

	_, err = s.repo.GetForUpdate(tx, testutil.NewUUID())
	s.ErrorIs(err, ErrNotFound)
}

func (s *Suite) TestFind() {
	all, err := s.repo.Find()
	s.NoError(err)
	s.Len(all, len(testutil.Fixtures))

	usd, err := s.repo.Find(NewAccountOptions().SetCurrencyCode("USD"))
	s.NoError(err)
	s.Len(usd, 2)
	for _, a := range usd {
		s.Equal("USD", a.CurrencyCode)
	}

	got, err := s.repo.Find(NewAccountOptions().SetIDs("john", "alice"))
	s.NoError(err)
	s.Len(got, 2)
}
