package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

func TestBalanceRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(balanceTestSuite))
}

type balanceTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo BalanceRepository
}

var balanceRowColumns = []string{"user_id", "total_bdt", "total_usd", "updated_at"}

func (s *balanceTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.repo = NewSQLRepository(s.db, s.db).GetBalanceRepository()
}

func (s *balanceTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *balanceTestSuite) TestApplyDelta() {
	delta := models.BalanceDelta{UserID: "u-finder", BDT: decimal.NewFromInt(4500), USD: decimal.Zero}

	s.mock.ExpectExec(regexp.QuoteMeta(queryApplyBalanceDelta)).
		WithArgs("u-finder", delta.BDT, delta.USD).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.ApplyDelta(context.Background(), delta))

	s.mock.ExpectExec(regexp.QuoteMeta(queryApplyBalanceDelta)).WillReturnError(assert.AnError)
	s.Error(s.repo.ApplyDelta(context.Background(), delta))

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *balanceTestSuite) TestSubtract() {
	delta := models.BalanceDelta{UserID: "u-1", BDT: decimal.NewFromInt(700), USD: decimal.Zero}

	testCases := []struct {
		name       string
		setupMocks func()
		wantErr    error
	}{
		{
			name: "row updated",
			setupMocks: func() {
				s.mock.ExpectExec(regexp.QuoteMeta(querySubtractBalance)).
					WithArgs("u-1", delta.BDT, delta.USD).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "no balance row",
			setupMocks: func() {
				s.mock.ExpectExec(regexp.QuoteMeta(querySubtractBalance)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: common.ErrNoRowsAffected,
		},
		{
			name: "db error",
			setupMocks: func() {
				s.mock.ExpectExec(regexp.QuoteMeta(querySubtractBalance)).WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}
	for _, tt := range testCases {
		s.Run(tt.name, func() {
			tt.setupMocks()

			err := s.repo.Subtract(context.Background(), delta)
			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)
			} else {
				s.NoError(err)
			}
			s.NoError(s.mock.ExpectationsWereMet())
		})
	}
}

func (s *balanceTestSuite) TestDebit() {
	amount := decimal.NewFromInt(2000)
	now := time.Now().UTC()

	testCases := []struct {
		name       string
		currency   models.Currency
		setupMocks func()
		wantErr    error
	}{
		{
			name:     "bdt covered",
			currency: models.CurrencyBDT,
			setupMocks: func() {
				s.mock.ExpectQuery(regexp.QuoteMeta(queryDebitBalanceBDT)).
					WithArgs("u-1", amount).
					WillReturnRows(sqlmock.NewRows(balanceRowColumns).AddRow("u-1", "3000.00", "0", now))
			},
		},
		{
			name:     "usd not covered",
			currency: models.CurrencyUSD,
			setupMocks: func() {
				s.mock.ExpectQuery(regexp.QuoteMeta(queryDebitBalanceUSD)).
					WithArgs("u-1", amount).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrInsufficientBalance,
		},
		{
			name:       "unknown currency",
			currency:   models.Currency("EUR"),
			setupMocks: func() {},
			wantErr:    common.ErrUnsupportedCurrency,
		},
	}
	for _, tt := range testCases {
		s.Run(tt.name, func() {
			tt.setupMocks()

			got, err := s.repo.Debit(context.Background(), "u-1", tt.currency, amount)
			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)
			} else {
				s.NoError(err)
				s.True(got.TotalBDT.Equal(decimal.NewFromInt(3000)))
			}
			s.NoError(s.mock.ExpectationsWereMet())
		})
	}
}

func (s *balanceTestSuite) TestGet() {
	s.mock.ExpectQuery(regexp.QuoteMeta(queryGetBalance)).
		WithArgs("u-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.Get(context.Background(), "u-missing")
	s.ErrorIs(err, common.ErrDataNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *balanceTestSuite) TestList() {
	filter := models.BalanceFilter{UserIDs: []string{"u-1", "u-2"}, Limit: 20}

	countQuery, _, err := buildCountBalancesQuery(filter)
	s.Require().NoError(err)
	listQuery, _, err := buildListBalancesQuery(filter)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs(pq.Array(filter.UserIDs)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	s.mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WithArgs(pq.Array(filter.UserIDs)).
		WillReturnRows(sqlmock.NewRows(balanceRowColumns).
			AddRow("u-1", "100.00", "0.00", now).
			AddRow("u-2", "0.00", "15.50", now))

	got, total, err := s.repo.List(context.Background(), filter)
	s.NoError(err)
	s.Equal(2, total)
	s.Len(got, 2)
	s.True(got[1].TotalUSD.Equal(decimal.RequireFromString("15.5")))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *balanceTestSuite) TestReconcile() {
	s.mock.ExpectQuery(regexp.QuoteMeta(queryReconcileBalances)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expected_bdt", "actual_bdt", "expected_usd", "actual_usd"}).
			AddRow("u-1", "300.00", "300.00", "0", "0").
			AddRow("u-2", "0", "50.00", "0", "0"))

	got, err := s.repo.Reconcile(context.Background())
	s.NoError(err)
	s.Len(got, 2)
	s.True(got[1].ActualBDT.Equal(decimal.NewFromInt(50)))
	s.True(got[1].ExpectedBDT.IsZero())
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *balanceTestSuite) TestBuildListBalancesQuery() {
	query, args, err := buildListBalancesQuery(models.BalanceFilter{Limit: 10, Offset: 20})
	s.NoError(err)
	s.Equal("SELECT "+balanceColumns+" FROM ledger_balances ORDER BY user_id LIMIT 10 OFFSET 20", query)
	s.Empty(args)
}
