package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

func TestBalanceService_GetUserLedger(t *testing.T) {
	type args struct {
		ctx    context.Context
		userID string
	}

	tests := []struct {
		name     string
		args     args
		doMock   func(h testServiceHelper)
		wantBDT  string
		wantRows int
		wantErr  bool
	}{
		{
			name: "happy path",
			args: args{ctx: context.TODO(), userID: "M1"},
			doMock: func(h testServiceHelper) {
				h.mockBalanceRepository.EXPECT().Get(gomock.Any(), "M1").
					Return(models.LedgerBalance{UserID: "M1", TotalBDT: dec("3500")}, nil)
				h.mockLedgerEntryRepository.EXPECT().List(gomock.Any(), models.EntryFilter{UserID: "M1", Limit: 100}).
					Return([]models.LedgerEntry{{ID: "e1"}, {ID: "e2"}}, nil)
			},
			wantBDT:  "3500",
			wantRows: 2,
		},
		{
			name: "user without balance row",
			args: args{ctx: context.TODO(), userID: "new"},
			doMock: func(h testServiceHelper) {
				h.mockBalanceRepository.EXPECT().Get(gomock.Any(), "new").
					Return(models.LedgerBalance{}, common.ErrDataNotFound)
				h.mockLedgerEntryRepository.EXPECT().List(gomock.Any(), gomock.Any()).
					Return([]models.LedgerEntry{}, nil)
			},
			wantBDT: "0",
		},
		{
			name: "error get balance",
			args: args{ctx: context.TODO(), userID: "M1"},
			doMock: func(h testServiceHelper) {
				h.mockBalanceRepository.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(models.LedgerBalance{}, assert.AnError)
				h.mockLedgerEntryRepository.EXPECT().List(gomock.Any(), gomock.Any()).
					Return(nil, nil).AnyTimes()
			},
			wantErr: true,
		},
		{
			name: "error list entries",
			args: args{ctx: context.TODO(), userID: "M1"},
			doMock: func(h testServiceHelper) {
				h.mockBalanceRepository.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(models.LedgerBalance{}, nil).AnyTimes()
				h.mockLedgerEntryRepository.EXPECT().List(gomock.Any(), gomock.Any()).
					Return(nil, assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := serviceTestHelper(t)
			tc.doMock(h)

			got, err := h.balanceService.GetUserLedger(tc.args.ctx, tc.args.userID)
			if tc.wantErr {
				assert.ErrorIs(t, err, assert.AnError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.args.userID, got.Balance.UserID)
			assertMoney(t, tc.wantBDT, got.Balance.TotalBDT)
			assert.Len(t, got.Entries, tc.wantRows)
		})
	}
}

func TestBalanceService_List(t *testing.T) {
	h := serviceTestHelper(t)
	filter := models.BalanceFilter{UserIDs: []string{"A", "B"}, Limit: 10}

	h.mockBalanceRepository.EXPECT().List(gomock.Any(), filter).
		Return([]models.LedgerBalance{{UserID: "A"}, {UserID: "B"}}, 2, nil)

	got, total, err := h.balanceService.List(context.TODO(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)
}

func seedDriftedLedger(t *testing.T, f ledgerFixture) {
	t.Helper()
	f.addProject("prj-1", "F", member("M1", 50), member("M2", 50))
	f.addPayment("pay-1", "prj-1", models.CurrencyBDT, "10000")

	_, err := f.srv.Split.Process(context.Background(), "pay-1")
	require.NoError(t, err)

	m1 := f.store.balance("M1")
	m1.TotalBDT = dec("3400")
	f.store.balances["M1"] = m1
	f.store.balances["ghost"] = models.LedgerBalance{UserID: "ghost", TotalUSD: dec("12.5")}
}

func TestBalanceService_Reconcile_ReportOnly(t *testing.T) {
	f := newLedgerFixture(t)
	seedDriftedLedger(t, f)

	report, err := f.srv.Balance.Reconcile(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 4, report.CheckedUsers)
	assert.False(t, report.Fixed)
	require.Len(t, report.Drifts, 2)

	assert.Equal(t, "M1", report.Drifts[0].UserID)
	assertMoney(t, "3500", report.Drifts[0].ExpectedBDT)
	assertMoney(t, "3400", report.Drifts[0].ActualBDT)
	assertMoney(t, "100", report.Drifts[0].Correction().BDT)

	assert.Equal(t, "ghost", report.Drifts[1].UserID)
	assertMoney(t, "-12.5", report.Drifts[1].Correction().USD)

	assertMoney(t, "3400", f.store.balance("M1").TotalBDT)
}

func TestBalanceService_Reconcile_Fix(t *testing.T) {
	f := newLedgerFixture(t)
	seedDriftedLedger(t, f)

	report, err := f.srv.Balance.Reconcile(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, report.Fixed)

	assertMoney(t, "3500", f.store.balance("M1").TotalBDT)
	assertMoney(t, "0", f.store.balance("ghost").TotalUSD)

	again, err := f.srv.Balance.Reconcile(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, again.Drifts)
}

func TestBalanceService_Reconcile_FixRollsBack(t *testing.T) {
	f := newLedgerFixture(t)
	seedDriftedLedger(t, f)

	f.store.failOnce("Balance.ApplyDelta", assert.AnError)

	report, err := f.srv.Balance.Reconcile(context.Background(), true)
	assert.ErrorIs(t, err, common.ErrTransactionFailure)
	assert.False(t, report.Fixed)

	assertMoney(t, "3400", f.store.balance("M1").TotalBDT)
	assertMoney(t, "12.5", f.store.balance("ghost").TotalUSD)
}

func TestBalanceService_Reconcile_Mocked(t *testing.T) {
	drifted := models.BalanceDrift{UserID: "M2", ExpectedUSD: dec("10"), ActualUSD: dec("7")}
	clean := models.BalanceDrift{UserID: "M1", ExpectedBDT: dec("5"), ActualBDT: dec("5")}

	tests := []struct {
		name      string
		fix       bool
		doMock    func(h testServiceHelper)
		wantFixed bool
		wantErr   error
	}{
		{
			name: "fix publishes one event per corrected currency",
			fix:  true,
			doMock: func(h testServiceHelper) {
				h.expectAtomic()
				h.mockBalanceRepository.EXPECT().Reconcile(gomock.Any()).
					Return([]models.BalanceDrift{clean, drifted}, nil)
				h.mockBalanceRepository.EXPECT().ApplyDelta(gomock.Any(), deltaUSD("M2", "3")).Return(nil)
				h.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
			},
			wantFixed: true,
		},
		{
			name: "nothing drifted",
			fix:  true,
			doMock: func(h testServiceHelper) {
				h.expectAtomic()
				h.mockBalanceRepository.EXPECT().Reconcile(gomock.Any()).
					Return([]models.BalanceDrift{clean}, nil)
			},
		},
		{
			name: "error reconcile query while fixing",
			fix:  true,
			doMock: func(h testServiceHelper) {
				h.expectAtomic()
				h.mockBalanceRepository.EXPECT().Reconcile(gomock.Any()).Return(nil, assert.AnError)
			},
			wantErr: common.ErrTransactionFailure,
		},
		{
			name: "error reconcile query",
			doMock: func(h testServiceHelper) {
				h.mockBalanceRepository.EXPECT().Reconcile(gomock.Any()).Return(nil, assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := serviceTestHelper(t)
			tc.doMock(h)

			report, err := h.balanceService.Reconcile(context.TODO(), tc.fix)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFixed, report.Fixed)
		})
	}
}

func TestBalanceService_Reconcile_FixReadsInsideTransaction(t *testing.T) {
	h := serviceTestHelper(t)

	inTx := false
	h.mockSQLRepository.EXPECT().
		Atomic(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, steps func(ctx context.Context, r repositories.SQLRepository) error) error {
			inTx = true
			defer func() { inTx = false }()
			return steps(ctx, h.mockSQLRepository)
		})
	h.mockBalanceRepository.EXPECT().Reconcile(gomock.Any()).
		DoAndReturn(func(context.Context) ([]models.BalanceDrift, error) {
			assert.True(t, inTx, "drifts to fix must be read on the write transaction")
			return []models.BalanceDrift{{UserID: "M1", ExpectedBDT: dec("5"), ActualBDT: dec("4")}}, nil
		})
	h.mockBalanceRepository.EXPECT().ApplyDelta(gomock.Any(), deltaBDT("M1", "1")).Return(nil)
	h.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	report, err := h.balanceService.Reconcile(context.TODO(), true)
	require.NoError(t, err)
	assert.True(t, report.Fixed)
}
