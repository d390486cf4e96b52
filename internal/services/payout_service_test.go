package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

func TestPayoutService_Create(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.balances["U"] = models.LedgerBalance{UserID: "U", TotalBDT: dec("5000")}

	res, err := f.srv.Payout.Create(context.Background(), models.CreatePayoutRequest{
		UserID:   "U",
		Currency: "BDT",
		Amount:   dec("2000"),
		Note:     "march payout",
	})
	require.NoError(t, err)

	assertMoney(t, "3000", res.Balance.TotalBDT)
	assertMoney(t, "3000", f.store.balance("U").TotalBDT)

	stored := f.store.payments[res.Payment.ID]
	assert.Equal(t, models.PaymentKindPayout, stored.Kind)
	assert.Nil(t, stored.ProjectID)
	assertMoney(t, "-2000", stored.AmountBDT.Decimal)
	assert.False(t, stored.AmountUSD.Valid)

	entries := f.store.entriesOf(res.Payment.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeExecution, entries[0].Type)
	assert.Equal(t, "U", *entries[0].UserID)
	assertMoney(t, "-2000", entries[0].AmountBDT.Decimal)

	require.Len(t, f.store.logs, 1)
	assert.Nil(t, f.store.logs[0].ProjectID)
	assert.Equal(t, "Payout recorded for user U: 2000.00 BDT", f.store.logs[0].Message)

	payments, _, err := f.srv.Payment.List(context.Background(), models.PaymentFilter{ProjectID: projectUUID})
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestPayoutService_Create_InsufficientBalance(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.balances["U"] = models.LedgerBalance{UserID: "U", TotalBDT: dec("100"), TotalUSD: dec("5000")}

	_, err := f.srv.Payout.Create(context.Background(), models.CreatePayoutRequest{UserID: "U", Currency: "BDT", Amount: dec("100.01")})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)

	assertMoney(t, "100", f.store.balance("U").TotalBDT)
	assert.Empty(t, f.store.payments)
	assert.Empty(t, f.store.entries)
	assert.Empty(t, f.store.logs)

	_, err = f.srv.Payout.Create(context.Background(), models.CreatePayoutRequest{UserID: "nobody", Currency: "USD", Amount: dec("1")})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)
}

func TestPayoutService_Create_WithoutBalanceGuard(t *testing.T) {
	f := newLedgerFixture(t, func(c *config.Config) { c.Ledger.PayoutRequiresBalance = false })

	res, err := f.srv.Payout.Create(context.Background(), models.CreatePayoutRequest{UserID: "U", Currency: "USD", Amount: dec("40")})
	require.NoError(t, err)

	assertMoney(t, "-40", res.Balance.TotalUSD)
	assertMoney(t, "-40", f.store.balance("U").TotalUSD)
}

func TestPayoutService_DeleteRestoresBalance(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.balances["U"] = models.LedgerBalance{UserID: "U", TotalUSD: dec("100")}

	res, err := f.srv.Payout.Create(context.Background(), models.CreatePayoutRequest{UserID: "U", Currency: "USD", Amount: dec("60")})
	require.NoError(t, err)
	assertMoney(t, "40", f.store.balance("U").TotalUSD)

	require.NoError(t, f.srv.Payment.Delete(context.Background(), res.Payment.ID))
	assertMoney(t, "100", f.store.balance("U").TotalUSD)
	assert.Empty(t, f.store.payments)
}

func TestPayoutService_Create_Mocked(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreatePayoutRequest
		doMock  func(h testServiceHelper)
		wantErr error
	}{
		{
			name: "happy path",
			req:  models.CreatePayoutRequest{UserID: "U", Currency: "USD", Amount: dec("25.5")},
			doMock: func(h testServiceHelper) {
				h.expectAtomic()
				gomock.InOrder(
					h.mockBalanceRepository.EXPECT().Debit(gomock.Any(), "U", models.CurrencyUSD, gomock.Any()).
						Return(models.LedgerBalance{UserID: "U", TotalUSD: dec("74.5")}, nil),
					h.mockPaymentRepository.EXPECT().Create(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, p models.Payment) error {
							assert.Equal(t, models.PaymentKindPayout, p.Kind)
							assertMoney(t, "-25.5", p.AmountUSD.Decimal)
							return nil
						}),
					h.mockLedgerEntryRepository.EXPECT().BulkInsert(gomock.Any(), gomock.Len(1)).Return(nil),
				)
				h.mockActivityLogRepository.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
				h.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "unsupported currency",
			req:     models.CreatePayoutRequest{UserID: "U", Currency: "EUR", Amount: dec("1")},
			doMock:  func(h testServiceHelper) {},
			wantErr: common.ErrUnsupportedCurrency,
		},
		{
			name:    "amount rounds to zero",
			req:     models.CreatePayoutRequest{UserID: "U", Currency: "BDT", Amount: dec("0.001")},
			doMock:  func(h testServiceHelper) {},
			wantErr: common.ErrInvalidPaymentState,
		},
		{
			name: "entry insert failure",
			req:  models.CreatePayoutRequest{UserID: "U", Currency: "BDT", Amount: dec("1")},
			doMock: func(h testServiceHelper) {
				h.expectAtomic()
				h.mockBalanceRepository.EXPECT().Debit(gomock.Any(), "U", models.CurrencyBDT, gomock.Any()).Return(models.LedgerBalance{}, nil)
				h.mockPaymentRepository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				h.mockLedgerEntryRepository.EXPECT().BulkInsert(gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
			wantErr: common.ErrTransactionFailure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := serviceTestHelper(t)
			tc.doMock(h)

			res, err := h.payoutService.Create(context.TODO(), tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, res.Payment.ID, res.Entry.PaymentID)
		})
	}
}
