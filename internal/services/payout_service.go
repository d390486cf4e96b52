package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type PayoutService interface {
	// Create records a manual payout as a negative payment with one execution entry and
	// takes the amount off the user's balance.
	Create(ctx context.Context, req models.CreatePayoutRequest) (models.Payout, error)
}

type payout service

var _ PayoutService = (*payout)(nil)

func (po *payout) Create(ctx context.Context, req models.CreatePayoutRequest) (res models.Payout, err error) {
	monitor := monitoring.New(ctx)
	defer func() {
		po.base().ledgerMetrics().RecordOperation(metrics.OperationPayout, err)
		monitor.Finish(monitoring.WithFinishCheckError(err))
	}()

	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return res, fmt.Errorf("%w: %w", common.ErrUnsupportedCurrency, err)
	}
	amount := models.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return res, fmt.Errorf("%w: payout amount must be positive", common.ErrInvalidPaymentState)
	}

	now := po.srv.now()
	negative := models.NewCurrencyAmounts(currency, amount.Neg())
	userID := req.UserID

	res.Payment = models.Payment{
		ID:        uuid.NewString(),
		Kind:      models.PaymentKindPayout,
		Currency:  currency,
		AmountBDT: negative.BDT,
		AmountUSD: negative.USD,
		Note:      req.Note,
		PaidAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res.Entry = models.LedgerEntry{
		ID:        uuid.NewString(),
		PaymentID: res.Payment.ID,
		UserID:    &userID,
		Type:      models.EntryTypeExecution,
		AmountBDT: negative.BDT,
		AmountUSD: negative.USD,
		CreatedAt: now,
	}

	err = po.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		var errTx error
		if res.Balance, errTx = po.takeFromBalance(ctx, r, userID, currency, amount); errTx != nil {
			return errTx
		}
		if errTx = r.GetPaymentRepository().Create(ctx, res.Payment); errTx != nil {
			return errTx
		}
		return r.GetLedgerEntryRepository().BulkInsert(ctx, []models.LedgerEntry{res.Entry})
	})
	if err != nil {
		return models.Payout{}, common.TransactionFailure(err)
	}

	po.base().notifyPayout(ctx, res)

	return res, nil
}

// takeFromBalance decrements the user's balance. With PayoutRequiresBalance the decrement is
// guarded and fails with common.ErrInsufficientBalance instead of going negative.
func (po *payout) takeFromBalance(ctx context.Context, r repositories.SQLRepository, userID string, currency models.Currency, amount decimal.Decimal) (models.LedgerBalance, error) {
	balanceRepo := r.GetBalanceRepository()

	if po.srv.conf.Ledger.PayoutRequiresBalance {
		return balanceRepo.Debit(ctx, userID, currency, amount)
	}

	delta := models.BalanceDelta{UserID: userID}
	switch currency {
	case models.CurrencyBDT:
		delta.BDT = amount.Neg()
	case models.CurrencyUSD:
		delta.USD = amount.Neg()
	}
	if err := balanceRepo.ApplyDelta(ctx, delta); err != nil {
		return models.LedgerBalance{}, err
	}

	b, err := balanceRepo.Get(ctx, userID)
	if errors.Is(err, common.ErrDataNotFound) {
		return models.LedgerBalance{}, fmt.Errorf("balance of %s missing after payout: %w", userID, err)
	}
	return b, err
}

func (po *payout) base() *service {
	return (*service)(po)
}
