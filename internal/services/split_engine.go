package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type SplitEngine interface {
	// Process writes the ledger entries of a payment and adds them to member balances.
	// A payment that already has entries fails with common.ErrAlreadyProcessed.
	Process(ctx context.Context, paymentID string) (models.SplitResult, error)
	// Reverse removes the payment's entries and their balance contribution. A payment
	// without entries is left alone.
	Reverse(ctx context.Context, paymentID string) error
}

type splitEngine service

var _ SplitEngine = (*splitEngine)(nil)

type splitOutcome struct {
	payment models.Payment
	result  models.SplitResult
}

type reversalOutcome struct {
	payment models.Payment
	entries []models.LedgerEntry
}

func (se *splitEngine) Process(ctx context.Context, paymentID string) (res models.SplitResult, err error) {
	monitor := monitoring.New(ctx)
	defer func() {
		se.base().ledgerMetrics().RecordOperation(metrics.OperationProcess, err)
		monitor.Finish(monitoring.WithFinishCheckError(err))
	}()

	var out splitOutcome
	err = se.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		var errTx error
		out, errTx = se.processTx(ctx, r, paymentID)
		return errTx
	})
	if err != nil {
		return res, common.TransactionFailure(err)
	}

	se.base().notifyProcessed(ctx, out)

	return out.result, nil
}

func (se *splitEngine) Reverse(ctx context.Context, paymentID string) (err error) {
	monitor := monitoring.New(ctx)
	defer func() {
		se.base().ledgerMetrics().RecordOperation(metrics.OperationReverse, err)
		monitor.Finish(monitoring.WithFinishCheckError(err))
	}()

	var out reversalOutcome
	err = se.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		var errTx error
		out, errTx = se.reverseTx(ctx, r, paymentID)
		return errTx
	})
	if err != nil {
		return common.TransactionFailure(err)
	}

	se.base().notifyReversed(ctx, out)

	return nil
}

// processTx runs inside the caller's unit of work.
func (se *splitEngine) processTx(ctx context.Context, r repositories.SQLRepository, paymentID string) (out splitOutcome, err error) {
	payment, err := r.GetPaymentRepository().GetForUpdate(ctx, paymentID)
	if err != nil {
		return out, err
	}
	if payment.ProjectID == nil {
		return out, fmt.Errorf("%w: payment %s has no project", common.ErrInvalidPaymentState, paymentID)
	}
	if _, ok := payment.SplittableAmount(); !ok {
		return out, fmt.Errorf("%w: payment %s", common.ErrInvalidPaymentState, paymentID)
	}

	entryRepo := r.GetLedgerEntryRepository()
	existing, err := entryRepo.CountByPayment(ctx, paymentID)
	if err != nil {
		return out, err
	}
	if existing > 0 {
		return out, fmt.Errorf("%w: payment %s has %d entries", common.ErrAlreadyProcessed, paymentID, existing)
	}

	project, err := r.GetProjectRepository().GetByID(ctx, *payment.ProjectID)
	if err != nil {
		if errors.Is(err, common.ErrProjectNotFound) {
			return out, fmt.Errorf("%w: project %s of payment %s not found",
				common.ErrInvalidPaymentState, *payment.ProjectID, paymentID)
		}
		return out, err
	}

	alloc, err := Allocate(payment, project)
	if err != nil {
		return out, err
	}

	entries := alloc.Entries(payment.ID, uuid.NewString, se.srv.now())
	if err = entryRepo.BulkInsert(ctx, entries); err != nil {
		return out, err
	}

	balanceRepo := r.GetBalanceRepository()
	for _, delta := range models.AggregateDeltas(entries) {
		if delta.IsZero() {
			continue
		}
		if err = balanceRepo.ApplyDelta(ctx, delta); err != nil {
			return out, fmt.Errorf("failed to apply balance of %s: %w", delta.UserID, err)
		}
	}

	out.payment = payment
	out.result = models.SplitResult{
		PaymentID:        payment.ID,
		EntriesGenerated: len(entries),
		Entries:          entries,
		PoolRedirected:   alloc.PoolRedirected,
	}

	return out, nil
}

// reverseTx runs inside the caller's unit of work. Balances are corrected from the stored
// entries, so a payment edited since it was split still reverses exactly what it added.
func (se *splitEngine) reverseTx(ctx context.Context, r repositories.SQLRepository, paymentID string) (out reversalOutcome, err error) {
	payment, err := r.GetPaymentRepository().GetForUpdate(ctx, paymentID)
	if err != nil {
		return out, err
	}
	out.payment = payment

	entryRepo := r.GetLedgerEntryRepository()
	entries, err := entryRepo.ListByPayment(ctx, paymentID)
	if err != nil {
		return out, err
	}
	if len(entries) == 0 {
		return out, nil
	}

	balanceRepo := r.GetBalanceRepository()
	for _, delta := range models.AggregateDeltas(entries) {
		if delta.IsZero() {
			continue
		}
		err = balanceRepo.Subtract(ctx, delta)
		if errors.Is(err, common.ErrNoRowsAffected) {
			log.Debug(ctx, "no balance row to reverse",
				log.String("paymentId", paymentID),
				log.String("userId", delta.UserID),
			)
			continue
		}
		if err != nil {
			return out, fmt.Errorf("failed to reverse balance of %s: %w", delta.UserID, err)
		}
	}

	if _, err = entryRepo.DeleteByPayment(ctx, paymentID); err != nil {
		return out, err
	}
	out.entries = entries

	return out, nil
}

func (se *splitEngine) base() *service {
	return (*service)(se)
}
