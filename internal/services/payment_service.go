package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type PaymentService interface {
	// Create saves the payment and splits it. When the split fails the payment stays saved
	// without entries and the split error is returned alongside it.
	Create(ctx context.Context, req models.PaymentRequest) (models.PaymentWithSplit, error)
	// Update reverses the current split, applies req and splits again in one transaction.
	Update(ctx context.Context, id string, req models.PaymentRequest) (models.PaymentWithSplit, error)
	// Delete reverses the split and removes the payment. Payouts are deleted the same way.
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.PaymentWithEntries, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	// Resplit recomputes the split of a payment with the project's current team.
	Resplit(ctx context.Context, id string) (models.SplitResult, error)
}

type payment service

var _ PaymentService = (*payment)(nil)

func (ps *payment) Create(ctx context.Context, req models.PaymentRequest) (res models.PaymentWithSplit, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	if _, err = ps.srv.sqlRepo.GetProjectRepository().GetByID(ctx, req.ProjectID); err != nil {
		return res, err
	}

	now := ps.srv.now()
	p := models.Payment{ID: uuid.NewString(), CreatedAt: now}
	req.Apply(&p, now)

	if err = ps.srv.sqlRepo.GetPaymentRepository().Create(ctx, p); err != nil {
		return res, common.TransactionFailure(err)
	}
	res.Payment = p

	split, err := ps.srv.Split.Process(ctx, p.ID)
	if err != nil {
		return res, err
	}
	res.Split = &split

	return res, nil
}

func (ps *payment) Update(ctx context.Context, id string, req models.PaymentRequest) (res models.PaymentWithSplit, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	var (
		reversed  reversalOutcome
		processed splitOutcome
	)
	err = ps.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		paymentRepo := r.GetPaymentRepository()

		current, err := paymentRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Kind == models.PaymentKindPayout {
			return fmt.Errorf("%w: payment %s", common.ErrPayoutImmutable, id)
		}
		if _, err = r.GetProjectRepository().GetByID(ctx, req.ProjectID); err != nil {
			return err
		}

		if reversed, err = ps.srv.Split.reverseTx(ctx, r, id); err != nil {
			return err
		}

		req.Apply(&current, ps.srv.now())
		if err = paymentRepo.Update(ctx, current); err != nil {
			return err
		}

		processed, err = ps.srv.Split.processTx(ctx, r, id)
		return err
	})
	if err != nil {
		return res, common.TransactionFailure(err)
	}

	ps.base().notifyReversed(ctx, reversed)
	ps.base().notifyProcessed(ctx, processed)

	res.Payment = processed.payment
	res.Split = &processed.result

	return res, nil
}

func (ps *payment) Delete(ctx context.Context, id string) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	var reversed reversalOutcome
	err = ps.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		var errTx error
		if reversed, errTx = ps.srv.Split.reverseTx(ctx, r, id); errTx != nil {
			return errTx
		}
		return r.GetPaymentRepository().Delete(ctx, id)
	})
	if err != nil {
		return common.TransactionFailure(err)
	}

	ps.base().notifyReversed(ctx, reversed)

	return nil
}

func (ps *payment) Get(ctx context.Context, id string) (res models.PaymentWithEntries, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	res.Payment, err = ps.srv.sqlRepo.GetPaymentRepository().GetByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.Entries, err = ps.srv.sqlRepo.GetLedgerEntryRepository().ListByPayment(ctx, id)
	if err != nil {
		return res, err
	}

	return res, nil
}

func (ps *payment) List(ctx context.Context, filter models.PaymentFilter) (payments []models.Payment, total int, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	return ps.srv.sqlRepo.GetPaymentRepository().List(ctx, filter)
}

func (ps *payment) Resplit(ctx context.Context, id string) (res models.SplitResult, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	var (
		reversed  reversalOutcome
		processed splitOutcome
	)
	err = ps.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		var errTx error
		if reversed, errTx = ps.srv.Split.reverseTx(ctx, r, id); errTx != nil {
			return errTx
		}
		processed, errTx = ps.srv.Split.processTx(ctx, r, id)
		return errTx
	})
	if err != nil {
		return res, common.TransactionFailure(err)
	}

	ps.base().notifyReversed(ctx, reversed)
	ps.base().notifyProcessed(ctx, processed)

	return processed.result, nil
}

func (ps *payment) base() *service {
	return (*service)(ps)
}
