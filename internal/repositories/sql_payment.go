package repositories

import (
	"context"
	"fmt"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
)

type PaymentRepository interface {
	Create(ctx context.Context, p models.Payment) error
	GetByID(ctx context.Context, id string) (models.Payment, error)
	// GetForUpdate locks the payment row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (models.Payment, error)
	Update(ctx context.Context, p models.Payment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
}

type paymentRepository sqlRepo

var _ PaymentRepository = (*paymentRepository)(nil)

func (pr *paymentRepository) Create(ctx context.Context, p models.Payment) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	_, err = db.ExecContext(ctx, queryInsertPayment,
		p.ID, p.Kind, p.ProjectID, p.Currency, p.AmountBDT, p.AmountUSD,
		p.Note, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (pr *paymentRepository) GetByID(ctx context.Context, id string) (p models.Payment, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxRead(ctx)
	p, err = scanPayment(db.QueryRowContext(ctx, queryGetPaymentByID, id))
	return p, notFound(err, common.ErrPaymentNotFound)
}

func (pr *paymentRepository) GetForUpdate(ctx context.Context, id string) (p models.Payment, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	p, err = scanPayment(db.QueryRowContext(ctx, queryGetPaymentForUpdate, id))
	return p, notFound(err, common.ErrPaymentNotFound)
}

func (pr *paymentRepository) Update(ctx context.Context, p models.Payment) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	res, err := db.ExecContext(ctx, queryUpdatePayment,
		p.ID, p.ProjectID, p.Currency, p.AmountBDT, p.AmountUSD, p.Note, p.PaidAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	return expectAffected(res, common.ErrPaymentNotFound)
}

func (pr *paymentRepository) Delete(ctx context.Context, id string) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxWrite(ctx)
	res, err := db.ExecContext(ctx, queryDeletePayment, id)
	if err != nil {
		return err
	}
	return expectAffected(res, common.ErrPaymentNotFound)
}

func (pr *paymentRepository) List(ctx context.Context, filter models.PaymentFilter) (payments []models.Payment, total int, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := pr.r.extractTxRead(ctx)

	countQuery, countArgs, err := buildCountPaymentsQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	if err = db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := buildListPaymentsQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payments = []models.Payment{}
	for rows.Next() {
		p, errScan := scanPayment(rows)
		if errScan != nil {
			return nil, 0, errScan
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func scanPayment(row rowScanner) (p models.Payment, err error) {
	err = row.Scan(
		&p.ID,
		&p.Kind,
		&p.ProjectID,
		&p.Currency,
		&p.AmountBDT,
		&p.AmountUSD,
		&p.Note,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
