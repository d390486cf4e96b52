package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
)

// BalanceRepository changes balances only through relative deltas computed in SQL. No
// method reads a balance and writes it back.
type BalanceRepository interface {
	// ApplyDelta upserts the user's row and adds delta to it.
	ApplyDelta(ctx context.Context, delta models.BalanceDelta) error
	// Subtract takes delta off an existing row. A missing row yields common.ErrNoRowsAffected.
	Subtract(ctx context.Context, delta models.BalanceDelta) error
	// Debit takes amount off the user's currency total only if the total covers it.
	// Otherwise it returns common.ErrInsufficientBalance and changes nothing.
	Debit(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) (models.LedgerBalance, error)
	Get(ctx context.Context, userID string) (models.LedgerBalance, error)
	List(ctx context.Context, filter models.BalanceFilter) ([]models.LedgerBalance, int, error)
	// Reconcile returns the expected and stored totals of every known user.
	Reconcile(ctx context.Context) ([]models.BalanceDrift, error)
}

type balanceRepository sqlRepo

var _ BalanceRepository = (*balanceRepository)(nil)

func (br *balanceRepository) ApplyDelta(ctx context.Context, delta models.BalanceDelta) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := br.r.extractTxWrite(ctx)
	_, err = db.ExecContext(ctx, queryApplyBalanceDelta, delta.UserID, delta.BDT, delta.USD)
	return err
}

func (br *balanceRepository) Subtract(ctx context.Context, delta models.BalanceDelta) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := br.r.extractTxWrite(ctx)
	res, err := db.ExecContext(ctx, querySubtractBalance, delta.UserID, delta.BDT, delta.USD)
	if err != nil {
		return err
	}
	return expectAffected(res, common.ErrNoRowsAffected)
}

func (br *balanceRepository) Debit(ctx context.Context, userID string, currency models.Currency, amount decimal.Decimal) (b models.LedgerBalance, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	query, ok := debitQueries[currency]
	if !ok {
		return b, fmt.Errorf("%w: %s", common.ErrUnsupportedCurrency, currency)
	}

	db := br.r.extractTxWrite(ctx)
	b, err = scanBalance(db.QueryRowContext(ctx, query, userID, amount))
	return b, notFound(err, common.ErrInsufficientBalance)
}

func (br *balanceRepository) Get(ctx context.Context, userID string) (b models.LedgerBalance, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := br.r.extractTxRead(ctx)
	b, err = scanBalance(db.QueryRowContext(ctx, queryGetBalance, userID))
	return b, notFound(err, common.ErrDataNotFound)
}

func (br *balanceRepository) List(ctx context.Context, filter models.BalanceFilter) (balances []models.LedgerBalance, total int, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := br.r.extractTxRead(ctx)

	countQuery, countArgs, err := buildCountBalancesQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	if err = db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := buildListBalancesQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	balances = []models.LedgerBalance{}
	for rows.Next() {
		b, errScan := scanBalance(rows)
		if errScan != nil {
			return nil, 0, errScan
		}
		balances = append(balances, b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return balances, total, nil
}

func (br *balanceRepository) Reconcile(ctx context.Context) (rowsOut []models.BalanceDrift, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := br.r.extractTxRead(ctx)
	rows, err := db.QueryContext(ctx, queryReconcileBalances)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rowsOut = []models.BalanceDrift{}
	for rows.Next() {
		var d models.BalanceDrift
		if err = rows.Scan(&d.UserID, &d.ExpectedBDT, &d.ActualBDT, &d.ExpectedUSD, &d.ActualUSD); err != nil {
			return nil, err
		}
		rowsOut = append(rowsOut, d)
	}
	return rowsOut, rows.Err()
}

func scanBalance(row rowScanner) (b models.LedgerBalance, err error) {
	err = row.Scan(&b.UserID, &b.TotalBDT, &b.TotalUSD, &b.UpdatedAt)
	return b, err
}
