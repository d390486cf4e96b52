package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
)

type LedgerEntryRepository interface {
	// BulkInsert writes all entries in one statement.
	BulkInsert(ctx context.Context, entries []models.LedgerEntry) error
	ListByPayment(ctx context.Context, paymentID string) ([]models.LedgerEntry, error)
	CountByPayment(ctx context.Context, paymentID string) (int, error)
	DeleteByPayment(ctx context.Context, paymentID string) (int64, error)
	List(ctx context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error)
}

type ledgerEntryRepository sqlRepo

var _ LedgerEntryRepository = (*ledgerEntryRepository)(nil)

var errNoEntries = errors.New("no ledger entries to insert")

func (lr *ledgerEntryRepository) BulkInsert(ctx context.Context, entries []models.LedgerEntry) (err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	if len(entries) == 0 {
		return errNoEntries
	}

	query, args, err := buildInsertEntriesQuery(entries)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	db := lr.r.extractTxWrite(ctx)
	_, err = db.ExecContext(ctx, query, args...)
	return err
}

func (lr *ledgerEntryRepository) ListByPayment(ctx context.Context, paymentID string) (entries []models.LedgerEntry, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := lr.r.extractTxRead(ctx)
	rows, err := db.QueryContext(ctx, queryListEntriesByPayment, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (lr *ledgerEntryRepository) CountByPayment(ctx context.Context, paymentID string) (n int, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := lr.r.extractTxRead(ctx)
	err = db.QueryRowContext(ctx, queryCountEntriesByPayment, paymentID).Scan(&n)
	return n, err
}

func (lr *ledgerEntryRepository) DeleteByPayment(ctx context.Context, paymentID string) (n int64, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	db := lr.r.extractTxWrite(ctx)
	res, err := db.ExecContext(ctx, queryDeleteEntriesByPayment, paymentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (lr *ledgerEntryRepository) List(ctx context.Context, filter models.EntryFilter) (entries []models.LedgerEntry, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	query, args, err := buildListEntriesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	db := lr.r.extractTxRead(ctx)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

type entryRows interface {
	rowScanner
	Next() bool
	Err() error
}

func scanEntries(rows entryRows) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(
			&e.ID,
			&e.PaymentID,
			&e.UserID,
			&e.Type,
			&e.AmountBDT,
			&e.AmountUSD,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
