package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/monitoring"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

type BalanceService interface {
	// GetUserLedger returns the user's balance together with their entries. A user without
	// a balance row gets zero totals.
	GetUserLedger(ctx context.Context, userID string) (models.UserLedger, error)
	List(ctx context.Context, filter models.BalanceFilter) ([]models.LedgerBalance, int, error)
	// Reconcile compares stored balances with the sums of ledger entries. With fix set,
	// every drift is corrected by a delta.
	Reconcile(ctx context.Context, fix bool) (models.ReconReport, error)
}

type balance service

var _ BalanceService = (*balance)(nil)

func (b *balance) GetUserLedger(ctx context.Context, userID string) (res models.UserLedger, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		bal, errGet := b.srv.sqlRepo.GetBalanceRepository().Get(egCtx, userID)
		if errors.Is(errGet, common.ErrDataNotFound) {
			res.Balance = models.LedgerBalance{UserID: userID}
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("failed to get balance: %w", errGet)
		}
		res.Balance = bal
		return nil
	})

	eg.Go(func() error {
		entries, errList := b.srv.sqlRepo.GetLedgerEntryRepository().List(egCtx, models.EntryFilter{
			UserID: userID,
			Limit:  b.srv.conf.Ledger.MaxPageSize,
		})
		if errList != nil {
			return fmt.Errorf("failed to list entries: %w", errList)
		}
		res.Entries = entries
		return nil
	})

	if err = eg.Wait(); err != nil {
		return models.UserLedger{}, err
	}

	return res, nil
}

func (b *balance) List(ctx context.Context, filter models.BalanceFilter) (balances []models.LedgerBalance, total int, err error) {
	monitor := monitoring.New(ctx)
	defer func() { monitor.Finish(monitoring.WithFinishCheckError(err)) }()

	return b.srv.sqlRepo.GetBalanceRepository().List(ctx, filter)
}

func (b *balance) Reconcile(ctx context.Context, fix bool) (report models.ReconReport, err error) {
	monitor := monitoring.New(ctx)
	defer func() {
		b.base().ledgerMetrics().RecordOperation(metrics.OperationReconcile, err)
		monitor.Finish(monitoring.WithFinishCheckError(err))
	}()

	if !fix {
		report, err = b.findDrifts(ctx, b.srv.sqlRepo.GetBalanceRepository())
		if err != nil {
			return report, err
		}
		b.base().ledgerMetrics().SetDriftedUsers(len(report.Drifts))
		return report, nil
	}

	// drifts must come from the write transaction, not the replica
	err = b.srv.sqlRepo.Atomic(ctx, func(ctx context.Context, r repositories.SQLRepository) error {
		balanceRepo := r.GetBalanceRepository()

		var errFind error
		if report, errFind = b.findDrifts(ctx, balanceRepo); errFind != nil {
			return errFind
		}
		for _, d := range report.Drifts {
			if errFix := balanceRepo.ApplyDelta(ctx, d.Correction()); errFix != nil {
				return fmt.Errorf("failed to fix balance of %s: %w", d.UserID, errFix)
			}
		}
		return nil
	})
	if err != nil {
		return report, common.TransactionFailure(err)
	}
	b.base().ledgerMetrics().SetDriftedUsers(0)
	if len(report.Drifts) == 0 {
		return report, nil
	}
	report.Fixed = true

	b.base().notifyBalanceFixed(ctx, report.Drifts)

	return report, nil
}

// findDrifts returns the users whose stored balance differs from the sum of their entries.
func (b *balance) findDrifts(ctx context.Context, balanceRepo repositories.BalanceRepository) (report models.ReconReport, err error) {
	rows, err := balanceRepo.Reconcile(ctx)
	if err != nil {
		return report, err
	}

	report.CheckedUsers = len(rows)
	report.Drifts = []models.BalanceDrift{}
	for _, row := range rows {
		if row.Correction().IsZero() {
			continue
		}
		report.Drifts = append(report.Drifts, row)
	}
	slices.SortFunc(report.Drifts, func(a, b models.BalanceDrift) int { return strings.Compare(a.UserID, b.UserID) })

	if len(report.Drifts) > 0 {
		log.Warn(ctx, "ledger balances drifted from entries", log.Int("users", len(report.Drifts)))
	}

	return report, nil
}

func (b *balance) base() *service {
	return (*service)(b)
}
