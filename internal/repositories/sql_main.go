package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
)

type sqlRepo struct {
	r *Repository
}

// Repository owns the write and read pools and hands out table repositories that share
// them. Inside Atomic every table repository runs on the same transaction.
type Repository struct {
	dbWrite *sql.DB
	dbRead  *sql.DB
	common  sqlRepo

	pr  *paymentRepository
	prj *projectRepository
	ler *ledgerEntryRepository
	br  *balanceRepository
	alr *activityLogRepository
}

func NewSQLRepository(dbWrite *sql.DB, dbRead *sql.DB) *Repository {
	rtx := &Repository{
		dbWrite: dbWrite,
		dbRead:  dbRead,
	}
	rtx.common.r = rtx
	rtx.pr = (*paymentRepository)(&rtx.common)
	rtx.prj = (*projectRepository)(&rtx.common)
	rtx.ler = (*ledgerEntryRepository)(&rtx.common)
	rtx.br = (*balanceRepository)(&rtx.common)
	rtx.alr = (*activityLogRepository)(&rtx.common)

	return rtx
}

type SQLRepository interface {
	// Atomic runs steps in one database transaction. An error or panic from steps rolls the
	// transaction back. Calling Atomic with a context that already carries a transaction
	// joins it.
	Atomic(ctx context.Context, steps func(ctx context.Context, r SQLRepository) error) error
	GetPaymentRepository() PaymentRepository
	GetProjectRepository() ProjectRepository
	GetLedgerEntryRepository() LedgerEntryRepository
	GetBalanceRepository() BalanceRepository
	GetActivityLogRepository() ActivityLogRepository
}

var _ SQLRepository = (*Repository)(nil)

func (r *Repository) Atomic(ctx context.Context, steps func(ctx context.Context, r SQLRepository) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return steps(ctx, r)
	}

	tx, err := r.dbWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	log.Debug(ctx, "[DATABASE.TRANSACTION.BEGIN]")
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic happened because: %v", p)
			log.Error(ctx, "[DATABASE.TRANSACTION.PANIC]", log.Err(err))
			return
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
			}
			log.Warn(ctx, "[DATABASE.TRANSACTION.ROLLBACK]", log.Err(err))
			return
		}

		// ErrTxDone here means the tx was rolled back, typically by a cancelled ctx
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("commit tx: %w", err)
			log.Error(ctx, "[DATABASE.TRANSACTION.COMMIT_FAILED]", log.Err(err))
			return
		}
		log.Debug(ctx, "[DATABASE.TRANSACTION.COMMIT]")
	}()

	err = steps(injectTx(ctx, tx), r)
	return
}

func (r *Repository) GetPaymentRepository() PaymentRepository {
	return r.pr
}

func (r *Repository) GetProjectRepository() ProjectRepository {
	return r.prj
}

func (r *Repository) GetLedgerEntryRepository() LedgerEntryRepository {
	return r.ler
}

func (r *Repository) GetBalanceRepository() BalanceRepository {
	return r.br
}

func (r *Repository) GetActivityLogRepository() ActivityLogRepository {
	return r.alr
}
