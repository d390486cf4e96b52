package repositories

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const paymentColumns = `id, kind, project_id, currency, amount_bdt, amount_usd, note, paid_at, created_at, updated_at`

const (
	queryInsertPayment = `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	queryGetPaymentByID = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	queryGetPaymentForUpdate = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	queryUpdatePayment = `UPDATE payments
		SET project_id = $2, currency = $3, amount_bdt = $4, amount_usd = $5, note = $6, paid_at = $7, updated_at = $8
		WHERE id = $1`

	queryDeletePayment = `DELETE FROM payments WHERE id = $1`
)

func applyPaymentFilter(q sq.SelectBuilder, f models.PaymentFilter) sq.SelectBuilder {
	if f.ProjectID != "" {
		q = q.Where(sq.Eq{"project_id": f.ProjectID})
	}
	if f.Currency != "" {
		q = q.Where(sq.Eq{"currency": f.Currency})
	}
	if f.Kind != "" {
		q = q.Where(sq.Eq{"kind": f.Kind})
	}
	if f.PaidFrom != nil {
		q = q.Where(sq.GtOrEq{"paid_at": *f.PaidFrom})
	}
	if f.PaidTo != nil {
		q = q.Where(sq.Lt{"paid_at": *f.PaidTo})
	}
	return q
}

func buildListPaymentsQuery(f models.PaymentFilter) (string, []any, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)
	q := applyPaymentFilter(psql.Select(paymentColumns).From("payments"), f).
		OrderBy("paid_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	return q.ToSql()
}

func buildCountPaymentsQuery(f models.PaymentFilter) (string, []any, error) {
	return applyPaymentFilter(psql.Select("COUNT(*)").From("payments"), f).ToSql()
}
