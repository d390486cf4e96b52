package repositories

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const ledgerEntryColumns = `id, payment_id, user_id, type, amount_bdt, amount_usd, created_at`

const (
	queryListEntriesByPayment = `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries
		WHERE payment_id = $1 ORDER BY type, user_id NULLS FIRST, id`

	queryCountEntriesByPayment = `SELECT COUNT(*) FROM ledger_entries WHERE payment_id = $1`

	queryDeleteEntriesByPayment = `DELETE FROM ledger_entries WHERE payment_id = $1`
)

func buildInsertEntriesQuery(entries []models.LedgerEntry) (string, []any, error) {
	q := psql.Insert("ledger_entries").
		Columns("id", "payment_id", "user_id", "type", "amount_bdt", "amount_usd", "created_at")
	for _, e := range entries {
		q = q.Values(e.ID, e.PaymentID, e.UserID, e.Type, e.AmountBDT, e.AmountUSD, e.CreatedAt)
	}
	return q.ToSql()
}

func buildListEntriesQuery(f models.EntryFilter) (string, []any, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)
	q := psql.Select(ledgerEntryColumns).From("ledger_entries")
	if f.UserID != "" {
		q = q.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.PaymentID != "" {
		q = q.Where(sq.Eq{"payment_id": f.PaymentID})
	}
	q = q.OrderBy("created_at DESC", "id")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	return q.ToSql()
}
