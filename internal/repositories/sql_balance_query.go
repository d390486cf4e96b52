package repositories

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const balanceColumns = `user_id, total_bdt, total_usd, updated_at`

const (
	// queryApplyBalanceDelta adds the delta to the stored totals, creating the row on first use.
	queryApplyBalanceDelta = `INSERT INTO ledger_balances (user_id, total_bdt, total_usd, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			total_bdt = ledger_balances.total_bdt + EXCLUDED.total_bdt,
			total_usd = ledger_balances.total_usd + EXCLUDED.total_usd,
			updated_at = now()`

	// querySubtractBalance never creates a row.
	querySubtractBalance = `UPDATE ledger_balances
		SET total_bdt = total_bdt - $2, total_usd = total_usd - $3, updated_at = now()
		WHERE user_id = $1`

	queryDebitBalanceBDT = `UPDATE ledger_balances
		SET total_bdt = total_bdt - $2, updated_at = now()
		WHERE user_id = $1 AND total_bdt >= $2
		RETURNING ` + balanceColumns

	queryDebitBalanceUSD = `UPDATE ledger_balances
		SET total_usd = total_usd - $2, updated_at = now()
		WHERE user_id = $1 AND total_usd >= $2
		RETURNING ` + balanceColumns

	queryGetBalance = `SELECT ` + balanceColumns + ` FROM ledger_balances WHERE user_id = $1`

	// queryReconcileBalances pairs every user's entry sums with the stored balance. Users
	// present on only one side show up with zeros on the other.
	queryReconcileBalances = `SELECT
			COALESCE(e.user_id, b.user_id) AS user_id,
			COALESCE(e.total_bdt, 0) AS expected_bdt,
			COALESCE(b.total_bdt, 0) AS actual_bdt,
			COALESCE(e.total_usd, 0) AS expected_usd,
			COALESCE(b.total_usd, 0) AS actual_usd
		FROM (
			SELECT user_id, SUM(COALESCE(amount_bdt, 0)) AS total_bdt, SUM(COALESCE(amount_usd, 0)) AS total_usd
			FROM ledger_entries
			WHERE user_id IS NOT NULL
			GROUP BY user_id
		) e
		FULL OUTER JOIN ledger_balances b ON b.user_id = e.user_id
		ORDER BY 1`
)

var debitQueries = map[models.Currency]string{
	models.CurrencyBDT: queryDebitBalanceBDT,
	models.CurrencyUSD: queryDebitBalanceUSD,
}

func applyBalanceFilter(q sq.SelectBuilder, f models.BalanceFilter) sq.SelectBuilder {
	if len(f.UserIDs) > 0 {
		q = q.Where("user_id = ANY(?)", pq.Array(f.UserIDs))
	}
	return q
}

func buildListBalancesQuery(f models.BalanceFilter) (string, []any, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)
	q := applyBalanceFilter(psql.Select(balanceColumns).From("ledger_balances"), f).OrderBy("user_id")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	return q.ToSql()
}

func buildCountBalancesQuery(f models.BalanceFilter) (string, []any, error) {
	return applyBalanceFilter(psql.Select("COUNT(*)").From("ledger_balances"), f).ToSql()
}
