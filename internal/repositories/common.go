package repositories

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// notFound maps sql.ErrNoRows to target and leaves other errors untouched.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func pageBounds(limit, offset int) (uint64, uint64) {
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}

// expectAffected returns target when res reports zero affected rows.
func expectAffected(res sql.Result, target error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return target
	}
	return nil
}
