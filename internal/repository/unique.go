package repository

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"

	mysqlKeyMarker      = " for key '"
	sqliteUniquePrefix  = "UNIQUE constraint failed: "
	indexURLsShortened  = "idx_urls_shortened"
	indexURLsOriginal   = "idx_urls_original"
	columnURLsShortened = "urls.shortened"
	columnURLsOriginal  = "urls.original"
)

// uniqueViolation returns the name of the violated index (or, for SQLite,
// the column list) from a driver error. The offending value is never part of
// the result. ok is false when err is not a unique violation.
func uniqueViolation(err error) (key string, ok bool) {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		// Duplicate entry 'x' for key 'urls.idx_urls_shortened'
		msg := myErr.Message
		i := strings.LastIndex(msg, mysqlKeyMarker)
		if i < 0 {
			return "", true
		}
		key = strings.TrimSuffix(msg[i+len(mysqlKeyMarker):], "'")
		// MySQL 8 prefixes the table name.
		if dot := strings.LastIndexByte(key, '.'); dot >= 0 {
			key = key[dot+1:]
		}
		return key, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		// UNIQUE constraint failed: urls.shortened
		msg := liteErr.Error()
		if i := strings.Index(msg, sqliteUniquePrefix); i >= 0 {
			return msg[i+len(sqliteUniquePrefix):], true
		}
		return "", true
	}

	return "", false
}

// translateCreateError maps a failed insert into urls onto ErrShortenedTaken
// or ErrOriginalTaken; any other error is returned unchanged.
func translateCreateError(err error) error {
	key, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch key {
	case indexURLsShortened, columnURLsShortened:
		return ErrShortenedTaken
	case indexURLsOriginal, columnURLsOriginal:
		return ErrOriginalTaken
	default:
		return err
	}
}
