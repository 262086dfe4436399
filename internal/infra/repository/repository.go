// Package repository implements the write-side persistence for the booking
// core on pgx. Statements are composed with squirrel; every method takes a
// db.DBTX so the same repository works inside and outside a transaction.
package repository

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
