package repo

import (
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	return false
}
