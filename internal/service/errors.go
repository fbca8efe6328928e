package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ordering-service/pkg/util/errorutil"
)

// lookupErr maps a repository miss onto kind and anything else onto Internal.
func lookupErr(err error, kind errorutil.Kind) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.Wrap(kind, err)
	}
	return errorutil.MapError(err)
}
