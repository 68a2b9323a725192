//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want infra.RepositoryErrorKind
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: infra.KindNotFound},
		{name: "wrapped no rows", err: errs.Wrap(pgx.ErrNoRows, "scan"), want: infra.KindNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: infra.KindDuplicateKey},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: infra.KindForeignKeyViolated},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, want: infra.KindDBFailure},
		{name: "plain error", err: errors.New("connection reset"), want: infra.KindDBFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, infra.Classify(tc.err))
		})
	}
}

func TestWrapRepoErr(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505"}

	err := infra.WrapRepoErr("insert booking", cause)

	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	assert.False(t, infra.IsKind(err, infra.KindNotFound))
	assert.ErrorContains(t, err, "insert booking")
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))

	explicit := infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	assert.True(t, infra.IsKind(errs.Wrap(explicit, "outer"), infra.KindNotFound))
	assert.Equal(t, "NOT_FOUND: booking not found", explicit.Error())
}
