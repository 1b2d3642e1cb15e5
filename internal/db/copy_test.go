package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"run_id", "tactic_id"}
	rows := [][]any{{"run-1", "T1"}, {"run-1", "T2"}}

	mock.ExpectCopyFrom(pgx.Identifier{"annotations"}, cols).WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "annotations", cols, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// No rows means no round trip at all.
	n, err := CopyFrom(context.Background(), mock, "annotations", []string{"run_id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"run_id"}
	mock.ExpectCopyFrom(pgx.Identifier{"annotations"}, cols).
		WillReturnError(errors.New("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "annotations", cols, [][]any{{"run-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annotations")
}
