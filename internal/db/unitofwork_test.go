package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabbishuki/rambam-sub001/internal/db"
)

func openTestUOW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

// countCompletions reads the ledger row count through a fresh transaction.
func countCompletions(uow *db.SQLiteUnitOfWork) int {
	var n int
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`).Scan(&n)
	})
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUOW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO completions (path, day, item_index, completed_at)
			 VALUES ('rambam3', '2026-02-03', 0, '2026-02-03T20:00:00Z')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countCompletions(uow), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUOW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO completions (path, day, item_index, completed_at)
			 VALUES ('rambam3', '2026-02-03', 0, '2026-02-03T20:00:00Z')`)
		if err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countCompletions(uow), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUOW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx,
				`INSERT INTO completions (path, day, item_index, completed_at)
				 VALUES ('rambam3', '2026-02-03', 1, '2026-02-03T20:00:00Z')`)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countCompletions(uow), "row should not exist after panic rollback")
}
