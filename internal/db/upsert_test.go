package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestBulkUpsert_EmptyRowsIsNoop(t *testing.T) {
	mock := newMockPool(t)

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "items",
		Columns:      []string{"id"},
		ConflictKeys: []string{"id"},
	}, nil)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_RequiresColumnsAndKeys(t *testing.T) {
	mock := newMockPool(t)
	rows := [][]any{{"a"}}

	_, err := BulkUpsert(context.Background(), mock, UpsertConfig{Table: "items", ConflictKeys: []string{"id"}}, rows)
	assert.Error(t, err)

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{Table: "items", Columns: []string{"id"}}, rows)
	assert.Error(t, err)
}

func TestBulkUpsert_HappyPath(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_items" \(LIKE "items" INCLUDING DEFAULTS\) ON COMMIT DROP`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_items"}, []string{"id", "name", "qty"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "items" \("id", "name", "qty"\) SELECT .+ ON CONFLICT \("id"\) DO UPDATE SET "name" = EXCLUDED."name", "qty" = EXCLUDED."qty"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "items",
		Columns:      []string{"id", "name", "qty"},
		ConflictKeys: []string{"id"},
	}, [][]any{
		{"a", "anvil", 3},
		{"b", "rocket", 1},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_SchemaQualifiedTable(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_sales_items" \(LIKE "sales"\."items" INCLUDING DEFAULTS\)`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_sales_items"}, []string{"id", "name"}).
		WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "sales"\."items"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "sales.items",
		Columns:      []string{"id", "name"},
		ConflictKeys: []string{"id"},
	}, [][]any{{"a", "anvil"}})

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_RollsBackOnCopyFailure(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_items"}, []string{"id"}).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "items",
		Columns:      []string{"id"},
		ConflictKeys: []string{"id"},
	}, [][]any{{"a"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table")
	assert.NoError(t, mock.ExpectationsWereMet())
}
