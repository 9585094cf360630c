package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/enrich-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgres_CreateRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "leads.csv", "running", 10, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "leads.csv", 10)

	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, 10, run.Leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateRunStatusNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("failed", pgxmock.AnyArg(), "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing-id", model.RunStatusFailed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE runs SET totals`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteRun(context.Background(), "run-1", model.Usage{InputTokens: 100})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRun(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, source, status, totals, leads, created_at, updated_at FROM runs`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "source", "status", "totals", "leads", "created_at", "updated_at"}).
			AddRow("run-1", "leads.csv", "complete", nil, 5, now, now))

	run, err := s.GetRun(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 5, run.Leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRunNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, source, status, totals, leads, created_at, updated_at FROM runs`).
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing-id")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRunsStatusFilter(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, source, status, totals, leads, created_at, updated_at FROM runs WHERE true AND status`).
		WithArgs("failed", 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "source", "status", "totals", "leads", "created_at", "updated_at"}).
			AddRow("run-2", "b.csv", "failed", nil, 3, now, now))

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusFailed})

	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveLeadResultsUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_lead_results"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_lead_results"},
		[]string{"id", "run_id", "position", "lead", "saved_at"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "lead_results" .+ ON CONFLICT \("run_id", "position"\) DO UPDATE SET "lead" = EXCLUDED."lead"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	leads := []model.EnrichedLead{
		{Lead: model.Lead{Website: "acme.com"}, Status: model.StatusCompleted},
		{Lead: model.Lead{Website: "globex.com"}, Status: model.StatusFailed},
	}
	err := s.SaveLeadResults(context.Background(), "run-1", leads)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetLeadResults(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT lead FROM lead_results`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"lead"}).
			AddRow([]byte(`{"website":"acme.com","enrichment_status":"completed","email_found":"info@acme.com","domain_validation":{"is_valid":true,"domain":"acme.com","tld":"com"}}`)))

	leads, err := s.GetLeadResults(context.Background(), "run-1")

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "acme.com", leads[0].Website)
	assert.Equal(t, "info@acme.com", leads[0].EmailFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetCachedScrapeMiss(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT content FROM scrape_cache`).
		WithArgs(hashURL("acme.com")).
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetCachedScrape(context.Background(), "acme.com")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SetCachedScrape(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO scrape_cache`).
		WithArgs(pgxmock.AnyArg(), hashURL("acme.com"), []byte("markdown"), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetCachedScrape(context.Background(), "acme.com", []byte("markdown"), time.Hour)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_MigrationStoresCacheContentAsBytes(t *testing.T) {
	// Scraped markdown is raw text, not JSON; a json-typed column would
	// reject it server-side on every insert.
	assert.Regexp(t, `content\s+BYTEA NOT NULL`, postgresMigration)
	assert.NotContains(t, postgresMigration, "content    JSONB")
}

func TestPostgres_DeleteExpiredScrapes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM scrape_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := s.DeleteExpiredScrapes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
