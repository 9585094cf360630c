package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leadforge/enrich-cli/internal/db"
	"github.com/leadforge/enrich-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":        `INSERT INTO runs (id, source, status, leads, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"update_run_status": `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"complete_run":      `UPDATE runs SET totals = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_run":           `SELECT id, source, status, totals, leads, created_at, updated_at FROM runs WHERE id = $1`,
	"get_lead_results":  `SELECT lead FROM lead_results WHERE run_id = $1 ORDER BY position ASC`,
	"get_cached_scrape": `SELECT content FROM scrape_cache WHERE url_hash = $1 AND expires_at > now()`,
	"set_cached_scrape": `INSERT INTO scrape_cache (id, url_hash, content, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (url_hash) DO UPDATE SET content = $3, cached_at = $4, expires_at = $5`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	totals     JSONB,
	leads      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lead_results (
	id       TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id   TEXT NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	lead     JSONB NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (run_id, position)
);

CREATE TABLE IF NOT EXISTS scrape_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	url_hash   TEXT NOT NULL UNIQUE,
	content    BYTEA NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_lead_results_run_id ON lead_results(run_id);
CREATE INDEX IF NOT EXISTS idx_scrape_cache_url_hash ON scrape_cache(url_hash);
CREATE INDEX IF NOT EXISTS idx_scrape_cache_expires_at ON scrape_cache(expires_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string, leads int) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, status, leads, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, source, string(model.RunStatusRunning), leads, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		Status:    model.RunStatusRunning,
		Leads:     leads,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, totals model.Usage) error {
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal totals")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET totals = $1, status = $2, updated_at = $3 WHERE id = $4`,
		totalsJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var totalsNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, source, status, totals, leads, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Source, &r.Status, &totalsNull, &r.Leads, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if totalsNull != nil {
		if err := json.Unmarshal(*totalsNull, &r.Totals); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal totals")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, status, totals, leads, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var totalsNull *[]byte

		if err := rows.Scan(&r.ID, &r.Source, &r.Status, &totalsNull, &r.Leads, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if totalsNull != nil {
			if err := json.Unmarshal(*totalsNull, &r.Totals); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal totals")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveLeadResults(ctx context.Context, runID string, leads []model.EnrichedLead) error {
	if len(leads) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(leads))
	for i, lead := range leads {
		leadJSON, err := json.Marshal(lead)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal lead")
		}
		rows = append(rows, []any{uuid.New().String(), runID, i, leadJSON, now})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "lead_results",
		Columns:      []string{"id", "run_id", "position", "lead", "saved_at"},
		ConflictKeys: []string{"run_id", "position"},
		UpdateCols:   []string{"lead", "saved_at"},
	}, rows)
	return eris.Wrapf(err, "postgres: save lead results for run %s", runID)
}

func (s *PostgresStore) GetLeadResults(ctx context.Context, runID string) ([]model.EnrichedLead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT lead FROM lead_results WHERE run_id = $1 ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead results for run %s", runID)
	}
	defer rows.Close()

	var leads []model.EnrichedLead
	for rows.Next() {
		var leadJSON []byte
		if err := rows.Scan(&leadJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead result")
		}
		var lead model.EnrichedLead
		if err := json.Unmarshal(leadJSON, &lead); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal lead result")
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: lead results iterate")
}

func (s *PostgresStore) GetCachedScrape(ctx context.Context, url string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM scrape_cache
		 WHERE url_hash = $1 AND expires_at > now()`,
		hashURL(url),
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached scrape")
	}
	return content, nil
}

func (s *PostgresStore) SetCachedScrape(ctx context.Context, url string, content []byte, ttl time.Duration) error {
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_cache (id, url_hash, content, cached_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (url_hash) DO UPDATE SET content = $3, cached_at = $4, expires_at = $5`,
		uuid.New().String(), hashURL(url), content, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached scrape")
}

func (s *PostgresStore) DeleteExpiredScrapes(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM scrape_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired scrapes")
	}
	return int(tag.RowsAffected()), nil
}
