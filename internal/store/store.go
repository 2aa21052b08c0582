// Package store persists completed runs to PostgreSQL. Persistence is
// optional: the pipeline is a pure function of its inputs and the database
// only archives results for later comparison across dataset snapshots.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// DBPool abstracts pgxpool.Pool so tests can substitute a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store provides a PostgreSQL implementation of run persistence.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const insertRunSQL = `
        INSERT INTO runs (id, started_at, finished_at, nodes, edges, communities, modularity, routes_skipped)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `

// PersistRun writes the run row, the per-airport metric rows and the hub
// ranking in one transaction.
func (s *Store) PersistRun(ctx context.Context, envelope *schemas.RunEnvelope) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, insertRunSQL,
		envelope.RunID, envelope.StartedAt, envelope.FinishedAt,
		envelope.Stats.Nodes, envelope.Stats.Edges,
		envelope.Stats.Communities, envelope.Stats.Modularity,
		envelope.Stats.RoutesSkipped,
	); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", envelope.RunID, err)
	}

	if len(envelope.Centrality) > 0 {
		if err := s.persistCentrality(ctx, tx, envelope.RunID, envelope.Centrality); err != nil {
			return err
		}
	}
	if len(envelope.Hubs) > 0 {
		if err := s.persistHubs(ctx, tx, envelope.RunID, envelope.Hubs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) persistCentrality(ctx context.Context, tx pgx.Tx, runID string, rows []schemas.CentralityRow) error {
	src := make([][]interface{}, len(rows))
	for i, r := range rows {
		src[i] = []interface{}{
			runID, r.AirportID, r.Name, r.Country,
			r.Degree, r.InDegree, r.OutDegree,
			r.Betweenness, r.Closeness, r.Eigenvector, r.KCore, r.Community,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"centrality_metrics"},
		[]string{"run_id", "airport_id", "name", "country", "degree", "in_degree", "out_degree", "betweenness", "closeness", "eigenvector", "k_core", "community"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return fmt.Errorf("failed to copy centrality rows: %w", err)
	}
	if int(copyCount) != len(rows) {
		return fmt.Errorf("mismatch in copied centrality count: expected %d, got %d", len(rows), copyCount)
	}
	return nil
}

func (s *Store) persistHubs(ctx context.Context, tx pgx.Tx, runID string, rows []schemas.HubRow) error {
	src := make([][]interface{}, len(rows))
	for i, r := range rows {
		src[i] = []interface{}{runID, r.Rank, r.AirportID, r.Name, r.Country, r.Metric, r.Value}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"hubs"},
		[]string{"run_id", "rank", "airport_id", "name", "country", "metric", "value"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return fmt.Errorf("failed to copy hub rows: %w", err)
	}
	if int(copyCount) != len(rows) {
		return fmt.Errorf("mismatch in copied hub count: expected %d, got %d", len(rows), copyCount)
	}
	return nil
}

// GetHubsByRunID reads back the hub ranking of a stored run.
func (s *Store) GetHubsByRunID(ctx context.Context, runID string) ([]schemas.HubRow, error) {
	query := `
        SELECT rank, airport_id, name, country, metric, value
        FROM hubs
        WHERE run_id = $1
        ORDER BY rank ASC;
    `
	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hubs: %w", err)
	}
	defer rows.Close()

	var hubs []schemas.HubRow
	for rows.Next() {
		var h schemas.HubRow
		if err := rows.Scan(&h.Rank, &h.AirportID, &h.Name, &h.Country, &h.Metric, &h.Value); err != nil {
			return nil, fmt.Errorf("failed to scan hub row: %w", err)
		}
		hubs = append(hubs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return hubs, nil
}
