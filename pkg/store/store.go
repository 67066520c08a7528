// Package store persists run records to optional database backends. The
// pipeline treats every Store as best-effort: a store failure is logged,
// never fatal to the run.
package store

import (
	"context"
	"database/sql"

	"tubescribe/pkg/domain"
)

// Store saves one run's record. Implementations upsert by video id so
// re-ingesting a video replaces its previous record.
type Store interface {
	SaveRun(ctx context.Context, run *domain.RunRecord) error
}

// DBProvider is implemented by clients that expose a sql.DB handle, which
// lets PostgresStore run over either a plain Postgres or a Supabase-hosted
// connection.
type DBProvider interface {
	DB() *sql.DB
}
