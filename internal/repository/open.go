package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/database"
)

// ErrUnknownBackend is returned by Open for an unrecognized STORE_BACKEND.
var ErrUnknownBackend = errors.New("unknown store backend")

// Open builds the record store selected by cfg.StoreBackend. The returned
// close func releases any pool it opened and is never nil.
func Open(ctx context.Context, cfg *config.Config, httpClient *http.Client, log zerolog.Logger) (SchoolRepository, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, noop, errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase store")
		}
		return NewSupabaseSchoolRepository(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SchoolsTable, httpClient, log), noop, nil
	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresSchoolRepository(pool, cfg.SchoolsTable), pool.Close, nil
	case config.StoreMemory:
		log.Warn().Msg("Using in-memory record store; schools are lost on restart")
		return NewMemorySchoolRepository(), noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StoreBackend)
	}
}
