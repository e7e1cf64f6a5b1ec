package repository_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/logger"
	"github.com/stemsi/school-registry/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	repo, closeFn, err := repository.Open(ctx, &config.Config{StoreBackend: config.StoreMemory}, nil, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &repository.MemorySchoolRepository{}, repo)

	repo, closeFn, err = repository.Open(ctx, &config.Config{
		StoreBackend: config.StoreSupabase,
		SupabaseURL:  "https://demo.supabase.co",
		SupabaseKey:  "anon",
		SchoolsTable: "schools",
	}, http.DefaultClient, logger.Nop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &repository.SupabaseSchoolRepository{}, repo)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, closeFn, err := repository.Open(ctx, &config.Config{StoreBackend: "sqlite"}, nil, logger.Nop())
	assert.ErrorIs(t, err, repository.ErrUnknownBackend)
	assert.NotNil(t, closeFn)

	_, _, err = repository.Open(ctx, &config.Config{StoreBackend: config.StoreSupabase}, nil, logger.Nop())
	assert.Error(t, err)
}
