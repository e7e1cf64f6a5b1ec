package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryAssignsIncreasingIDs(t *testing.T) {
	repo := repository.NewMemorySchoolRepository()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Insert(ctx, &model.School{SchoolName: name}))
	}

	schools, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 3)
	assert.Equal(t, "C", schools[0].SchoolName)
	assert.Equal(t, int64(3), schools[0].ID)
	assert.Equal(t, int64(1), schools[2].ID)
}

func TestMemoryRepositoryInjectedFailures(t *testing.T) {
	repo := repository.NewMemorySchoolRepository()
	repo.InsertErr = errors.New("disk full")
	repo.ListErr = errors.New("offline")

	s := &model.School{SchoolName: "A"}
	assert.ErrorIs(t, repo.Insert(context.Background(), s), repository.ErrInsertFailed)
	assert.Zero(t, s.ID)
	assert.Zero(t, repo.Len())

	_, err := repo.ListAll(context.Background())
	assert.ErrorIs(t, err, repository.ErrFetchFailed)
}
