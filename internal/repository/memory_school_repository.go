package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stemsi/school-registry/internal/model"
)

// MemorySchoolRepository keeps schools in process memory. Used for local
// development and tests.
type MemorySchoolRepository struct {
	mu      sync.RWMutex
	nextID  int64
	schools []model.School

	// InsertErr and ListErr, when set, are returned instead of touching the data.
	InsertErr error
	ListErr   error
}

// NewMemorySchoolRepository creates an empty MemorySchoolRepository.
func NewMemorySchoolRepository() *MemorySchoolRepository {
	return &MemorySchoolRepository{nextID: 1}
}

func (r *MemorySchoolRepository) Insert(_ context.Context, s *model.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.InsertErr != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, r.InsertErr)
	}
	s.ID = r.nextID
	r.nextID++
	r.schools = append(r.schools, *s)
	return nil
}

func (r *MemorySchoolRepository) ListAll(_ context.Context) ([]model.School, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.ListErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, r.ListErr)
	}
	out := make([]model.School, len(r.schools))
	copy(out, r.schools)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Len reports how many schools are stored.
func (r *MemorySchoolRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schools)
}
