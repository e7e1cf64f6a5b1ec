package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/metrics"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/repository"
)

// SchoolService is the record store client used by the workflows.
type SchoolService struct {
	schoolRepo repository.SchoolRepository
	backend    string
	log        zerolog.Logger
}

// NewSchoolService creates a new SchoolService. backend names the store in metrics.
func NewSchoolService(schoolRepo repository.SchoolRepository, backend string, log zerolog.Logger) *SchoolService {
	return &SchoolService{
		schoolRepo: schoolRepo,
		backend:    backend,
		log:        log.With().Str("component", "school_service").Logger(),
	}
}

// Insert sends one record to the store. Failures are not retried.
func (s *SchoolService) Insert(ctx context.Context, school *model.School) error {
	start := time.Now()
	err := s.schoolRepo.Insert(ctx, school)
	metrics.ObserveUpstream(s.backend, "insert", start, err)
	if err != nil {
		s.log.Error().Err(err).Str("school", school.SchoolName).Msg("Insert failed")
		return err
	}
	s.log.Info().Int64("id", school.ID).Str("school", school.SchoolName).Msg("School created")
	return nil
}

// ListAll re-fetches the full record set, newest first.
func (s *SchoolService) ListAll(ctx context.Context) ([]model.School, error) {
	start := time.Now()
	schools, err := s.schoolRepo.ListAll(ctx)
	metrics.ObserveUpstream(s.backend, "list", start, err)
	if err != nil {
		s.log.Error().Err(err).Msg("Fetching schools failed")
		return nil, err
	}
	return schools, nil
}
