package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/school-registry/internal/model"
)

// Sentinel errors for record store calls.
var (
	ErrInsertFailed = errors.New("insert school failed")
	ErrFetchFailed  = errors.New("fetch schools failed")
)

// SchoolRepository is the record store for schools. Records are insert-only.
type SchoolRepository interface {
	// Insert stores s and sets s.ID to the store-assigned identifier.
	Insert(ctx context.Context, s *model.School) error
	// ListAll returns every record, most recent (highest ID) first.
	ListAll(ctx context.Context) ([]model.School, error)
}

// StoreError carries the detail reported by the record store.
type StoreError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store returned status %d", e.Status)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += "; " + e.Details
	}
	return msg
}

func payload(s *model.School) model.NewSchool {
	return model.NewSchool{
		SchoolName: s.SchoolName,
		Address:    s.Address,
		City:       s.City,
		Email:      s.Email,
		ImageURL:   s.ImageURL,
	}
}
