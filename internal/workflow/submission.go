package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/metrics"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/validator"
)

// ErrValidationFailed marks a run stopped by field errors.
var ErrValidationFailed = errors.New("validation failed")

// User-facing notices.
const (
	NoticeSubmitted    = "Form submitted successfully!"
	NoticeUploadFailed = "Error uploading image to Cloudinary."
	NoticeInsertFailed = "Failed to save school details. Please try again."
	NoticeUnexpected   = "An unexpected error occurred. Please try again."
	NoticeInFlight     = "A submission is already in progress."
)

// FailureKind classifies why a run did not succeed.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureUpload     FailureKind = "upload"
	FailureInsert     FailureKind = "insert"
	FailureInFlight   FailureKind = "in_flight"
	FailureInternal   FailureKind = "internal"
)

// ImageUploader stores one image on the media host.
type ImageUploader interface {
	Upload(ctx context.Context, img *model.ImageFile) (*model.UploadResult, error)
}

// RecordStore is the external table holding schools.
type RecordStore interface {
	Insert(ctx context.Context, s *model.School) error
	ListAll(ctx context.Context) ([]model.School, error)
}

// ValidateFunc maps raw input to a record to insert or to field errors.
type ValidateFunc func(model.SchoolInput) (*model.NewSchool, map[string]string)

// SubmissionResult is everything a caller needs to render the outcome of a run.
type SubmissionResult struct {
	State       State
	Failure     FailureKind
	FieldErrors map[string]string
	School      *model.School
	Upload      *model.UploadResult
	Notice      string
	Err         error
	// Trace lists every state the run passed through, starting at Idle.
	Trace []State
}

// Succeeded reports whether the record was created.
func (r *SubmissionResult) Succeeded() bool {
	return r.State == Succeeded
}

func (r *SubmissionResult) advance(ev Event) error {
	next, err := Transition(r.State, ev)
	if err != nil {
		return err
	}
	r.State = next
	r.Trace = append(r.Trace, next)
	return nil
}

func (r *SubmissionResult) fail(kind FailureKind, notice string, err error) *SubmissionResult {
	r.Failure = kind
	r.Notice = notice
	r.Err = err
	return r
}

// Submission runs validate, upload, insert in that order. Each step starts only
// after the previous one finished.
type Submission struct {
	validate ValidateFunc
	uploader ImageUploader
	store    RecordStore
	guard    Guard
	log      zerolog.Logger
}

// NewSubmission creates a Submission using the school validator.
func NewSubmission(uploader ImageUploader, store RecordStore, guard Guard, log zerolog.Logger) *Submission {
	if guard == nil {
		guard = NewMemoryGuard()
	}
	return &Submission{
		validate: validator.ValidateSchool,
		uploader: uploader,
		store:    store,
		guard:    guard,
		log:      log.With().Str("component", "submission_workflow").Logger(),
	}
}

// WithValidate replaces the validation step. Used where the image is optional.
func (s *Submission) WithValidate(fn ValidateFunc) *Submission {
	s.validate = fn
	return s
}

// Run executes one submission. key identifies the submitting form session; an
// empty key skips the single-flight guard. Run never returns a nil result.
func (s *Submission) Run(ctx context.Context, key string, in model.SchoolInput) (res *SubmissionResult) {
	res = &SubmissionResult{State: Idle, Trace: []State{Idle}}
	defer func() {
		metrics.Submissions.WithLabelValues(res.State.String(), string(res.Failure)).Inc()
	}()

	if key != "" {
		acquired, err := s.guard.Acquire(ctx, key)
		switch {
		case err != nil:
			// The flag is advisory; a broken guard store must not block submissions.
			s.log.Warn().Err(err).Str("key", key).Msg("Submission guard unavailable")
		case !acquired:
			return res.fail(FailureInFlight, NoticeInFlight, ErrSubmissionInFlight)
		default:
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
					s.log.Warn().Err(err).Str("key", key).Msg("Releasing submission guard failed")
				}
			}()
		}
	}

	if err := res.advance(EventSubmit); err != nil {
		return res.fail(FailureInternal, NoticeUnexpected, err)
	}

	draft, fields := s.validate(in)
	if fields != nil {
		res.FieldErrors = fields
		if err := res.advance(EventValidationFailed); err != nil {
			return res.fail(FailureInternal, NoticeUnexpected, err)
		}
		return res.fail(FailureValidation, "", ErrValidationFailed)
	}

	school := &model.School{
		SchoolName: draft.SchoolName,
		Address:    draft.Address,
		City:       draft.City,
		Email:      draft.Email,
	}

	if in.Image != nil {
		if err := res.advance(EventValidationPassed); err != nil {
			return res.fail(FailureInternal, NoticeUnexpected, err)
		}

		upload, err := s.uploader.Upload(ctx, in.Image)
		if err != nil {
			if terr := res.advance(EventUploadFailed); terr != nil {
				return res.fail(FailureInternal, NoticeUnexpected, terr)
			}
			s.log.Error().Err(err).Msg("Upload step failed")
			return res.fail(FailureUpload, NoticeUploadFailed, fmt.Errorf("upload: %w", err))
		}

		res.Upload = upload
		school.ImageURL = upload.SecureURL
		if err := res.advance(EventUploadSucceeded); err != nil {
			return res.fail(FailureInternal, NoticeUnexpected, err)
		}
	} else if err := res.advance(EventValidationPassedNoImage); err != nil {
		return res.fail(FailureInternal, NoticeUnexpected, err)
	}

	if err := s.store.Insert(ctx, school); err != nil {
		if terr := res.advance(EventInsertFailed); terr != nil {
			return res.fail(FailureInternal, NoticeUnexpected, terr)
		}
		s.log.Error().Err(err).Msg("Insert step failed")
		return res.fail(FailureInsert, NoticeInsertFailed, fmt.Errorf("insert: %w", err))
	}

	if err := res.advance(EventInsertSucceeded); err != nil {
		return res.fail(FailureInternal, NoticeUnexpected, err)
	}
	res.School = school
	res.Notice = NoticeSubmitted
	return res
}
