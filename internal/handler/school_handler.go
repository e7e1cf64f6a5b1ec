package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/response"
	"github.com/stemsi/school-registry/internal/service"
	"github.com/stemsi/school-registry/internal/validator"
	"github.com/stemsi/school-registry/internal/workflow"
)

// FormSessionHeader lets API clients name their form session for the in-flight guard.
const FormSessionHeader = "X-Form-Session"

// SchoolHandler exposes the two workflows as JSON endpoints.
type SchoolHandler struct {
	submission *workflow.Submission
	listing    *workflow.Listing
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(submission *workflow.Submission, listing *workflow.Listing) *SchoolHandler {
	return &SchoolHandler{submission: submission, listing: listing}
}

type submissionData struct {
	State      string        `json:"state"`
	School     *model.School `json:"school,omitempty"`
	PreviewURL string        `json:"preview_url,omitempty"`
	Notice     string        `json:"notice,omitempty"`
}

// CreateSchool godoc
// POST /api/v1/schools
// Multipart body: schoolName, address, city, email, schoolImage.
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var in model.SchoolInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}
	if header, err := c.FormFile(validator.FieldSchoolImage); err == nil {
		in.Image = service.ImageFromHeader(header)
	}

	key := ""
	if session := c.GetHeader(FormSessionHeader); session != "" {
		key = config.CacheKey.SubmissionLockKey(session)
	}

	res := h.submission.Run(c.Request.Context(), key, in)
	data := submissionData{State: res.State.String(), School: res.School, Notice: res.Notice}
	if res.Upload != nil {
		data.PreviewURL = res.Upload.PreviewURL
	}

	switch res.Failure {
	case workflow.FailureNone:
		response.Success(c, http.StatusCreated, data)
	case workflow.FailureValidation:
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, res.FieldErrors)
	case workflow.FailureUpload:
		response.FailWithData(c, http.StatusBadGateway, response.ErrUploadFailed, data)
	case workflow.FailureInsert:
		response.FailWithData(c, http.StatusBadGateway, response.ErrInsertFailed, data)
	case workflow.FailureInFlight:
		response.Fail(c, http.StatusConflict, response.ErrSubmissionInFlight)
	default:
		response.FailWithData(c, http.StatusInternalServerError, response.ErrInternal, data)
	}
}

// ListSchools godoc
// GET /api/v1/schools
// Returns every school, highest id first.
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	res := h.listing.Run(c.Request.Context())
	if res.Failed {
		response.FailWithData(c, http.StatusBadGateway, response.ErrFetchFailed, res.Schools)
		return
	}
	response.Success(c, http.StatusOK, res.Schools)
}
