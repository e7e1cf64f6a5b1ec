package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/service"
	"github.com/stemsi/school-registry/internal/validator"
	"github.com/stemsi/school-registry/internal/workflow"
)

const (
	formSessionCookie = "form_session"
	formSessionMaxAge = 24 * 60 * 60

	// NoticeParam carries a notice across the post-submit redirect.
	NoticeParam     = "notice"
	noticeSubmitted = "submitted"
)

// PageHandler serves the three HTML views.
type PageHandler struct {
	submission *workflow.Submission
	listing    *workflow.Listing
	tmpl       *template.Template
	log        zerolog.Logger
}

// NewPageHandler creates a new PageHandler. tmpl must define the home,
// school_form, listing_head and listing_body views.
func NewPageHandler(submission *workflow.Submission, listing *workflow.Listing, tmpl *template.Template, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		submission: submission,
		listing:    listing,
		tmpl:       tmpl,
		log:        log.With().Str("component", "page_handler").Logger(),
	}
}

type pageView struct {
	Title      string
	Notice     string
	NoticeKind string
}

type fieldView struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type formView struct {
	pageView
	Fields     []fieldView
	ImageError string
}

type listingView struct {
	pageView
	Schools []model.School
	Failed  bool
}

func newFormView(in model.SchoolInput, errs map[string]string) formView {
	return formView{
		pageView: pageView{Title: "School Form"},
		Fields: []fieldView{
			{Name: validator.FieldSchoolName, Label: "School Name", Type: "text", Value: in.SchoolName, Error: errs[validator.FieldSchoolName]},
			{Name: validator.FieldAddress, Label: "Address", Type: "text", Value: in.Address, Error: errs[validator.FieldAddress]},
			{Name: validator.FieldCity, Label: "City", Type: "text", Value: in.City, Error: errs[validator.FieldCity]},
			{Name: validator.FieldEmail, Label: "Email", Type: "email", Value: in.Email, Error: errs[validator.FieldEmail]},
		},
		ImageError: errs[validator.FieldSchoolImage],
	}
}

// Home godoc
// GET /
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", pageView{Title: "School Registry"})
}

// SchoolForm godoc
// GET /SchoolForm
// Renders an empty form and issues the form session used by the in-flight guard.
func (h *PageHandler) SchoolForm(c *gin.Context) {
	formSession(c)
	c.HTML(http.StatusOK, "school_form", newFormView(model.SchoolInput{}, nil))
}

// SubmitSchoolForm godoc
// POST /SchoolForm
// Runs the submission workflow. Success redirects to the listing; any failure
// re-renders the form with the entered text kept.
func (h *PageHandler) SubmitSchoolForm(c *gin.Context) {
	var in model.SchoolInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.Warn().Err(err).Msg("Malformed form submission")
		view := newFormView(in, nil)
		view.Notice, view.NoticeKind = workflow.NoticeUnexpected, "error"
		c.HTML(http.StatusBadRequest, "school_form", view)
		return
	}
	if header, err := c.FormFile(validator.FieldSchoolImage); err == nil {
		in.Image = service.ImageFromHeader(header)
	}

	key := config.CacheKey.SubmissionLockKey(formSession(c))
	res := h.submission.Run(c.Request.Context(), key, in)

	if res.Succeeded() {
		c.Redirect(http.StatusSeeOther, "/ShowSchools?"+NoticeParam+"="+noticeSubmitted)
		return
	}

	view := newFormView(in.Normalize(), res.FieldErrors)
	if res.Notice != "" {
		view.Notice, view.NoticeKind = res.Notice, "error"
	}
	c.HTML(failureStatus(res.Failure), "school_form", view)
}

// ShowSchools godoc
// GET /ShowSchools
// Streams the page shell with a spinner, then the cards once the store answers.
func (h *PageHandler) ShowSchools(c *gin.Context) {
	view := listingView{pageView: pageView{Title: "Schools List"}}
	if c.Query(NoticeParam) == noticeSubmitted {
		view.Notice, view.NoticeKind = workflow.NoticeSubmitted, "success"
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	if err := h.tmpl.ExecuteTemplate(c.Writer, "listing_head", view); err != nil {
		h.log.Error().Err(err).Msg("Rendering listing shell failed")
		return
	}
	c.Writer.Flush()

	res := h.listing.Run(c.Request.Context())
	view.Schools, view.Failed = res.Schools, res.Failed
	if err := h.tmpl.ExecuteTemplate(c.Writer, "listing_body", view); err != nil {
		h.log.Error().Err(err).Msg("Rendering listing failed")
	}
}

// formSession returns the caller's form session id, issuing one if missing.
func formSession(c *gin.Context) string {
	if id, err := c.Cookie(formSessionCookie); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			return id
		}
	}
	id := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(formSessionCookie, id, formSessionMaxAge, "/", "", false, true)
	return id
}

func failureStatus(kind workflow.FailureKind) int {
	switch kind {
	case workflow.FailureValidation:
		return http.StatusUnprocessableEntity
	case workflow.FailureUpload, workflow.FailureInsert:
		return http.StatusBadGateway
	case workflow.FailureInFlight:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
