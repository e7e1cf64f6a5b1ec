package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/school-registry/internal/model"
)

// Form field names, as posted by the submission form.
const (
	FieldSchoolName  = "schoolName"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldEmail       = "email"
	FieldSchoolImage = "schoolImage"
)

var labels = map[string]string{
	FieldSchoolName:  "School name",
	FieldAddress:     "Address",
	FieldCity:        "City",
	FieldEmail:       "Email",
	FieldSchoolImage: "School image",
}

var (
	once   sync.Once
	trans  ut.Translator
	engine *govalidator.Validate
)

// schoolForm is the shape the rules run against. The image is reduced to its
// declared content type so every rule stays a plain string rule.
type schoolForm struct {
	SchoolName  string `form:"schoolName" validate:"required"`
	Address     string `form:"address" validate:"required"`
	City        string `form:"city" validate:"required"`
	Email       string `form:"email" validate:"required,contains=@,email"`
	SchoolImage string `form:"schoolImage" validate:"required,image_type"`
}

// Setup builds the rule engine with English translations.
// Call once during application startup; later calls are no-ops.
func Setup() {
	once.Do(func() {
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")

		engine = govalidator.New()
		configure(engine)
	})
}

func configure(v *govalidator.Validate) {
	// Use form (then JSON) tag names as field names in error maps.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("image_type", func(fl govalidator.FieldLevel) bool {
		return strings.HasPrefix(strings.ToLower(fl.Field().String()), "image/")
	})

	_ = en_translations.RegisterDefaultTranslations(v, trans)

	register(v, "required", "{0} is required", true)
	register(v, "contains", `{0} must contain "{1}"`, true)
	register(v, "email", "Invalid email format", false)
	register(v, "image_type", "Unsupported file type", false)
}

// register overrides the message for tag. withParam adds the rule parameter as {1}.
func register(v *govalidator.Validate, tag, text string, withParam bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			params := []string{label(fe.Field())}
			if withParam {
				params = append(params, fe.Param())
			}
			msg, err := t.T(tag, params...)
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// ValidateSchool checks raw form input. On success it returns the normalized
// record to insert (without an image URL) and a nil map. On failure it returns
// one message per offending field.
func ValidateSchool(in model.SchoolInput) (*model.NewSchool, map[string]string) {
	Setup()

	in = in.Normalize()
	form := schoolForm{
		SchoolName: in.SchoolName,
		Address:    in.Address,
		City:       in.City,
		Email:      in.Email,
	}
	if in.Image != nil {
		form.SchoolImage = in.Image.ContentType
		if form.SchoolImage == "" {
			// A file with no declared type is present but unsupported.
			form.SchoolImage = "application/octet-stream"
		}
	}

	if err := engine.Struct(form); err != nil {
		return nil, TranslateErrors(err)
	}

	return &model.NewSchool{
		SchoolName: in.SchoolName,
		Address:    in.Address,
		City:       in.City,
		Email:      in.Email,
	}, nil
}

// Bind binds the request (JSON or form, by content type) into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	Setup()
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
