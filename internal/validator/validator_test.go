package validator_test

import (
	"testing"

	"github.com/stemsi/school-registry/internal/model"
	"github.com/stemsi/school-registry/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() model.SchoolInput {
	return model.SchoolInput{
		SchoolName: "Oak High",
		Address:    "1 Elm St",
		City:       "Springfield",
		Email:      "a@b.com",
		Image:      &model.ImageFile{Filename: "oak.jpg", ContentType: "image/jpeg", Size: 1024},
	}
}

func TestValidateSchoolAcceptsValidInput(t *testing.T) {
	rec, fields := validator.ValidateSchool(validInput())
	require.Nil(t, fields)
	require.NotNil(t, rec)
	assert.Equal(t, "Oak High", rec.SchoolName)
	assert.Equal(t, "1 Elm St", rec.Address)
	assert.Equal(t, "Springfield", rec.City)
	assert.Equal(t, "a@b.com", rec.Email)
	assert.Empty(t, rec.ImageURL)
}

func TestValidateSchoolTrimsText(t *testing.T) {
	in := validInput()
	in.SchoolName = "  Oak High \t"
	rec, fields := validator.ValidateSchool(in)
	require.Nil(t, fields)
	assert.Equal(t, "Oak High", rec.SchoolName)
}

func TestValidateSchoolReportsExactlyTheEmptyField(t *testing.T) {
	cases := []struct {
		field   string
		message string
		clear   func(*model.SchoolInput)
	}{
		{validator.FieldSchoolName, "School name is required", func(in *model.SchoolInput) { in.SchoolName = "" }},
		{validator.FieldAddress, "Address is required", func(in *model.SchoolInput) { in.Address = "" }},
		{validator.FieldCity, "City is required", func(in *model.SchoolInput) { in.City = "   " }},
		{validator.FieldEmail, "Email is required", func(in *model.SchoolInput) { in.Email = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validInput()
			tc.clear(&in)
			rec, fields := validator.ValidateSchool(in)
			assert.Nil(t, rec)
			assert.Equal(t, map[string]string{tc.field: tc.message}, fields)
		})
	}
}

func TestValidateSchoolEmailRules(t *testing.T) {
	cases := map[string]string{
		"no-at-sign.example.com": `Email must contain "@"`,
		"user@":                  "Invalid email format",
		"@example.com":           "Invalid email format",
		"two words@example.com":  "Invalid email format",
	}

	for email, message := range cases {
		t.Run(email, func(t *testing.T) {
			in := validInput()
			in.Email = email
			_, fields := validator.ValidateSchool(in)
			assert.Equal(t, map[string]string{validator.FieldEmail: message}, fields)
		})
	}
}

func TestValidateSchoolImageRules(t *testing.T) {
	in := validInput()
	in.Image = nil
	_, fields := validator.ValidateSchool(in)
	assert.Equal(t, map[string]string{validator.FieldSchoolImage: "School image is required"}, fields)

	in = validInput()
	in.Image.ContentType = "application/pdf"
	_, fields = validator.ValidateSchool(in)
	assert.Equal(t, map[string]string{validator.FieldSchoolImage: "Unsupported file type"}, fields)

	in = validInput()
	in.Image.ContentType = ""
	_, fields = validator.ValidateSchool(in)
	assert.Equal(t, map[string]string{validator.FieldSchoolImage: "Unsupported file type"}, fields)

	for _, ct := range []string{"image/png", "image/webp", "image/svg+xml"} {
		in = validInput()
		in.Image.ContentType = ct
		_, fields = validator.ValidateSchool(in)
		assert.Nil(t, fields, ct)
	}
}

func TestValidateSchoolReportsEveryBadField(t *testing.T) {
	_, fields := validator.ValidateSchool(model.SchoolInput{Email: "nope"})
	assert.Len(t, fields, 5)
	assert.Equal(t, `Email must contain "@"`, fields[validator.FieldEmail])
}
