package model

import (
	"io"
	"strings"
)

// School is one persisted school entry. ID is assigned by the store.
type School struct {
	ID         int64  `json:"id"`
	SchoolName string `json:"schoolName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Email      string `json:"email"`
	ImageURL   string `json:"image_url"`
}

// NewSchool is the insert payload sent to the store. The store assigns the id.
type NewSchool struct {
	SchoolName string `json:"schoolName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Email      string `json:"email"`
	ImageURL   string `json:"image_url"`
}

// SchoolInput holds the raw values of a submission form.
type SchoolInput struct {
	SchoolName string     `form:"schoolName" json:"schoolName"`
	Address    string     `form:"address" json:"address"`
	City       string     `form:"city" json:"city"`
	Email      string     `form:"email" json:"email"`
	Image      *ImageFile `form:"-" json:"-"`
}

// Normalize trims surrounding whitespace from the text fields.
func (in SchoolInput) Normalize() SchoolInput {
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// ImageFile is an image attached to a submission. ContentType is the type declared
// by the client, not sniffed from the bytes.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadResult describes an asset stored on the media host.
type UploadResult struct {
	SecureURL  string `json:"secure_url"`
	PreviewURL string `json:"preview_url"`
	PublicID   string `json:"public_id,omitempty"`
}
