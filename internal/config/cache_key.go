package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SubmissionLockKey returns the guard key held while a form session has a submission in flight.
func (r *CacheKeyStruct) SubmissionLockKey(formSession string) string {
	return fmt.Sprintf("school_form:%s:submitting", formSession)
}

// UploadLockKey returns the guard key held while a standalone image upload is in flight.
func (r *CacheKeyStruct) UploadLockKey(formSession string) string {
	return fmt.Sprintf("school_form:%s:uploading", formSession)
}

var CacheKey = NewCacheKeyStruct()
