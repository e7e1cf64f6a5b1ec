package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFallsBackToPublicSupabaseVars(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://demo.supabase.co/")
	t.Setenv("NEXT_PUBLIC_SUPABASE_KEY", "anon-key")

	cfg := Load()
	assert.Equal(t, "https://demo.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon-key", cfg.SupabaseKey)
}

func TestLoadPrefersExplicitSupabaseVars(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://own.supabase.co")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://public.supabase.co")

	cfg := Load()
	assert.Equal(t, "https://own.supabase.co", cfg.SupabaseURL)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")
	t.Setenv("SUBMISSION_LOCK_TTL_SECONDS", "")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "")

	cfg := Load()
	assert.Equal(t, StoreSupabase, cfg.StoreBackend)
	assert.Equal(t, MediaCloudinary, cfg.MediaBackend)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 120*time.Second, cfg.SubmissionLockTTL)
	assert.Equal(t, "school-image", cfg.CloudinaryUploadPreset)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "many")
	assert.Equal(t, 8, getEnvInt("MAX_DB_CONNS", 8))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, parseOrigins(" https://a.test, ,https://b.test "))
}

func TestSubmissionLockKey(t *testing.T) {
	assert.Equal(t, "school_form:abc:submitting", CacheKey.SubmissionLockKey("abc"))
	assert.Equal(t, "school_form:abc:uploading", CacheKey.UploadLockKey("abc"))
}
