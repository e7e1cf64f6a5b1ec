package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrUploadFailed    ErrCode = "UPLOAD_FAILED"

	// ─── Record store ──────────────────────────────────────────────────
	ErrInsertFailed ErrCode = "INSERT_FAILED"
	ErrFetchFailed  ErrCode = "FETCH_FAILED"

	// ─── Workflow ──────────────────────────────────────────────────────
	ErrSubmissionInFlight ErrCode = "SUBMISSION_IN_FLIGHT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "School image is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrUploadFailed:
		return "Error uploading image to Cloudinary."

	// ─── Record store ──────────────────────────────────────────────────
	case ErrInsertFailed:
		return "Failed to save school details. Please try again."
	case ErrFetchFailed:
		return "Could not load schools."

	// ─── Workflow ──────────────────────────────────────────────────────
	case ErrSubmissionInFlight:
		return "A submission is already in progress."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrInternal:
		return "An unexpected error occurred. Please try again."
	default:
		return "An unexpected error occurred."
	}
}
