package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrCaseNotFound     = errors.New("case not found")
	ErrDocumentNotFound = errors.New("document not found")

	// Auth errors
	ErrLoginFailed  = errors.New("invalid email or password")
	ErrResetInvalid = errors.New("invalid or expired reset code")
)

// Context keys for error values
const (
	CaseIDKey     = "case_id"
	DocumentIDKey = "document_id"
)
