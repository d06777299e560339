package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrEmptyDocument        = errors.New("document buffer is empty")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrSheetNotFound        = errors.New("result sheet not found")
	ErrSheetNotParsed       = errors.New("result sheet has not been parsed yet")
	ErrSheetBusy            = errors.New("result sheet is being parsed")
	ErrNoValidRecords       = errors.New("no valid records supplied")
	ErrInvalidRegistration  = errors.New("invalid registration id")
	ErrInvalidProjection    = errors.New("invalid projection input")
	ErrUnknownExportFormat  = errors.New("unknown export format")
)
