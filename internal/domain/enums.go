package domain

// Media types accepted for result sheets.
const (
	MediaTypePDF       = "application/pdf"
	MediaTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypePlainText = "text/plain"
	MediaTypeCSV       = "text/csv"
	MediaTypePNG       = "image/png"
	MediaTypeJPEG      = "image/jpeg"
	MediaTypeTIFF      = "image/tiff"
)

// AllowedExtensions maps file extensions (without dot) to media types.
var AllowedExtensions = map[string]string{
	"pdf":  MediaTypePDF,
	"xlsx": MediaTypeXLSX,
	"txt":  MediaTypePlainText,
	"csv":  MediaTypeCSV,
	"png":  MediaTypePNG,
	"jpg":  MediaTypeJPEG,
	"jpeg": MediaTypeJPEG,
	"tif":  MediaTypeTIFF,
	"tiff": MediaTypeTIFF,
}

// IsImageMediaType reports whether the media type is a raster image.
func IsImageMediaType(mediaType string) bool {
	switch mediaType {
	case MediaTypePNG, MediaTypeJPEG, MediaTypeTIFF:
		return true
	}
	return false
}

// UserRole is the role carried in externally issued access tokens.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStaff   UserRole = "staff"
	RoleStudent UserRole = "student"
)

// SheetStatus represents the parse lifecycle of a result sheet.
type SheetStatus string

const (
	SheetStatusPending     SheetStatus = "pending"
	SheetStatusQueued      SheetStatus = "queued"
	SheetStatusProcessing  SheetStatus = "processing"
	SheetStatusCompleted   SheetStatus = "completed"
	SheetStatusManualEntry SheetStatus = "manual_entry"
	SheetStatusFailed      SheetStatus = "failed"
)

// Extraction methods recorded on a sheet.
const (
	MethodPDFText   = "pdf-text"
	MethodXLSXText  = "xlsx-text"
	MethodPlainText = "plain-text"
	MethodCSVText   = "csv-text"
	MethodOCR       = "ocr"
	MethodNone      = "none"
	MethodManual    = "manual"
)

// Canonical grade tokens.
const (
	GradeAPlus  = "A+"
	GradeA      = "A"
	GradeAMinus = "A-"
	GradeBPlus  = "B+"
	GradeB      = "B"
	GradeBMinus = "B-"
	GradeCPlus  = "C+"
	GradeC      = "C"
	GradeCMinus = "C-"
	GradeDPlus  = "D+"
	GradeD      = "D"
	GradeF      = "F"

	GradeAbsent        = "AB"
	GradeNotEligible   = "NE"
	GradeNoCredit      = "NC"
	GradeIncomplete    = "I"
	GradeWithdrawn     = "W"
	GradeWithdrawnPass = "WP"
	GradeWithdrawnFail = "WF"
	GradePass          = "P"
	GradeNoPass        = "NP"
)
