package httpserver

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
	// legacy .doc files are OLE compound documents and often sniff as such
	mimeOLE = "application/x-ole-storage"
	mimeZIP = "application/zip"

	maxIDLen        = 100
	maxFieldRunes   = 20000
	msgInvalidType  = "Invalid file type. Only PDF, DOC, and DOCX files are allowed."
	msgInvalidID    = "Invalid id"
	msgNoFile       = "No file uploaded"
	msgLessonNotFnd = "Lesson not found"
)

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// allowedExt enforces the upload allowlist: .pdf, .doc, .docx
func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".doc", ".docx":
		return true
	}
	return false
}

// allowedMIMEFor checks the sniffed content type against the file extension.
// A .docx is a zip container and may be reported as plain zip.
func allowedMIMEFor(m, filename string) bool {
	m = strings.ToLower(m)
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return m == mimePDF
	case ".docx":
		return m == mimeDOCX || m == mimeZIP
	case ".doc":
		return m == mimeDOC || m == mimeOLE
	}
	return false
}

// ValidateID checks a path id for the history endpoints.
func ValidateID(id string) error {
	if id == "" || len(id) > maxIDLen || !validID.MatchString(id) {
		return domain.Invalid("id", msgInvalidID)
	}
	return nil
}

// SanitizeString strips NUL bytes, trims, repairs UTF-8 and caps the length
// of free-text form fields.
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	if !utf8.ValidString(input) {
		input = strings.ToValidUTF8(input, "")
	}
	if utf8.RuneCountInString(input) > maxFieldRunes {
		input = string([]rune(input)[:maxFieldRunes])
	}
	return input
}
