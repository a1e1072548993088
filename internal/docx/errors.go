package docx

import "errors"

// Sentinel errors for document operations.
var (
	ErrNotDocx       = errors.New("not a word-processing document")
	ErrMalformedXML  = errors.New("malformed document XML")
	ErrPosition      = errors.New("paragraph position out of range")
	ErrStyleNotFound = errors.New("paragraph style not found")
	ErrEmptyPicture  = errors.New("picture has no data or size")
)
