package form

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
)

const (
	pdfHeader = "%PDF-"

	// headerWindow is how far into the file readers accept the header
	headerWindow = 1024
)

// DocumentInfo holds diagnostic facts about an uploaded document
type DocumentInfo struct {
	Size  int64 `json:"size"`
	Pages int   `json:"pages"`
}

// Preflight rejects uploads that cannot be a PDF before the form is parsed
type Preflight struct {
	maxFileSize int64
}

// NewPreflight creates a new preflight check with the given size limit
func NewPreflight(maxFileSize int64) *Preflight {
	return &Preflight{
		maxFileSize: maxFileSize,
	}
}

// Check validates the raw bytes of an uploaded document
func (p *Preflight) Check(data []byte) error {
	if len(data) == 0 {
		return ferrors.New(ferrors.ErrorTypeInvalidDocument, "file is empty")
	}

	if p.maxFileSize > 0 && int64(len(data)) > p.maxFileSize {
		return ferrors.Newf(ferrors.ErrorTypeInvalidDocument,
			"file too large: %d bytes (max: %d bytes)", len(data), p.maxFileSize)
	}

	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if !bytes.Contains(window, []byte(pdfHeader)) {
		return ferrors.New(ferrors.ErrorTypeInvalidDocument, "file is not a PDF: missing %PDF- header")
	}

	return nil
}

// Inspect opens the document with ledongthuc/pdf to report its page count.
// It is diagnostic only; callers log the error and carry on.
func (p *Preflight) Inspect(data []byte) (info *DocumentInfo, err error) {
	info = &DocumentInfo{Size: int64(len(data))}

	// ledongthuc/pdf panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while inspecting PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return info, fmt.Errorf("failed to open PDF: %w", err)
	}

	info.Pages = reader.NumPage()
	return info, nil
}
