package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
)

// File is one uploaded file
type File struct {
	Name    string
	Content []byte
}

// Upload is the container handed over by an upload surface. Only the first
// file is processed.
type Upload struct {
	Files []File
}

// First returns the first uploaded file
func (u Upload) First() (File, error) {
	if len(u.Files) == 0 {
		return File{}, ferrors.New(ferrors.ErrorTypeInvalidUpload, "no file uploaded")
	}
	return u.Files[0], nil
}

// NewUpload wraps a single file's content
func NewUpload(name string, content []byte) Upload {
	return Upload{Files: []File{{Name: name, Content: content}}}
}

// UploadFromReader reads rc to the end and closes it. Content above
// maxFileSize is rejected without reading the rest.
func UploadFromReader(name string, rc io.ReadCloser, maxFileSize int64) (Upload, error) {
	defer rc.Close()

	var r io.Reader = rc
	if maxFileSize > 0 {
		r = io.LimitReader(rc, maxFileSize+1)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return Upload{}, ferrors.Wrap(ferrors.ErrorTypeInvalidUpload, err, "failed to read upload")
	}

	if maxFileSize > 0 && int64(len(content)) > maxFileSize {
		return Upload{}, ferrors.Newf(ferrors.ErrorTypeInvalidUpload,
			"file too large (max: %d bytes)", maxFileSize).WithContext(name)
	}

	return NewUpload(name, content), nil
}

// UploadFromFile reads the file at path as an upload
func UploadFromFile(path string, maxFileSize int64) (Upload, error) {
	file, err := os.Open(path)
	if err != nil {
		return Upload{}, ferrors.Wrap(ferrors.ErrorTypeInvalidUpload, err, "failed to open file")
	}
	return UploadFromReader(filepath.Base(path), file, maxFileSize)
}

// String describes the upload for logs
func (u Upload) String() string {
	if len(u.Files) == 0 {
		return "Upload{}"
	}
	return fmt.Sprintf("Upload{%s, %d bytes, %d file(s)}", u.Files[0].Name, len(u.Files[0].Content), len(u.Files))
}
