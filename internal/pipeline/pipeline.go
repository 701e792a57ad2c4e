// Package pipeline runs an uploaded form through reading, validation and
// table building, and is the single place where failures are reported.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/a3tai/pdf-form-read/internal/answer"
	"github.com/a3tai/pdf-form-read/internal/form"
	"github.com/a3tai/pdf-form-read/internal/logging"
	"github.com/a3tai/pdf-form-read/internal/record"
)

// GuidanceMessage is printed before the error whenever a form cannot be
// processed
const GuidanceMessage = "Não foi possível processar o arquivo PDF.\n" +
	"Certifique-se de que o arquivo enviado está correto e que o documento foi salvo,\n" +
	"e não gerado por meio de impressão virtual.\n"

// Options configures a Pipeline
type Options struct {
	MaxFileSize int64
	Format      string
	Logger      *slog.Logger
	Checker     answer.SyntaxChecker
}

// Pipeline turns uploads into summary tables
type Pipeline struct {
	preflight  *form.Preflight
	reader     *form.Reader
	classifier *answer.Classifier
	exporter   record.Exporter
	logger     *slog.Logger
}

// New creates a pipeline. A nil logger discards output and a nil checker
// uses the Python parser.
func New(opts Options) (*Pipeline, error) {
	exporter, err := record.NewExporter(opts.Format)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Pipeline{
		preflight:  form.NewPreflight(opts.MaxFileSize),
		reader:     form.NewReader(logger),
		classifier: answer.NewClassifier(opts.Checker),
		exporter:   exporter,
		logger:     logger,
	}, nil
}

// Fields reads the raw form fields of the first uploaded file
func (p *Pipeline) Fields(upload Upload) (fields *form.Fields, err error) {
	defer recoverError(&err)

	file, err := upload.First()
	if err != nil {
		return nil, err
	}

	logger := p.logger.With("file", file.Name)

	if err := p.preflight.Check(file.Content); err != nil {
		return nil, err
	}

	if info, err := p.preflight.Inspect(file.Content); err != nil {
		logger.Warn("document inspection failed", "error", err)
	} else {
		logger.Debug("document inspected", "size", info.Size, "pages", info.Pages)
	}

	return p.reader.ReadFields(bytes.NewReader(file.Content))
}

// Process runs the first uploaded file through the whole pipeline. It
// returns either a complete table or an error, never both.
func (p *Pipeline) Process(upload Upload) (table *record.Table, err error) {
	defer recoverError(&err)

	fields, err := p.Fields(upload)
	if err != nil {
		return nil, err
	}

	rec, err := record.Build(fields, p.classifier)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("record built", "questions", len(rec.Questions), "cpf_valid", rec.Personal.CPF.Valid)
	return record.ToTable(rec), nil
}

// Run processes upload and writes the table to w, or reports the failure
// to w. The table is rendered in full before anything is written, so a
// failure never leaves partial rows behind. It returns whether a table was
// written.
func (p *Pipeline) Run(w io.Writer, upload Upload) bool {
	table, err := p.Process(upload)
	if err != nil {
		p.logger.Error("form processing failed", "upload", upload.String(), "error", err)
		Report(w, err)
		return false
	}

	text, err := p.Render(table)
	if err != nil {
		p.logger.Error("failed to render table", "error", err)
		Report(w, err)
		return false
	}

	if _, err := io.WriteString(w, text); err != nil {
		p.logger.Error("failed to write table", "error", err)
		return false
	}
	return true
}

// RunFile reads the file at path as an upload and runs it. Read failures
// are reported like any other failure.
func (p *Pipeline) RunFile(w io.Writer, path string, maxFileSize int64) bool {
	upload, err := UploadFromFile(path, maxFileSize)
	if err != nil {
		p.logger.Error("upload failed", "path", path, "error", err)
		Report(w, err)
		return false
	}
	return p.Run(w, upload)
}

// Render returns the table in the pipeline's output format
func (p *Pipeline) Render(table *record.Table) (string, error) {
	var buf bytes.Buffer
	if err := p.exporter.Export(&buf, table); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Report writes the guidance message followed by the error description
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, GuidanceMessage)
	fmt.Fprintf(w, "Erro: %v\n", err)
}

// recoverError turns a panic from a PDF parser into an error so nothing
// escapes the pipeline boundary
func recoverError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic while processing PDF: %v", r)
	}
}
