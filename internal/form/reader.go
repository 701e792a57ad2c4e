package form

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
)

// maxFieldDepth bounds the Kids recursion on malformed field trees
const maxFieldDepth = 32

// Reader extracts AcroForm field values using pdfcpu
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a new form reader. A nil logger discards output.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{
		logger: logger,
	}
}

// ReadFile reads the form fields of the PDF at filePath
func (r *Reader) ReadFile(filePath string) (*Fields, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	return r.ReadFields(file)
}

// ReadFields reads the form fields of the PDF in rs. It fails with a
// FORM_READ error when the document has no named form fields, which is what
// a flattened or virtually printed document looks like.
func (r *Reader) ReadFields(rs io.ReadSeeker) (*Fields, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrorTypeFormRead, err, "failed to read PDF context")
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrorTypeFormRead, err, "failed to ensure page count")
	}

	fields, err := r.extractFields(ctx)
	if err != nil {
		return nil, err
	}

	if fields.Len() == 0 {
		return nil, ferrors.New(ferrors.ErrorTypeFormRead, "failed to read PDF as a form")
	}

	r.logger.Debug("form fields read", "count", fields.Len(), "pages", ctx.PageCount)
	return fields, nil
}

// extractFields walks the AcroForm field tree of a pdfcpu context
func (r *Reader) extractFields(ctx *model.Context) (*Fields, error) {
	fields := NewFields()

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrorTypeFormRead, err, "failed to get catalog")
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		r.logger.Debug("no AcroForm dictionary found in document")
		return fields, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrorTypeFormRead, err, "failed to dereference AcroForm")
	}
	if acroFormDict == nil {
		return fields, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		r.logger.Debug("no Fields array found in AcroForm")
		return fields, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrorTypeFormRead, err, "failed to dereference Fields array")
	}

	for _, fieldRef := range fieldsArray {
		r.walkField(ctx, fieldRef, "", fields, 0)
	}

	return fields, nil
}

// walkField records a named field and descends into its Kids. Widgets
// without a T entry are not fields of their own.
func (r *Reader) walkField(ctx *model.Context, fieldObj types.Object, parent string, fields *Fields, depth int) {
	if depth > maxFieldDepth {
		r.logger.Warn("form field tree too deep", "parent", parent)
		return
	}

	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		r.logger.Debug("skipping field", "parent", parent, "error", err)
		return
	}
	if fieldDict == nil {
		return
	}

	name := parent
	if nameObj, found := fieldDict.Find("T"); found {
		partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil)
		if err != nil {
			r.logger.Debug("skipping field with unreadable name", "parent", parent, "error", err)
			return
		}
		if parent != "" {
			name = parent + "." + partial
		} else {
			name = partial
		}
		fields.Set(name, r.fieldValue(ctx, fieldDict))
	}

	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		r.logger.Debug("skipping unreadable Kids", "field", name, "error", err)
		return
	}
	for _, kid := range kids {
		r.walkField(ctx, kid, name, fields, depth+1)
	}
}

// fieldValue renders the V entry of a field as text. Names keep their
// leading slash, so a radio group exporting "2" reads "/2".
func (r *Reader) fieldValue(ctx *model.Context, fieldDict types.Dict) Value {
	valueObj, found := fieldDict.Find("V")
	if !found {
		return Absent
	}

	obj, err := ctx.Dereference(valueObj)
	if err != nil || obj == nil {
		return Absent
	}

	switch v := obj.(type) {
	case types.StringLiteral, types.HexLiteral:
		if s, err := ctx.DereferenceStringOrHexLiteral(v, model.V10, nil); err == nil {
			return Text(s)
		}
	case types.Name:
		return Text("/" + string(v))
	case types.Integer:
		return Text(strconv.Itoa(int(v)))
	case types.Float:
		return Text(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case types.Array:
		for _, item := range v {
			if s, err := ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
				return Text(s)
			}
		}
	}
	return Absent
}
