// Package formtest builds small, well-formed PDF documents with AcroForm
// fields for tests.
package formtest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Name is a PDF name value, written as /Name
type Name string

// Field describes one node of the AcroForm field tree. Value is a string
// (text), a Name, or nil for no V entry. Widgets is the number of unnamed
// widget kids to attach, as radio groups have.
type Field struct {
	Name    string
	Type    string
	Value   any
	Kids    []Field
	Widgets int
}

// Text returns a text field
func Text(name, value string) Field {
	return Field{Name: name, Type: "Tx", Value: value}
}

// Radio returns a radio group with two widget kids and the selected export name
func Radio(name string, selected Name) Field {
	return Field{Name: name, Type: "Btn", Value: selected, Widgets: 2}
}

type builder struct {
	objects []string
}

// add reserves the next object number and returns it
func (b *builder) add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

func (b *builder) set(num int, body string) {
	b.objects[num-1] = body
}

// Build returns a one-page PDF whose AcroForm holds fields in order
func Build(fields ...Field) []byte {
	b := &builder{}
	catalog := b.add("")
	pages := b.add("")
	page := b.add("")
	acroForm := b.add("")

	var annots, refs []string
	for _, f := range fields {
		num := b.addField(f, 0, page, &annots)
		refs = append(refs, ref(num))
	}

	b.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s /AcroForm %s >>", ref(pages), ref(acroForm)))
	b.set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", ref(page)))
	b.set(page, fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] /Annots [%s] >>",
		ref(pages), strings.Join(annots, " ")))
	b.set(acroForm, fmt.Sprintf("<< /Fields [%s] >>", strings.Join(refs, " ")))

	return b.bytes()
}

// BuildWithoutForm returns a one-page PDF with no AcroForm, like a document
// produced by a virtual printer
func BuildWithoutForm() []byte {
	b := &builder{}
	catalog := b.add("")
	pages := b.add("")
	page := b.add("")
	b.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", ref(pages)))
	b.set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", ref(page)))
	b.set(page, fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] >>", ref(pages)))
	return b.bytes()
}

func (b *builder) addField(f Field, parent, page int, annots *[]string) int {
	num := b.add("")

	var kids []string
	for _, kid := range f.Kids {
		kids = append(kids, ref(b.addField(kid, num, page, annots)))
	}
	for i := 0; i < f.Widgets; i++ {
		w := b.add(fmt.Sprintf("<< /Type /Annot /Subtype /Widget /Parent %s /P %s /Rect [%d 0 %d 10] /AS /Off >>",
			ref(num), ref(page), i*20, i*20+10))
		kids = append(kids, ref(w))
		*annots = append(*annots, ref(w))
	}

	var sb strings.Builder
	sb.WriteString("<< /T ")
	sb.WriteString(pdfString(f.Name))
	if f.Type != "" {
		sb.WriteString(" /FT /" + f.Type)
	}
	if f.Type == "Btn" && f.Widgets > 0 {
		sb.WriteString(" /Ff 49152")
	}
	switch v := f.Value.(type) {
	case string:
		sb.WriteString(" /V " + pdfString(v))
	case Name:
		sb.WriteString(" /V /" + string(v))
	}
	if parent > 0 {
		sb.WriteString(" /Parent " + ref(parent))
	}
	if len(kids) > 0 {
		sb.WriteString(" /Kids [" + strings.Join(kids, " ") + "]")
	} else {
		sb.WriteString(fmt.Sprintf(" /Type /Annot /Subtype /Widget /P %s /Rect [0 0 100 20]", ref(page)))
		*annots = append(*annots, ref(num))
	}
	sb.WriteString(" >>")

	b.set(num, sb.String())
	return num
}

// bytes serializes the objects with a byte-exact cross-reference table
func (b *builder) bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, xref)

	return buf.Bytes()
}

func ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

// pdfString writes ASCII as a literal string and anything else as UTF-16BE
// hex with a byte order mark
func pdfString(s string) string {
	ascii := true
	for _, r := range s {
		if r > 0x7e {
			ascii = false
			break
		}
	}

	if ascii {
		r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\n", `\n`, "\r", `\r`)
		return "(" + r.Replace(s) + ")"
	}

	var sb strings.Builder
	sb.WriteString("<FEFF")
	for _, u := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&sb, "%04X", u)
	}
	sb.WriteString(">")
	return sb.String()
}
