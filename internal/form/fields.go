// Package form reads the interactive form (AcroForm) of a PDF document into
// an ordered map of raw field values.
package form

// Value is the raw value of a form field. Present is false when the field
// carries no V entry, which is how an unanswered field reads.
type Value struct {
	Text    string `json:"text"`
	Present bool   `json:"present"`
}

// Absent is the value of a field without a V entry
var Absent = Value{}

// Text returns a present value holding s
func Text(s string) Value {
	return Value{Text: s, Present: true}
}

// String returns the text, or "<absent>" for a missing value
func (v Value) String() string {
	if !v.Present {
		return "<absent>"
	}
	return v.Text
}

// Field is a named raw value in document order
type Field struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Fields maps field names to raw values, keeping the order in which the
// document declares them.
type Fields struct {
	order  []string
	values map[string]Value
}

// NewFields creates an empty field map
func NewFields() *Fields {
	return &Fields{
		values: make(map[string]Value),
	}
}

// Set stores a value. Re-setting a name replaces the value but keeps the
// position of its first occurrence.
func (f *Fields) Set(name string, v Value) {
	if _, exists := f.values[name]; !exists {
		f.order = append(f.order, name)
	}
	f.values[name] = v
}

// Get returns the value of name and whether the field exists
func (f *Fields) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Len returns the number of distinct field names
func (f *Fields) Len() int {
	return len(f.order)
}

// All returns the fields in document order
func (f *Fields) All() []Field {
	all := make([]Field, 0, len(f.order))
	for _, name := range f.order {
		all = append(all, Field{Name: name, Value: f.values[name]})
	}
	return all
}
