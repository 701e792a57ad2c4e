package pipeline

import (
	"fmt"
	"strings"

	"github.com/a3tai/pdf-form-read/internal/form"
)

// FormatFields renders a raw field map, one name = value line per field in
// document order
func FormatFields(name string, fields *form.Fields) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Form fields in %s (%d):\n", name, fields.Len())
	for _, f := range fields.All() {
		fmt.Fprintf(&b, "  %s = %s\n", f.Name, f.Value)
	}
	return b.String()
}
