package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/a3tai/pdf-form-read/internal/answer"
)

// Output formats
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Exporter writes a table in one output format
type Exporter interface {
	Export(w io.Writer, t *Table) error
}

// NewExporter returns the exporter for format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case FormatText, "":
		return TextExporter{}, nil
	case FormatCSV:
		return CSVExporter{}, nil
	case FormatJSON:
		return JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// TextExporter prints an aligned two-column table
type TextExporter struct{}

// Export implements Exporter
func (TextExporter) Export(w io.Writer, t *Table) error {
	cells := make([][2]string, 0, len(t.Rows)+1)
	cells = append(cells, [2]string{ColumnItem, ColumnResposta})
	for _, row := range t.Rows {
		cells = append(cells, [2]string{row.Item, FormatValue(row.Resposta)})
	}

	width := 0
	for _, c := range cells {
		if n := runewidth.StringWidth(c[0]); n > width {
			width = n
		}
	}

	for _, c := range cells {
		line := runewidth.FillRight(c[0], width) + "  " + c[1]
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// CSVExporter writes the table with an Item,Resposta header
type CSVExporter struct{}

// Export implements Exporter
func (CSVExporter) Export(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColumnItem, ColumnResposta}); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write([]string{row.Item, FormatValue(row.Resposta)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// JSONExporter writes the rows as an array of {"item","resposta"} objects
type JSONExporter struct{}

// Export implements Exporter
func (JSONExporter) Export(w io.Writer, t *Table) error {
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, Row{Item: row.Item, Resposta: jsonValue(row.Resposta)})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// jsonValue replaces the float values JSON cannot represent with their text
func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return answer.FormatNumber(f)
	}
	return v
}
