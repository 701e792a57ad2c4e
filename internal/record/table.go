package record

import (
	"fmt"

	"github.com/a3tai/pdf-form-read/internal/answer"
)

const (
	ColumnItem     = "Item"
	ColumnResposta = "Resposta"

	LabelName = "Nome"
	LabelCPF  = "CPF"
)

// Row is one line of the summary table. Resposta is a string, float64,
// answer.Code, or nil for an absent value.
type Row struct {
	Item     string `json:"item"`
	Resposta any    `json:"resposta"`
}

// Table is the flattened view of a record
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// QuestionLabel returns the Item label of question number
func QuestionLabel(number int) string {
	return fmt.Sprintf("Questão %d", number)
}

// ToTable flattens a record: name, CPF, then every question in record order
func ToTable(rec *Record) *Table {
	t := &Table{
		Columns: []string{ColumnItem, ColumnResposta},
		Rows:    make([]Row, 0, 2+len(rec.Questions)),
	}

	var id any
	if rec.Personal.CPF.Valid {
		id = rec.Personal.CPF.Formatted
	}

	t.Rows = append(t.Rows,
		Row{Item: LabelName, Resposta: rec.Personal.Name},
		Row{Item: LabelCPF, Resposta: id},
	)

	for _, q := range rec.Questions {
		t.Rows = append(t.Rows, Row{Item: QuestionLabel(q.Number), Resposta: q.Answer.Value()})
	}

	return t
}

// FormatValue renders a row value as display text
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return answer.FormatNumber(val)
	case answer.Code:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
