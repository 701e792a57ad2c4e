package record

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-form-read/internal/answer"
	"github.com/a3tai/pdf-form-read/internal/cpf"
)

func sampleRecord() *Record {
	rec := &Record{
		Personal: Personal{Name: "Ana Silva", CPF: cpf.Parse("52998224725")},
	}
	rec.SetQuestion(2, answer.Numeric(3.5))
	rec.SetQuestion(1, answer.Choice("2"))
	rec.SetQuestion(3, answer.CodeAnswer(false, "def f(:"))
	rec.SetQuestion(4, answer.Missing(answer.KindNumeric))
	return rec
}

func TestToTable(t *testing.T) {
	table := ToTable(sampleRecord())

	assert.Equal(t, []string{"Item", "Resposta"}, table.Columns)
	assert.Equal(t, []Row{
		{Item: "Nome", Resposta: "Ana Silva"},
		{Item: "CPF", Resposta: "529.982.247-25"},
		{Item: "Questão 2", Resposta: 3.5},
		{Item: "Questão 1", Resposta: "2"},
		{Item: "Questão 3", Resposta: answer.Code{Valid: false, Text: "def f(:"}},
		{Item: "Questão 4", Resposta: nil},
	}, table.Rows)
}

func TestToTable_InvalidCPF(t *testing.T) {
	table := ToTable(&Record{Personal: Personal{Name: "Ana", CPF: cpf.Parse("1")}})

	assert.Equal(t, []Row{
		{Item: LabelName, Resposta: "Ana"},
		{Item: LabelCPF, Resposta: nil},
	}, table.Rows)
}

func TestTextExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextExporter{}.Export(&buf, ToTable(sampleRecord())))

	want := "Item       Resposta\n" +
		"Nome       Ana Silva\n" +
		"CPF        529.982.247-25\n" +
		"Questão 2  3.5\n" +
		"Questão 1  2\n" +
		"Questão 3  (false, \"def f(:\")\n" +
		"Questão 4\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Export(&buf, ToTable(sampleRecord())))

	want := "Item,Resposta\n" +
		"Nome,Ana Silva\n" +
		"CPF,529.982.247-25\n" +
		"Questão 2,3.5\n" +
		"Questão 1,2\n" +
		"Questão 3,\"(false, \"\"def f(:\"\")\"\n" +
		"Questão 4,\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONExporter(t *testing.T) {
	rec := &Record{Personal: Personal{Name: "Ana", CPF: cpf.Parse("52998224725")}}
	rec.SetQuestion(1, answer.CodeAnswer(true, "x = 1"))
	rec.SetQuestion(2, answer.Numeric(math.Inf(1)))

	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, ToTable(rec)))

	assert.JSONEq(t, `[
		{"item": "Nome", "resposta": "Ana"},
		{"item": "CPF", "resposta": "529.982.247-25"},
		{"item": "Questão 1", "resposta": {"valid": true, "text": "x = 1"}},
		{"item": "Questão 2", "resposta": "inf"}
	]`, buf.String())
}

func TestNewExporter(t *testing.T) {
	for _, format := range []string{"", FormatText, FormatCSV, FormatJSON} {
		exporter, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, exporter)
	}

	_, err := NewExporter("xml")
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "42", FormatValue(42))
}
