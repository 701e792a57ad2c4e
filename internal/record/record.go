// Package record assembles the personal data and answers of a form into a
// record and flattens it into a two-column table.
package record

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a3tai/pdf-form-read/internal/answer"
	"github.com/a3tai/pdf-form-read/internal/cpf"
	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
	"github.com/a3tai/pdf-form-read/internal/form"
)

const (
	// NameField holds the student's name
	NameField = "header_nome"
	// CPFField holds the student's CPF
	CPFField = "header_cpf"

	questionPrefix = "q"
)

// Personal is the identification block of the form
type Personal struct {
	Name string    `json:"name"`
	CPF  cpf.Value `json:"cpf"`
}

// Question is a numbered answer
type Question struct {
	Number int           `json:"number"`
	Answer answer.Answer `json:"answer"`
}

// Record is one processed form. Questions are unique by number and kept in
// the order their fields appear in the document.
type Record struct {
	Personal  Personal   `json:"personal"`
	Questions []Question `json:"questions"`

	index map[int]int
}

// SetQuestion stores the answer for number. A repeated number overwrites the
// earlier answer in place.
func (r *Record) SetQuestion(number int, a answer.Answer) {
	if r.index == nil {
		r.index = make(map[int]int)
	}
	if i, ok := r.index[number]; ok {
		r.Questions[i].Answer = a
		return
	}
	r.index[number] = len(r.Questions)
	r.Questions = append(r.Questions, Question{Number: number, Answer: a})
}

// Question returns the answer for number
func (r *Record) Question(number int) (answer.Answer, bool) {
	i, ok := r.index[number]
	if !ok {
		return answer.Answer{}, false
	}
	return r.Questions[i].Answer, true
}

// Build assembles a record from the raw fields of a form. Missing name or
// CPF fields and unclassifiable question fields are errors; an invalid CPF
// or unparsable numeric answer is not.
func Build(fields *form.Fields, c *answer.Classifier) (*Record, error) {
	name, ok := fields.Get(NameField)
	if !ok {
		return nil, ferrors.New(ferrors.ErrorTypeMissingField, "required field not found").WithField(NameField)
	}

	rawCPF, ok := fields.Get(CPFField)
	if !ok {
		return nil, ferrors.New(ferrors.ErrorTypeMissingField, "required field not found").WithField(CPFField)
	}

	rec := &Record{
		Personal: Personal{
			Name: TitleCase(strings.TrimSpace(name.Text)),
			CPF:  cpf.Parse(rawCPF.Text),
		},
	}

	for _, f := range fields.All() {
		if !strings.HasPrefix(f.Name, questionPrefix) {
			continue
		}

		number, a, err := c.Classify(f.Name, f.Value)
		if err != nil {
			return nil, err
		}
		rec.SetQuestion(number, a)
	}

	return rec, nil
}

// TitleCase upper-cases the first letter of every word and leaves the rest
// of each word as typed
func TitleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese, cases.NoLower).String(s)
}
