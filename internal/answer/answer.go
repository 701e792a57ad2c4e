// Package answer classifies question fields by name and parses their raw
// values into typed answers.
package answer

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a question
type Kind int

const (
	KindUnknown Kind = iota
	KindChoice
	KindNumeric
	KindCode
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindNumeric:
		return "numeric"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Code is the answer to a code question: the raw text and whether it parses
type Code struct {
	Valid bool   `json:"valid"`
	Text  string `json:"text"`
}

// String renders the pair as (valid, "text")
func (c Code) String() string {
	return fmt.Sprintf("(%t, %q)", c.Valid, c.Text)
}

// Answer is a tagged union over the three question kinds. For choice and
// numeric answers Present false is the absent marker; code answers are
// always present.
type Answer struct {
	Kind    Kind    `json:"kind"`
	Present bool    `json:"present"`
	Choice  string  `json:"choice,omitempty"`
	Number  float64 `json:"number,omitempty"`
	Code    Code    `json:"code"`
}

// Choice returns a choice answer
func Choice(label string) Answer {
	return Answer{Kind: KindChoice, Present: true, Choice: label}
}

// Numeric returns a numeric answer
func Numeric(n float64) Answer {
	return Answer{Kind: KindNumeric, Present: true, Number: n}
}

// CodeAnswer returns a code answer
func CodeAnswer(valid bool, text string) Answer {
	return Answer{Kind: KindCode, Present: true, Code: Code{Valid: valid, Text: text}}
}

// Missing returns the absent answer of kind k
func Missing(k Kind) Answer {
	return Answer{Kind: k}
}

// Value returns the answer as a plain value: string, float64, Code, or nil
// when absent
func (a Answer) Value() any {
	if !a.Present {
		return nil
	}
	switch a.Kind {
	case KindChoice:
		return a.Choice
	case KindNumeric:
		return a.Number
	case KindCode:
		return a.Code
	default:
		return nil
	}
}

// String renders the answer for display. Absent answers render empty.
func (a Answer) String() string {
	if !a.Present {
		return ""
	}
	switch a.Kind {
	case KindChoice:
		return a.Choice
	case KindNumeric:
		return FormatNumber(a.Number)
	case KindCode:
		return a.Code.String()
	default:
		return ""
	}
}

// FormatNumber renders n in its shortest decimal form
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
