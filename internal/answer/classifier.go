package answer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	ferrors "github.com/a3tai/pdf-form-read/internal/errors"
	"github.com/a3tai/pdf-form-read/internal/form"
)

// Rule maps a field-name predicate to the parser for that question kind
type Rule struct {
	Kind  Kind
	Match func(fieldName string) bool
	Parse func(c *Classifier, raw form.Value) (Answer, error)
}

// DefaultRules returns the rules in evaluation order. The first match wins,
// so a field named "q1_radio_group_num" is a choice question.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: KindChoice, Match: contains("radio_group"), Parse: parseChoice},
		{Kind: KindNumeric, Match: contains("num"), Parse: parseNumeric},
		{Kind: KindCode, Match: contains("code"), Parse: parseCode},
	}
}

func contains(substr string) func(string) bool {
	return func(name string) bool {
		return strings.Contains(name, substr)
	}
}

// Classifier turns question fields into numbered answers
type Classifier struct {
	rules   []Rule
	checker SyntaxChecker
}

// NewClassifier creates a classifier with the default rules. A nil checker
// uses the Python parser.
func NewClassifier(checker SyntaxChecker) *Classifier {
	if checker == nil {
		checker = PythonChecker{}
	}
	return &Classifier{
		rules:   DefaultRules(),
		checker: checker,
	}
}

// Classify picks the rule for fieldName, extracts the question number and
// parses raw. Names matching no rule, or carrying no digit, fail with an
// UNKNOWN_QUESTION_TYPE error.
func (c *Classifier) Classify(fieldName string, raw form.Value) (int, Answer, error) {
	for _, rule := range c.rules {
		if !rule.Match(fieldName) {
			continue
		}

		number, err := QuestionNumber(fieldName)
		if err != nil {
			return 0, Answer{}, err
		}

		a, err := rule.Parse(c, raw)
		if err != nil {
			return 0, Answer{}, err
		}
		return number, a, nil
	}

	return 0, Answer{}, ferrors.Newf(ferrors.ErrorTypeUnknownQuestionType,
		"unknown question type %s", fieldName).WithField(fieldName)
}

// QuestionNumber returns the first run of digits in fieldName
func QuestionNumber(fieldName string) (int, error) {
	start := strings.IndexAny(fieldName, "0123456789")
	if start < 0 {
		return 0, ferrors.Newf(ferrors.ErrorTypeUnknownQuestionType,
			"no question number in %s", fieldName).WithField(fieldName)
	}

	end := start
	for end < len(fieldName) && fieldName[end] >= '0' && fieldName[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(fieldName[start:end])
	if err != nil {
		return 0, ferrors.Wrap(ferrors.ErrorTypeUnknownQuestionType, err,
			"invalid question number").WithField(fieldName)
	}
	return n, nil
}

// parseChoice keeps the second character of the widget's export value,
// which holds the option label ("/B" selects "B").
func parseChoice(_ *Classifier, raw form.Value) (Answer, error) {
	if !raw.Present {
		return Missing(KindChoice), nil
	}

	_, size := utf8.DecodeRuneInString(raw.Text)
	rest := raw.Text[size:]
	if rest == "" {
		return Missing(KindChoice), nil
	}

	r, n := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError && n <= 1 {
		return Missing(KindChoice), nil
	}
	return Choice(rest[:n]), nil
}

// floatLiteral is the decimal float syntax with single underscores between
// digits. Hex floats are not numbers here.
var floatLiteral = regexp.MustCompile(`(?i)^[+-]?(?:` +
	`(?:(?:\d(?:_?\d)*)?\.\d(?:_?\d)*|\d(?:_?\d)*\.?)(?:e[+-]?\d(?:_?\d)*)?` +
	`|inf|infinity|nan)$`)

// parseNumeric accepts a decimal comma. Unparsable input is an absent
// answer, not an error.
func parseNumeric(_ *Classifier, raw form.Value) (Answer, error) {
	if !raw.Present {
		return Missing(KindNumeric), nil
	}

	text := strings.ReplaceAll(strings.TrimSpace(raw.Text), ",", ".")
	if !floatLiteral.MatchString(text) {
		return Missing(KindNumeric), nil
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return Missing(KindNumeric), nil
	}
	return Numeric(n), nil
}

// parseCode checks the syntax of the submitted snippet. Only syntax errors
// make it invalid; other checker failures propagate.
func parseCode(c *Classifier, raw form.Value) (Answer, error) {
	if !raw.Present {
		return CodeAnswer(false, ""), nil
	}

	valid, err := c.checker.CheckSyntax(raw.Text)
	if err != nil {
		return Answer{}, err
	}
	return CodeAnswer(valid, raw.Text), nil
}
