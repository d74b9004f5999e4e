// Package errtax classifies failed episodes into error categories and
// renders grouped and chronological error reports.
package errtax

import (
	"strings"

	"github.com/signalnine/scorecard/internal/record"
	"github.com/signalnine/scorecard/internal/table"
)

// Predicate decides whether an error message and stack trace belong to a
// category.
type Predicate func(errMsg, stackTrace string) bool

// Category is one named error class. Detail, when set, refines a match into
// a more specific sub-type label.
type Category struct {
	Name   string
	Match  Predicate
	Detail func(errMsg, stackTrace string) string
}

// Classifier is an ordered list of categories; the first match wins.
type Classifier []Category

// OtherError is the fallback category when an error matches no predicate.
const OtherError = "other_error"

// Categorize classifies one row. A row without an error message has no
// category and returns false.
func (c Classifier) Categorize(row table.Row) (string, bool) {
	msg, ok := errMsgOf(row)
	if !ok {
		return "", false
	}
	stack := stackOf(row)
	for _, cat := range c {
		if !cat.Match(msg, stack) {
			continue
		}
		if cat.Detail != nil {
			return cat.Detail(msg, stack), true
		}
		return cat.Name, true
	}
	return OtherError, true
}

// ClassCount is the number of errored rows falling into one class.
type ClassCount struct {
	Class string
	Count int
}

// CountByClass tallies errored rows per category, in classifier order, plus
// other_error (no predicate matched) and any_error (all errored rows).
func CountByClass(t *table.Table, c Classifier) []ClassCount {
	counts := make([]int, len(c))
	other, any := 0, 0
	for i := 0; i < t.Len(); i++ {
		msg, ok := errMsgOf(t.Rows[i])
		if !ok {
			continue
		}
		any++
		stack := stackOf(t.Rows[i])
		matched := false
		for j, cat := range c {
			if cat.Match(msg, stack) {
				counts[j]++
				matched = true
				break
			}
		}
		if !matched {
			other++
		}
	}
	out := make([]ClassCount, 0, len(c)+2)
	for j, cat := range c {
		out = append(out, ClassCount{Class: cat.Name, Count: counts[j]})
	}
	out = append(out, ClassCount{Class: OtherError, Count: other})
	out = append(out, ClassCount{Class: "any_error", Count: any})
	return out
}

func errMsgOf(row table.Row) (string, bool) {
	v, ok := row[record.ColErrMsg]
	if !ok || v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func stackOf(row table.Row) string {
	v, ok := row[record.ColStackTrace]
	if !ok || v.IsNull() {
		return ""
	}
	return v.String()
}

// Default is the stock classifier: server errors split into critical (the
// provider fell over) and minor (retryable), then token budget overruns and
// environment timeouts. Anything else is other_error.
func Default() Classifier {
	return Classifier{
		{
			Name:   "critical_server_error",
			Match:  isCriticalServerError,
			Detail: criticalServerErrorType,
		},
		{
			Name:   "minor_server_error",
			Match:  isMinorServerError,
			Detail: minorServerErrorType,
		},
		{
			Name:  "exceeded_token_budget",
			Match: isTokenBudgetError,
		},
		{
			Name:  "env_timeout",
			Match: isTimeoutError,
		},
	}
}

var criticalServerTokens = []string{
	"500 Internal Server Error",
	"502 Bad Gateway",
	"503 Service Unavailable",
	"504 Gateway Timeout",
}

var minorServerTokens = []string{
	"429",
	"Too Many Requests",
	"Rate limit",
	"rate_limit",
	"overloaded",
}

func isCriticalServerError(errMsg, stackTrace string) bool {
	return criticalServerErrorType(errMsg, stackTrace) != ""
}

// criticalServerErrorType returns the matched token as the detailed
// sub-type, prefixed with the category name.
func criticalServerErrorType(errMsg, stackTrace string) string {
	text := errMsg + "\n" + stackTrace
	for _, tok := range criticalServerTokens {
		if strings.Contains(text, tok) {
			return "critical_server_error: " + tok
		}
	}
	return ""
}

func isMinorServerError(errMsg, stackTrace string) bool {
	return minorServerErrorType(errMsg, stackTrace) != ""
}

func minorServerErrorType(errMsg, stackTrace string) string {
	text := errMsg + "\n" + stackTrace
	for _, tok := range minorServerTokens {
		if strings.Contains(text, tok) {
			return "minor_server_error: " + tok
		}
	}
	return ""
}

func isTokenBudgetError(errMsg, _ string) bool {
	return tokenCountRe.MatchString(errMsg) ||
		strings.Contains(errMsg, "maximum context length")
}

func isTimeoutError(errMsg, stackTrace string) bool {
	return strings.Contains(errMsg, "TimeoutError") ||
		strings.Contains(stackTrace, "TimeoutError")
}
