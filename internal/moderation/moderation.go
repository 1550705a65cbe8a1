// Package moderation validates free-text submissions against a denylist of
// inappropriate words and a set of formatting heuristics. The checks are
// pure functions of the input text.
package moderation

import (
	"regexp"
	"strings"
)

// Result is the outcome of a text quality check. ErrorMessage names the
// violated category and never echoes the offending text.
type Result struct {
	IsValid      bool
	ErrorMessage string
}

// Rule is one formatting heuristic. Either Pattern (an RE2 expression) or
// LetterRun (minimum length of a run of the same letter) must be set.
// LetterRun exists because RE2 has no backreferences, so a repeated-letter
// check cannot be expressed as a pattern.
type Rule struct {
	Pattern   string
	LetterRun int
	Message   string
}

// DefaultDenylist contains the words rejected in submitted text, in Spanish
// and English. Matching is a case-insensitive substring check.
var DefaultDenylist = []string{
	"tonto", "estúpido", "idiota", "imbécil", "pendejo", "mierda",
	"puta", "puto", "joder", "coño", "carajo", "marica", "maricón",
	"perra", "zorra", "cabrón",
	"fuck", "shit", "bitch", "asshole", "dick", "pussy",
}

// DenylistMessage is returned for any denylist hit.
const DenylistMessage = "El texto contiene lenguaje inapropiado. Por favor, utiliza un lenguaje respetuoso."

// DefaultRules are the stock formatting heuristics, applied in order.
var DefaultRules = []Rule{
	{
		Pattern: `[A-Z]{4,}`,
		Message: "El texto contiene demasiadas mayúsculas seguidas. Por favor, escribe normalmente.",
	},
	{
		Pattern: `[!?]{3,}`,
		Message: "El texto contiene demasiados signos de exclamación o interrogación.",
	},
	{
		LetterRun: 4,
		Message:   "El texto contiene caracteres repetidos. Por favor, escribe normalmente.",
	},
}

type compiledRule struct {
	matches func(string) bool
	message string
}

// Filter checks text against a denylist and a list of rules. The zero value
// is not usable; construct one with NewFilter or Default.
type Filter struct {
	denylist []string
	rules    []compiledRule
}

// NewFilter builds a filter from configuration data. Patterns are compiled
// eagerly; an invalid pattern is a programming error and panics.
func NewFilter(denylist []string, rules []Rule) *Filter {
	f := &Filter{}
	for _, word := range denylist {
		f.denylist = append(f.denylist, strings.ToLower(word))
	}
	for _, rule := range rules {
		f.rules = append(f.rules, compileRule(rule))
	}
	return f
}

// Default returns a filter with the stock denylist and rules.
func Default() *Filter {
	return NewFilter(DefaultDenylist, DefaultRules)
}

// Validate runs the checks in order and stops at the first violation.
func (f *Filter) Validate(text string) Result {
	lower := strings.ToLower(text)
	for _, word := range f.denylist {
		if strings.Contains(lower, word) {
			return Result{IsValid: false, ErrorMessage: DenylistMessage}
		}
	}
	for _, rule := range f.rules {
		if rule.matches(text) {
			return Result{IsValid: false, ErrorMessage: rule.message}
		}
	}
	return Result{IsValid: true}
}

func compileRule(rule Rule) compiledRule {
	if rule.LetterRun > 0 {
		run := rule.LetterRun
		return compiledRule{
			matches: func(text string) bool { return hasLetterRun(text, run) },
			message: rule.Message,
		}
	}
	re := regexp.MustCompile(rule.Pattern)
	return compiledRule{matches: re.MatchString, message: rule.Message}
}

// hasLetterRun reports whether text contains the same ASCII letter at least
// minRun times in a row. Case matters: "aaAA" is two runs of two.
func hasLetterRun(text string, minRun int) bool {
	var prev rune
	count := 0
	for _, r := range text {
		if !isASCIILetter(r) || r != prev {
			prev = r
			count = 1
			continue
		}
		count++
		if count >= minRun {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
