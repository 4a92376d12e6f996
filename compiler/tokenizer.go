package compiler

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Split breaks a comma separated clause into tokens. Every comma ends a token,
// so an empty clause is one empty token and a trailing comma adds an empty
// token. Each token is trimmed and loses at most one leading and one trailing
// quote. Quotes are not paired and a comma inside quotes still splits.
//
// With coerceNumeric a token that parses as a base 10 integer becomes an int64.
// With lowercase the remaining string tokens are lower cased unless a quote
// was stripped from them.
func Split(text string, coerceNumeric, lowercase bool) []any {
	parts := strings.Split(text, ",")
	ret := make([]any, 0, len(parts))
	for _, part := range parts {
		ret = append(ret, splitToken(part, coerceNumeric, lowercase))
	}
	return ret
}

// SplitStrings is Split without numeric coercion.
func SplitStrings(text string, lowercase bool) []string {
	parts := Split(text, false, lowercase)
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		ret = append(ret, p.(string))
	}
	return ret
}

func splitToken(part string, coerceNumeric, lowercase bool) any {
	v, quoted := unquote(strings.TrimSpace(part))
	if coerceNumeric {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if lowercase && !quoted {
		return cases.Lower(language.Und).String(v)
	}
	return v
}

func unquote(s string) (string, bool) {
	quoted := false
	if len(s) > 0 && isQuote(s[0]) {
		s = s[1:]
		quoted = true
	}
	if len(s) > 0 && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
		quoted = true
	}
	return s, quoted
}

func isQuote(b byte) bool {
	return b == '\'' || b == '"'
}
