// compiler is composed of a lexer, a tokenizer and a parser. These turn the text
// of a single CREATE TABLE or INSERT INTO statement into a Stmt the store can
// execute.
package compiler

import (
	"regexp"
	"strings"

	"github.com/chirst/memdb/errors"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Compile lexes and parses one statement. A statement may end with a single
// ";" and may not contain a second one. When the statement is neither a
// CREATE nor an INSERT the error is errors.ErrUnrecognizedStatement.
func Compile(sql string) (Stmt, error) {
	src := normalizeSpace(sql)
	if strings.Count(src, ";") > 1 {
		return nil, errors.NewParse(src, errors.ErrMultipleStatements, "")
	}
	tokens, err := NewLexer(src).Lex()
	if err != nil {
		return nil, errors.NewParse(src, errors.ErrMalformedClause, err.Error())
	}
	return NewParser(src, tokens).Parse()
}

// normalizeSpace collapses every run of whitespace to a single space.
func normalizeSpace(sql string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(sql, " "))
}
