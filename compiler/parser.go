package compiler

// parser takes tokens from the lexer and produces a statement. The contents of
// a parenthesized clause are taken as raw source text up to the first ")" and
// broken up with Split, so nested parentheses are not supported.

import (
	"fmt"
	"strings"

	"github.com/chirst/memdb/errors"
)

const (
	tokenErr   = "unexpected token %q"
	identErr   = "expected table name but got %q"
	keywordErr = "expected %s but got %q"
	closeErr   = "missing ) to close %s clause"
	countErr   = "%d columns but %d values"
)

type parser struct {
	src    string
	tokens []token
	end    int
}

// NewParser creates a parser for tokens lexed from src.
func NewParser(src string, tokens []token) *parser {
	return &parser{src: src, tokens: tokens}
}

// Parse parses a single statement. The first CREATE or INSERT keyword selects
// the kind of statement and any words before it are skipped. Text after the
// last clause is ignored.
func (p *parser) Parse() (Stmt, error) {
	for i, t := range p.tokens {
		if t.tokenType != tkKeyword {
			continue
		}
		switch t.value {
		case kwCreate:
			p.end = i
			return p.parseCreate()
		case kwInsert:
			p.end = i
			return p.parseInsert()
		}
	}
	return nil, errors.NewParse(p.src, errors.ErrUnrecognizedStatement, "")
}

func (p *parser) parseCreate() (*CreateStmt, error) {
	stmt := &CreateStmt{}
	if err := p.expectKeyword(kwTable); err != nil {
		return nil, err
	}
	tn, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.TableName = tn
	clause, err := p.parseClause("column")
	if err != nil {
		return nil, err
	}
	stmt.ColDefs = []ColDef{}
	for _, fragment := range SplitStrings(clause, true) {
		name, colType, _ := strings.Cut(fragment, " ")
		stmt.ColDefs = append(stmt.ColDefs, ColDef{
			ColName: name,
			ColType: colType,
		})
	}
	return stmt, nil
}

func (p *parser) parseInsert() (*InsertStmt, error) {
	stmt := &InsertStmt{}
	if err := p.expectKeyword(kwInto); err != nil {
		return nil, err
	}
	tn, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.TableName = tn
	cols, err := p.parseClause("column")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(kwValues); err != nil {
		return nil, err
	}
	if lp := p.nextNonSpace(); lp.value != "(" {
		return nil, p.malformed(tokenErr, lp.value)
	}
	vals, err := p.parseClause("value")
	if err != nil {
		return nil, err
	}
	stmt.ColNames = SplitStrings(cols, true)
	stmt.ColValues = Split(vals, true, true)
	if len(stmt.ColNames) != len(stmt.ColValues) {
		return nil, errors.NewParse(
			p.src,
			errors.ErrColumnValueCountMismatch,
			fmt.Sprintf(countErr, len(stmt.ColNames), len(stmt.ColValues)),
		)
	}
	return stmt, nil
}

// parseTableName consumes the table name and the "(" opening the first
// clause.
func (p *parser) parseTableName() (string, error) {
	tn := p.nextNonSpace()
	if tn.tokenType != tkWord {
		return "", p.malformed(identErr, tn.value)
	}
	if lp := p.nextNonSpace(); lp.value != "(" {
		return "", p.malformed(tokenErr, lp.value)
	}
	return tn.value, nil
}

// parseClause returns the source text between the current "(" and the first
// ")" after it and leaves the parser on that ")".
func (p *parser) parseClause(name string) (string, error) {
	open := p.tokens[p.end]
	for i := p.end + 1; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.tokenType == tkSeparator && t.value == ")" {
			p.end = i
			return p.src[open.offset+1 : t.offset], nil
		}
	}
	return "", p.malformed(closeErr, name)
}

func (p *parser) expectKeyword(kw string) error {
	t := p.nextNonSpace()
	if t.tokenType != tkKeyword || t.value != kw {
		return p.malformed(keywordErr, kw, t.value)
	}
	return nil
}

func (p *parser) malformed(format string, args ...any) error {
	return errors.NewParse(p.src, errors.ErrMalformedClause, fmt.Sprintf(format, args...))
}

func (p *parser) nextNonSpace() token {
	p.end = p.end + 1
	if p.end > len(p.tokens)-1 {
		return token{tokenType: tkEOF}
	}
	for p.tokens[p.end].tokenType == tkWhitespace {
		p.end = p.end + 1
		if p.end > len(p.tokens)-1 {
			return token{tokenType: tkEOF}
		}
	}
	return p.tokens[p.end]
}
