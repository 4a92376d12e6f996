// lexer creates tokens from a statement string. The tokens are fed into the
// parser.
package compiler

import (
	"slices"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

type tokenType int

type token struct {
	tokenType tokenType
	value     string
	// offset is the byte offset of the token in the lexed source. The parser
	// uses it to take clauses as raw text.
	offset int
}

const (
	// tkKeyword is a reserved word. For example CREATE, INTO or VALUES.
	tkKeyword tokenType = iota + 1
	// tkWord is any other run of characters up to whitespace or a separator.
	// Table names, column definitions and values are words.
	tkWord
	// tkWhitespace is a run of spaces, tabs or newlines.
	tkWhitespace
	// tkSeparator is "(", ")", "," or ";".
	tkSeparator
	// tkEOF (End of file) is the end of input.
	tkEOF
)

const (
	kwCreate = "CREATE"
	kwTable  = "TABLE"
	kwInsert = "INSERT"
	kwInto   = "INTO"
	kwValues = "VALUES"
)

var keywords = []string{
	kwCreate,
	kwTable,
	kwInsert,
	kwInto,
	kwValues,
}

// statementLexer splits a statement into words, separators and whitespace.
// Quotes are not special so a quoted value containing a space or separator is
// split like any other text.
var statementLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Separator", Pattern: `[(),;]`},
	{Name: "Word", Pattern: `[^\s(),;]+`},
})

var lexerSymbols = statementLexer.Symbols()

type lexer struct {
	src string
}

func NewLexer(src string) *lexer {
	return &lexer{src: src}
}

// Lex returns every token of the source. Keywords are upper cased, all other
// values are kept as written.
func (l *lexer) Lex() ([]token, error) {
	lex, err := statementLexer.LexString("", l.src)
	if err != nil {
		return nil, err
	}
	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	ret := make([]token, 0, len(raw))
	for _, t := range raw {
		ret = append(ret, l.convert(t))
	}
	return ret, nil
}

func (l *lexer) convert(t plexer.Token) token {
	switch t.Type {
	case lexerSymbols["Whitespace"]:
		return token{tokenType: tkWhitespace, value: " ", offset: t.Pos.Offset}
	case lexerSymbols["Separator"]:
		return token{tokenType: tkSeparator, value: t.Value, offset: t.Pos.Offset}
	case lexerSymbols["Word"]:
		if l.isKeyword(t.Value) {
			return token{tokenType: tkKeyword, value: strings.ToUpper(t.Value), offset: t.Pos.Offset}
		}
		return token{tokenType: tkWord, value: t.Value, offset: t.Pos.Offset}
	}
	return token{tokenType: tkEOF, offset: len(l.src)}
}

func (*lexer) isKeyword(w string) bool {
	return slices.Contains(keywords, strings.ToUpper(w))
}
