package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, src string) []TokenType {
	toks, err := New(src).Tokenize()
	require.NoError(t, err)
	var out []TokenType
	for _, tok := range toks {
		out = append(out, tok.Type)
	}
	return out
}

func TestLexerSimpleAssignment(t *testing.T) {
	types := tokenTypes(t, "x = 1\n")
	assert.Equal(t, []TokenType{TokenIdentifier, TokenAssign, TokenInteger, TokenNewline, TokenEOF}, types)
}

func TestLexerIndentDedent(t *testing.T) {
	src := "if x:\n    y = 1\nz = 2\n"
	toks, err := New(src).Tokenize()
	require.NoError(t, err)

	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, TokenIndent)
	assert.Contains(t, types, TokenDedent)
}

func TestLexerOperators(t *testing.T) {
	types := tokenTypes(t, "a <= b >= c << d >> e != f == g\n")
	assert.Contains(t, types, TokenLessEq)
	assert.Contains(t, types, TokenGreaterEq)
	assert.Contains(t, types, TokenShl)
	assert.Contains(t, types, TokenShr)
	assert.Contains(t, types, TokenNotEq)
	assert.Contains(t, types, TokenEqEq)
}

func TestLexerStringEscapes(t *testing.T) {
	toks, err := New(`"a\nb"` + "\n").Tokenize()
	require.NoError(t, err)
	require.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].Literal)
}

func TestLexerUnterminatedStringErrors(t *testing.T) {
	_, err := New(`"unterminated`).Tokenize()
	assert.Error(t, err)
}

func TestLexerFloatLiteral(t *testing.T) {
	toks, err := New("3.14\n").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, TokenFloat, toks[0].Type)
	assert.Equal(t, "3.14", toks[0].Literal)
}
