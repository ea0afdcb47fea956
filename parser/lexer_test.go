package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/cerr"
	"github.com/avrlang/rpnc/parser"
)

func tokenize(t *testing.T, src string) []parser.Token {
	t.Helper()
	lex := parser.NewLexer(src, 1)
	toks, err := lex.Tokenize()
	require.Nil(t, err, "unexpected lex error: %v", err)
	return toks
}

func TestLexer_BasicStore(t *testing.T) {
	toks := tokenize(t, "(42 MEM)")
	types := []parser.TokenType{
		parser.TokenLParen, parser.TokenNumber, parser.TokenIdentifier, parser.TokenRParen, parser.TokenEOF,
	}
	require.Len(t, toks, len(types))
	for i, want := range types {
		assert.Equal(t, want, toks[i].Type, "token %d", i)
	}
	assert.Equal(t, "42", toks[1].Literal)
	assert.Equal(t, "MEM", toks[2].Literal)
}

func TestLexer_RealNumber(t *testing.T) {
	toks := tokenize(t, "(3.14 X)")
	assert.Equal(t, "3.14", toks[1].Literal)
}

func TestLexer_ArithmeticOperators(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "%", "^", "|"} {
		toks := tokenize(t, "(1 2 "+op+")")
		assert.Equal(t, parser.TokenOperator, toks[3].Type, "operator %q", op)
		assert.Equal(t, op, toks[3].Literal)
	}
}

func TestLexer_RelationalOperators(t *testing.T) {
	cases := []string{">", "<", ">=", "<=", "==", "!="}
	for _, op := range cases {
		toks := tokenize(t, "(1 2 "+op+" (1) (2) IF)")
		assert.Equal(t, parser.TokenRelOp, toks[3].Type, "relop %q", op)
		assert.Equal(t, op, toks[3].Literal)
	}
}

func TestLexer_ReservedVsIdentifier(t *testing.T) {
	toks := tokenize(t, "(1 RES)")
	assert.Equal(t, parser.TokenReserved, toks[1].Type)
	assert.Equal(t, "RES", toks[1].Literal)

	toks = tokenize(t, "(MEM)")
	assert.Equal(t, parser.TokenIdentifier, toks[1].Type)
}

func TestLexer_BareEqualsIsIllegal(t *testing.T) {
	lex := parser.NewLexer("(1 2 =)", 1)
	_, err := lex.Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, cerr.LexicalError, err.Kind)
}

func TestLexer_BareBangIsIllegal(t *testing.T) {
	lex := parser.NewLexer("(1 2 !)", 1)
	_, err := lex.Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, cerr.LexicalError, err.Kind)
}

func TestLexer_MalformedNumberTrailingDot(t *testing.T) {
	lex := parser.NewLexer("(1. MEM)", 1)
	_, err := lex.Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, cerr.LexicalError, err.Kind)
}

func TestLexer_MalformedNumberTwoDots(t *testing.T) {
	lex := parser.NewLexer("(1.2.3 MEM)", 1)
	_, err := lex.Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, cerr.LexicalError, err.Kind)
}

func TestLexer_IllegalCharacter(t *testing.T) {
	lex := parser.NewLexer("(1 @ 2)", 1)
	_, err := lex.Tokenize()
	require.NotNil(t, err)
	assert.Equal(t, cerr.LexicalError, err.Kind)
}

func TestLexer_MinusIsAlwaysOperatorNeverSign(t *testing.T) {
	toks := tokenize(t, "(5 3 -)")
	assert.Equal(t, parser.TokenNumber, toks[1].Type)
	assert.Equal(t, "5", toks[1].Literal)
	assert.Equal(t, parser.TokenOperator, toks[3].Type)
}

func TestLexer_WhitespaceIsInsignificant(t *testing.T) {
	a := tokenize(t, "(1 2 +)")
	b := tokenize(t, "(  1   2    +  )")
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Type, b[i].Type)
		assert.Equal(t, a[i].Literal, b[i].Literal)
	}
}

func TestLexer_EOFIsStable(t *testing.T) {
	toks := tokenize(t, "(1)")
	last := toks[len(toks)-1]
	assert.Equal(t, parser.TokenEOF, last.Type)
}
