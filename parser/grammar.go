package parser

import (
	"strconv"
	"strings"

	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
)

// Parser is the LL(1) driver described in spec §4.B. It holds the full
// token stream for one line and a cursor; disambiguation is expressed
// declaratively against a bounded peek(n) primitive instead of the
// source's save/restore-a-position-index approach (spec §9).
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over an already-lexed token stream.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the token n positions ahead of the cursor (n=0 is the
// token about to be consumed). Spec §9 bounds this at n≤3; reading past
// the end of the stream yields a synthetic EOF token rather than a
// panic, which keeps every lookahead check a simple comparison.
func (p *Parser) peek(n int) Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		last := p.tokens[len(p.tokens)-1]
		return Token{Type: TokenEOF, Pos: last.Pos}
	}
	return p.tokens[i]
}

func (p *Parser) cur() Token { return p.peek(0) }

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(tt TokenType) (Token, *cerr.Diagnostic) {
	t := p.cur()
	if t.Type != tt {
		return t, cerr.Newf(t.Pos, cerr.SyntaxError, "expected %s, found %s", tt, t.Type)
	}
	return p.advance(), nil
}

// Parse consumes the whole token stream as a single top-level
// expression P → E, per spec §4.B. The outermost E is not wrapped in an
// Expression node: its body's own node (Operation, StoreMem, If, ...)
// is the result, matching E2E-1 in spec §8.
func (p *Parser) Parse() (ast.Node, *cerr.Diagnostic) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	if p.cur().Type != TokenEOF {
		return nil, cerr.Newf(p.cur().Pos, cerr.SyntaxError, "unexpected trailing token %s", p.cur())
	}
	return body, nil
}

// parseBody implements the bounded-lookahead tie-break policy of spec
// §4.B, evaluated in the documented order.
func (p *Parser) parseBody() (ast.Node, *cerr.Diagnostic) {
	line := p.cur().Pos.Line

	// 1. Number Identifier RParen -> store (literal value).
	if p.peek(0).Type == TokenNumber && p.peek(1).Type == TokenIdentifier && p.peek(2).Type == TokenRParen {
		numTok := p.advance()
		idTok := p.advance()
		return ast.NewStoreMem(line, ast.NewNumber(line, numTok.Literal), idTok.Literal), nil
	}

	// 2. Number 'RES' -> res.
	if p.peek(0).Type == TokenNumber && p.peek(1).Type == TokenReserved && p.peek(1).Literal == "RES" {
		numTok := p.advance()
		p.advance() // RES
		if strings.Contains(numTok.Literal, ".") {
			return nil, cerr.New(numTok.Pos, cerr.SyntaxError, "RES count must be an integer literal")
		}
		n, convErr := strconv.Atoi(numTok.Literal)
		if convErr != nil {
			return nil, cerr.Newf(numTok.Pos, cerr.SyntaxError, "invalid RES count %q", numTok.Literal)
		}
		return ast.NewRes(line, n), nil
	}

	// 3. Identifier RParen -> recall.
	if p.peek(0).Type == TokenIdentifier && p.peek(1).Type == TokenRParen {
		idTok := p.advance()
		return ast.NewRecallMem(line, idTok.Literal), nil
	}

	operand1, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	// 1b. (expr) Identifier RParen -> store (computed value). Rule 1
	// above already covers a literal Number operand; this covers the
	// `(expr)` operand spec §4.B also allows (`store → operand
	// Identifier`, "operand here is number or (expr)").
	if _, isExpr := operand1.(*ast.Expression); isExpr && p.cur().Type == TokenIdentifier && p.peek(1).Type == TokenRParen {
		idTok := p.advance()
		return ast.NewStoreMem(line, operand1, idTok.Literal), nil
	}

	// A body that closes immediately after one operand is the
	// degenerate "bare operand" form used as a block's return value,
	// e.g. the `5` inside `((5))` (spec §8 E2E-5).
	if p.cur().Type == TokenRParen {
		return operand1, nil
	}

	operand2, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch {
	case p.cur().Type == TokenRelOp:
		opTok := p.advance()

		// 4a. RelOp immediately followed by RParen -> comparison.
		if p.cur().Type == TokenRParen {
			return ast.NewComparison(line, opTok.Literal, operand1, operand2), nil
		}

		// 4b. Otherwise a control construct: one or two blocks
		// followed by IF, or a single block followed by WHILE.
		return p.parseControl(line, opTok, operand1, operand2)

	case p.cur().Type == TokenOperator:
		opTok := p.advance()
		return ast.NewOperation(line, opTok.Literal, operand1, operand2), nil

	default:
		return nil, cerr.Newf(p.cur().Pos, cerr.SyntaxError, "expected operator or relational operator, found %s", p.cur())
	}
}

// parseControl parses the `block tail` suffix of the `control`
// production (spec §4.B grammar).
func (p *Parser) parseControl(line int, relOp Token, lhs, rhs ast.Node) (ast.Node, *cerr.Diagnostic) {
	cond := ast.NewCondition(line, relOp.Literal, lhs, rhs)

	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	switch {
	case p.cur().Type == TokenLParen:
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ifTok, err := p.expect(TokenReserved)
		if err != nil {
			return nil, err
		}
		if ifTok.Literal != "IF" {
			return nil, cerr.Newf(ifTok.Pos, cerr.SyntaxError, "expected IF, found %s", ifTok.Literal)
		}
		return ast.NewIf(line, cond, thenBlock, elseBlock), nil

	case p.cur().Type == TokenReserved && p.cur().Literal == "WHILE":
		p.advance()
		return ast.NewWhile(line, cond, thenBlock), nil

	default:
		return nil, cerr.Newf(p.cur().Pos, cerr.SyntaxError, "expected a second block or WHILE, found %s", p.cur())
	}
}

// parseOperand implements `operand → Number | Identifier | E`.
func (p *Parser) parseOperand() (ast.Node, *cerr.Diagnostic) {
	switch p.cur().Type {
	case TokenNumber:
		t := p.advance()
		return ast.NewNumber(t.Pos.Line, t.Literal), nil
	case TokenIdentifier:
		t := p.advance()
		return ast.NewIdentifier(t.Pos.Line, t.Literal), nil
	case TokenLParen:
		return p.parseNestedExpression()
	default:
		return nil, cerr.Newf(p.cur().Pos, cerr.SyntaxError, "expected a number, identifier, or '(', found %s", p.cur())
	}
}

// parseNestedExpression parses a parenthesized sub-expression occurring
// as an operand and wraps it as an Expression node (spec §3: "folds the
// derivation into... Expression").
func (p *Parser) parseNestedExpression() (ast.Node, *cerr.Diagnostic) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return ast.NewExpression(open.Pos.Line, body), nil
}

// parseBlock implements `block → E | '(' E+ ')'` (spec §4.B): a block is
// a single E unless its first inner token is itself '(', in which case
// it is a CompoundBlock of E's read until the matching ')'.
func (p *Parser) parseBlock() (ast.Node, *cerr.Diagnostic) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	line := open.Pos.Line

	if p.cur().Type == TokenLParen {
		first, err := p.parseNestedExpression()
		if err != nil {
			return nil, err
		}

		// A parenthesized operand immediately followed by `Identifier
		// ')'` is not a sequence of sibling E's: it is the `(expr)`
		// operand of a store (spec §4.B: `store -> operand
		// Identifier`), and the whole block is that single E, not a
		// CompoundBlock.
		if p.cur().Type == TokenIdentifier && p.peek(1).Type == TokenRParen {
			idTok := p.advance()
			store := ast.NewStoreMem(line, first, idTok.Literal)
			if _, err := p.expect(TokenRParen); err != nil {
				return nil, err
			}
			return ast.NewExpression(line, store), nil
		}

		exprs := []ast.Node{first}
		for p.cur().Type != TokenRParen {
			if p.cur().Type == TokenEOF {
				return nil, cerr.New(p.cur().Pos, cerr.SyntaxError, "unterminated compound block")
			}
			e, err := p.parseNestedExpression()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		p.advance() // closing ')'
		return ast.NewCompoundBlock(line, exprs), nil
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return ast.NewExpression(line, body), nil
}
