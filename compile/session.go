// Package compile is the single driver shared by the CLI, the phase
// debugger, and the compile service (SPEC_FULL §3.5), the way the
// source tree's debugger service is the one entry point its CLI and
// TUI both call into rather than re-implementing phase sequencing.
package compile

import (
	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
	"github.com/avrlang/rpnc/encoder"
	"github.com/avrlang/rpnc/parser"
	"github.com/avrlang/rpnc/sema"
	"github.com/avrlang/rpnc/symtab"
	"github.com/avrlang/rpnc/tac"
	"github.com/avrlang/rpnc/tacopt"
)

// LineResult carries everything a front end (CLI, TUI, API) wants to
// show for one compiled source line.
type LineResult struct {
	Line     int
	Tokens   []parser.Token
	AST      ast.Node
	Type     ast.Type
	Warnings []*cerr.Diagnostic
}

// Session owns the state that must persist across a whole compilation
// (spec §5): the symbol table, the RES history it carries, and the
// monotonic temp/label counters inside the TAC generator. It never
// resets any of this between CompileLine calls; only a new Session
// starts over.
type Session struct {
	Symbols *symtab.Table
	gen     *tac.Generator

	optimized []tac.Instr
	stats     tacopt.Stats
}

// NewSession creates an empty session for one compilation run.
func NewSession() *Session {
	return &Session{
		Symbols: symtab.New(),
		gen:     tac.NewGenerator(),
	}
}

// CompileLine runs one source line through lex -> parse -> type ->
// validate -> lower to TAC, recording its result in the session's
// persistent state on success (spec §6: "each line is compiled in the
// context of everything before it").
func (s *Session) CompileLine(lineNo int, src string) (*LineResult, *cerr.Diagnostic) {
	lex := parser.NewLexer(src, lineNo)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}

	p := parser.NewParser(tokens)
	tree, err := p.Parse()
	if err != nil {
		return nil, err
	}

	warnings := &cerr.Bag{}
	typ, err := sema.Infer(tree, s.Symbols, warnings)
	if err != nil {
		return nil, err
	}

	if err := sema.ValidateControl(tree); err != nil {
		return nil, err
	}

	if err := s.gen.LowerLine(tree); err != nil {
		return nil, err
	}

	s.Symbols.RecordResult(typ, literalValue(tree))

	return &LineResult{
		Line:     lineNo,
		Tokens:   tokens,
		AST:      tree,
		Type:     typ,
		Warnings: warnings.All(),
	}, nil
}

// literalValue returns the literal text backing n, when n is (or
// reduces to) a bare number. It is recorded in the RES history next to
// the line's type; Res typing reads only the recorded type, and Res
// lowering copies from the earlier line's result name.
func literalValue(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Number:
		return node.Lexeme
	case *ast.Expression:
		return literalValue(node.Child)
	default:
		return ""
	}
}

// TAC returns every TAC instruction emitted across the session so far,
// in source order.
func (s *Session) TAC() []tac.Instr {
	return s.gen.Instructions()
}

// Optimize runs the optimizer over the session's TAC at the given
// level and caches the result for Generate.
func (s *Session) Optimize(level tacopt.Level) []tac.Instr {
	s.optimized, s.stats = tacopt.Optimize(s.gen.Instructions(), level, s.gen.LineResults()...)
	return s.optimized
}

// Stats reports the most recent Optimize call's pass statistics.
func (s *Session) Stats() tacopt.Stats {
	return s.stats
}

// Generate lowers the session's optimized TAC (falling back to
// unoptimized TAC if Optimize was never called) to AVR assembly text.
func (s *Session) Generate(target encoder.Target) (string, error) {
	instrs := s.optimized
	if instrs == nil {
		instrs = s.gen.Instructions()
	}
	cg := encoder.NewCodeGen(target)
	return cg.Generate(instrs)
}
