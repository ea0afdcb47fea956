package tac

import (
	"fmt"

	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
)

// Generator accumulates TAC across a whole program (spec §4.G, §5): its
// temp/label counters and the per-line result history never reset
// between lines, only between separate compilations.
type Generator struct {
	tempCounter  int
	labelCounter int
	instrs       []Instr
	lineResults  []string
}

// NewGenerator creates an empty, fresh generator for one compilation.
func NewGenerator() *Generator {
	return &Generator{}
}

// Instructions returns every instruction emitted so far, in source
// order (spec §5: "TAC is emitted in source order").
func (g *Generator) Instructions() []Instr {
	return g.instrs
}

// LineResults returns the final result name of every top-level line
// lowered so far, in source order. The optimizer treats these as roots:
// a line's result is its user-visible output even when no later
// instruction reads it, so dead-code elimination must not prune it.
func (g *Generator) LineResults() []string {
	return append([]string(nil), g.lineResults...)
}

func (g *Generator) newTemp() string {
	name := fmt.Sprintf("t%d", g.tempCounter)
	g.tempCounter++
	return name
}

func (g *Generator) newLabel() string {
	name := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return name
}

func (g *Generator) emit(i Instr) {
	g.instrs = append(g.instrs, i)
}

// LowerLine lowers one top-level expression and records its final
// result in the per-line history that Res nodes read from (spec §4.G:
// "After each top-level line is lowered, its final result name is
// appended to the per-line history").
func (g *Generator) LowerLine(n ast.Node) *cerr.Diagnostic {
	result, err := g.lower(n)
	if err != nil {
		return err
	}
	g.lineResults = append(g.lineResults, result)
	return nil
}

func (g *Generator) lower(n ast.Node) (string, *cerr.Diagnostic) {
	switch node := n.(type) {

	case *ast.Number:
		t := g.newTemp()
		g.emit(NewAssign(t, Lit(node.Lexeme)))
		return t, nil

	case *ast.Identifier:
		return node.Name, nil

	case *ast.Expression:
		return g.lower(node.Child)

	case *ast.Operation:
		return g.lowerBinary(node.Op, node.LHS, node.RHS)

	case *ast.Condition:
		return g.lowerBinary(node.Op, node.LHS, node.RHS)

	case *ast.Comparison:
		return g.lowerBinary(node.Op, node.LHS, node.RHS)

	case *ast.StoreMem:
		rv, err := g.lower(node.Value)
		if err != nil {
			return "", err
		}
		g.emit(NewCopy(node.Name, Var(rv)))
		return node.Name, nil

	case *ast.RecallMem:
		t := g.newTemp()
		g.emit(NewCopy(t, Var(node.Name)))
		return t, nil

	case *ast.Res:
		idx := len(g.lineResults) - node.N
		if node.N <= 0 || idx < 0 {
			return "", ast.Diag(node, cerr.InternalError, "RES index out of range during TAC generation")
		}
		src := g.lineResults[idx]
		t := g.newTemp()
		g.emit(NewCopy(t, Var(src)))
		return t, nil

	case *ast.If:
		lElse := g.newLabel()
		lEnd := g.newLabel()

		rc, err := g.lower(node.Condition)
		if err != nil {
			return "", err
		}
		g.emit(NewIfFalse(Var(rc), lElse))
		if _, err := g.lower(node.Then); err != nil {
			return "", err
		}
		g.emit(NewGoto(lEnd))
		g.emit(NewLabel(lElse))
		if _, err := g.lower(node.Else); err != nil {
			return "", err
		}
		g.emit(NewLabel(lEnd))
		return "", nil

	case *ast.While:
		lStart := g.newLabel()
		lEnd := g.newLabel()

		g.emit(NewLabel(lStart))
		rc, err := g.lower(node.Condition)
		if err != nil {
			return "", err
		}
		g.emit(NewIfFalse(Var(rc), lEnd))
		if _, err := g.lower(node.Body); err != nil {
			return "", err
		}
		g.emit(NewGoto(lStart))
		g.emit(NewLabel(lEnd))
		return "", nil

	case *ast.CompoundBlock:
		var last string
		for _, child := range node.Exprs {
			r, err := g.lower(child)
			if err != nil {
				return "", err
			}
			last = r
		}
		return last, nil

	default:
		return "", cerr.New(cerr.Position{}, cerr.InternalError, "unhandled AST node kind in TAC generation")
	}
}

func (g *Generator) lowerBinary(op string, lhsNode, rhsNode ast.Node) (string, *cerr.Diagnostic) {
	lr, err := g.lower(lhsNode)
	if err != nil {
		return "", err
	}
	rr, err := g.lower(rhsNode)
	if err != nil {
		return "", err
	}
	t := g.newTemp()
	g.emit(NewOp(t, Var(lr), op, Var(rr)))
	return t, nil
}
