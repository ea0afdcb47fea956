// Package sema is the attribute-grammar-based semantic analyzer of spec
// §4.E-§4.F: type inference over the AST, synthesized bottom-up in
// post-order (memory checks for MEM and RES are made during inference),
// plus the control-flow validator that runs once the tree types
// successfully.
package sema

import (
	"fmt"
	"strings"

	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
	"github.com/avrlang/rpnc/symtab"
)

// Infer annotates every node of n with its inferred_type (spec §4.E),
// declaring/updating symbols in tbl as it encounters StoreMem nodes.
// It returns the root's inferred type and the first fatal diagnostic
// encountered, if any; warnings (mismatched IF branch types) are
// appended to warnings rather than aborting inference.
func Infer(n ast.Node, tbl *symtab.Table, warnings *cerr.Bag) (ast.Type, *cerr.Diagnostic) {
	switch node := n.(type) {

	case *ast.Number:
		t := ast.Int
		if strings.Contains(node.Lexeme, ".") {
			t = ast.Real
		}
		ast.SetType(node, t)
		return t, nil

	case *ast.Identifier:
		if !tbl.Exists(node.Name) {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, "undeclared identifier "+node.Name)
		}
		init, _ := tbl.Initialized(node.Name)
		if !init {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, "use of uninitialized memory "+node.Name)
		}
		t, _ := tbl.TypeOf(node.Name)
		ast.SetType(node, t)
		return t, nil

	case *ast.Expression:
		t, err := Infer(node.Child, tbl, warnings)
		ast.SetType(node, t)
		return t, err

	case *ast.Operation:
		return inferOperation(node, tbl, warnings)

	case *ast.Condition:
		return inferRelational(node.Op, node.LHS, node.RHS, node, tbl, warnings)

	case *ast.Comparison:
		return inferRelational(node.Op, node.LHS, node.RHS, node, tbl, warnings)

	case *ast.StoreMem:
		vt, err := Infer(node.Value, tbl, warnings)
		if err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		if tbl.Exists(node.Name) {
			_ = tbl.Update(node.Name, vt, true)
		} else {
			_ = tbl.Add(node.Name, vt, node.Line())
			_ = tbl.Update(node.Name, vt, true)
		}
		ast.SetType(node, vt)
		return vt, nil

	case *ast.RecallMem:
		if !tbl.Exists(node.Name) {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, "undeclared identifier "+node.Name)
		}
		init, _ := tbl.Initialized(node.Name)
		if !init {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, "use of uninitialized memory "+node.Name)
		}
		t, _ := tbl.TypeOf(node.Name)
		ast.SetType(node, t)
		return t, nil

	case *ast.Res:
		if node.N <= 0 || node.N > tbl.HistoryLen() {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, "RES index out of range")
		}
		result, err := tbl.History(node.N)
		if err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, ast.Diag(node, cerr.MemoryError, err.Error())
		}
		ast.SetType(node, result.Type)
		return result.Type, nil

	case *ast.If:
		if _, err := Infer(node.Condition, tbl, warnings); err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		thenT, err := Infer(node.Then, tbl, warnings)
		if err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		elseT, err := Infer(node.Else, tbl, warnings)
		if err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		if thenT != elseT {
			warnings.Add(cerr.Warnf(cerr.Position{Line: node.Line()}, "IF branches have different types (%s vs %s)", thenT, elseT))
		}
		ast.SetType(node, thenT)
		return thenT, nil

	case *ast.While:
		if _, err := Infer(node.Condition, tbl, warnings); err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		bodyT, err := Infer(node.Body, tbl, warnings)
		if err != nil {
			ast.SetType(node, ast.Err)
			return ast.Err, err
		}
		ast.SetType(node, bodyT)
		return bodyT, nil

	case *ast.CompoundBlock:
		var last ast.Type = ast.Void
		for _, child := range node.Exprs {
			t, err := Infer(child, tbl, warnings)
			if err != nil {
				ast.SetType(node, ast.Err)
				return ast.Err, err
			}
			last = t
		}
		ast.SetType(node, last)
		return last, nil

	default:
		return ast.Err, cerr.New(cerr.Position{}, cerr.InternalError, "unhandled AST node kind")
	}
}

func numeric(t ast.Type) bool {
	return t == ast.Int || t == ast.Real
}

// promote implements spec §4.E's promotion law: real iff either operand
// is real.
func promote(a, b ast.Type) ast.Type {
	if a == ast.Real || b == ast.Real {
		return ast.Real
	}
	return ast.Int
}

func inferOperation(node *ast.Operation, tbl *symtab.Table, warnings *cerr.Bag) (ast.Type, *cerr.Diagnostic) {
	lt, err := Infer(node.LHS, tbl, warnings)
	if err != nil {
		ast.SetType(node, ast.Err)
		return ast.Err, err
	}
	rt, err := Infer(node.RHS, tbl, warnings)
	if err != nil {
		ast.SetType(node, ast.Err)
		return ast.Err, err
	}

	var result ast.Type
	switch node.Op {
	case "+", "-", "*":
		if !numeric(lt) || !numeric(rt) {
			return typeErr(node, "operator %q requires numeric operands", node.Op)
		}
		result = promote(lt, rt)

	case "|":
		if !numeric(lt) || !numeric(rt) {
			return typeErr(node, "operator %q requires numeric operands", node.Op)
		}
		result = ast.Real

	case "/", "%":
		if lt != ast.Int || rt != ast.Int {
			return typeErr(node, "operator %q requires integer operands", node.Op)
		}
		result = ast.Int

	case "^":
		if rt != ast.Int || !numeric(lt) {
			return typeErr(node, "operator %q requires an integer exponent", node.Op)
		}
		result = lt

	default:
		return typeErr(node, "unknown operator %q", node.Op)
	}

	ast.SetType(node, result)
	return result, nil
}

func inferRelational(op string, lhs, rhs ast.Node, node ast.Node, tbl *symtab.Table, warnings *cerr.Bag) (ast.Type, *cerr.Diagnostic) {
	lt, err := Infer(lhs, tbl, warnings)
	if err != nil {
		ast.SetType(node, ast.Err)
		return ast.Err, err
	}
	rt, err := Infer(rhs, tbl, warnings)
	if err != nil {
		ast.SetType(node, ast.Err)
		return ast.Err, err
	}
	if !numeric(lt) || !numeric(rt) {
		ast.SetType(node, ast.Err)
		return ast.Err, ast.Diag(node, cerr.ControlError, "relational operator "+op+" requires numeric operands")
	}
	ast.SetType(node, ast.Bool)
	return ast.Bool, nil
}

func typeErr(node ast.Node, format string, args ...interface{}) (ast.Type, *cerr.Diagnostic) {
	ast.SetType(node, ast.Err)
	return ast.Err, ast.Diag(node, cerr.TypeError, fmt.Sprintf(format, args...))
}
