package sema

import (
	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
)

var relOps = map[string]bool{
	">": true, "<": true, ">=": true, "<=": true, "==": true, "!=": true,
}

// ValidateControl walks an already-typed tree and enforces the IF/WHILE
// shape rules of spec §4.F. It assumes Infer has already succeeded for
// n (a malformed condition's type error would have aborted the line
// before this runs), so what's left to check here is structural:
// exactly the right children, the right block kinds, and a condition
// operator drawn from the six RelOps.
func ValidateControl(n ast.Node) *cerr.Diagnostic {
	switch node := n.(type) {

	case *ast.If:
		if err := validateCondition(node.Condition); err != nil {
			return err
		}
		if !isBlock(node.Then) {
			return ast.Diag(node, cerr.ControlError, "IF then-branch must be a block")
		}
		if !isBlock(node.Else) {
			return ast.Diag(node, cerr.ControlError, "IF else-branch must be a block")
		}
		if err := ValidateControl(node.Then); err != nil {
			return err
		}
		return ValidateControl(node.Else)

	case *ast.While:
		if err := validateCondition(node.Condition); err != nil {
			return err
		}
		if !isBlock(node.Body) {
			return ast.Diag(node, cerr.ControlError, "WHILE body must be a block")
		}
		return ValidateControl(node.Body)

	case *ast.Expression:
		return ValidateControl(node.Child)

	case *ast.CompoundBlock:
		for _, child := range node.Exprs {
			if err := ValidateControl(child); err != nil {
				return err
			}
		}
		return nil

	case *ast.Operation:
		if err := ValidateControl(node.LHS); err != nil {
			return err
		}
		return ValidateControl(node.RHS)

	case *ast.StoreMem:
		return ValidateControl(node.Value)

	default:
		return nil
	}
}

func isBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.Expression, *ast.CompoundBlock:
		return true
	default:
		return false
	}
}

func validateCondition(n ast.Node) *cerr.Diagnostic {
	cond, ok := n.(*ast.Condition)
	if !ok {
		return ast.Diag(n, cerr.ControlError, "control construct requires a relational condition")
	}
	if !relOps[cond.Op] {
		return ast.Diag(cond, cerr.ControlError, "unknown relational operator "+cond.Op)
	}
	if cond.InferredType() != ast.Bool {
		return ast.Diag(cond, cerr.ControlError, "condition must have type bool")
	}
	return nil
}
