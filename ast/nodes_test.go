package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrlang/rpnc/ast"
	"github.com/avrlang/rpnc/cerr"
)

func TestTypeString(t *testing.T) {
	cases := map[ast.Type]string{
		ast.Unresolved: "unresolved",
		ast.Int:        "int",
		ast.Real:       "real",
		ast.Bool:       "bool",
		ast.Err:        "err",
		ast.Void:       "void",
	}
	for typ, want := range cases {
		assert.Equal(t, want, typ.String())
	}
}

func TestNodeConstructors_TrackLineAndKind(t *testing.T) {
	n := ast.NewNumber(4, "10")
	assert.Equal(t, 4, n.Line())
	assert.Equal(t, "Number", n.Kind())
	assert.Equal(t, ast.Unresolved, n.InferredType())

	id := ast.NewIdentifier(1, "MEM")
	assert.Equal(t, "Identifier", id.Kind())
	assert.Equal(t, "MEM", id.Name)

	op := ast.NewOperation(2, "+", n, id)
	assert.Equal(t, "Operation", op.Kind())
	assert.Same(t, ast.Node(n), op.LHS)

	store := ast.NewStoreMem(3, n, "MEM")
	assert.Equal(t, "StoreMem", store.Kind())

	recall := ast.NewRecallMem(3, "MEM")
	assert.Equal(t, "RecallMem", recall.Kind())

	res := ast.NewRes(5, 2)
	assert.Equal(t, "Res", res.Kind())
	assert.Equal(t, 2, res.N)

	ifNode := ast.NewIf(6, ast.NewCondition(6, ">", n, n), ast.NewExpression(6, n), ast.NewExpression(6, n))
	assert.Equal(t, "If", ifNode.Kind())

	whileNode := ast.NewWhile(7, ast.NewCondition(7, "<", n, n), ast.NewExpression(7, n))
	assert.Equal(t, "While", whileNode.Kind())

	block := ast.NewCompoundBlock(8, []ast.Node{n, id})
	assert.Equal(t, "CompoundBlock", block.Kind())
	assert.Len(t, block.Exprs, 2)

	cmp := ast.NewComparison(9, "==", n, id)
	assert.Equal(t, "Comparison", cmp.Kind())

	expr := ast.NewExpression(10, n)
	assert.Equal(t, "Expression", expr.Kind())
	assert.Same(t, ast.Node(n), expr.Child)
}

func TestSetType_IsVisibleViaInferredType(t *testing.T) {
	n := ast.NewNumber(1, "3.5")
	assert.Equal(t, ast.Unresolved, n.InferredType())
	ast.SetType(n, ast.Real)
	assert.Equal(t, ast.Real, n.InferredType())
}

func TestDiag_BuildsDiagnosticAtNodeLine(t *testing.T) {
	n := ast.NewNumber(42, "1")
	d := ast.Diag(n, cerr.TypeError, "bad type")
	assert.Equal(t, 42, d.Pos.Line)
	assert.Equal(t, cerr.TypeError, d.Kind)
	assert.Equal(t, "bad type", d.Message)
}
