package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/encoder"
	"github.com/avrlang/rpnc/tac"
)

func relInstrs(op string) []tac.Instr {
	return []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewAssign("t1", tac.Lit("3")),
		tac.NewOp("t2", tac.Var("t0"), op, tac.Var("t1")),
	}
}

func TestEmitComparison_SingleBranchOperators(t *testing.T) {
	for op, mnemonic := range map[string]string{
		"==": "breq",
		"!=": "brne",
		"<":  "brlo",
		">=": "brsh",
	} {
		g := encoder.NewCodeGen(encoder.Target{Baud: 9600})
		out, err := g.Generate(relInstrs(op))
		require.NoError(t, err, op)
		assert.Contains(t, out, mnemonic, op)
		assert.Contains(t, out, "cmp_true_1:", op)
		assert.Contains(t, out, "cmp_end_1:", op)
	}
}

func TestEmitComparison_GreaterThanIsSpecialCased(t *testing.T) {
	g := encoder.NewCodeGen(encoder.Target{Baud: 9600})
	out, err := g.Generate(relInstrs(">"))
	require.NoError(t, err)
	assert.Contains(t, out, "brlo cmp_true_1_false")
	assert.Contains(t, out, "breq cmp_true_1_false")
}

func TestEmitComparison_LessEqualIsSpecialCased(t *testing.T) {
	g := encoder.NewCodeGen(encoder.Target{Baud: 9600})
	out, err := g.Generate(relInstrs("<="))
	require.NoError(t, err)
	assert.Contains(t, out, "brlo cmp_true_1")
	assert.Contains(t, out, "breq cmp_true_1")
}

func TestEmitComparison_LabelsAreUniquePerOccurrence(t *testing.T) {
	g := encoder.NewCodeGen(encoder.Target{Baud: 9600})
	instrs := append(relInstrs(">"), relInstrs("<")...)
	out, err := g.Generate(instrs)
	require.NoError(t, err)
	assert.Contains(t, out, "cmp_true_1")
	assert.Contains(t, out, "cmp_true_2")
}

func TestEmitComparison_NamedMemoryDestinationStoresToSRAM(t *testing.T) {
	g := encoder.NewCodeGen(encoder.Target{Baud: 9600})
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewAssign("t1", tac.Lit("3")),
		tac.NewOp("FLAG", tac.Var("t0"), "==", tac.Var("t1")),
	}
	out, err := g.Generate(instrs)
	require.NoError(t, err)
	assert.Contains(t, out, "sts 0x0120")
}
