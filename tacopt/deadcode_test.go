package tacopt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrlang/rpnc/tac"
	"github.com/avrlang/rpnc/tacopt"
)

func TestDeadCodeEliminate_RemovesUnreadTemp(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewAssign("t1", tac.Lit("7")),
		tac.NewCopy("MEM", tac.Var("t1")),
	}
	out, removed := tacopt.DeadCodeEliminate(instrs)
	assert.Equal(t, 1, removed)
	assert.Len(t, out, 2)
	for _, instr := range out {
		assert.NotEqual(t, "t0", instr.Dst)
	}
}

func TestDeadCodeEliminate_NamedMemoryWritesAlwaysSurvive(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewCopy("MEM", tac.Var("t0")),
	}
	out, removed := tacopt.DeadCodeEliminate(instrs)
	assert.Equal(t, 0, removed, "MEM's writer is the only thing using t0, and MEM itself is never dead")
	assert.Len(t, out, 2)
}

func TestDeadCodeEliminate_IteratesToFixedPoint(t *testing.T) {
	// t2 depends on t1 depends on t0; none of them are ever read outside
	// this chain, so removing t2's writer as dead should cascade to t1,
	// then t0, in successive rounds.
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("1")),
		tac.NewCopy("t1", tac.Var("t0")),
		tac.NewCopy("t2", tac.Var("t1")),
		tac.NewAssign("MEM", tac.Lit("9")),
	}
	out, removed := tacopt.DeadCodeEliminate(instrs)
	assert.Equal(t, 3, removed)
	assert.Len(t, out, 1)
	assert.Equal(t, "MEM", out[0].Dst)
}

func TestDeadCodeEliminate_KeepsTempsUsedInIfFalse(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("1")),
		tac.NewIfFalse(tac.Var("t0"), "L0"),
		tac.NewLabel("L0"),
	}
	out, removed := tacopt.DeadCodeEliminate(instrs)
	assert.Equal(t, 0, removed)
	assert.Len(t, out, 3)
}

func TestDeadCodeEliminate_DoesNotMutateInput(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewAssign("MEM", tac.Lit("1")),
	}
	_, _ = tacopt.DeadCodeEliminate(instrs)
	assert.Len(t, instrs, 2, "DeadCodeEliminate must not shrink the caller's slice")
}
