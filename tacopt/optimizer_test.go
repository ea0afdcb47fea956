package tacopt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/tac"
	"github.com/avrlang/rpnc/tacopt"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]tacopt.Level{
		"folding":     tacopt.LevelFolding,
		"propagation": tacopt.LevelPropagation,
		"dead_code":   tacopt.LevelDeadCode,
		"completo":    tacopt.LevelCompleto,
		"":            tacopt.LevelCompleto,
	}
	for s, want := range cases {
		level, err := tacopt.ParseLevel(s)
		assert.NoError(t, err)
		assert.Equal(t, want, level)
	}

	_, err := tacopt.ParseLevel("bogus")
	assert.Error(t, err)
}

func TestOptimize_CompletoPipelinesAllThreePasses(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewOp("t0", tac.Lit("2"), "+", tac.Lit("3")), // folds to t0=5
		tac.NewOp("t1", tac.Var("t0"), "*", tac.Lit("2")), // propagates t0 -> folds to t1=10
		tac.NewCopy("MEM", tac.Var("t1")),
	}
	out, stats := tacopt.Optimize(instrs, tacopt.LevelCompleto)

	assert.Equal(t, 1, stats.Folds, "folding resolves t0 = 2 + 3 before propagation runs")
	assert.True(t, stats.Propagations >= 1, "propagation substitutes t0 and then t1 as each becomes a known literal")
	assert.Equal(t, 2, stats.Deletions, "once propagation inlines t0 and t1 as literals, their own assignments become dead")

	require.Len(t, out, 1)
	last := out[0]
	assert.Equal(t, tac.Copy, last.Kind)
	assert.Equal(t, "MEM", last.Dst)
	assert.Equal(t, "10", last.Src.Literal)
}

func TestOptimize_FoldingOnlyLeavesOtherPassesUnapplied(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewOp("t1", tac.Var("t0"), "+", tac.Lit("1")),
	}
	out, stats := tacopt.Optimize(instrs, tacopt.LevelFolding)
	assert.Equal(t, 0, stats.Folds, "no Op with two literal operands exists yet")
	assert.Equal(t, tac.Op, out[1].Kind, "propagation never ran, so t0 stays a variable reference")
}

func TestOptimize_DeadCodeOnlyRemovesUnusedTemp(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewAssign("MEM", tac.Lit("1")),
	}
	out, stats := tacopt.Optimize(instrs, tacopt.LevelDeadCode)
	assert.Equal(t, 1, stats.Deletions)
	assert.Len(t, out, 1)
}
