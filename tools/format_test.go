package tools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrlang/rpnc/tac"
	"github.com/avrlang/rpnc/tools"
)

func TestFormatTAC_IndentsInstructionsAndFlushesLabels(t *testing.T) {
	instrs := []tac.Instr{
		tac.NewAssign("t0", tac.Lit("5")),
		tac.NewLabel("L0"),
		tac.NewGoto("L0"),
	}
	out := tools.FormatTAC(instrs)
	assert.Contains(t, out, "    t0 = 5\n")
	assert.Contains(t, out, "L0:\n")
	assert.Contains(t, out, "    goto L0\n")
}

func TestFormatAssembly_FlushesLabelsAndDirectives(t *testing.T) {
	asm := "main:\n  ldi r16, 5\n.section .text\n\n"
	out := tools.FormatAssembly(asm)
	assert.Contains(t, out, "main:\n")
	assert.Contains(t, out, "\tldi r16, 5\n")
	assert.Contains(t, out, ".section .text\n")
}

func TestFormatAssembly_PreservesBlankLines(t *testing.T) {
	out := tools.FormatAssembly("a:\n\nb:\n")
	assert.Equal(t, "a:\n\nb:\n", out)
}
