package encoder

import (
	"fmt"

	"github.com/avrlang/rpnc/tac"
)

// relOps lists the comparison operators handled here rather than by
// emitOp's arithmetic switch (spec §4.I "Branch instruction table").
var relOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// branchOn names the single AVR branch mnemonic that jumps to the
// "true" label after a `cp` for the operators that need only one
// branch (spec §4.I): == -> breq, != -> brne, < -> brlo, >= -> brsh.
var branchOn = map[string]string{
	"==": "breq",
	"!=": "brne",
	"<":  "brlo",
	">=": "brsh",
}

// emitComparison lowers a relational Op into code that leaves 0 or 1
// in dst's register, using a unique pair of labels per occurrence
// (spec §4.I: "cmp_true_k / cmp_end_k").
func (g *CodeGen) emitComparison(dst string, lhsOp tac.Operand, op string, rhsOp tac.Operand) error {
	ra, helperA, err := g.materialize(lhsOp, "_temp_op1")
	if err != nil {
		return err
	}
	rb, helperB, err := g.materialize(rhsOp, "_temp_op2")
	if err != nil {
		return err
	}

	destTemp := tac.IsTemp(dst)
	var rd int
	if destTemp {
		rd, err = g.regs.Alloc(dst)
	} else {
		rd, err = g.regs.Alloc("_temp_result")
	}
	if err != nil {
		return err
	}

	g.cmpID++
	trueLabel := fmt.Sprintf("cmp_true_%d", g.cmpID)
	endLabel := fmt.Sprintf("cmp_end_%d", g.cmpID)

	g.line("\tcp %s, %s", reg(ra), reg(rb))

	switch op {
	case "==", "!=", "<", ">=":
		g.line("\t%s %s", branchOn[op], trueLabel)
		g.line("\tldi %s, 0", reg(rd))
		g.line("\trjmp %s", endLabel)
		g.line("%s:", trueLabel)
		g.line("\tldi %s, 1", reg(rd))
		g.line("%s:", endLabel)

	case ">":
		// a > b  <=>  not(a < b) and not(a == b): fall through to
		// true only when neither brlo nor breq fires (spec §4.I).
		g.line("\tbrlo %s", falseLabel(trueLabel))
		g.line("\tbreq %s", falseLabel(trueLabel))
		g.line("\tldi %s, 1", reg(rd))
		g.line("\trjmp %s", endLabel)
		g.line("%s:", falseLabel(trueLabel))
		g.line("\tldi %s, 0", reg(rd))
		g.line("%s:", endLabel)

	case "<=":
		// a <= b  <=>  a < b or a == b (spec §4.I).
		g.line("\tbrlo %s", trueLabel)
		g.line("\tbreq %s", trueLabel)
		g.line("\tldi %s, 0", reg(rd))
		g.line("\trjmp %s", endLabel)
		g.line("%s:", trueLabel)
		g.line("\tldi %s, 1", reg(rd))
		g.line("%s:", endLabel)

	default:
		return fmt.Errorf("code generator: unknown relational operator %q", op)
	}

	g.freeIfHelper(helperA)
	g.freeIfHelper(helperB)

	if !destTemp {
		g.line("\tsts %s, %s", hex(g.addrs.AddressOf(dst)), reg(rd))
		g.regs.Free("_temp_result")
	}
	g.maybeDebugPrint(dst, rd)
	return nil
}

func falseLabel(trueLabel string) string {
	return trueLabel + "_false"
}
