// Package tacopt implements the three pure, pipelined optimization
// passes of spec §4.H: constant folding, constant propagation, and
// dead-code elimination. Each pass is input -> output with no shared
// mutable state, mirroring the multi-pass static-analysis walkers the
// teacher repo runs over a flat instruction stream (tools.Lint).
package tacopt

import (
	"math"
	"strconv"
	"strings"

	"github.com/avrlang/rpnc/tac"
)

var relOps = map[string]bool{">": true, "<": true, ">=": true, "<=": true, "==": true, "!=": true}

// Fold is pass 1: every Op instruction whose two operands are both
// literals is replaced by an equivalent Assign, evaluated over exact
// real arithmetic with integer literals preserved when the result is
// integral (spec §4.H). Division/modulo by zero are left unfolded. Fold
// never mutates its input; it returns a new slice.
func Fold(instrs []tac.Instr) ([]tac.Instr, int) {
	out := make([]tac.Instr, len(instrs))
	folds := 0
	for i, instr := range instrs {
		if instr.Kind == tac.Op && instr.LHS.IsLiteral() && instr.RHS.IsLiteral() {
			if literal, ok := Eval(instr.LHS.Literal, instr.Op, instr.RHS.Literal); ok {
				out[i] = tac.NewAssign(instr.Dst, tac.Lit(literal))
				folds++
				continue
			}
		}
		out[i] = instr
	}
	return out, folds
}

// Eval evaluates a literal binary expression, returning its textual
// result and whether it could be folded (division/modulo by zero
// cannot). Shared by Fold and the constant-propagation pass, which
// retries folding immediately after substituting known literals.
func Eval(aLit, op, bLit string) (string, bool) {
	if relOps[op] {
		return evalRelational(aLit, op, bLit)
	}
	return evalArithmetic(aLit, op, bLit)
}

func evalArithmetic(aLit, op, bLit string) (string, bool) {
	a, err := strconv.ParseFloat(aLit, 64)
	if err != nil {
		return "", false
	}
	b, err := strconv.ParseFloat(bLit, 64)
	if err != nil {
		return "", false
	}
	real := strings.Contains(aLit, ".") || strings.Contains(bLit, ".")

	switch op {
	case "+":
		return formatResult(a+b, real), true
	case "-":
		return formatResult(a-b, real), true
	case "*":
		return formatResult(a*b, real), true
	case "/":
		if b == 0 {
			return "", false
		}
		// '/' types as int op int -> int (spec §4.E): truncating
		// integer division, matching the AVR backend's 8-bit model.
		return strconv.FormatInt(int64(a)/int64(b), 10), true
	case "%":
		if b == 0 {
			return "", false
		}
		return strconv.FormatInt(int64(a)%int64(b), 10), true
	case "^":
		if b == 0 && a == 0 {
			return "", false
		}
		// Result type follows the base operand's type (spec §4.E).
		return formatResult(math.Pow(a, b), strings.Contains(aLit, ".")), true
	case "|":
		if b == 0 {
			return "", false
		}
		// '|' always types as real (spec §4.E).
		return formatResult(a/b, true), true
	default:
		return "", false
	}
}

func evalRelational(aLit, op, bLit string) (string, bool) {
	a, err := strconv.ParseFloat(aLit, 64)
	if err != nil {
		return "", false
	}
	b, err := strconv.ParseFloat(bLit, 64)
	if err != nil {
		return "", false
	}
	var result bool
	switch op {
	case ">":
		result = a > b
	case "<":
		result = a < b
	case ">=":
		result = a >= b
	case "<=":
		result = a <= b
	case "==":
		result = a == b
	case "!=":
		result = a != b
	default:
		return "", false
	}
	if result {
		return "1", true
	}
	return "0", true
}

// formatResult renders v as an integer literal when it's integral and
// the operation wasn't forced real, otherwise as a real literal that
// always carries a decimal point (so it round-trips through the
// lexer's `[0-9]+(\.[0-9]+)?` grammar as a Number of type real).
func formatResult(v float64, forceReal bool) string {
	if !forceReal && v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
