package tacopt

import "github.com/avrlang/rpnc/tac"

// Propagate is pass 2: a forward walk that maintains a var -> literal
// map, substitutes known-literal operands, and retries folding
// immediately after substitution (spec §4.H). It performs no dataflow
// merge across labels; per spec, "losing mappings at labels is
// acceptable" as long as dead-code safety still holds, so every Label
// instruction simply clears the map.
func Propagate(instrs []tac.Instr) ([]tac.Instr, int) {
	out := make([]tac.Instr, len(instrs))
	known := map[string]string{}
	propagations := 0

	substitute := func(o tac.Operand) (tac.Operand, bool) {
		if o.IsLiteral() {
			return o, false
		}
		if lit, ok := known[o.Name]; ok {
			propagations++
			return tac.Lit(lit), true
		}
		return o, false
	}

	forget := func(name string) { delete(known, name) }

	for i, instr := range instrs {
		switch instr.Kind {

		case tac.Assign:
			if instr.Src.IsLiteral() {
				known[instr.Dst] = instr.Src.Literal
			} else {
				forget(instr.Dst)
			}
			out[i] = instr

		case tac.Copy:
			src, _ := substitute(instr.Src)
			updated := tac.NewCopy(instr.Dst, src)
			if src.IsLiteral() {
				known[instr.Dst] = src.Literal
			} else {
				forget(instr.Dst)
			}
			out[i] = updated

		case tac.Op:
			lhs, _ := substitute(instr.LHS)
			rhs, _ := substitute(instr.RHS)
			updated := tac.NewOp(instr.Dst, lhs, instr.Op, rhs)
			if lhs.IsLiteral() && rhs.IsLiteral() {
				if lit, ok := Eval(lhs.Literal, instr.Op, rhs.Literal); ok {
					updated = tac.NewAssign(instr.Dst, tac.Lit(lit))
					known[instr.Dst] = lit
					out[i] = updated
					continue
				}
			}
			forget(instr.Dst)
			out[i] = updated

		case tac.IfFalse:
			cond, _ := substitute(instr.Cond)
			out[i] = tac.NewIfFalse(cond, instr.Name)

		case tac.Label:
			known = map[string]string{}
			out[i] = instr

		default: // Goto
			out[i] = instr
		}
	}

	return out, propagations
}
