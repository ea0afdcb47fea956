package tacopt

import "github.com/avrlang/rpnc/tac"

// DeadCodeEliminate is pass 3: remove any instruction whose destination
// is a compiler temporary that is never read by a surviving
// instruction (spec §4.H). Because removing one dead temp's writer can
// make another temp dead in turn, this iterates to a fixed point;
// user-visible memory writes are never candidates regardless of use
// (spec's "E2E-6" invariant: a store to a named memory survives even
// when only read at a loop head). roots names temps that must also
// survive regardless of use, e.g. a line's final result temp, which is
// the line's user-visible output even though no later instruction ever
// reads it.
func DeadCodeEliminate(instrs []tac.Instr, roots ...string) ([]tac.Instr, int) {
	current := append([]tac.Instr(nil), instrs...)
	removed := 0

	protected := make(map[string]bool, len(roots))
	for _, r := range roots {
		protected[r] = true
	}

	for {
		uses := operandUses(current)
		var survivors []tac.Instr
		removedThisRound := 0

		for _, instr := range current {
			if dst, writes := instr.Writes(); writes && tac.IsTemp(dst) && !uses[dst] && !protected[dst] {
				removedThisRound++
				continue
			}
			survivors = append(survivors, instr)
		}

		current = survivors
		removed += removedThisRound
		if removedThisRound == 0 {
			break
		}
	}

	return current, removed
}

func operandUses(instrs []tac.Instr) map[string]bool {
	uses := map[string]bool{}
	mark := func(o tac.Operand) {
		if !o.IsLiteral() {
			uses[o.Name] = true
		}
	}
	for _, instr := range instrs {
		switch instr.Kind {
		case tac.Assign, tac.Copy:
			mark(instr.Src)
		case tac.Op:
			mark(instr.LHS)
			mark(instr.RHS)
		case tac.IfFalse:
			mark(instr.Cond)
		}
	}
	return uses
}
