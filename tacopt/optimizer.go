package tacopt

import (
	"fmt"

	"github.com/avrlang/rpnc/tac"
)

// Level selects which optimization pass(es) to run, per the CLI surface
// in spec §6 (`--nivel {folding|propagation|dead_code|completo}`).
type Level int

const (
	LevelFolding Level = iota
	LevelPropagation
	LevelDeadCode
	LevelCompleto
)

// ParseLevel parses the CLI's --nivel flag value.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "folding":
		return LevelFolding, nil
	case "propagation":
		return LevelPropagation, nil
	case "dead_code":
		return LevelDeadCode, nil
	case "completo", "":
		return LevelCompleto, nil
	default:
		return LevelCompleto, fmt.Errorf("unknown optimization level %q", s)
	}
}

// Stats records how much work each pass did, for diagnostics and the
// phase debugger's "what changed" view.
type Stats struct {
	Folds        int
	Propagations int
	Deletions    int
}

// Optimize runs the pass(es) selected by level over instrs and returns
// the optimized program plus pass statistics. `completo` pipelines all
// three passes in the order required by spec §4.H: folding,
// propagation, dead-code elimination. roots names temps that
// dead-code elimination must never prune regardless of use (a
// compilation's per-line result temps); callers with nothing to
// protect simply omit it.
func Optimize(instrs []tac.Instr, level Level, roots ...string) ([]tac.Instr, Stats) {
	switch level {
	case LevelFolding:
		out, n := Fold(instrs)
		return out, Stats{Folds: n}

	case LevelPropagation:
		out, n := Propagate(instrs)
		return out, Stats{Propagations: n}

	case LevelDeadCode:
		out, n := DeadCodeEliminate(instrs, roots...)
		return out, Stats{Deletions: n}

	default: // LevelCompleto
		out, folds := Fold(instrs)
		out, props := Propagate(out)
		out, dels := DeadCodeEliminate(out, roots...)
		return out, Stats{Folds: folds, Propagations: props, Deletions: dels}
	}
}
