// Package tools provides source- and IR-level utilities that sit
// alongside the core pipeline: formatting, linting, and symbol
// cross-referencing (SPEC_FULL §3.3), grounded on the teacher's
// disassembly formatter, pre-assembly linter, and symbol-usage
// reporter.
package tools

import (
	"fmt"
	"strings"

	"github.com/avrlang/rpnc/tac"
)

// FormatTAC re-indents already-valid TAC text into aligned columns.
// It never changes semantics, only whitespace (spec §3.3).
func FormatTAC(instrs []tac.Instr) string {
	var sb strings.Builder
	for _, instr := range instrs {
		switch instr.Kind {
		case tac.Label:
			fmt.Fprintf(&sb, "%s:\n", instr.Name)
		default:
			fmt.Fprintf(&sb, "    %s\n", instr.String())
		}
	}
	return sb.String()
}

// FormatAssembly re-indents generated assembly text: labels,
// '.'-directives and '#' lines flush left, everything else indented one
// tab, blank lines preserved.
func FormatAssembly(asm string) string {
	lines := strings.Split(asm, "\n")
	var sb strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			sb.WriteString("\n")
		case strings.HasSuffix(trimmed, ":"), strings.HasPrefix(trimmed, "."), strings.HasPrefix(trimmed, "#"):
			sb.WriteString(trimmed)
			sb.WriteString("\n")
		default:
			sb.WriteString("\t")
			sb.WriteString(trimmed)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
