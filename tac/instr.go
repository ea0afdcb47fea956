// Package tac implements the three-address code intermediate
// representation of spec §3/§4.G: a flat, ordered instruction list with
// a fixed tagged-variant shape instead of the source's string "tipo"
// field re-parsed by a downstream tool (spec §9, that re-parsing path
// is an accidental-complexity artifact and is not reproduced here).
package tac

import "fmt"

// OperandKind distinguishes a literal value from a named variable.
type OperandKind int

const (
	OperandLiteral OperandKind = iota
	OperandName
)

// Operand is either a literal (number text) or the name of a temporary
// or user memory.
type Operand struct {
	Kind    OperandKind
	Literal string
	Name    string
}

// Lit builds a literal operand.
func Lit(literal string) Operand { return Operand{Kind: OperandLiteral, Literal: literal} }

// Var builds a named operand.
func Var(name string) Operand { return Operand{Kind: OperandName, Name: name} }

// IsLiteral reports whether the operand is a literal value.
func (o Operand) IsLiteral() bool { return o.Kind == OperandLiteral }

func (o Operand) String() string {
	if o.Kind == OperandLiteral {
		return o.Literal
	}
	return o.Name
}

// Kind tags which TAC instruction shape an Instr carries.
type Kind int

const (
	Assign Kind = iota
	Op
	Copy
	Label
	Goto
	IfFalse
)

// Instr is one three-address instruction (spec §3). Not every field is
// meaningful for every Kind; callers type-switch on Kind, matching the
// other tagged variants in this codebase (ast.Node, Token).
type Instr struct {
	Kind Kind

	Dst string  // Assign, Op, Copy
	Src Operand // Assign, Copy

	LHS Operand // Op
	Op  string  // Op
	RHS Operand // Op

	Name string // Label, Goto: the label name

	Cond Operand // IfFalse
}

// String renders an instruction in the stable text format of spec §6.
func (i Instr) String() string {
	switch i.Kind {
	case Assign, Copy:
		return fmt.Sprintf("%s = %s", i.Dst, i.Src)
	case Op:
		return fmt.Sprintf("%s = %s %s %s", i.Dst, i.LHS, i.Op, i.RHS)
	case Label:
		return fmt.Sprintf("%s:", i.Name)
	case Goto:
		return fmt.Sprintf("goto %s", i.Name)
	case IfFalse:
		return fmt.Sprintf("ifFalse %s goto %s", i.Cond, i.Name)
	default:
		return fmt.Sprintf("<invalid tac instr kind %d>", int(i.Kind))
	}
}

// NewAssign builds an Assign instruction.
func NewAssign(dst string, src Operand) Instr { return Instr{Kind: Assign, Dst: dst, Src: src} }

// NewCopy builds a Copy instruction.
func NewCopy(dst string, src Operand) Instr { return Instr{Kind: Copy, Dst: dst, Src: src} }

// NewOp builds an Op instruction.
func NewOp(dst string, lhs Operand, op string, rhs Operand) Instr {
	return Instr{Kind: Op, Dst: dst, LHS: lhs, Op: op, RHS: rhs}
}

// NewLabel builds a Label instruction.
func NewLabel(name string) Instr { return Instr{Kind: Label, Name: name} }

// NewGoto builds a Goto instruction.
func NewGoto(name string) Instr { return Instr{Kind: Goto, Name: name} }

// NewIfFalse builds an IfFalse instruction.
func NewIfFalse(cond Operand, name string) Instr {
	return Instr{Kind: IfFalse, Cond: cond, Name: name}
}

// Writes reports the destination name this instruction writes, and
// whether it writes one at all (Label/Goto/IfFalse do not).
func (i Instr) Writes() (string, bool) {
	switch i.Kind {
	case Assign, Op, Copy:
		return i.Dst, true
	default:
		return "", false
	}
}

// IsTemp reports whether name is a compiler-generated temporary (spec
// §3: "t0, t1, ...").
func IsTemp(name string) bool {
	return len(name) > 0 && name[0] == 't'
}
