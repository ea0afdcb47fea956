package encoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/avrlang/rpnc/tac"
)

// Target describes the parameters the CLI surface exposes for
// generated code (spec §6: --baud, --debug).
type Target struct {
	Baud  int  // 9600 or 115200
	Debug bool // emit debug print hooks after writes/ops
}

// CodeGen lowers optimized TAC to ATmega328P assembly text. Its
// register pool and SRAM layout are scoped to one run (spec §5).
type CodeGen struct {
	target Target
	regs   *RegisterPool
	addrs  *AddressMap
	body   []string
	cmpID  int
	helper int
}

// NewCodeGen creates a code generator for one compilation run.
func NewCodeGen(target Target) *CodeGen {
	return &CodeGen{
		target: target,
		regs:   NewRegisterPool(),
		addrs:  NewAddressMap(),
	}
}

func (g *CodeGen) line(format string, args ...interface{}) {
	g.body = append(g.body, fmt.Sprintf(format, args...))
}

// Generate lowers instrs to a complete assembly source: prologue,
// helper routines, main loop, and the programa_principal body (spec
// §4.I "Program skeleton").
func (g *CodeGen) Generate(instrs []tac.Instr) (string, error) {
	for _, instr := range instrs {
		if err := g.emit(instr); err != nil {
			return "", err
		}
	}
	return g.assemble(), nil
}

func (g *CodeGen) emit(instr tac.Instr) error {
	switch instr.Kind {
	case tac.Assign, tac.Copy:
		return g.emitAssign(instr.Dst, instr.Src)
	case tac.Op:
		return g.emitOp(instr.Dst, instr.LHS, instr.Op, instr.RHS)
	case tac.Label:
		g.line("%s:", instr.Name)
		return nil
	case tac.Goto:
		g.line("\trjmp %s", instr.Name)
		return nil
	case tac.IfFalse:
		return g.emitIfFalse(instr.Cond, instr.Name)
	default:
		return fmt.Errorf("code generator: unhandled TAC instruction kind %d", int(instr.Kind))
	}
}

// emitAssign covers both Assign and Copy, which share a runtime shape
// (spec §3, §4.I).
func (g *CodeGen) emitAssign(dst string, src tac.Operand) error {
	if tac.IsTemp(dst) {
		rd, err := g.regs.Alloc(dst)
		if err != nil {
			return err
		}
		if src.IsLiteral() {
			g.line("\tldi %s, %s", reg(rd), int8Literal(src.Literal))
		} else {
			rs, helper, err := g.materialize(src, "_temp_load")
			if err != nil {
				return err
			}
			g.line("\tmov %s, %s", reg(rd), reg(rs))
			g.freeIfHelper(helper)
		}
		g.maybeDebugPrint(dst, rd)
		return nil
	}

	// Named memory destination: always routed through SRAM via a
	// short-lived helper register (spec §4.I).
	rt, err := g.regs.Alloc("_temp_const")
	if err != nil {
		return err
	}
	if src.IsLiteral() {
		g.line("\tldi %s, %s", reg(rt), int8Literal(src.Literal))
	} else {
		rs, helper, err := g.materialize(src, "_temp_load")
		if err != nil {
			return err
		}
		g.line("\tmov %s, %s", reg(rt), reg(rs))
		g.freeIfHelper(helper)
	}
	g.line("\tsts %s, %s", hex(g.addrs.AddressOf(dst)), reg(rt))
	g.regs.Free("_temp_const")
	g.maybeDebugPrint(dst, rt)
	return nil
}

// materialize brings an operand's value into a register: literals via
// ldi into a fresh helper, temporaries via their stable pool register,
// named memories via lds into a fresh helper (spec §4.I). helperName
// identifies the freed slot when the caller must release it; temps
// return "" since their register is long-lived.
func (g *CodeGen) materialize(o tac.Operand, helperPrefix string) (regNum int, helperName string, err error) {
	if o.IsLiteral() {
		helperName = g.freshHelper(helperPrefix)
		r, err := g.regs.Alloc(helperName)
		if err != nil {
			return 0, "", err
		}
		g.line("\tldi %s, %s", reg(r), int8Literal(o.Literal))
		return r, helperName, nil
	}
	if tac.IsTemp(o.Name) {
		r, err := g.regs.Alloc(o.Name)
		return r, "", err
	}
	helperName = g.freshHelper(helperPrefix)
	r, err := g.regs.Alloc(helperName)
	if err != nil {
		return 0, "", err
	}
	g.line("\tlds %s, %s", reg(r), hex(g.addrs.AddressOf(o.Name)))
	return r, helperName, nil
}

func (g *CodeGen) freshHelper(prefix string) string {
	g.helper++
	return fmt.Sprintf("%s_%d", prefix, g.helper)
}

func (g *CodeGen) freeIfHelper(name string) {
	if name != "" {
		g.regs.Free(name)
	}
}

func (g *CodeGen) emitOp(dst string, lhsOp tac.Operand, op string, rhsOp tac.Operand) error {
	if relOps[op] {
		return g.emitComparison(dst, lhsOp, op, rhsOp)
	}

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

	switch op {
	case "+":
		g.line("\tmov %s, %s", reg(rd), reg(ra))
		g.line("\tadd %s, %s", reg(rd), reg(rb))
	case "-":
		g.line("\tmov %s, %s", reg(rd), reg(ra))
		g.line("\tsub %s, %s", reg(rd), reg(rb))
	case "*":
		g.line("\tmov %s, %s", reg(rd), reg(ra))
		g.line("\tmul %s, %s", reg(rd), reg(rb))
		g.line("\tmov %s, r0", reg(rd))
	case "/", "%", "^", "|":
		// No runtime support is required by this spec (§4.I); emit a
		// placeholder so the surrounding instruction stream stays
		// well-formed instead of asserting on these operators.
		g.line("\t; TODO: no AVR runtime for operator %q yet (dst=%s)", op, dst)
		g.line("\tclr %s", reg(rd))
	default:
		return fmt.Errorf("code generator: unknown arithmetic operator %q", op)
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

func (g *CodeGen) emitIfFalse(cond tac.Operand, label string) error {
	if cond.IsLiteral() {
		v, err := strconv.ParseFloat(cond.Literal, 64)
		if err != nil {
			return fmt.Errorf("code generator: malformed boolean literal %q", cond.Literal)
		}
		if v == 0 {
			g.line("\trjmp %s", label)
		} else {
			g.line("\t; ifFalse on a true literal: falls through")
		}
		return nil
	}

	r, helper, err := g.materialize(cond, "_temp_cond")
	if err != nil {
		return err
	}
	g.line("\ttst %s", reg(r))
	g.line("\tbreq %s", label)
	g.freeIfHelper(helper)
	return nil
}

func (g *CodeGen) maybeDebugPrint(name string, r int) {
	if !g.target.Debug {
		return
	}
	g.line("\tmov r24, %s", reg(r))
	g.line("\tcall print_number")
	if tac.IsTemp(name) {
		g.line("\tcall print_space")
	} else {
		g.line("\tcall print_newline")
	}
}

// int8Literal renders a TAC literal (which may be a real number; this
// backend's non-goal is floating-point codegen, spec §1) as the 8-bit
// unsigned decimal `ldi` expects, truncating toward zero and wrapping
// into 0..255.
func int8Literal(lit string) string {
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return "0"
	}
	i := int64(math.Trunc(v))
	b := uint8(((i % 256) + 256) % 256)
	return strconv.Itoa(int(b))
}

// assemble stitches the program skeleton together (spec §4.I).
func (g *CodeGen) assemble() string {
	var sb strings.Builder

	sb.WriteString("#include <avr/io.h>\n\n")
	sb.WriteString(".section .text\n")
	sb.WriteString(".global main\n\n")

	sb.WriteString("main:\n")
	sb.WriteString("\tldi r16, lo8(RAMEND)\n")
	sb.WriteString("\tout _SFIO_REG(SPL), r16\n")
	sb.WriteString("\tldi r16, hi8(RAMEND)\n")
	sb.WriteString("\tout _SFIO_REG(SPH), r16\n")
	fmt.Fprintf(&sb, "\tcall setup_uart\n")
	sb.WriteString("\tldi r24, lo8(startup_msg)\n")
	sb.WriteString("\tldi r25, hi8(startup_msg)\n")
	sb.WriteString("\tcall uart_print_string\n")
	sb.WriteString("\tcall programa_principal\n")
	sb.WriteString("\trjmp loop_forever\n\n")

	sb.WriteString(uartHelpers(g.target.Baud))

	sb.WriteString("loop_forever:\n\trjmp loop_forever\n\n")

	sb.WriteString("programa_principal:\n")
	sb.WriteString("\tpush r16\n\tpush r17\n\tpush r24\n\tpush r25\n\n")
	for _, l := range g.body {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n\tpop r25\n\tpop r24\n\tpop r17\n\tpop r16\n\tret\n\n")

	sb.WriteString(".section .progmem.data\n")
	sb.WriteString("startup_msg: .asciz \"rpnc: program start\\r\\n\"\n\n")

	sb.WriteString(".section .data\n")
	sb.WriteString(".section .bss\n")

	return sb.String()
}
