// Package debugger is an interactive phase debugger: a tview
// application that steps through a program's compiled lines. For the
// currently-selected line it shows the tokens and the AST root kind and
// type; the Symbols pane shows only the RES history depth, and the TAC,
// optimized TAC and assembly panes show the whole program, not the
// selected line's share of it (SPEC_FULL §3.1),
// mirroring the teacher's instruction-stepping TUI but stepping
// compiler phases instead of CPU instructions.
package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/avrlang/rpnc/compile"
	"github.com/avrlang/rpnc/encoder"
	"github.com/avrlang/rpnc/loader"
	"github.com/avrlang/rpnc/tac"
	"github.com/avrlang/rpnc/tacopt"
)

// TUI is the phase debugger's application shell.
type TUI struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView     *tview.TextView
	TokensView     *tview.TextView
	ASTView        *tview.TextView
	SymbolsView    *tview.TextView
	TACView        *tview.TextView
	OptimizedView  *tview.TextView
	AssemblyView   *tview.TextView

	session *compile.Session
	lines   []loader.Line
	results []*compile.LineResult
	cursor  int
	target  encoder.Target
	level   tacopt.Level
}

// NewTUI builds a phase debugger over an already-loaded program. Every
// code line has already been compiled into session by the caller
// (mirroring the CLI's batch pass), so arrowing through lines never
// calls CompileLine again; each refresh does re-run the session's
// Optimize and Generate.
func NewTUI(session *compile.Session, lines []loader.Line, results []*compile.LineResult, target encoder.Target, level tacopt.Level) *TUI {
	t := &TUI{
		App:     tview.NewApplication(),
		session: session,
		lines:   lines,
		results: results,
		target:  target,
		level:   level,
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.refresh()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.TokensView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.TokensView.SetBorder(true).SetTitle(" Tokens ")

	t.ASTView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.ASTView.SetBorder(true).SetTitle(" AST ")

	t.SymbolsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	t.TACView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.TACView.SetBorder(true).SetTitle(" TAC ")

	t.OptimizedView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OptimizedView.SetBorder(true).SetTitle(" Optimized TAC ")

	t.AssemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.AssemblyView.SetBorder(true).SetTitle(" Assembly ")
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 1, false).
		AddItem(t.SymbolsView, 0, 1, false)

	rightTop := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.TokensView, 0, 1, false).
		AddItem(t.ASTView, 0, 1, false)

	rightBottom := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.TACView, 0, 1, false).
		AddItem(t.OptimizedView, 0, 1, false).
		AddItem(t.AssemblyView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 1, false).
		AddItem(rightBottom, 0, 2, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 1, false).
		AddItem(t.RightPanel, 0, 2, false)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			t.Move(1)
			return nil
		case tcell.KeyUp:
			t.Move(-1)
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

// Move steps the cursor by delta lines, clamped to the compiled line
// range, and refreshes every panel to match.
func (t *TUI) Move(delta int) {
	next := t.cursor + delta
	if next < 0 || next >= len(t.results) {
		return
	}
	t.cursor = next
	t.refresh()
}

func (t *TUI) refresh() {
	if t.cursor >= len(t.results) {
		return
	}
	result := t.results[t.cursor]

	var src strings.Builder
	for _, line := range t.lines {
		if line.Kind != loader.Code {
			continue
		}
		marker := "  "
		if line.Number == result.Line {
			marker = "> "
		}
		fmt.Fprintf(&src, "%s%d: %s\n", marker, line.Number, line.Text)
	}
	t.SourceView.SetText(src.String())

	var toks strings.Builder
	for _, tok := range result.Tokens {
		fmt.Fprintf(&toks, "%s\n", tok)
	}
	t.TokensView.SetText(toks.String())

	t.ASTView.SetText(fmt.Sprintf("%s (type=%s)", result.AST.Kind(), result.Type))

	var sym strings.Builder
	fmt.Fprintf(&sym, "RES history depth: %d\n", t.session.Symbols.HistoryLen())
	t.SymbolsView.SetText(sym.String())

	t.TACView.SetText(tacText(t.session.TAC()))
	optimized := t.session.Optimize(t.level)
	t.OptimizedView.SetText(tacText(optimized))

	asm, err := t.session.Generate(t.target)
	if err != nil {
		t.AssemblyView.SetText(fmt.Sprintf("error: %s", err))
	} else {
		t.AssemblyView.SetText(asm)
	}
}

func tacText(instrs []tac.Instr) string {
	var sb strings.Builder
	for _, i := range instrs {
		sb.WriteString(i.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.Pages, true).Run()
}
