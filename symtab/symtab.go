// Package symtab implements the symbol table of spec §4.D: an explicit
// parameter carried by the compilation driver for the lifetime of one
// compilation, never a process-wide singleton (spec §9).
package symtab

import (
	"fmt"

	"github.com/avrlang/rpnc/ast"
)

// Symbol is one entry: identifier -> (type, initialized?, declaration
// line, scope).
type Symbol struct {
	Name            string
	Type            ast.Type
	Initialized     bool
	DeclarationLine int
	Scope           int
}

// Result is one entry in the RES history: the type and, when known, the
// literal value of a prior top-level line's result.
type Result struct {
	Type  ast.Type
	Value string // literal text, empty if the result wasn't a literal
}

// Table owns the symbol map and the RES history for one compilation.
type Table struct {
	symbols map[string]*Symbol
	history []Result
	scope   int
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// Add declares a new identifier. Declaration-on-store means callers
// typically use Update for a name that already exists; Add returns an
// error only for a name that fails the identifier syntax the lexer
// already enforces (uppercase letters), which is defensive for direct
// callers (e.g. tests) that bypass the lexer.
func (t *Table) Add(name string, typ ast.Type, line int) error {
	if !isValidName(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	t.symbols[name] = &Symbol{Name: name, Type: typ, DeclarationLine: line, Scope: t.scope}
	return nil
}

// Update sets fields on an existing symbol; it's an error to update a
// name that was never declared.
func (t *Table) Update(name string, typ ast.Type, initialized bool) error {
	sym, ok := t.symbols[name]
	if !ok {
		return fmt.Errorf("undeclared identifier %q", name)
	}
	sym.Type = typ
	sym.Initialized = initialized
	return nil
}

// Exists reports whether name has ever been declared.
func (t *Table) Exists(name string) bool {
	_, ok := t.symbols[name]
	return ok
}

// Initialized reports whether name has been assigned a value at least
// once. It errors if name was never declared.
func (t *Table) Initialized(name string) (bool, error) {
	sym, ok := t.symbols[name]
	if !ok {
		return false, fmt.Errorf("undeclared identifier %q", name)
	}
	return sym.Initialized, nil
}

// TypeOf returns the currently recorded type of name, erroring if it
// was never declared.
func (t *Table) TypeOf(name string) (ast.Type, error) {
	sym, ok := t.symbols[name]
	if !ok {
		return ast.Unresolved, fmt.Errorf("undeclared identifier %q", name)
	}
	return sym.Type, nil
}

// Lookup returns the raw symbol, mainly for tooling (cross-reference,
// the phase debugger) that wants the declaration line or scope.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// RecordResult appends a top-level line's result to the RES history.
// Blank and comment lines never call this (spec §6).
func (t *Table) RecordResult(typ ast.Type, value string) {
	t.history = append(t.history, Result{Type: typ, Value: value})
}

// History returns the n-th most recent recorded result (n=1 is
// latest). n must be >= 1 and within the recorded history.
func (t *Table) History(n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("RES index must be positive, got %d", n)
	}
	if n > len(t.history) {
		return Result{}, fmt.Errorf("RES index %d exceeds history length %d", n, len(t.history))
	}
	return t.history[len(t.history)-n], nil
}

// HistoryLen reports how many results have been recorded so far.
func (t *Table) HistoryLen() int {
	return len(t.history)
}

// PushScope enters a nested scope; entries declared after this call are
// removed by the matching PopScope (spec §4.D: "optional scope
// push/pop for nested control").
func (t *Table) PushScope() {
	t.scope++
}

// PopScope removes every symbol declared in the current scope and
// returns to the parent scope.
func (t *Table) PopScope() {
	for name, sym := range t.symbols {
		if sym.Scope == t.scope {
			delete(t.symbols, name)
		}
	}
	if t.scope > 0 {
		t.scope--
	}
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
