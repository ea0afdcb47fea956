// Package ast defines the abstract syntax tree produced by folding a
// parsed derivation (spec §3, §4.C). Nodes are a fixed-field tagged
// variant, not a dict/duck-typed fan-out: each phase downstream
// type-switches on Node to decide what to do, so adding a node kind is
// a compile-time-checked exercise instead of an "obter_atributo"-style
// runtime probe.
package ast

import "github.com/avrlang/rpnc/cerr"

// Type is the inferred type of a node, synthesized by the attribute
// grammar in package sema (spec §4.E).
type Type int

const (
	Unresolved Type = iota
	Int
	Real
	Bool
	Err
	Void
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Real:
		return "real"
	case Bool:
		return "bool"
	case Err:
		return "err"
	case Void:
		return "void"
	default:
		return "unresolved"
	}
}

// Node is implemented by every AST variant. Line and inferred type are
// common to all nodes; Kind lets callers type-switch without a type
// assertion ladder when they only need to branch on shape.
type Node interface {
	Line() int
	Kind() string
	InferredType() Type
	setType(Type)
}

type base struct {
	line int
	typ  Type
}

func (b *base) Line() int           { return b.line }
func (b *base) InferredType() Type  { return b.typ }
func (b *base) setType(t Type)      { b.typ = t }

// SetType is the one exported seam sema uses to annotate a node after
// visiting its children; it lives outside the Node interface itself so
// ast stays a pure data definition.
func SetType(n Node, t Type) { n.setType(t) }

// Number is a numeric literal (spec §3).
type Number struct {
	base
	Lexeme string
}

func (*Number) Kind() string { return "Number" }

func NewNumber(line int, lexeme string) *Number {
	return &Number{base: base{line: line}, Lexeme: lexeme}
}

// Identifier is a memory reference used as an operand, e.g. inside an
// Operation; bare recall is RecallMem, not Identifier (spec §3).
type Identifier struct {
	base
	Name string
}

func (*Identifier) Kind() string { return "Identifier" }

func NewIdentifier(line int, name string) *Identifier {
	return &Identifier{base: base{line: line}, Name: name}
}

// Expression is a parenthesized wrapper around a single child.
type Expression struct {
	base
	Child Node
}

func (*Expression) Kind() string { return "Expression" }

func NewExpression(line int, child Node) *Expression {
	return &Expression{base: base{line: line}, Child: child}
}

// Operation is an arithmetic node: op ∈ {+ - * / % ^ |}.
type Operation struct {
	base
	Op  string
	LHS Node
	RHS Node
}

func (*Operation) Kind() string { return "Operation" }

func NewOperation(line int, op string, lhs, rhs Node) *Operation {
	return &Operation{base: base{line: line}, Op: op, LHS: lhs, RHS: rhs}
}

// Condition is a relational node used as a control-flow guard.
type Condition struct {
	base
	Op  string
	LHS Node
	RHS Node
}

func (*Condition) Kind() string { return "Condition" }

func NewCondition(line int, op string, lhs, rhs Node) *Condition {
	return &Condition{base: base{line: line}, Op: op, LHS: lhs, RHS: rhs}
}

// Comparison has the same shape as Condition but is the whole result of
// a line rather than a guard (spec §3).
type Comparison struct {
	base
	Op  string
	LHS Node
	RHS Node
}

func (*Comparison) Kind() string { return "Comparison" }

func NewComparison(line int, op string, lhs, rhs Node) *Comparison {
	return &Comparison{base: base{line: line}, Op: op, LHS: lhs, RHS: rhs}
}

// StoreMem is `(V NAME)` or `((expr) NAME)`.
type StoreMem struct {
	base
	Value Node
	Name  string
}

func (*StoreMem) Kind() string { return "StoreMem" }

func NewStoreMem(line int, value Node, name string) *StoreMem {
	return &StoreMem{base: base{line: line}, Value: value, Name: name}
}

// RecallMem is `(NAME)`.
type RecallMem struct {
	base
	Name string
}

func (*RecallMem) Kind() string { return "RecallMem" }

func NewRecallMem(line int, name string) *RecallMem {
	return &RecallMem{base: base{line: line}, Name: name}
}

// Res is `(N RES)`.
type Res struct {
	base
	N int
}

func (*Res) Kind() string { return "Res" }

func NewRes(line int, n int) *Res {
	return &Res{base: base{line: line}, N: n}
}

// If is `(lhs rhs op (then) (else) IF)`.
type If struct {
	base
	Condition Node
	Then      Node
	Else      Node
}

func (*If) Kind() string { return "If" }

func NewIf(line int, cond, then, els Node) *If {
	return &If{base: base{line: line}, Condition: cond, Then: then, Else: els}
}

// While is `(lhs rhs op (body) WHILE)`.
type While struct {
	base
	Condition Node
	Body      Node
}

func (*While) Kind() string { return "While" }

func NewWhile(line int, cond, body Node) *While {
	return &While{base: base{line: line}, Condition: cond, Body: body}
}

// CompoundBlock is `((e1)(e2)...)`.
type CompoundBlock struct {
	base
	Exprs []Node
}

func (*CompoundBlock) Kind() string { return "CompoundBlock" }

func NewCompoundBlock(line int, exprs []Node) *CompoundBlock {
	return &CompoundBlock{base: base{line: line}, Exprs: exprs}
}

// Diag is a convenience constructor local to this package's callers for
// building positions from a node.
func Diag(n Node, kind cerr.Kind, msg string) *cerr.Diagnostic {
	return cerr.New(cerr.Position{Line: n.Line()}, kind, msg)
}
