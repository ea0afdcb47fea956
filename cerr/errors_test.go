package cerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrlang/rpnc/cerr"
)

func TestDiagnosticError_Shape(t *testing.T) {
	d := cerr.New(cerr.Position{Line: 7}, cerr.TypeError, "operand mismatch")
	assert.Equal(t, "TypeError [line 7]: operand mismatch", d.Error())
}

func TestDiagnosticError_WithContext(t *testing.T) {
	d := cerr.New(cerr.Position{Line: 3}, cerr.SyntaxError, "unexpected token")
	cerr.WithContext(d, "(5 +)")
	assert.Equal(t, "SyntaxError [line 3]: unexpected token\n    (5 +)", d.Error())
}

func TestNewf_FormatsMessage(t *testing.T) {
	d := cerr.Newf(cerr.Position{Line: 1}, cerr.MemoryError, "undeclared identifier %s", "MEM")
	assert.Equal(t, "undeclared identifier MEM", d.Message)
}

func TestKindStrings(t *testing.T) {
	cases := map[cerr.Kind]string{
		cerr.LexicalError:  "LexicalError",
		cerr.SyntaxError:   "SyntaxError",
		cerr.TypeError:     "TypeError",
		cerr.MemoryError:   "MemoryError",
		cerr.ControlError:  "ControlError",
		cerr.InternalError: "InternalError",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestWarnf_MarksWarning(t *testing.T) {
	d := cerr.Warnf(cerr.Position{Line: 2}, "branch types differ")
	assert.True(t, d.Warning)
	assert.Equal(t, cerr.TypeError, d.Kind)
}

func TestBag_HasErrors(t *testing.T) {
	var b cerr.Bag
	assert.False(t, b.HasErrors())

	b.Add(cerr.Warnf(cerr.Position{Line: 1}, "just a warning"))
	assert.False(t, b.HasErrors(), "a bag with only warnings has no errors")

	b.Add(cerr.New(cerr.Position{Line: 2}, cerr.TypeError, "real error"))
	assert.True(t, b.HasErrors())
}

func TestBag_AllPreservesOrder(t *testing.T) {
	var b cerr.Bag
	b.Add(cerr.New(cerr.Position{Line: 1}, cerr.TypeError, "first"))
	b.Add(cerr.New(cerr.Position{Line: 2}, cerr.TypeError, "second"))

	all := b.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Message)
	assert.Equal(t, "second", all[1].Message)
}

func TestBag_String(t *testing.T) {
	var b cerr.Bag
	b.Add(cerr.New(cerr.Position{Line: 5}, cerr.ControlError, "bad shape"))
	assert.Equal(t, "ControlError [line 5]: bad shape\n", b.String())
}
