package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/loader"
)

func writeProgram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.rpn")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadProgram_ClassifiesBlankCommentAndCode(t *testing.T) {
	path := writeProgram(t, "(3 5 +)\n\n; a comment\n# also a comment\n(MEM)\n")
	lines, err := loader.ReadProgram(path)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	assert.Equal(t, loader.Code, lines[0].Kind)
	assert.Equal(t, loader.Blank, lines[1].Kind)
	assert.Equal(t, loader.Comment, lines[2].Kind)
	assert.Equal(t, loader.Comment, lines[3].Kind)
	assert.Equal(t, loader.Code, lines[4].Kind)
}

func TestReadProgram_PreservesOneBasedLineNumbers(t *testing.T) {
	path := writeProgram(t, "(1 A)\n(2 B)\n")
	lines, err := loader.ReadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, 2, lines[1].Number)
}

func TestReadProgram_TrimsTrailingCarriageReturn(t *testing.T) {
	path := writeProgram(t, "(3 5 +)\r\n")
	lines, err := loader.ReadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, "(3 5 +)", lines[0].Text)
}

func TestReadProgram_MissingFileErrors(t *testing.T) {
	_, err := loader.ReadProgram(filepath.Join(t.TempDir(), "missing.rpn"))
	assert.Error(t, err)
}

func TestCodeLines_FiltersOutBlankAndComment(t *testing.T) {
	path := writeProgram(t, "(1 A)\n\n; note\n(2 B)\n")
	lines, err := loader.ReadProgram(path)
	require.NoError(t, err)

	code := loader.CodeLines(lines)
	require.Len(t, code, 2)
	assert.Equal(t, 1, code[0].Number)
	assert.Equal(t, 4, code[1].Number)
}
