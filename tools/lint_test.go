package tools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlang/rpnc/tools"
)

func TestLint_CleanProgramHasNoIssues(t *testing.T) {
	issues := tools.Lint([]string{"(3 5 +)", "", "# a comment", "(MEM)"})
	assert.Empty(t, issues)
}

func TestLint_UnbalancedParenthesesIsAnError(t *testing.T) {
	issues := tools.Lint([]string{"(3 5 +"})
	require.Len(t, issues, 1)
	assert.Equal(t, tools.LintError, issues[0].Level)
	assert.Equal(t, 1, issues[0].Line)
}

func TestLint_TrailingStrayDotIsAnError(t *testing.T) {
	issues := tools.Lint([]string{"(3 5 +)."})
	var found bool
	for _, i := range issues {
		if i.Message == "trailing stray '.'" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLint_BareBangIsAnErrorButNotEqualsBang(t *testing.T) {
	issues := tools.Lint([]string{"(3 5 !)"})
	require.NotEmpty(t, issues)

	clean := tools.Lint([]string{"(3 5 != ((1)) ((0)) IF)"})
	for _, i := range clean {
		assert.NotContains(t, i.Message, "bare '!'")
	}
}

func TestLint_NonParenLineWarns(t *testing.T) {
	issues := tools.Lint([]string{"not an expression"})
	require.Len(t, issues, 1)
	assert.Equal(t, tools.LintWarning, issues[0].Level)
}

func TestLint_HashCommentsAreSkippedButSemicolonCommentsAreNot(t *testing.T) {
	issues := tools.Lint([]string{"; a semicolon comment"})
	require.Len(t, issues, 1, "Lint only special-cases '#' comments, matching tools.Lint's own doc comment")
	assert.Equal(t, tools.LintWarning, issues[0].Level)
}

func TestLintIssue_StringFormatsLineLevelAndMessage(t *testing.T) {
	issue := tools.LintIssue{Level: tools.LintError, Line: 3, Message: "boom"}
	assert.Equal(t, "line 3: error: boom", issue.String())
}
