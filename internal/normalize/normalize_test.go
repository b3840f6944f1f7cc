package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesPreservesCountAndOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty",
			raw:      "",
			expected: nil,
		},
		{
			name:     "trailing newline does not add a line",
			raw:      "a\nb\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "blank lines kept",
			raw:      "a\n\n\nb",
			expected: []string{"a", "", "", "b"},
		},
		{
			name:     "tabs expanded",
			raw:      "int f(void)\n{\n\treturn 0;\n}\n",
			expected: []string{"int f(void)", "{", "    return 0;", "}"},
		},
		{
			name:     "crlf",
			raw:      "a\r\nb\r\n",
			expected: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lines(tt.raw))
		})
	}
}

func TestNormalizeWithTabWidth(t *testing.T) {
	res := NormalizeWith("\tx;\n", Options{TabWidth: 8})
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "        x;", res.Lines[0])
}

func TestNormalizeCountsNonBlankAndScopes(t *testing.T) {
	raw := "int f(int x)\n{\n\tif (x) {\n\t\treturn 1;\n\t} else {\n\n\t\treturn 2;\n\t}\n}\n"

	res := Normalize(raw, ScopeOpenBrace)
	assert.Len(t, res.Lines, 9)
	assert.Equal(t, 8, res.NonBlank)
	assert.Equal(t, 3, res.Scopes)

	assert.Equal(t, 3, Normalize(raw, ScopeCloseBrace).Scopes)
	assert.Equal(t, 5, Normalize(raw, ScopeAnyBrace).Scopes)
}

func TestCountScopesIgnoresCommentsAndLiterals(t *testing.T) {
	lines := []string{
		"/* { */",
		`s = "{";`,
		"c = '{'; // {",
		"{",
	}
	assert.Equal(t, 1, CountScopes(lines, ScopeOpenBrace))
}

func TestParseScopePolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected ScopePolicy
		wantErr  bool
	}{
		{"", ScopeOpenBrace, false},
		{"open", ScopeOpenBrace, false},
		{"CLOSE", ScopeCloseBrace, false},
		{" any ", ScopeAnyBrace, false},
		{"both", ScopeOpenBrace, true},
	}

	for _, tt := range tests {
		p, err := ParseScopePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, p)
		assert.Equal(t, p, mustParse(t, p.String()))
	}
}

func mustParse(t *testing.T, s string) ScopePolicy {
	t.Helper()
	p, err := ParseScopePolicy(s)
	require.NoError(t, err)
	return p
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, "a\nb\n", Join([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "", "b"}, Lines(Join([]string{"a", "", "b"})))
}
