package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Info
	}{
		{
			name:     "static with pointer param",
			text:     "static int foo(int a, char *b)",
			expected: Info{ReturnType: "int", Parameters: []string{"char*b", "int a"}, IsStatic: true},
		},
		{
			name:     "void params",
			text:     "void foo(void)",
			expected: Info{ReturnType: "void"},
		},
		{
			name:     "empty params",
			text:     "int foo()",
			expected: Info{ReturnType: "int"},
		},
		{
			name:     "pointer return and irregular whitespace",
			text:     "struct  node *\n  foo ( struct node * n ,  int   depth )",
			expected: Info{ReturnType: "struct node*", Parameters: []string{"int depth", "struct node*n"}},
		},
		{
			name:     "function pointer parameter",
			text:     "int foo(int (*cb)(int, int), int x)",
			expected: Info{ReturnType: "int", Parameters: []string{"int (*cb)(int, int)", "int x"}},
		},
		{
			name:     "name also used as a parameter type prefix",
			text:     "long foo(foo_t *f)",
			expected: Info{ReturnType: "long", Parameters: []string{"foo_t*f"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.text, "foo"))
		})
	}
}

func TestSplitAtName(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prefix string
		params string
	}{
		{"plain", "int foo(int a)", "int ", "int a"},
		{"space before paren", "int foo\t (int a)", "int ", "int a"},
		{"suffix match skipped", "int myfoo(int); int foo(char c)", "int myfoo(int); int ", "char c"},
		{"pointer return", "char *foo(void)", "char *", "void"},
		{"not followed by paren", "foo_t foo(foo_t x)", "foo_t ", "foo_t x"},
		{"name absent", "int bar(int a)", "int bar", "int a"},
		{"no parenthesis", "int foo", "int foo", ""},
		{"unclosed", "int foo(int a,", "int ", "int a,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, params := splitAtName(tt.text, "foo")
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompareAddedParameter(t *testing.T) {
	c := Compare("int foo(int a)", "int foo(int a, int b)", "foo")

	assert.False(t, c.ReturnTypeChanged)
	assert.Equal(t, []string{"int b"}, c.AddedParams)
	assert.Empty(t, c.RemovedParams)
	assert.Equal(t, []string{"int a"}, c.SameParams)
	assert.True(t, c.Changed())
	assert.True(t, c.Breaking(true))
	assert.False(t, c.Breaking(false))
}

func TestCompareRemovedParameter(t *testing.T) {
	c := Compare("int foo(int a, int b)", "int foo(int a)", "foo")

	assert.Equal(t, []string{"int b"}, c.RemovedParams)
	assert.True(t, c.Breaking(false))
}

func TestCompareStaticOnly(t *testing.T) {
	c := Compare("static int foo(void)", "int foo(void)", "foo")

	assert.True(t, c.StaticOnlyChanged)
	assert.False(t, c.ReturnTypeChanged)
	assert.False(t, c.Changed())
	assert.False(t, c.Breaking(true))
}

func TestCompareReturnType(t *testing.T) {
	c := Compare("int foo(void)", "static long foo(void)", "foo")

	assert.True(t, c.ReturnTypeChanged)
	assert.False(t, c.StaticOnlyChanged)
	assert.True(t, c.Breaking(false))
}

func TestCompareIgnoresFormatting(t *testing.T) {
	c := Compare("int  foo( int   a ,char * p )", "int foo(char *p, int a)", "foo")

	assert.False(t, c.Changed())
	assert.Equal(t, []string{"char*p", "int a"}, c.SameParams)
}

func TestCompareRenameCandidates(t *testing.T) {
	c := Compare("int foo(int count, char *name)", "int foo(int cnt, char *name)", "foo")

	assert.Equal(t, []string{"int count"}, c.RemovedParams)
	assert.Equal(t, []string{"int cnt"}, c.AddedParams)
	assert.Equal(t, []Rename{{From: "int count", To: "int cnt"}}, c.RenameCandidates)
}

func TestParamType(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"int a", "int"},
		{"struct foo*bar", "struct foo*"},
		{"char buf[16]", "char"},
		{"int", "int"},
		{"struct foo", "struct foo"},
		{"unsigned long n", "unsigned long"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, paramType(tt.param), "param %q", tt.param)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 4, levenshteinDistance("", "abcd"))
}

func TestComparisonString(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		expected string
	}{
		{"unchanged", "int foo(int a)", "int foo(int a)", ""},
		{"added", "int foo(int a)", "int foo(int a, int b)", "+int b"},
		{"return and removed", "int foo(int a, char *s)", "long foo(int a)", "return int -> long; -char*s"},
		{"static only", "int foo(void)", "static int foo(void)", "static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.old, tt.new, "foo").String())
		})
	}
}
