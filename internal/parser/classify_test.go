package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"class flagrate.Button", LineClass},
		{"class Button", LineClass},
		{"new flagrate.Button(opt)", LineConstructor},
		{"flagrate.createButton(opt)", LineConstructor},
		{"flagrate.Button#setLabel(label) -> flagrate.Button", LineInstanceMethod},
		{"flagrate.Button.isButton(obj) -> Boolean", LineClassMethod},
		{"- label (String) - text to show", LineArgumentInfo},
		{"- label (String|Number) — text to show", LineArgumentInfo},
		{"Creates a button.", LineText},
		{"", LineText},
		{"class lowercase", LineText},
		{"flagrate.Button#setLabel(label)", LineText},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, err := Classify(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Kind, "kind of %q", tt.line)
		})
	}
}

func TestClassify_ClassKey(t *testing.T) {
	c, err := Classify("class flagrate.TextInput")
	require.NoError(t, err)
	require.NotNil(t, c.Decl)
	assert.Equal(t, "flagrate.TextInput", c.Decl.Key)
	assert.Empty(t, c.Decl.ClassKey)
}

func TestClassify_ConstructorForms(t *testing.T) {
	tests := []struct {
		line     string
		key      string
		classKey string
	}{
		{"new flagrate.Button(opt)", "new flagrate.Button", "flagrate.Button"},
		{"flagrate.createButton(opt)", "flagrate.createButton", "flagrate.Button"},
		{"new flagrate.TextInput()", "new flagrate.TextInput", "flagrate.TextInput"},
		{"createWidget()", "createWidget", "Widget"},
		{"new Widget()", "new Widget", "Widget"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			c, err := Classify(tt.line)
			require.NoError(t, err)
			require.Equal(t, LineConstructor, c.Kind)
			assert.Equal(t, tt.key, c.Decl.Key)
			assert.Equal(t, tt.classKey, c.Decl.ClassKey)
			assert.Equal(t, []string{tt.classKey}, c.Decl.Returns)
		})
	}
}

func TestClassify_Methods(t *testing.T) {
	c, err := Classify("flagrate.Button#setLabel(label[, silent = false]) -> flagrate.Button | undefined")
	require.NoError(t, err)
	require.Equal(t, LineInstanceMethod, c.Kind)
	assert.Equal(t, "flagrate.Button#setLabel", c.Decl.Key)
	assert.Equal(t, "flagrate.Button", c.Decl.ClassKey)
	assert.Equal(t, []string{"flagrate.Button", "undefined"}, c.Decl.Returns)
	assert.Equal(t, []Arg{
		{Name: "label", IsRequired: true},
		{Name: "silent", IsRequired: false, DefaultValue: "false"},
	}, c.Decl.Arguments)

	c, err = Classify("flagrate.Button.isButton(obj) -> Boolean")
	require.NoError(t, err)
	require.Equal(t, LineClassMethod, c.Kind)
	assert.Equal(t, "flagrate.Button.isButton", c.Decl.Key)
	assert.Equal(t, "flagrate.Button", c.Decl.ClassKey)
	assert.Equal(t, []string{"Boolean"}, c.Decl.Returns)
}

func TestClassify_ArgumentInfo(t *testing.T) {
	c, err := Classify("- c (Number) - count")
	require.NoError(t, err)
	require.Equal(t, LineArgumentInfo, c.Kind)
	assert.Equal(t, &ArgumentInfo{Name: "c", Types: []string{"Number"}, Description: "count"}, c.Info)

	c, err = Classify("- opt (Object | null) – options")
	require.NoError(t, err)
	assert.Equal(t, []string{"Object", "null"}, c.Info.Types)
	assert.Equal(t, "options", c.Info.Description)
}

func TestClassify_MalformedSignature(t *testing.T) {
	for _, line := range []string{
		"A#run(a[, b[, c]]) -> A",
		"A#run(a, ) -> A",
		"A#run(a=1) -> A",
		"new Foo(x = 1 = 2)",
		"Foo#f() -> Foo||Bar",
		"Foo#g() -> Foo | ",
		"Foo.g() -> | Foo",
		"Foo#h(a[, b) -> Foo",
		"Foo#i(a, b]) -> Foo",
		"Foo#j(a], [b) -> Foo",
		"new Foo([a, b]c)",
		"- a (String|) - text",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := Classify(line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSignature))
		})
	}
}

func TestStripDecoration(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"* class Foo", "class Foo"},
		{"*  indented", "indented"},
		{"*    code", "  code"},
		{"*", ""},
		{"/*?", ""},
		{"**/", ""},
		{"* last line ***/", "last line "},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := stripDecoration(tt.in); got != tt.want {
			t.Errorf("stripDecoration(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecomposeArguments(t *testing.T) {
	args, err := decomposeArguments("a, b[, c = 1]")
	require.NoError(t, err)
	assert.Equal(t, []Arg{
		{Name: "a", IsRequired: true},
		{Name: "b", IsRequired: true},
		{Name: "c", IsRequired: false, DefaultValue: "1"},
	}, args)

	args, err = decomposeArguments("[x, y]")
	require.NoError(t, err)
	assert.Equal(t, []Arg{{Name: "x"}, {Name: "y"}}, args)

	args, err = decomposeArguments("")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestSplitTypes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Foo|Bar", []string{"Foo", "Bar"}},
		{" Foo | Bar ", []string{"Foo", "Bar"}},
		{"Element", []string{"Element"}},
	}
	for _, tt := range tests {
		got, err := splitTypes(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, in := range []string{"Foo||Bar", "Foo | ", " ", "|"} {
		_, err := splitTypes(in)
		assert.ErrorIs(t, err, ErrMalformedSignature, "splitTypes(%q)", in)
	}
}

func TestDecomposeArguments_UnbalancedBrackets(t *testing.T) {
	for _, in := range []string{"a[, b", "a, b]", "a], [b", "[a, b]c", "[a][b]"} {
		_, err := decomposeArguments(in)
		assert.ErrorIs(t, err, ErrMalformedSignature, "decomposeArguments(%q)", in)
	}
}
