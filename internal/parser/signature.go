package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedSignature is wrapped by every argument decomposition failure.
var ErrMalformedSignature = errors.New("malformed signature")

var (
	// "a, b[, c = 1, d]" splits into the required run and the bracketed optional run.
	reSplitArguments = regexp.MustCompile(`^([^\[\]]*)\[?,? ?([^\[\]]*)\]?$`)
	reArgument       = regexp.MustCompile(`^([^ =]+)(?: = )?([^=]*)$`)
)

// decomposeArguments parses the text between a declaration's parentheses.
// Required arguments come first, then optional ones; both keep source order.
func decomposeArguments(s string) ([]Arg, error) {
	if err := checkBrackets(s); err != nil {
		return nil, err
	}
	m := reSplitArguments.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("%w: argument list %q", ErrMalformedSignature, s)
	}

	var args []Arg
	for _, group := range []struct {
		text     string
		required bool
	}{
		{m[1], true},
		{m[2], false},
	} {
		if group.text == "" {
			continue
		}
		for _, tok := range strings.Split(group.text, ",") {
			arg, err := decomposeArgument(strings.TrimSpace(tok))
			if err != nil {
				return nil, err
			}
			arg.IsRequired = group.required
			args = append(args, arg)
		}
	}
	return args, nil
}

// decomposeArgument splits "name" or "name = default".
func decomposeArgument(tok string) (Arg, error) {
	m := reArgument.FindStringSubmatch(tok)
	if m == nil {
		return Arg{}, fmt.Errorf("%w: argument %q", ErrMalformedSignature, tok)
	}
	return Arg{Name: m[1], DefaultValue: m[2]}, nil
}

// checkBrackets accepts at most one optional run: a single "[" followed by a
// single "]" that closes the list.
func checkBrackets(s string) error {
	opens, closes := strings.Count(s, "["), strings.Count(s, "]")
	if opens == 0 && closes == 0 {
		return nil
	}
	if opens != 1 || closes != 1 || !strings.HasSuffix(strings.TrimSpace(s), "]") || strings.Index(s, "[") > strings.Index(s, "]") {
		return fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformedSignature, s)
	}
	return nil
}

// splitTypes splits a "Foo | Bar" union into trimmed type names. Every member
// must be non-empty.
func splitTypes(s string) ([]string, error) {
	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: empty type in %q", ErrMalformedSignature, s)
		}
	}
	return parts, nil
}

// SyntaxError reports a declaration whose outer shape matched but whose
// argument list could not be decomposed.
type SyntaxError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v in %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
