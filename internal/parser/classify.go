package parser

import (
	"regexp"
	"strings"
)

// LineKind identifies what a documentation line declares.
type LineKind int

const (
	LineText LineKind = iota
	LineClass
	LineConstructor
	LineInstanceMethod
	LineClassMethod
	LineArgumentInfo
)

func (k LineKind) String() string {
	switch k {
	case LineClass:
		return "class"
	case LineConstructor:
		return "constructor"
	case LineInstanceMethod:
		return "instance-method"
	case LineClassMethod:
		return "class-method"
	case LineArgumentInfo:
		return "argument-info"
	default:
		return "text"
	}
}

// Declaration is a decomposed entity-declaration line.
type Declaration struct {
	Key       string
	ClassKey  string // Declared owner; empty for classes
	Arguments []Arg
	Returns   []string
}

// Arg is a decomposed argument token.
type Arg struct {
	Name         string
	IsRequired   bool
	DefaultValue string
}

// ArgumentInfo annotates an existing argument of the current entity.
type ArgumentInfo struct {
	Name        string
	Types       []string
	Description string
}

// Classification is the structured result of classifying one line.
type Classification struct {
	Kind LineKind
	Text string // The line itself, used for LineText
	Decl *Declaration
	Info *ArgumentInfo
}

var (
	reClass          = regexp.MustCompile(`^class ([a-zA-Z.]*([A-Z][a-zA-Z]+))$`)
	reConstructor    = regexp.MustCompile(`^((?:new ([a-zA-Z.]*\.?)|([a-zA-Z.]*\.?)create)([A-Z][a-zA-Z]+))\(([^)]*)\)$`)
	reInstanceMethod = regexp.MustCompile(`^(([^#]+)#([^#]+))\(([^)]*)\) -> ([^)]+)$`)
	reClassMethod    = regexp.MustCompile(`^(([a-zA-Z.]+)\.([^.]+))\(([^)]*)\) -> ([^)]+)$`)
	reArgumentInfo   = regexp.MustCompile(`^- ([^ ]+) \(([^)]+)\) . (.*)$`)
)

// matcher pairs a pattern with the decoder that turns its submatches into a
// Classification. Matchers are tried in order and the first match wins.
type matcher struct {
	kind   LineKind
	re     *regexp.Regexp
	decode func(m []string) (Classification, error)
}

var matchers = []matcher{
	{LineClass, reClass, decodeClass},
	{LineConstructor, reConstructor, decodeConstructor},
	{LineInstanceMethod, reInstanceMethod, decodeMethod(LineInstanceMethod)},
	{LineClassMethod, reClassMethod, decodeMethod(LineClassMethod)},
	{LineArgumentInfo, reArgumentInfo, decodeArgumentInfo},
}

// Classify tests line against the declaration patterns in precedence order.
// A line matching none of them is description text. The error is non-nil only
// when a declaration matched but its argument list is malformed.
func Classify(line string) (Classification, error) {
	for _, mt := range matchers {
		m := mt.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		c, err := mt.decode(m)
		if err != nil {
			return Classification{}, err
		}
		c.Kind = mt.kind
		return c, nil
	}
	return Classification{Kind: LineText, Text: line}, nil
}

func decodeClass(m []string) (Classification, error) {
	return Classification{Decl: &Declaration{Key: m[1]}}, nil
}

func decodeConstructor(m []string) (Classification, error) {
	args, err := decomposeArguments(m[5])
	if err != nil {
		return Classification{}, err
	}
	classKey := m[2] + m[3] + m[4]
	return Classification{Decl: &Declaration{
		Key:       m[1],
		ClassKey:  classKey,
		Arguments: args,
		Returns:   []string{classKey},
	}}, nil
}

func decodeMethod(kind LineKind) func(m []string) (Classification, error) {
	return func(m []string) (Classification, error) {
		args, err := decomposeArguments(m[4])
		if err != nil {
			return Classification{}, err
		}
		returns, err := splitTypes(m[5])
		if err != nil {
			return Classification{}, err
		}
		return Classification{Decl: &Declaration{
			Key:       m[1],
			ClassKey:  m[2],
			Arguments: args,
			Returns:   returns,
		}}, nil
	}
}

func decodeArgumentInfo(m []string) (Classification, error) {
	types, err := splitTypes(m[2])
	if err != nil {
		return Classification{}, err
	}
	return Classification{Info: &ArgumentInfo{
		Name:        m[1],
		Types:       types,
		Description: m[3],
	}}, nil
}

// stripDecoration removes comment decoration from a trimmed line: one leading
// "*" with up to two following spaces, a block-begin marker and any trailing
// run of "*" closing the block.
func stripDecoration(line string) string {
	if strings.HasPrefix(line, "*") {
		line = line[1:]
		for i := 0; i < 2 && strings.HasPrefix(line, " "); i++ {
			line = line[1:]
		}
	}
	line = strings.TrimPrefix(line, blockBegin)
	if strings.HasSuffix(line, "*/") {
		line = strings.TrimSuffix(line, "/")
		line = strings.TrimRight(line, "*")
	}
	return line
}
