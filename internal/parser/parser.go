package parser

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/flagdoc/internal/doctree"
)

const (
	blockBegin = "/*?"
	blockEnd   = "**/"
)

// reProductName matches a banner comment whose first line names the product:
//
//	/*!
//	 * product-name
var reProductName = regexp.MustCompile(`/\*!\r?\n \* (.+?)\r?\n`)

// Script is one named source file.
type Script struct {
	Name string
	Text string
}

// Parser collects scripts and turns their documentation blocks into a tree.
// Each Parse call runs an isolated session; a Parser must not be used from
// several goroutines at once.
type Parser struct {
	scripts []Script
	log     *slog.Logger
}

// New returns a parser that reports recoverable oddities to log.
func New(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Parser{log: log}
}

// Push queues a script. Scripts are parsed in push order.
func (p *Parser) Push(s Script) *Parser {
	p.scripts = append(p.scripts, s)
	return p
}

// Parse scans every queued script and returns the finished tree. It stops at
// the first malformed declaration and returns a *SyntaxError.
func (p *Parser) Parse() (*doctree.DocTree, error) {
	b := newBuilder(p.log)
	for _, s := range p.scripts {
		if name, ok := ProductName(s.Text); ok {
			b.tree.Product = name
		}
		if err := parseScript(b, s); err != nil {
			return nil, err
		}
		b.close()
	}
	p.log.Debug("parsed scripts", "scripts", len(p.scripts), "entities", b.tree.Len())
	return b.tree, nil
}

// ProductName extracts the product banner name from a script.
func ProductName(text string) (string, bool) {
	m := reProductName.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseScript feeds the lines inside documentation blocks to the builder.
func parseScript(b *builder, s Script) error {
	inBlock := false
	for i, raw := range strings.Split(s.Text, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, blockBegin) {
			inBlock = true
		}
		if !inBlock {
			continue
		}
		closing := strings.HasSuffix(line, blockEnd)

		line = stripDecoration(line)
		c, err := Classify(line)
		if err != nil {
			return &SyntaxError{Source: s.Name, Line: i + 1, Text: line, Err: err}
		}
		b.apply(c, s.Name, i+1)

		if closing {
			inBlock = false
			b.close()
		}
	}
	return nil
}

// IsSyntaxError reports whether err is a malformed declaration.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
