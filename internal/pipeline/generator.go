// Package pipeline runs a documentation generation: it reads the inputs,
// parses them in one isolated session, renders the site and publishes it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dgallion1/flagdoc/internal/config"
	"github.com/dgallion1/flagdoc/internal/doctree"
	"github.com/dgallion1/flagdoc/internal/parser"
	"github.com/dgallion1/flagdoc/internal/publish"
	"github.com/dgallion1/flagdoc/internal/render"
)

// Inputs is everything a run reads from disk.
type Inputs struct {
	Scripts   []parser.Script
	Readme    string
	Templates render.Templates
}

// Result is the in-memory output of a run.
type Result struct {
	Tree   *doctree.DocTree
	Site   *render.Site
	Digest string
	Broken []publish.BrokenLink
}

// Generator turns configured inputs into a documentation site.
type Generator struct {
	cfg config.Config
	md  render.Markdown
	log *slog.Logger

	builds atomic.Int64
}

// NewGenerator creates a generator for cfg. The config is expected to have
// passed validation.
func NewGenerator(cfg config.Config, log *slog.Logger) *Generator {
	return &Generator{cfg: cfg, md: render.NewMarkdown(), log: log}
}

// Load reads scripts in the configured order, the readme and the templates.
func (g *Generator) Load() (Inputs, error) {
	in := Inputs{Scripts: make([]parser.Script, 0, len(g.cfg.Scripts))}
	for _, name := range g.cfg.Scripts {
		name = strings.TrimSpace(name)
		data, err := os.ReadFile(name)
		if err != nil {
			return Inputs{}, fmt.Errorf("read script: %w", err)
		}
		in.Scripts = append(in.Scripts, parser.Script{Name: name, Text: string(data)})
	}

	readme, err := os.ReadFile(g.cfg.Readme)
	if err != nil {
		return Inputs{}, fmt.Errorf("read readme: %w", err)
	}
	in.Readme = string(readme)

	in.Templates, err = render.LoadTemplates(g.cfg.Template)
	if err != nil {
		return Inputs{}, err
	}
	return in, nil
}

// Render builds the site in memory without touching the output directory.
func (g *Generator) Render(ctx context.Context) (*Build, error) {
	b := newBuild(int(g.builds.Add(1)))
	log := g.log.With("build_id", b.ID)
	if _, err := g.render(ctx, b, log); err != nil {
		return b, err
	}
	b.SetStatus(StatusCompleted, "rendered")
	return b, nil
}

// Generate renders the site and writes it to the output directory.
func (g *Generator) Generate(ctx context.Context) (*Build, error) {
	b := newBuild(int(g.builds.Add(1)))
	log := g.log.With("build_id", b.ID)

	res, err := g.render(ctx, b, log)
	if err != nil {
		return b, err
	}

	b.SetStatus(StatusWriting, "writing")
	st, err := publish.Write(ctx, g.cfg.Output, res.Site.Pages, g.cfg.Workers, log)
	if err != nil {
		return b, g.fail(b, log, "writing", err)
	}
	b.update(func(p *Progress) {
		p.Written = st.Written
		p.Unchanged = st.Unchanged
	})

	b.SetStatus(StatusCompleted, "done")
	log.Info("generated documentation", "output", g.cfg.Output, "pages", len(res.Site.Pages), "digest", res.Digest)
	return b, nil
}

// Check renders the site and compares it with the output directory. It
// returns an error wrapping publish.ErrOutOfDate when they differ.
func (g *Generator) Check(ctx context.Context) (*Build, error) {
	b := newBuild(int(g.builds.Add(1)))
	log := g.log.With("build_id", b.ID)

	res, err := g.render(ctx, b, log)
	if err != nil {
		return b, err
	}

	b.SetStatus(StatusChecking, "checking")
	if err := publish.Check(g.cfg.Output, res.Site.Pages); err != nil {
		return b, g.fail(b, log, "checking", err)
	}
	b.SetStatus(StatusCompleted, "up to date")
	log.Info("documentation is up to date", "output", g.cfg.Output)
	return b, nil
}

func (g *Generator) render(ctx context.Context, b *Build, log *slog.Logger) (*Result, error) {
	// Phase 1: Read
	b.SetStatus(StatusReading, "reading")
	in, err := g.Load()
	if err != nil {
		return nil, g.fail(b, log, "reading", err)
	}
	b.update(func(p *Progress) { p.Scripts = len(in.Scripts) })
	if err := ctx.Err(); err != nil {
		return nil, g.fail(b, log, "reading", err)
	}

	// Phase 2: Parse. Each run gets its own parser session.
	b.SetStatus(StatusParsing, "parsing")
	p := parser.New(log)
	for _, s := range in.Scripts {
		p.Push(s)
	}
	tree, err := p.Parse()
	if err != nil {
		return nil, g.fail(b, log, "parsing", fmt.Errorf("parse: %w", err))
	}
	log.Info("parsed scripts", "scripts", len(in.Scripts), "entities", tree.Len(), "product", tree.Product)

	// Phase 3: Render
	b.SetStatus(StatusRendering, "rendering")
	site, err := render.Build(tree, in.Readme, in.Templates, g.md, render.Options{SourceLinkPrefix: g.cfg.SourceLinkPrefix})
	if err != nil {
		return nil, g.fail(b, log, "rendering", fmt.Errorf("render: %w", err))
	}
	res := &Result{Tree: tree, Site: site, Digest: publish.Digest(site.Pages)}

	// Phase 4: Verify
	if g.cfg.VerifyLinks {
		b.SetStatus(StatusVerifying, "verifying")
		res.Broken = publish.CheckLinks(site.Pages)
		for _, bl := range res.Broken {
			log.Warn("broken link", "page", bl.Page, "href", bl.Href)
		}
	}

	b.setResult(res)
	return res, nil
}

func (g *Generator) fail(b *Build, log *slog.Logger, phase string, err error) error {
	log.Error("generation failed", "phase", phase, "error", err)
	b.AddError(err.Error())
	b.SetStatus(StatusFailed, phase)
	return err
}
