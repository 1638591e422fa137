// Package cli provides the flagdoc command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/dgallion1/flagdoc/internal/config"
	"github.com/dgallion1/flagdoc/internal/pipeline"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

const rootLongDesc = `
flagdoc generates cross-linked HTML API reference pages from documentation
comments in JavaScript sources. Blocks open with /*? and close with **/;
inside them, lines declare classes, constructors, instance methods
(Class#method) and class methods (Class.method), followed by argument notes
("- name (Type) - text") and free Markdown prose.

Inputs can come from flags, FLAGDOC_* environment variables or a YAML file
given with --config. Flags win over the file, the file wins over the
environment. Scripts named as arguments are added after any --scripts
entries, and together they replace the scripts listed in the file or the
environment.
`

// options holds flag values. Only flags the user actually set override the
// configuration loaded from the environment and the config file.
type options struct {
	configPath       string
	scripts          []string
	readme           string
	output           string
	template         string
	sourceLinkPrefix string
	workers          int
	verifyLinks      bool
	logLevel         string
	logFormat        string
	addr             string
	check            bool
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
}

// Run executes the flagdoc command line with args (without the program name).
func Run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "flagdoc [flags] [script...]",
		Short:         "Generate HTML API documentation from JavaScript doc comments",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.opts.configPath, "config", "", "YAML config file")
	pf.StringSliceVar(&app.opts.scripts, "scripts", nil, "comma-separated script files, parsed in order")
	pf.StringVar(&app.opts.readme, "readme", "", "Markdown readme shown on the index page")
	pf.StringVar(&app.opts.template, "template", "", "directory with index.html and page.html templates")
	pf.StringVar(&app.opts.sourceLinkPrefix, "source-link-prefix", "", "prefix for links to the documented source lines")
	pf.BoolVar(&app.opts.verifyLinks, "verify-links", false, "warn about relative links to pages that were not generated")
	pf.StringVar(&app.opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&app.opts.logFormat, "log-format", "", "log format: text or json")

	flags := cmd.Flags()
	flags.StringVarP(&app.opts.output, "output", "o", "", "existing directory to write pages to")
	flags.IntVar(&app.opts.workers, "workers", 0, "maximum concurrent page writes")
	flags.BoolVar(&app.opts.check, "check", false, "fail with a diff instead of writing when the output is out of date")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.generate(ctx, cmd, args)
	}

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

// loadConfig merges defaults, environment, the optional config file and the
// flags that were set on cmd, in that order.
func (app *cliApp) loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Load()
	if app.opts.configPath != "" {
		if err := cfg.LoadFile(app.opts.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("scripts") || len(args) > 0 {
		cfg.Scripts = append(slices.Clone(app.opts.scripts), args...)
	}
	if changed("readme") {
		cfg.Readme = app.opts.readme
	}
	if changed("output") {
		cfg.Output = strings.TrimSpace(app.opts.output)
	}
	if changed("template") {
		cfg.Template = app.opts.template
	}
	if changed("source-link-prefix") {
		cfg.SourceLinkPrefix = app.opts.sourceLinkPrefix
	}
	if changed("workers") {
		cfg.Workers = app.opts.workers
	}
	if changed("verify-links") {
		cfg.VerifyLinks = app.opts.verifyLinks
	}
	if changed("log-level") {
		cfg.LogLevel = app.opts.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = app.opts.logFormat
	}
	if changed("addr") {
		cfg.Addr = app.opts.addr
	}
	return cfg, nil
}

func (app *cliApp) generate(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := app.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Scripts) == 0 && cfg.Readme == "" && cfg.Output == "" {
		return cmd.Help()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := NewLogger(app.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	g := pipeline.NewGenerator(cfg, log)
	if app.opts.check {
		if _, err := g.Check(ctx); err != nil {
			return err
		}
		fmt.Fprintln(app.stdout, "documentation is up to date")
		return nil
	}

	b, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	snap := b.Snapshot()
	fmt.Fprintf(app.stdout, "wrote %d page(s) to %s (%d unchanged)\n", snap.Progress.Written, cfg.Output, snap.Progress.Unchanged)
	return nil
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  flagdoc gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return errors.New("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}

// NewLogger builds the slog logger for level and format.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
