package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/flagdoc/internal/api"
	"github.com/dgallion1/flagdoc/internal/pipeline"
)

func newServeCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags] [script...]",
		Short: "Build the documentation in memory and serve it over HTTP",
		Long: `Build the site without writing it and serve it for preview.
POST /api/rebuild re-reads the inputs after editing them.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&app.opts.addr, "addr", "", "listen address (default :8090)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.serve(ctx, cmd, args)
	}
	return cmd
}

func (app *cliApp) serve(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg, err := app.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidatePreview(); err != nil {
		return err
	}
	log, err := NewLogger(app.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	srv := api.NewServer(pipeline.NewGenerator(cfg, log), log)
	if _, err := srv.Rebuild(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving documentation", "addr", cfg.Addr)
	fmt.Fprintf(app.stdout, "serving on %s\n", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
