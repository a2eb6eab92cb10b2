package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vijay-48/LeadIntel/internal/ingest"
	"github.com/Vijay-48/LeadIntel/internal/search"
	"github.com/Vijay-48/LeadIntel/pkg/apollo"
)

var serveLoadOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LeadIntel HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		deps := apiDeps{
			store:  st,
			agg:    search.NewAggregator(st),
			loader: ingest.NewLoader(st, cfg.Data.Dir, cfg.Data.BatchSize),
		}
		if cfg.Apollo.Key != "" {
			deps.apollo = apollo.NewClient(cfg.Apollo.Key,
				apollo.WithBaseURL(cfg.Apollo.BaseURL),
				apollo.WithRateLimit(cfg.Apollo.RPS),
			)
		}

		if serveLoadOnStart {
			// Load in the background so startup never blocks on the big dumps.
			go func() {
				if err := deps.loader.LoadAll(context.WithoutCancel(ctx)); err != nil {
					zap.L().Error("startup data load failed", zap.Error(err))
				}
			}()
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      newAPIRouter(deps, cfg.Server.CORSOrigins),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("http server listening", zap.Int("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("shutdown error", zap.Error(err))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveLoadOnStart, "load-on-start", true, "load source data in the background on startup if the store is empty")
	rootCmd.AddCommand(serveCmd)
}
