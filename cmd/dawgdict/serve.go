package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dictionary queries over HTTP",
	Long: `Loads the packed dictionary and exposes a JSON API:
GET /v1/words/{word}, GET /v1/prefix/{prefix},
GET /v1/completions?prefix=&limit=, plus /healthz and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		index := dawg.NewIndex(dawg.FileLoader(cfg.Data.DawgFile))
		if err := index.Load(cmd.Context()); err != nil {
			return err
		}
		rd, err := index.Reader()
		if err != nil {
			return err
		}
		log.Info("dictionary loaded",
			slog.String("file", cfg.Data.DawgFile),
			slog.Int("words", rd.NumWords()),
			slog.Int("states", rd.NumStates()))

		srv := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Serve.Host, cfg.Serve.Port),
			Handler:      server.NewHandler(index, log),
			ReadTimeout:  cfg.Serve.ReadTimeout,
			WriteTimeout: cfg.Serve.WriteTimeout,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info("listening", slog.String("addr", srv.Addr))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return err
		case sig := <-shutdown:
			log.Info("shutting down", slog.Any("signal", sig))
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Serve.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
