// Package main is the entry point for the todoboard API server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todoboard/internal/auth"
	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/server"
	"github.com/nhle/todoboard/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "todoboard",
	})

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	if cfg.Auth.Secret == "" {
		logger.Fatal("auth.secret must be set in the config file")
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal("opening store", "err", err)
	}
	defer st.Close()

	sessions := auth.NewSessions(cfg.Auth.Secret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	srv := server.New(st, sessions, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	// Shut down cleanly on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	logger.Info("listening", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", "err", err)
	}
}
