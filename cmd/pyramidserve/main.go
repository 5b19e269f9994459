package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iafilius/PopulationPyramid/src/config"
	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/render"
	"github.com/iafilius/PopulationPyramid/src/server"
	"github.com/iafilius/PopulationPyramid/src/source"
	"github.com/iafilius/PopulationPyramid/src/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	cfg.Apply()

	if err := render.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "chart runtime: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := view.New(source.Resolve(cfg.Source, ""), view.WithOptions(cfg.Options()))
	defer c.Teardown()
	c.Show(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("[serve] listening on %s (source %s)", cfg.Addr, cfg.Source)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("[serve] %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logging.Infof("[serve] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warnf("[serve] shutdown: %v", err)
		}
	}
}
