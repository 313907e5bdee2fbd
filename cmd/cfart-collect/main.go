// Command cfart-collect is a local HTTP collector for CFART session
// summaries. Point export.endpoint at http://<addr>/results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/cfart/config"
	"github.com/lixenwraith/cfart/logging"
)

const shutdownTimeout = 5 * time.Second

var (
	configFlag = flag.String("config", "", "Path to config file (default: search for cfart.{toml,yaml,json})")
	addrFlag   = flag.String("addr", "", "Listen address (overrides collector.addr)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cfart-collect: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, _, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	addr := cfg.Collector.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	// The collector always logs to stdout; file logging follows the config
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	if cfg.Logging.Debug {
		fileLog, closeLog, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		defer closeLog()
		logger = zap.New(zapcore.NewTee(logger.Core(), fileLog.Core()))
	}

	srv := &http.Server{
		Handler:      NewServer(logger).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Info("collector listening", zap.String("addr", ln.Addr().String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
