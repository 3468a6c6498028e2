// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command tdjsonctl pipes request lines from stdin into an engine session and
// prints the answers.
//
// With -exec every line is executed synchronously. Otherwise the session is
// split: lines are fanned out to -producers sender clones and answers are
// printed from the single receiver until input ends and -idle passes without
// an answer.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/term"

	"code.hybscloud.com/tdjson"
	"code.hybscloud.com/tdjson/internal/config"
)

type engine interface {
	tdjson.Engine
	tdjson.LogEngine
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to a .toml, .yaml or .yml config file (optional)")
		execMode   = flag.Bool("exec", false, "Execute each line synchronously instead of send/receive")
		producers  = flag.Int("producers", 0, "Number of sender clones")
		timeout    = flag.Duration("timeout", 0, "Timeout of each receive call")
		idle       = flag.Duration("idle", 0, "Stop after input ends and no answer arrives for this long")
		rateLimit  = flag.Float64("rate", 0, "Sends per second across producers (0 = unlimited)")
		logFile    = flag.String("log-file", "", "Engine log file")
		verbosity  = flag.String("verbosity", "", "Engine log verbosity: fatal, error, warning, info, debug, verbose or 1..1024")
		metrics    = flag.String("metrics", "", "Serve Prometheus metrics on this address")
		debug      = flag.Bool("debug", false, "Development logging at debug level")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "producers":
			cfg.Producers = *producers
		case "timeout":
			cfg.ReceiveTimeout = *timeout
		case "idle":
			cfg.IdleTimeout = *idle
		case "rate":
			cfg.Rate = *rateLimit
		case "log-file":
			cfg.LogFile = *logFile
		case "verbosity":
			level, err := tdjson.ParseLevel(*verbosity)
			if err != nil {
				flagErr = fmt.Errorf("-verbosity: %w", err)
			}
			cfg.Verbosity = level
		case "metrics":
			cfg.MetricsAddr = *metrics
		}
	})
	if flagErr == nil {
		flagErr = cfg.Validate()
	}
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		os.Exit(2)
	}

	log, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	tdjson.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *execMode, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("tdjsonctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg config.Config, execMode bool, log *zap.Logger) error {
	e := newEngine(cfg)
	if cfg.LogFile != "" {
		if err := tdjson.SetLogFile(e, cfg.LogFile); err != nil {
			return err
		}
	}
	if err := tdjson.SetLogVerbosityLevel(e, cfg.Verbosity); err != nil {
		return err
	}

	opts := []tdjson.Option{tdjson.WithLogger(log)}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		srv := serveMetrics(cfg.MetricsAddr, reg, log)
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
		opts = append(opts, tdjson.WithRegisterer(reg))
	}

	c := tdjson.New(e, opts...)
	defer c.Close()
	log.Info("tdjsonctl started",
		zap.String("engine", engineName),
		zap.Uint32("session", c.Serial()),
		zap.Bool("exec", execMode))

	if execMode {
		prompt := term.IsTerminal(int(os.Stdin.Fd()))
		return runExec(ctx, c, os.Stdin, os.Stdout, prompt, log)
	}
	return runSplit(ctx, c, cfg, os.Stdin, os.Stdout, log)
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return srv
}
