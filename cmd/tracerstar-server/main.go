package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ramstar757/TracerStar/internal/canvas"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/server"
)

func main() {
	cfg := server.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Largest accepted photo upload in bytes")
	flag.IntVar(&cfg.MaxDimension, "max-dimension", cfg.MaxDimension, "Default longest page side in pixels (0 = keep photo size)")
	verbose := flag.Bool("verbose", false, "Log every request")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tracerstar-server [options]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if cfg.MaxUploadBytes <= 0 || cfg.MaxDimension < 0 {
		fmt.Fprintln(os.Stderr, "Error: --max-upload must be > 0 and --max-dimension >= 0")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, canvas.NewStore()).ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
