package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Ramstar757/TracerStar/internal/cli"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/pipeline"
)

func main() {
	cfg, err := cli.Parse()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Verbose {
		logging.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := pipeline.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Coloring page written to %s\n", cfg.OutPath)
}
