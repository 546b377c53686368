package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewired-gh/neurodraw/internal/config"
	"github.com/rewired-gh/neurodraw/internal/logger"
	"github.com/rewired-gh/neurodraw/internal/storage"
)

var configPath = flag.String("config", "", "Path to configuration file (defaults and NEURODRAW_* env when empty)")

const usage = `Usage: neurodraw [-config path] <command> [args]

Commands:
  draw [-png out.png] [-no-save] events.jsonl   replay recorded input into a canvas
  history                                       list saved drawings with trend values
  export [-o report.pdf]                        write a PDF report of saved drawings
  share [id]                                    send a saved drawing to Telegram
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if *configPath != "" {
		logger.Debug("Configuration loaded from %s", *configPath)
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, store: store, out: os.Stdout}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	switch cmd {
	case "draw":
		err = a.draw(ctx, args)
	case "history":
		err = a.history(ctx, args)
	case "export":
		err = a.export(ctx, args)
	case "share":
		err = a.share(ctx, args)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		stop()
		_ = store.Close()
		os.Exit(1)
	}
}
