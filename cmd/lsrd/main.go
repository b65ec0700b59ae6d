// Command lsrd runs one router's routing daemon process.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/lstoned/lsrd/config"
	"github.com/lstoned/lsrd/daemon"
	"github.com/lstoned/lsrd/install"
)

func main() {
	var (
		configFlag  = flag.String("config", "", "path to the router's YAML configuration file")
		verboseFlag = flag.Bool("v", false, "enable debug-level logging")
	)

	flag.Usage = func() {
		fmt.Println(usage)
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *configFlag == "" {
		log.Error("missing required flag", "flag", "-config")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configFlag, log); err != nil {
		log.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	defer conn.Close()

	d := daemon.New(cfg, conn, install.ShellInstaller{}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("router starting", "router_id", cfg.RouterID, "port", cfg.Port, "neighbors", len(cfg.Neighbors))

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

const usage = `lsrd: link-state routing daemon.

Example:
  $ lsrd -config /etc/lsrd/r1.yaml`
