package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/server/core"
)

func main() {
	logger := log.New(os.Stderr, "[server] ", log.LstdFlags)

	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	flag.UintVar(&cfg.Port, "port", cfg.Port, "TCP port")
	flag.UintVar(&cfg.WSPort, "wsport", cfg.WSPort, "WebSocket port (0 disables)")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Listen address")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "Server display name")
	flag.StringVar(&cfg.LevelPath, "level", cfg.LevelPath, "Arena .tmx file (empty = built-in)")
	flag.StringVar(&cfg.MasterURL, "master", cfg.MasterURL, "Server directory URL (empty = don't register)")
	flag.StringVar(&cfg.PublicAddress, "public", cfg.PublicAddress, "Address advertised to the directory")
	flag.StringVar(&cfg.Region, "region", cfg.Region, "Region advertised to the directory")
	flag.StringVar(&cfg.Version, "version", cfg.Version, "Version advertised to the directory")
	flag.DurationVar(&cfg.Match.TickInterval, "tick", cfg.Match.TickInterval, "Snapshot broadcast interval")
	coarse := flag.Bool("coarse", false, "Use the low-bandwidth tick interval")
	flag.BoolVar(&cfg.Combat.ValidateIntents, "validate", cfg.Combat.ValidateIntents, "Bound-check attack intents")
	flag.Parse()

	if *coarse {
		cfg.Match.TickInterval = cfg.Match.CoarseTickInterval
	}

	level := core.DefaultServerLevel()
	if cfg.LevelPath != "" {
		if level, err = core.LoadServerLevel(cfg.LevelPath, logger); err != nil {
			logger.Fatalf("Failed to load level: %v", err)
		}
	} else if embedded, err := core.LoadServerLevel("", logger); err == nil {
		level = embedded
	} else {
		logger.Printf("Embedded arena unavailable, using built-in platforms: %v", err)
	}
	server := core.NewServer(cfg, level, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MasterURL != "" {
		addr := cfg.PublicAddress
		if addr == "" {
			addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		}
		reg := core.NewRegistration(cfg.MasterURL, cfg.Name, addr, cfg.Version, cfg.Region, server,
			log.New(os.Stderr, "[registration] ", log.LstdFlags))
		go reg.Run(ctx)
	}

	logger.Printf("Starting %q on port %d (tick %v)", cfg.Name, cfg.Port, cfg.Match.TickInterval)
	if err := server.Run(ctx); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
