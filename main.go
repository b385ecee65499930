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
	"github.com/automoto/duel-mp/network"
	"github.com/automoto/duel-mp/shared/netconfig"
)

const appName = "duel-mp"

func main() {
	logger := log.New(os.Stderr, "[client] ", log.LstdFlags)

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	server := flag.String("server", "", "Server address (host:port or ws://host:port/ws)")
	master := flag.String("master", cfg.MasterURL, "Server directory URL used when no server is given")
	character := flag.String("character", cfg.Character, "Fighter: Lucario, Mewtwo, Zeraora or Cinderace")
	bot := flag.String("bot", cfg.Bot.String(), "Bot difficulty: easy, normal or hard")
	ready := flag.Bool("ready", cfg.Ready, "Ready up automatically")
	flag.Parse()

	cfg.MasterURL = *master
	cfg.Character = *character
	cfg.Ready = *ready
	if cfg.Bot, err = config.ParseBotDifficulty(*bot); err != nil {
		logger.Fatalf("%v", err)
	}

	profiles, err := network.OpenProfileStore(appName)
	if err != nil {
		logger.Printf("profile disabled: %v", err)
	}
	var profile network.Profile
	if profiles != nil {
		if profile, err = profiles.Load(); err != nil {
			logger.Printf("profile: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address, err := resolveAddress(ctx, cfg, *server, profile)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	client := network.NewClient(cfg.Netcode, log.New(os.Stderr, "[net] ", log.LstdFlags))
	slot, err := client.Connect(ctx, address)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer client.Close()

	fighter := chooseCharacter(cfg.Character, profile.Character, slot)
	logger.Printf("playing %s as %s (bot %s)", fighter, slot, cfg.Bot)

	if profiles != nil {
		profile.Server = address
		profile.Character = fighter
		if err := profiles.Save(profile); err != nil {
			logger.Printf("profile: %v", err)
		}
	}

	session := network.NewSession(client, cfg, fighter, profiles, logger)
	if err := session.Join(); err != nil {
		logger.Fatalf("join: %v", err)
	}
	if err := session.Run(ctx); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Printf("bye")
}

// resolveAddress picks the server: the flag, then DUEL_SERVER, then the
// directory, then the last server used, then the default.
func resolveAddress(ctx context.Context, cfg config.ClientConfig, flagAddr string, profile network.Profile) (string, error) {
	if flagAddr != "" {
		return flagAddr, nil
	}
	if _, set := os.LookupEnv("DUEL_SERVER"); set {
		return cfg.Address, nil
	}
	if cfg.MasterURL != "" {
		servers, err := network.NewBrowser(cfg.MasterURL).List(ctx)
		if err != nil {
			return "", err
		}
		entry, ok := network.Pick(servers)
		if !ok {
			return "", fmt.Errorf("no open servers among %d listed", len(servers))
		}
		return entry.Address, nil
	}
	if profile.Server != "" {
		return profile.Server, nil
	}
	return cfg.Address, nil
}

func chooseCharacter(configured string, remembered netconfig.CharacterID, slot netconfig.Slot) netconfig.CharacterID {
	if id := netconfig.CharacterID(configured); id.Known() {
		return id
	}
	if remembered.Known() {
		return remembered
	}
	return netconfig.Characters[(int(slot)-1)%len(netconfig.Characters)]
}
