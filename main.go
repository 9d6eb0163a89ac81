package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spaceout/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config (defaults to $SPACEOUT_CONFIG or config/spaceout.toml)")
	debug := flag.Bool("debug", false, "enable debug logging")
	headless := flag.Bool("headless", false, "run the simulation without a window")
	ticks := flag.Int("ticks", 0, "headless only: stop after this many ticks (0 runs until quit)")
	script := flag.String("sandbox", "", "sandbox script name, overrides the config")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if *script != "" {
		cfg.Sandbox.Script = *script
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := NewGame(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	defer game.Close()
	game.showPhysics = *debug

	go readConsole(ctx, os.Stdin, game.console)

	if *headless {
		n := game.RunHeadless(ctx, *ticks)
		logger.Info("headless run finished", zap.Int("ticks", n))
		return
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Simulation.TickRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", zap.Error(err))
	}
}
