package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mindstage-server/internal/engine"
	"mindstage-server/internal/infrastructure/storage"
	"mindstage-server/internal/version"
	"mindstage-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	cfg := engine.NewConfig()
	var forceNew bool
	flag.StringVar(&cfg.User, "user", cfg.User, "User name (save namespace)")
	flag.StringVar(&cfg.Game, "game", cfg.Game, "Game name (save namespace)")
	flag.StringVar(&cfg.BootPath, "boot", cfg.BootPath, "Path to world boot JSON")
	flag.StringVar(&cfg.ChatConfigPath, "config", cfg.ChatConfigPath, "Path to chat endpoints JSON")
	flag.BoolVar(&forceNew, "new", false, "Start a fresh game even if a save exists")
	flag.Parse()

	logger.Log.Info("Starting MindStage terminal...")
	logger.Log.Info(version.String())

	chatCfg, err := engine.LoadChatConfig(cfg.ChatConfigPath, cfg.ChatTimeout)
	if err != nil {
		logger.Log.Fatal(err)
	}

	var eng *engine.TurnEngine
	if !forceNew && storage.Exists(cfg.SaveDir()) {
		eng, err = engine.LoadGame(cfg, chatCfg)
		if err != nil {
			// Битый сейв не продолжаем: выходим с ошибкой.
			logger.Log.WithError(err).Fatal("failed to load save")
		}
	} else {
		boot, err := engine.LoadBoot(cfg.BootPath)
		if err != nil {
			logger.Log.Fatal(err)
		}
		eng, err = engine.NewGame(cfg, chatCfg, boot)
		if err != nil {
			logger.Log.Fatal(err)
		}
	}
	defer eng.Close()

	service := engine.NewService(eng)
	program := tea.NewProgram(newModel(service), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Log.WithError(err).Error("terminal crashed")
		os.Exit(1)
	}
}
