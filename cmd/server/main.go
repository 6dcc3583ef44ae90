package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"mindstage-server/internal/engine"
	"mindstage-server/internal/infrastructure/storage"
	"mindstage-server/internal/server"
	"mindstage-server/internal/version"
	"mindstage-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	cfg := engine.NewConfig()
	var port string
	var forceNew bool
	flag.StringVar(&port, "port", "8080", "HTTP port")
	flag.StringVar(&cfg.User, "user", cfg.User, "User name (save namespace)")
	flag.StringVar(&cfg.Game, "game", cfg.Game, "Game name (save namespace)")
	flag.StringVar(&cfg.BootPath, "boot", cfg.BootPath, "Path to world boot JSON")
	flag.StringVar(&cfg.ChatConfigPath, "config", cfg.ChatConfigPath, "Path to chat endpoints JSON")
	flag.BoolVar(&forceNew, "new", false, "Start a fresh game even if a save exists")
	flag.Parse()

	logger.Log.Info("Starting MindStage server...")
	logger.Log.Info(version.String())

	chatCfg, err := engine.LoadChatConfig(cfg.ChatConfigPath, cfg.ChatTimeout)
	if err != nil {
		logger.Log.Fatal(err)
	}

	var eng *engine.TurnEngine
	if !forceNew && storage.Exists(cfg.SaveDir()) {
		eng, err = engine.LoadGame(cfg, chatCfg)
		if err != nil {
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

	service := engine.NewService(eng)

	// Грейсфул-шатдаун: сейв и остановка между фазами.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down...")
		eng.Terminate()
		if err := eng.Save(); err != nil {
			logger.Log.WithError(err).Error("save on shutdown failed")
		}
		eng.Close()
		os.Exit(0)
	}()

	srv := server.New(service, port)
	if err := srv.Run(); err != nil {
		logger.Log.Fatal(err)
	}
}
