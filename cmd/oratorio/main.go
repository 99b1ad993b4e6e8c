package main

import (
	"log"

	"github.com/arwisata/oratorio/internal/config"
	"github.com/arwisata/oratorio/internal/db"
	"github.com/arwisata/oratorio/internal/filestore/local"
	"github.com/arwisata/oratorio/internal/logging"
	"github.com/arwisata/oratorio/internal/service"
	"github.com/arwisata/oratorio/internal/store"
	"github.com/arwisata/oratorio/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	files, err := local.NewLocalStore(cfg.UploadPath)
	if err != nil {
		logger.Error("failed to initialize upload store", "error", err)
		return
	}

	destinationStore := store.NewDestinationStore(database)
	userStore := store.NewUserStore(database)

	destinations := service.NewDestinationService(destinationStore, files, logger)
	accounts := service.NewAccountService(userStore, service.NewRolePolicy(cfg.AdminEmails), logger)

	server := web.NewServer(destinations, accounts, files, cfg.AssetsPath, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
