package main

import (
	"context"
	"log"
	"net/http"

	"poststudio/config"
	"poststudio/config/database"
	"poststudio/internal/content"
	"poststudio/internal/publish"
	"poststudio/internal/studio/operation"
	"poststudio/internal/studio/repository"
	"poststudio/internal/studio/service"
	"poststudio/pkg/logger"
	"poststudio/router"
	"poststudio/socket"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	slot, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		logger.Sugar.Fatalf("Could not open storage %q: %v", cfg.Storage, err)
	}
	defer closeSlot()

	repo := repository.NewDocumentRepository(slot)
	factory := operation.NewPostFactory(content.DefaultTables(), content.NewLocale(cfg.Locale))
	svc := service.NewStudioService(ctx, repo, factory, content.Placeholder{})
	if cfg.PublishSecret != "" {
		svc.Receipts = publish.NewSigner(cfg.PublishSecret, cfg.ReceiptTTL)
	}

	// The hub owns every socket; the service pushes each new view through it.
	hub := socket.NewHub(svc)
	svc.Notifier = hub
	go hub.Run()
	svc.Refresh()

	logger.Sugar.Infof("Post studio listening on %s (storage: %s)", cfg.Addr, cfg.Storage)
	if err := http.ListenAndServe(cfg.Addr, router.Setup(svc, hub, cfg.CORSOrigin)); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}

func openSlot(ctx context.Context, cfg config.Config) (repository.Slot, func(), error) {
	noop := func() {}

	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemorySlot(), noop, nil

	case config.StoragePostgres:
		db, err := database.Connect(cfg.Database.DSN())
		if err != nil {
			return nil, noop, err
		}
		slot := repository.NewPostgresSlot(db, cfg.SlotKey)
		if err := slot.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return slot, func() { db.Close() }, nil

	case config.StorageRedis:
		slot, err := repository.NewRedisSlot(cfg.RedisURL, cfg.SlotKey)
		if err != nil {
			return nil, noop, err
		}
		return slot, func() { slot.Close() }, nil

	default:
		slot, err := repository.NewFileSlot(cfg.DataFile)
		if err != nil {
			return nil, noop, err
		}
		return slot, noop, nil
	}
}
