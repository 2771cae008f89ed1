// Storage Service — файловое хранилище платформы Pixelfy.
// Приём загрузок по HTTP, структурированное размещение по партициям
// service/folder/user_id, превью изображений и видео, листинг,
// статистика и очистка по возрасту.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixelfy/storage-service/internal/api/handlers"
	"github.com/pixelfy/storage-service/internal/api/middleware"
	"github.com/pixelfy/storage-service/internal/config"
	"github.com/pixelfy/storage-service/internal/server"
	"github.com/pixelfy/storage-service/internal/service"
	"github.com/pixelfy/storage-service/internal/storage/filestore"
	"github.com/pixelfy/storage-service/internal/storage/paths"
	"github.com/pixelfy/storage-service/internal/thumbnail"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка запуска: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}

	logger := config.SetupLogger(cfg)

	printBanner(cfg)

	logger.Info("Запуск Storage Service",
		slog.String("version", config.Version),
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port),
		slog.String("storage_path", cfg.StoragePath),
		slog.Bool("debug", cfg.Debug),
	)

	// Хранилище и партиции
	store, err := filestore.New(cfg.StoragePath, config.Partitions)
	if err != nil {
		return fmt.Errorf("хранилище: %w", err)
	}
	pb := paths.NewBuilder(store.Root())

	// Сервисный слой
	validator := service.NewValidator(cfg.MaxFileSize, cfg.AllowedExtensions)
	thumbs := thumbnail.NewGenerator(logger)
	engine := service.NewEngine(validator, store, pb, thumbs, logger)
	cleaner := service.NewCleaner(store, cfg.CleanupOlderThanDays, cfg.CleanupInterval, logger)

	if cfg.AutoCleanupEnabled {
		cleaner.Start(context.Background())
		defer cleaner.Stop()
	}

	// HTTP-слой
	files := handlers.NewFiles(engine, logger)
	system := handlers.NewSystem(engine, cfg, logger)
	maintenance := handlers.NewMaintenance(cleaner, logger)
	auth := middleware.NewAPIKeyAuth(cfg.APIKey, logger)

	srv := server.New(cfg.Host, cfg.Port, files, system, maintenance, auth, logger)
	return srv.Run()
}

// printBanner выводит стартовый баннер в stdout.
func printBanner(cfg *config.Config) {
	fmt.Printf("Storage Service %s\n", config.Version)
	fmt.Printf("  Адрес:      http://%s:%d\n", cfg.Host, cfg.Port)
	fmt.Printf("  Хранилище:  %s\n", cfg.StoragePath)
	fmt.Printf("  Лимит:      %d MB\n", cfg.MaxFileSize/(1024*1024))
	fmt.Printf("  Авто-очистка: %v\n", cfg.AutoCleanupEnabled)
}
