// system.go — служебные endpoints: корневой статус, health check, статистика.
package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/pixelfy/storage-service/internal/config"
	"github.com/pixelfy/storage-service/internal/service"
)

// ServiceName — имя сервиса в статусных ответах.
const ServiceName = "storage-service"

// System — обработчики служебных endpoints.
type System struct {
	engine *service.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// NewSystem создаёт обработчики служебных endpoints.
func NewSystem(engine *service.Engine, cfg *config.Config, logger *slog.Logger) *System {
	return &System{
		engine: engine,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "system_handler")),
	}
}

// Root обрабатывает GET /: краткий статус с агрегатами хранилища.
func (h *System) Root(w http.ResponseWriter, _ *http.Request) {
	stats, serr := h.engine.Stats()
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"service":       ServiceName,
		"version":       config.Version,
		"storage_stats": stats,
	})
}

// Health обрабатывает GET /health: детальный статус хранилища и
// действующей конфигурации. При недоступности хранилища возвращает
// 200 со статусом unhealthy — сам HTTP-сервер жив.
func (h *System) Health(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	stats, serr := h.engine.Stats()
	if serr != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "unhealthy",
			"timestamp": now,
			"error":     serr.Message,
		})
		return
	}

	services := make([]string, 0, len(stats.Services))
	for name := range stats.Services {
		services = append(services, name)
	}
	sort.Strings(services)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   ServiceName,
		"version":   config.Version,
		"timestamp": now,
		"storage": map[string]any{
			"base_path":     h.cfg.StoragePath,
			"total_files":   stats.TotalFiles,
			"total_size_mb": stats.TotalSizeMB,
			"services":      services,
		},
		"config": map[string]any{
			"max_file_size_mb":   h.cfg.MaxFileSize / (1024 * 1024),
			"allowed_extensions": h.cfg.AllowedExtensions,
			"auto_cleanup":       h.cfg.AutoCleanupEnabled,
		},
	})
}

// Stats обрабатывает GET /stats: полная статистика хранилища.
func (h *System) Stats(w http.ResponseWriter, _ *http.Request) {
	stats, serr := h.engine.Stats()
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
