// maintenance.go — очистка хранилища по требованию.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/pixelfy/storage-service/internal/api/errors"
	"github.com/pixelfy/storage-service/internal/service"
)

// Maintenance — обработчик административных операций.
type Maintenance struct {
	cleaner *service.Cleaner
	logger  *slog.Logger
}

// NewMaintenance создаёт обработчик административных операций.
func NewMaintenance(cleaner *service.Cleaner, logger *slog.Logger) *Maintenance {
	return &Maintenance{
		cleaner: cleaner,
		logger:  logger.With(slog.String("component", "maintenance_handler")),
	}
}

// Cleanup обрабатывает POST /cleanup: синхронный проход очистки.
// Опциональный query-параметр days переопределяет порог возраста.
// Отсутствующий days означает порог по умолчанию; явный days=0
// отклоняется, чтобы не спутать «не указан» с «ноль дней».
func (h *Maintenance) Cleanup(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil {
			apierrors.ValidationError(w, "Параметр days должен быть целым числом")
			return
		}
		if days < 1 {
			apierrors.ValidationError(w, "Параметр days должен быть не меньше 1")
			return
		}
	}

	result := h.cleaner.RunOnce(days)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cleanup completed",
		"result":  result,
	})
}
