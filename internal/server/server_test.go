package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pixelfy/storage-service/internal/api/handlers"
	"github.com/pixelfy/storage-service/internal/api/middleware"
	"github.com/pixelfy/storage-service/internal/config"
	"github.com/pixelfy/storage-service/internal/service"
	"github.com/pixelfy/storage-service/internal/storage/filestore"
	"github.com/pixelfy/storage-service/internal/storage/paths"
	"github.com/pixelfy/storage-service/internal/thumbnail"
)

const testAPIKey = "test-secret"

// newTestRouter собирает полный роутер с аутентификацией поверх
// хранилища во временной директории.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := filestore.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("не удалось создать хранилище: %v", err)
	}

	cfg := &config.Config{
		StoragePath:          store.Root(),
		MaxFileSize:          1024,
		AllowedExtensions:    []string{"pdf"},
		APIKey:               testAPIKey,
		CleanupOlderThanDays: 30,
	}

	engine := service.NewEngine(
		service.NewValidator(cfg.MaxFileSize, cfg.AllowedExtensions),
		store,
		paths.NewBuilder(store.Root()),
		thumbnail.NewGenerator(logger),
		logger,
	)
	cleaner := service.NewCleaner(store, cfg.CleanupOlderThanDays, time.Hour, logger)

	return NewRouter(
		handlers.NewFiles(engine, logger),
		handlers.NewSystem(engine, cfg, logger),
		handlers.NewMaintenance(cleaner, logger),
		middleware.NewAPIKeyAuth(cfg.APIKey, logger),
		logger,
	)
}

// TestRouter_AuthBoundary проверяет, какие маршруты требуют аутентификацию.
func TestRouter_AuthBoundary(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		public bool
	}{
		{"корневой статус", http.MethodGet, "/", true},
		{"health check", http.MethodGet, "/health", true},
		{"метрики", http.MethodGet, "/metrics", true},
		{"скачивание", http.MethodGet, "/file/web/x.pdf", true},
		{"выдача", http.MethodGet, "/serve/web/x.pdf", true},
		{"загрузка", http.MethodPost, "/upload", false},
		{"удаление", http.MethodDelete, "/file/web/x.pdf", false},
		{"листинг", http.MethodGet, "/files", false},
		{"статистика", http.MethodGet, "/stats", false},
		{"очистка", http.MethodPost, "/cleanup", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Без токена
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if tt.public && rec.Code == http.StatusUnauthorized {
				t.Errorf("публичный маршрут вернул 401")
			}
			if !tt.public && rec.Code != http.StatusUnauthorized {
				t.Errorf("защищённый маршрут без токена: ожидался 401, получен %d", rec.Code)
			}

			// С токеном защищённый маршрут проходит аутентификацию
			if !tt.public {
				req = httptest.NewRequest(tt.method, tt.target, nil)
				req.Header.Set("Authorization", "Bearer "+testAPIKey)
				rec = httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				if rec.Code == http.StatusUnauthorized {
					t.Errorf("валидный токен отклонён: %d", rec.Code)
				}
			}
		})
	}
}

// TestRouter_MetricsEndpoint — /metrics отдаёт экспозицию Prometheus.
func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics вернул статус %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("экспозиция метрик пуста")
	}
}

// TestRouter_UnknownRoute — неизвестный маршрут даёт 404.
func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("ожидался 404, получен %d", rec.Code)
	}
}
