// Пакет server — HTTP-сервер Storage Service: маршрутизация chi,
// middleware и graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelfy/storage-service/internal/api/handlers"
	"github.com/pixelfy/storage-service/internal/api/middleware"
)

// shutdownTimeout — время на завершение активных запросов при остановке.
const shutdownTimeout = 30 * time.Second

// Server — HTTP-сервер Storage Service.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New создаёт Server с настроенной маршрутизацией.
func New(
	host string,
	port int,
	files *handlers.Files,
	system *handlers.System,
	maintenance *handlers.Maintenance,
	auth *middleware.APIKeyAuth,
	logger *slog.Logger,
) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      NewRouter(files, system, maintenance, auth, logger),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger.With(slog.String("component", "http_server")),
	}
}

// NewRouter собирает маршрутизацию Storage Service.
//
// Публичные endpoints: / , /health, /metrics, GET /file/*, GET /serve/*.
// Остальные операции — за bearer-аутентификацией.
func NewRouter(
	files *handlers.Files,
	system *handlers.System,
	maintenance *handlers.Maintenance,
	auth *middleware.APIKeyAuth,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware())

	// Публичные endpoints
	r.Get("/", system.Root)
	r.Get("/health", system.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/file/*", files.Download)
	r.Get("/serve/*", files.Serve)

	// Endpoints за аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())

		r.Post("/upload", files.Upload)
		r.Delete("/file/*", files.Delete)
		r.Get("/files", files.List)
		r.Get("/stats", system.Stats)
		r.Post("/cleanup", maintenance.Cleanup)
	})

	return r
}

// Run запускает HTTP-сервер и блокируется до сигнала SIGINT/SIGTERM,
// после чего выполняет graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP сервер запущен", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP сервера: %w", err)
	case sig := <-stop:
		s.logger.Info("Получен сигнал остановки", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP сервер остановлен")
	return nil
}
