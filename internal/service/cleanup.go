// cleanup.go — очистка хранилища по возрасту файлов: разовый проход
// по требованию и опциональный фоновый планировщик.
package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pixelfy/storage-service/internal/domain/model"
	"github.com/pixelfy/storage-service/internal/storage/filestore"
)

// Метрики очистки
var (
	// cleanupRunsTotal — количество проходов очистки.
	cleanupRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ss_cleanup_runs_total",
			Help: "Количество выполненных проходов очистки",
		},
	)

	// cleanupDeletedTotal — количество удалённых очисткой файлов.
	cleanupDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ss_cleanup_deleted_files_total",
			Help: "Количество файлов, удалённых очисткой по возрасту",
		},
	)

	// cleanupFreedBytesTotal — освобождено байт очисткой.
	cleanupFreedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ss_cleanup_freed_bytes_total",
			Help: "Количество байт, освобождённых очисткой по возрасту",
		},
	)
)

// Cleaner — очистка файлов старше порогового возраста.
// Порог сравнивается с mtime; превью удаляются тем же критерием,
// что и обычные файлы.
type Cleaner struct {
	store       *filestore.FileStore
	defaultDays int
	interval    time.Duration
	logger      *slog.Logger

	// mu сериализует проходы очистки
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCleaner создаёт Cleaner.
// defaultDays — порог возраста по умолчанию, interval — период фоновых запусков.
func NewCleaner(store *filestore.FileStore, defaultDays int, interval time.Duration, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		store:       store,
		defaultDays: defaultDays,
		interval:    interval,
		logger:      logger.With(slog.String("component", "cleanup")),
	}
}

// Start запускает фоновый планировщик очистки: первый проход сразу,
// далее по тикеру. Повторный Start без Stop — no-op.
func (c *Cleaner) Start(ctx context.Context) {
	if c.cancel != nil {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	c.logger.Info("Фоновая очистка запущена",
		slog.Int("older_than_days", c.defaultDays),
		slog.Duration("interval", c.interval),
	)

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.RunOnce(0)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.RunOnce(0)
			}
		}
	}()
}

// Stop останавливает фоновый планировщик и дожидается завершения
// текущего прохода.
func (c *Cleaner) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.logger.Info("Фоновая очистка остановлена")
}

// RunOnce выполняет один проход очистки: удаляет все файлы с mtime
// старше порога. days <= 0 — используется порог по умолчанию.
// Ошибки удаления отдельных файлов логируются и пропускаются.
func (c *Cleaner) RunOnce(days int) *model.CleanupResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if days <= 0 {
		days = c.defaultDays
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	result := &model.CleanupResult{}

	err := c.store.WalkFiles(c.store.Root(), func(fullPath string, info os.FileInfo) {
		if !info.ModTime().Before(cutoff) {
			return
		}
		if rmErr := c.store.Remove(fullPath); rmErr != nil {
			c.logger.Warn("Не удалось удалить устаревший файл",
				slog.String("path", fullPath),
				slog.String("error", rmErr.Error()),
			)
			return
		}
		result.DeletedFiles++
		result.SizeFreedBytes += info.Size()
	})
	if err != nil {
		c.logger.Error("Ошибка обхода хранилища при очистке",
			slog.String("error", err.Error()),
		)
	}

	result.SizeFreedMB = model.RoundMB(result.SizeFreedBytes)

	cleanupRunsTotal.Inc()
	cleanupDeletedTotal.Add(float64(result.DeletedFiles))
	cleanupFreedBytesTotal.Add(float64(result.SizeFreedBytes))

	c.logger.Info("Очистка завершена",
		slog.Int("older_than_days", days),
		slog.Int("deleted_files", result.DeletedFiles),
		slog.Int64("size_freed_bytes", result.SizeFreedBytes),
	)

	return result
}
