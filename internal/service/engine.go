// Пакет service — бизнес-логика Storage Service: загрузка, выдача,
// удаление, листинг, статистика и очистка файлов по возрасту.
//
// Единственный источник истины — файловая система: метаданные файла
// формируются при загрузке и отдельно не хранятся.
package service

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixelfy/storage-service/internal/api/middleware"
	"github.com/pixelfy/storage-service/internal/domain/model"
	"github.com/pixelfy/storage-service/internal/storage/filestore"
	"github.com/pixelfy/storage-service/internal/storage/paths"
	"github.com/pixelfy/storage-service/internal/thumbnail"
)

// DefaultService — сервис-namespace по умолчанию, если клиент не указал свой.
const DefaultService = "general"

// Engine — основной сервис операций над файлами.
type Engine struct {
	validator *Validator
	store     *filestore.FileStore
	pb        *paths.Builder
	thumbs    *thumbnail.Generator
	logger    *slog.Logger
}

// NewEngine создаёт Engine.
func NewEngine(
	validator *Validator,
	store *filestore.FileStore,
	pb *paths.Builder,
	thumbs *thumbnail.Generator,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		validator: validator,
		store:     store,
		pb:        pb,
		thumbs:    thumbs,
		logger:    logger.With(slog.String("component", "storage_engine")),
	}
}

// StoreParams — параметры загрузки файла.
type StoreParams struct {
	// Content — содержимое файла
	Content []byte
	// Filename — оригинальное имя файла от клиента
	Filename string
	// Service — сервис-namespace (пусто → DefaultService)
	Service string
	// Folder — опциональная подпапка
	Folder string
	// UserID — опциональный идентификатор пользователя
	UserID string
}

// Store сохраняет файл: валидация → генерация UUID-имени → атомарная
// запись в партицию → best-effort превью → метаданные.
//
// Имя на диске {file_id}{ext} не зависит от клиентского имени, поэтому
// загрузка никогда не перезаписывает существующий файл.
func (e *Engine) Store(ctx context.Context, p StoreParams) (*model.StoredFile, *StorageError) {
	if p.Service == "" {
		p.Service = DefaultService
	}

	if serr := e.validator.Validate(p.Content, p.Filename); serr != nil {
		middleware.OperationsTotal.WithLabelValues("upload", "rejected").Inc()
		return nil, serr
	}

	dir, err := e.pb.Build(p.Service, p.Folder, p.UserID)
	if err != nil {
		middleware.OperationsTotal.WithLabelValues("upload", "rejected").Inc()
		return nil, newValidationError("Недопустимые значения service/folder/user_id: " + err.Error())
	}

	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(p.Filename))
	storedName := fileID + ext

	res, err := e.store.SaveFile(dir, storedName, p.Content)
	if err != nil {
		e.logger.Error("Ошибка сохранения файла",
			slog.String("dir", dir),
			slog.String("stored_filename", storedName),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("upload", "failure").Inc()
		return nil, newInternalError("Не удалось сохранить файл")
	}

	relPath, err := e.pb.Relative(res.FullPath)
	if err != nil {
		middleware.OperationsTotal.WithLabelValues("upload", "failure").Inc()
		return nil, newInternalError("Не удалось построить относительный путь файла")
	}

	// Превью — best-effort: ошибка не влияет на результат загрузки
	var thumbRel string
	if thumbFull := e.thumbs.Generate(ctx, res.FullPath, p.Filename); thumbFull != "" {
		if rel, relErr := e.pb.Relative(thumbFull); relErr == nil {
			thumbRel = rel
		}
	}

	meta := &model.StoredFile{
		FileID:           fileID,
		OriginalFilename: p.Filename,
		StoredFilename:   storedName,
		FilePath:         relPath,
		PublicURL:        publicURL(p.Service, p.Folder, storedName),
		FileSize:         res.Size,
		FileHash:         res.Checksum,
		MimeType:         mime.TypeByExtension(ext),
		Service:          p.Service,
		Folder:           p.Folder,
		UserID:           p.UserID,
		ThumbnailPath:    thumbRel,
		UploadedAt:       time.Now().UTC(),
	}

	e.logger.Info("Файл загружен",
		slog.String("file_id", fileID),
		slog.String("file_path", relPath),
		slog.Int64("size", res.Size),
		slog.String("service", p.Service),
	)
	middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()

	return meta, nil
}

// Retrieve возвращает содержимое файла по относительному пути.
// Небезопасный или несуществующий путь → 404 без деталей.
func (e *Engine) Retrieve(relPath string) ([]byte, *StorageError) {
	full, err := e.pb.Resolve(relPath)
	if err != nil {
		middleware.OperationsTotal.WithLabelValues("download", "not_found").Inc()
		return nil, newNotFoundError("Файл не найден")
	}

	data, err := e.store.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			middleware.OperationsTotal.WithLabelValues("download", "not_found").Inc()
			return nil, newNotFoundError("Файл не найден")
		}
		e.logger.Error("Ошибка чтения файла",
			slog.String("file_path", relPath),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("download", "failure").Inc()
		return nil, newInternalError("Не удалось прочитать файл")
	}

	middleware.OperationsTotal.WithLabelValues("download", "success").Inc()
	return data, nil
}

// Delete удаляет файл и best-effort его превью. Возвращает true, если
// основной файл существовал и был удалён.
func (e *Engine) Delete(relPath string) bool {
	full, err := e.pb.Resolve(relPath)
	if err != nil {
		middleware.OperationsTotal.WithLabelValues("delete", "not_found").Inc()
		return false
	}

	if !e.store.Exists(full) {
		middleware.OperationsTotal.WithLabelValues("delete", "not_found").Inc()
		return false
	}

	if err := e.store.Remove(full); err != nil {
		e.logger.Error("Ошибка удаления файла",
			slog.String("file_path", relPath),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("delete", "failure").Inc()
		return false
	}

	// Превью удаляется best-effort: для видео расширение превью (.jpg)
	// отличается от исходного, такое превью останется до очистки по возрасту
	thumbFull := filepath.Join(filepath.Dir(full), thumbnail.Prefix+filepath.Base(full))
	if rmErr := e.store.Remove(thumbFull); rmErr != nil {
		e.logger.Warn("Не удалось удалить превью",
			slog.String("thumbnail", thumbFull),
			slog.String("error", rmErr.Error()),
		)
	}

	e.logger.Info("Файл удалён", slog.String("file_path", relPath))
	middleware.OperationsTotal.WithLabelValues("delete", "success").Inc()
	return true
}

// publicURL строит клиентский путь /storage/{service}[/{folder}]/{stored}.
// user_id в публичный путь не входит.
func publicURL(service, folder, storedName string) string {
	if folder != "" {
		return "/storage/" + service + "/" + folder + "/" + storedName
	}
	return "/storage/" + service + "/" + storedName
}
