// Пакет handlers — HTTP-обработчики Storage Service.
// Разбор запроса, вызов сервисного слоя, сериализация ответа.
// Успешные ответы — envelope {"success": true, ...}, ошибки — через
// пакет errors в формате {"error": {"code", "message"}}.
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pixelfy/storage-service/internal/api/errors"
	"github.com/pixelfy/storage-service/internal/domain/model"
	"github.com/pixelfy/storage-service/internal/service"
)

// multipartMemoryLimit — лимит памяти для разбора multipart-формы,
// остальное уходит во временные файлы.
const multipartMemoryLimit = 32 << 20

// Files — обработчики операций над файлами.
type Files struct {
	engine *service.Engine
	logger *slog.Logger
}

// NewFiles создаёт обработчики файловых операций.
func NewFiles(engine *service.Engine, logger *slog.Logger) *Files {
	return &Files{
		engine: engine,
		logger: logger.With(slog.String("component", "files_handler")),
	}
}

// writeJSON сериализует ответ с указанным статус-кодом.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
func writeServiceError(w http.ResponseWriter, serr *service.StorageError) {
	apierrors.WriteError(w, serr.StatusCode, serr.Code, serr.Message)
}

// Upload обрабатывает POST /upload: multipart-форма с полем file,
// координаты партиции в query-параметрах service/folder/user_id.
func (h *Files) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		apierrors.ValidationError(w, "Некорректная multipart-форма: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Поле file отсутствует в форме")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Ошибка чтения тела загрузки", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось прочитать файл из запроса")
		return
	}

	q := r.URL.Query()
	meta, serr := h.engine.Store(r.Context(), service.StoreParams{
		Content:  content,
		Filename: header.Filename,
		Service:  q.Get("service"),
		Folder:   q.Get("folder"),
		UserID:   q.Get("user_id"),
	})
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "File uploaded successfully",
		"file":    meta,
	})
}

// clientPath извлекает относительный путь файла из wildcard-части URL.
func clientPath(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "*")
	relPath, err := url.PathUnescape(raw)
	if err != nil || relPath == "" {
		return "", false
	}
	return relPath, true
}

// Download обрабатывает GET /file/{path}: отдаёт файл как вложение.
func (h *Files) Download(w http.ResponseWriter, r *http.Request) {
	relPath, ok := clientPath(r)
	if !ok {
		apierrors.NotFound(w, "Файл не найден")
		return
	}

	data, serr := h.engine.Retrieve(relPath)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	filename := filepath.Base(relPath)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Serve обрабатывает GET /serve/{path}: отдаёт файл inline с MIME-типом
// по расширению (для отображения в браузере).
func (h *Files) Serve(w http.ResponseWriter, r *http.Request) {
	relPath, ok := clientPath(r)
	if !ok {
		apierrors.NotFound(w, "Файл не найден")
		return
	}

	data, serr := h.engine.Retrieve(relPath)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(relPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Delete обрабатывает DELETE /file/{path}.
func (h *Files) Delete(w http.ResponseWriter, r *http.Request) {
	relPath, ok := clientPath(r)
	if !ok {
		apierrors.NotFound(w, "File not found or deletion failed")
		return
	}

	if !h.engine.Delete(relPath) {
		apierrors.NotFound(w, "File not found or deletion failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "File deleted successfully",
	})
}

// List обрабатывает GET /files: фильтры service/folder/user_id,
// пагинация limit/offset.
func (h *Files) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.ListFilter{
		Service: q.Get("service"),
		Folder:  q.Get("folder"),
		UserID:  q.Get("user_id"),
	}

	var err error
	filter.Limit, err = intQueryParam(q.Get("limit"), service.DefaultListLimit)
	if err != nil {
		apierrors.ValidationError(w, "Параметр limit должен быть целым числом")
		return
	}
	filter.Offset, err = intQueryParam(q.Get("offset"), 0)
	if err != nil {
		apierrors.ValidationError(w, "Параметр offset должен быть целым числом")
		return
	}

	files, total, serr := h.engine.List(filter)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	// Пустая страница сериализуется как [], не null
	if files == nil {
		files = []model.FileSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"files":   files,
		"count":   len(files),
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// intQueryParam разбирает целочисленный query-параметр со значением по умолчанию.
func intQueryParam(raw string, defaultVal int) (int, error) {
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
