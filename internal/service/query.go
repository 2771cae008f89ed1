// query.go — листинг файлов и агрегированная статистика хранилища.
package service

import (
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pixelfy/storage-service/internal/domain/model"
	"github.com/pixelfy/storage-service/internal/thumbnail"
)

// DefaultListLimit — лимит листинга по умолчанию.
const DefaultListLimit = 100

// ListFilter — фильтр и пагинация листинга файлов.
// Фильтры вложенные: folder имеет смысл только внутри service,
// user_id — только внутри folder.
type ListFilter struct {
	Service string
	Folder  string
	UserID  string
	Limit   int
	Offset  int
}

// List возвращает страницу файлов, отсортированных по убыванию времени
// модификации (новые первыми). Превью (thumb_*) в листинг не попадают.
// Возвращает страницу и общее число файлов, прошедших фильтр.
func (e *Engine) List(f ListFilter) ([]model.FileSummary, int, *StorageError) {
	// Вложенность фильтров: без service не бывает folder, без folder — user_id
	if f.Service == "" {
		f.Folder = ""
		f.UserID = ""
	}
	if f.Folder == "" {
		f.UserID = ""
	}

	dir := e.pb.Root()
	if f.Service != "" {
		d, err := e.pb.Build(f.Service, f.Folder, f.UserID)
		if err != nil {
			return nil, 0, newValidationError("Недопустимые значения фильтра: " + err.Error())
		}
		dir = d
	}

	var files []model.FileSummary
	walkErr := e.store.WalkFiles(dir, func(fullPath string, info os.FileInfo) {
		name := filepath.Base(fullPath)
		if strings.HasPrefix(name, thumbnail.Prefix) {
			return
		}
		rel, relErr := e.pb.Relative(fullPath)
		if relErr != nil {
			return
		}
		files = append(files, model.FileSummary{
			FilePath: rel,
			Filename: name,
			FileSize: info.Size(),
			MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(name))),
			// Переносимого creation time нет, используется mtime
			CreatedAt:  info.ModTime().UTC(),
			ModifiedAt: info.ModTime().UTC(),
		})
	})
	if walkErr != nil {
		e.logger.Error("Ошибка обхода хранилища",
			slog.String("dir", dir),
			slog.String("error", walkErr.Error()),
		)
		return nil, 0, newInternalError("Не удалось получить список файлов")
	}

	// Новые первыми; при равном mtime — детерминированный порядок по пути
	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModifiedAt.Equal(files[j].ModifiedAt) {
			return files[i].ModifiedAt.After(files[j].ModifiedAt)
		}
		return files[i].FilePath < files[j].FilePath
	})

	total := len(files)

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return files[offset:end], total, nil
}

// Stats собирает агрегированную статистику хранилища с разбивкой по
// сервисам (верхнеуровневым директориям). В отличие от листинга превью
// учитываются: статистика отражает фактическое использование диска.
func (e *Engine) Stats() (*model.StorageStats, *StorageError) {
	entries, err := os.ReadDir(e.pb.Root())
	if err != nil {
		e.logger.Error("Ошибка чтения корня хранилища",
			slog.String("root", e.pb.Root()),
			slog.String("error", err.Error()),
		)
		return nil, newInternalError("Не удалось прочитать корень хранилища")
	}

	stats := &model.StorageStats{
		Services: make(map[string]*model.ServiceStats),
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		svc := &model.ServiceStats{Folders: map[string]any{}}
		dir := filepath.Join(e.pb.Root(), entry.Name())
		walkErr := e.store.WalkFiles(dir, func(_ string, info os.FileInfo) {
			svc.Files++
			svc.SizeBytes += info.Size()
		})
		if walkErr != nil {
			e.logger.Warn("Ошибка обхода сервиса, директория пропущена",
				slog.String("service", entry.Name()),
				slog.String("error", walkErr.Error()),
			)
			continue
		}

		svc.SizeMB = model.RoundMB(svc.SizeBytes)
		stats.Services[entry.Name()] = svc
		stats.TotalFiles += svc.Files
		stats.TotalSizeBytes += svc.SizeBytes
	}

	stats.TotalSizeMB = model.RoundMB(stats.TotalSizeBytes)
	stats.TotalSizeGB = model.RoundGB(stats.TotalSizeBytes)

	return stats, nil
}
