// Пакет model — доменные модели Storage Service.
// StoredFile — метаданные загруженного файла, формируются один раз
// при загрузке. Отдельного хранилища метаданных нет: источником истины
// является файловая система, списки и статистика строятся обходом дерева.
package model

import (
	"math"
	"time"
)

// StoredFile — метаданные файла, возвращаемые в ответе на загрузку.
type StoredFile struct {
	// FileID — уникальный идентификатор файла (UUID v4)
	FileID string `json:"file_id"`

	// OriginalFilename — оригинальное имя файла при загрузке.
	// Используется только для определения расширения и MIME-типа,
	// в построении пути не участвует.
	OriginalFilename string `json:"original_filename"`

	// StoredFilename — имя файла на диске: {file_id}{ext}
	StoredFilename string `json:"stored_filename"`

	// FilePath — путь файла относительно корня хранилища.
	// Постоянный handle для последующего скачивания и удаления.
	FilePath string `json:"file_path"`

	// PublicURL — клиентский путь /storage/{service}[/{folder}]/{stored_filename}.
	// Информационное поле, внутри сервиса не используется.
	PublicURL string `json:"public_url"`

	// FileSize — размер файла в байтах
	FileSize int64 `json:"file_size"`

	// FileHash — SHA-256 хэш содержимого (hex)
	FileHash string `json:"file_hash"`

	// MimeType — MIME-тип, определённый по расширению имени файла.
	// Пустая строка, если тип неизвестен.
	MimeType string `json:"mime_type,omitempty"`

	// Service — сервис-namespace (верхний уровень партиции)
	Service string `json:"service"`

	// Folder — опциональная подпапка внутри сервиса
	Folder string `json:"folder"`

	// UserID — опциональный идентификатор пользователя
	UserID string `json:"user_id,omitempty"`

	// ThumbnailPath — относительный путь превью или пусто,
	// если превью не создавалось или его создание не удалось.
	ThumbnailPath string `json:"thumbnail_path,omitempty"`

	// UploadedAt — дата и время загрузки (UTC)
	UploadedAt time.Time `json:"uploaded_at"`

	// ExpiresAt — зарезервировано, TTL при загрузке не назначается.
	// Всегда nil в текущем контракте.
	ExpiresAt *time.Time `json:"expires_at"`
}

// FileSummary — сводка по файлу в результатах листинга.
// Строится из stat файловой системы, не из сохранённых метаданных.
type FileSummary struct {
	// FilePath — путь относительно корня хранилища
	FilePath string `json:"file_path"`

	// Filename — имя файла (последний сегмент пути)
	Filename string `json:"filename"`

	// FileSize — размер в байтах
	FileSize int64 `json:"file_size"`

	// MimeType — MIME-тип по расширению, пусто если неизвестен
	MimeType string `json:"mime_type,omitempty"`

	// CreatedAt — время создания. Переносимого способа получить
	// время создания в Go нет, используется mtime.
	CreatedAt time.Time `json:"created_at"`

	// ModifiedAt — время последней модификации
	ModifiedAt time.Time `json:"modified_at"`
}

// ServiceStats — агрегат по одному сервису (верхнеуровневой директории).
// В отличие от листинга превью здесь учитываются.
type ServiceStats struct {
	// Files — количество файлов во всех поддиректориях
	Files int `json:"files"`

	// SizeBytes — суммарный размер в байтах
	SizeBytes int64 `json:"size_bytes"`

	// SizeMB — суммарный размер в мегабайтах (2 знака)
	SizeMB float64 `json:"size_mb"`

	// Folders — зарезервировано под разбивку по папкам,
	// в текущем контракте всегда пустой объект.
	Folders map[string]any `json:"folders"`
}

// StorageStats — агрегированная статистика всего хранилища.
type StorageStats struct {
	TotalFiles     int                      `json:"total_files"`
	TotalSizeBytes int64                    `json:"total_size_bytes"`
	TotalSizeMB    float64                  `json:"total_size_mb"`
	TotalSizeGB    float64                  `json:"total_size_gb"`
	Services       map[string]*ServiceStats `json:"services"`
}

// CleanupResult — результат одного прохода очистки по возрасту.
type CleanupResult struct {
	// DeletedFiles — количество удалённых файлов
	DeletedFiles int `json:"deleted_files"`

	// SizeFreedBytes — освобождено байт
	SizeFreedBytes int64 `json:"size_freed_bytes"`

	// SizeFreedMB — освобождено мегабайт (2 знака)
	SizeFreedMB float64 `json:"size_freed_mb"`
}

// RoundMB переводит байты в мегабайты с округлением до 2 знаков.
func RoundMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}

// RoundGB переводит байты в гигабайты с округлением до 2 знаков.
func RoundGB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024*1024)*100) / 100
}
