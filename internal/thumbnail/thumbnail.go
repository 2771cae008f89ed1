// Пакет thumbnail — best-effort генерация превью для изображений и видео.
//
// Две независимые стратегии: изображения обрабатываются in-process
// (decode → resize → encode), для видео кадр извлекается внешним процессом
// ffmpeg с жёстким таймаутом. Любая ошибка любой стратегии поглощается:
// неудачное превью никогда не проваливает загрузку файла.
package thumbnail

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Размер стороны превью и префикс имени файла превью.
const (
	MaxSize = 300
	Prefix  = "thumb_"
)

// thumbnailsTotal — счётчик попыток генерации превью.
var thumbnailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ss_thumbnails_total",
		Help: "Количество попыток генерации превью",
	},
	[]string{"kind", "result"},
)

// Kind — вид медиа-контента, определяемый по расширению имени файла.
type Kind string

const (
	// KindNone — превью не предусмотрено
	KindNone Kind = "none"
	// KindImage — изображение, in-process обработка
	KindImage Kind = "image"
	// KindVideo — видео, извлечение кадра через ffmpeg
	KindVideo Kind = "video"
)

// imageExtensions — расширения, обрабатываемые как изображения.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tiff": true,
}

// videoExtensions — расширения, обрабатываемые как видео.
var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".avi": true,
	".mkv": true, ".wmv": true, ".flv": true, ".m4v": true,
}

// DetectKind определяет вид медиа по расширению имени файла.
// Проверка регистронезависимая, содержимое файла не анализируется.
func DetectKind(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindNone
	}
}

// Generator выбирает стратегию превью по виду медиа.
type Generator struct {
	images *ImageDeriver
	videos *VideoDeriver
	logger *slog.Logger
}

// NewGenerator создаёт генератор превью с обеими стратегиями.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{
		images: NewImageDeriver(logger),
		videos: NewVideoDeriver(logger),
		logger: logger.With(slog.String("component", "thumbnail")),
	}
}

// Generate пытается построить превью для сохранённого файла srcPath.
// Вид медиа определяется по originalFilename (имя, присланное клиентом).
// Возвращает абсолютный путь превью или пустую строку — все ошибки
// логируются и поглощаются.
func (g *Generator) Generate(ctx context.Context, srcPath, originalFilename string) string {
	kind := DetectKind(originalFilename)

	var (
		thumbPath string
		err       error
	)
	switch kind {
	case KindImage:
		thumbPath, err = g.images.Derive(srcPath)
	case KindVideo:
		thumbPath, err = g.videos.Derive(ctx, srcPath)
	default:
		return ""
	}

	if err != nil {
		thumbnailsTotal.WithLabelValues(string(kind), "failure").Inc()
		g.logger.Warn("Не удалось создать превью",
			slog.String("kind", string(kind)),
			slog.String("source", srcPath),
			slog.String("error", err.Error()),
		)
		return ""
	}

	thumbnailsTotal.WithLabelValues(string(kind), "success").Inc()
	g.logger.Debug("Превью создано",
		slog.String("kind", string(kind)),
		slog.String("thumbnail", thumbPath),
	)
	return thumbPath
}
