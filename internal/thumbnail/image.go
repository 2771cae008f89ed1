// image.go — in-process генерация превью изображений.
// Decode (jpeg/png/gif/webp/bmp/tiff) → вписывание в 300×300 с сохранением
// пропорций (CatmullRom) → JPEG quality 85 рядом с исходным файлом.
package thumbnail

import (
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// Регистрация декодеров для image.Decode
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// jpegQuality — качество JPEG-кодирования превью.
const jpegQuality = 85

// ImageDeriver — стратегия превью для изображений.
type ImageDeriver struct {
	logger *slog.Logger
}

// NewImageDeriver создаёт стратегию превью изображений.
func NewImageDeriver(logger *slog.Logger) *ImageDeriver {
	return &ImageDeriver{
		logger: logger.With(slog.String("component", "image_thumbnail")),
	}
}

// Derive строит превью для изображения srcPath и сохраняет его в той же
// директории под именем thumb_{имя исходного файла}.
// Масштабирование только вниз: изображение, уже умещающееся в 300×300,
// сохраняет размеры. Альфа-канал и палитра сводятся к трёхканальному
// цвету через RGBA-канву и JPEG-кодирование.
func (d *ImageDeriver) Derive(srcPath string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("открытие исходного изображения: %w", err)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("декодирование изображения: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), MaxSize)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), img, bounds, draw.Src, nil)

	thumbPath := filepath.Join(filepath.Dir(srcPath), Prefix+filepath.Base(srcPath))
	out, err := os.Create(thumbPath)
	if err != nil {
		return "", fmt.Errorf("создание файла превью: %w", err)
	}

	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		os.Remove(thumbPath)
		return "", fmt.Errorf("кодирование превью: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(thumbPath)
		return "", fmt.Errorf("закрытие файла превью: %w", err)
	}

	d.logger.Debug("Превью изображения создано",
		slog.String("source_format", format),
		slog.Int("width", width),
		slog.Int("height", height),
	)
	return thumbPath, nil
}

// fitWithin вычисляет размеры, вписывающие width×height в квадрат
// max×max с сохранением пропорций. Увеличение не выполняется.
func fitWithin(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}

	scale := float64(max) / float64(width)
	if s := float64(max) / float64(height); s < scale {
		scale = s
	}

	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
