// video.go — генерация превью видео через внешний процесс ffmpeg.
// Извлекается кадр на отметке 1 секунда, масштабируется с сохранением
// пропорций и дополняется чёрным до ровно 300×300.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ffmpegTimeout — жёсткий таймаут внешнего процесса. По истечении
// процесс принудительно завершается (exec.CommandContext).
const ffmpegTimeout = 30 * time.Second

// VideoDeriver — стратегия превью для видео.
type VideoDeriver struct {
	// ffmpeg — имя или путь бинаря ffmpeg (подменяется в тестах)
	ffmpeg string
	logger *slog.Logger
}

// NewVideoDeriver создаёт стратегию превью видео.
func NewVideoDeriver(logger *slog.Logger) *VideoDeriver {
	return &VideoDeriver{
		ffmpeg: "ffmpeg",
		logger: logger.With(slog.String("component", "video_thumbnail")),
	}
}

// Derive извлекает кадр из видео srcPath в thumb_{stem}.jpg рядом с
// исходным файлом. Успех подтверждается существованием выходного файла,
// а не только кодом возврата процесса. Потоки вывода полностью
// вычитываются на всех путях завершения.
func (d *VideoDeriver) Derive(ctx context.Context, srcPath string) (string, error) {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	thumbPath := filepath.Join(filepath.Dir(srcPath), Prefix+stem+".jpg")

	tctx, cancel := context.WithTimeout(ctx, ffmpegTimeout)
	defer cancel()

	// Кадр на 1-й секунде, вписанный в 300×300 и дополненный чёрным
	cmd := exec.CommandContext(tctx, d.ffmpeg,
		"-i", srcPath,
		"-ss", "00:00:01.000",
		"-vframes", "1",
		"-y",
		"-vf", "scale=300:300:force_original_aspect_ratio=decrease,pad=300:300:(ow-iw)/2:(oh-ih)/2:black",
		thumbPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case errors.Is(tctx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("ffmpeg прерван по таймауту %s", ffmpegTimeout)
	case errors.Is(err, exec.ErrNotFound):
		return "", fmt.Errorf("ffmpeg не найден: установите ffmpeg для превью видео")
	case err != nil:
		return "", fmt.Errorf("ffmpeg завершился с ошибкой: %v: %s", err, tailOf(stderr.String()))
	}

	// Код возврата 0 ещё не гарантирует наличие кадра
	if _, statErr := os.Stat(thumbPath); statErr != nil {
		return "", fmt.Errorf("ffmpeg отработал, но файл превью не создан: %w", statErr)
	}

	return thumbPath, nil
}

// tailOf возвращает последние строки вывода stderr для лога.
func tailOf(s string) string {
	s = strings.TrimSpace(s)
	const maxLen = 500
	if len(s) > maxLen {
		return "..." + s[len(s)-maxLen:]
	}
	return s
}
