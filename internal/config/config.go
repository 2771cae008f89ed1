// Пакет config — загрузка и валидация конфигурации Storage Service
// из переменных окружения (с поддержкой .env).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Partitions — фиксированные верхнеуровневые партиции, создаваемые
// при старте. Фактическое размещение файлов определяется клиентом
// и не обязано совпадать с этим списком.
var Partitions = []string{"web", "ai", "presentai", "office", "uploads", "media", "temp"}

// Config содержит все параметры конфигурации Storage Service.
type Config struct {
	// Адрес прослушивания HTTP-сервера
	Host string
	// Порт HTTP-сервера
	Port int
	// Режим отладки
	Debug bool
	// Корневая директория хранилища
	StoragePath string
	// Максимальный размер файла в байтах
	MaxFileSize int64
	// Разрешённые расширения (нижний регистр, без точки)
	AllowedExtensions []string
	// Общий секрет для bearer-аутентификации
	APIKey string
	// Включён ли фоновый планировщик очистки
	AutoCleanupEnabled bool
	// Порог возраста файлов для очистки (дни)
	CleanupOlderThanDays int
	// Интервал запуска фоновой очистки
	CleanupInterval time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
}

// Load загружает конфигурацию из переменных окружения (и .env, если
// присутствует), валидирует значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	// .env опционален: отсутствие файла — не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// HOST — адрес прослушивания (по умолчанию 0.0.0.0)
	cfg.Host = getEnvDefault("HOST", "0.0.0.0")

	// PORT — порт HTTP-сервера (по умолчанию 8005)
	cfg.Port, err = getEnvInt("PORT", 8005)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// DEBUG — режим отладки (по умолчанию false)
	cfg.Debug, err = getEnvBool("DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("DEBUG: %w", err)
	}

	// STORAGE_BASE_PATH — корень хранилища (по умолчанию ./data)
	cfg.StoragePath = getEnvDefault("STORAGE_BASE_PATH", "./data")

	// MAX_FILE_SIZE — максимальный размер файла (по умолчанию 50 MB)
	cfg.MaxFileSize, err = getEnvInt64("MAX_FILE_SIZE", 52428800)
	if err != nil {
		return nil, fmt.Errorf("MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE: значение должно быть положительным")
	}

	// ALLOWED_EXTENSIONS — список разрешённых расширений через запятую
	rawExts := getEnvDefault("ALLOWED_EXTENSIONS",
		"jpg,jpeg,png,gif,webp,mp4,webm,mov,avi,mkv,mp3,wav,m4a,aac,pdf,pptx,ppt,docx,doc")
	cfg.AllowedExtensions = parseExtensions(rawExts)
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("ALLOWED_EXTENSIONS: список пуст")
	}

	// API_KEY — общий секрет bearer-аутентификации
	cfg.APIKey = getEnvDefault("API_KEY", "storage_service_secret_key_2024")
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY: значение не может быть пустым")
	}

	// AUTO_CLEANUP_ENABLED — фоновая очистка (по умолчанию выключена,
	// очистка доступна по требованию через POST /cleanup)
	cfg.AutoCleanupEnabled, err = getEnvBool("AUTO_CLEANUP_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("AUTO_CLEANUP_ENABLED: %w", err)
	}

	// CLEANUP_OLDER_THAN_DAYS — порог возраста файлов (по умолчанию 30 дней)
	cfg.CleanupOlderThanDays, err = getEnvInt("CLEANUP_OLDER_THAN_DAYS", 30)
	if err != nil {
		return nil, fmt.Errorf("CLEANUP_OLDER_THAN_DAYS: %w", err)
	}
	if cfg.CleanupOlderThanDays <= 0 {
		return nil, fmt.Errorf("CLEANUP_OLDER_THAN_DAYS: значение должно быть положительным")
	}

	// CLEANUP_INTERVAL_HOURS — интервал фоновой очистки (по умолчанию 24h)
	intervalHours, err := getEnvInt("CLEANUP_INTERVAL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("CLEANUP_INTERVAL_HOURS: %w", err)
	}
	if intervalHours <= 0 {
		return nil, fmt.Errorf("CLEANUP_INTERVAL_HOURS: значение должно быть положительным")
	}
	cfg.CleanupInterval = time.Duration(intervalHours) * time.Hour

	// LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	// LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
// Допустимые значения: true/false (без учёта регистра), 1/0.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(val) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
}

// parseExtensions разбирает список расширений через запятую:
// нижний регистр, без ведущей точки, пустые элементы отбрасываются.
func parseExtensions(raw string) []string {
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		ext := strings.ToLower(strings.TrimSpace(p))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
