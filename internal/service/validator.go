// validator.go — валидация загружаемых файлов: размер и расширение.
package service

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validator проверяет загружаемый файл против лимита размера
// и белого списка расширений.
type Validator struct {
	// maxFileSize — максимальный размер файла в байтах
	maxFileSize int64
	// allowed — разрешённые расширения (нижний регистр, без точки)
	allowed map[string]bool
}

// NewValidator создаёт Validator. Расширения приводятся к нижнему
// регистру, ведущая точка отбрасывается.
func NewValidator(maxFileSize int64, allowedExtensions []string) *Validator {
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.TrimPrefix(strings.ToLower(ext), ".")
		if ext != "" {
			allowed[ext] = true
		}
	}
	return &Validator{
		maxFileSize: maxFileSize,
		allowed:     allowed,
	}
}

// Validate проверяет содержимое и имя файла. Возвращает nil, если файл
// допустим к сохранению.
func (v *Validator) Validate(content []byte, filename string) *StorageError {
	if int64(len(content)) > v.maxFileSize {
		return newFileTooLargeError(fmt.Sprintf(
			"Размер файла %d байт превышает лимит %d байт", len(content), v.maxFileSize))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !v.allowed[ext] {
		return newExtensionError(fmt.Sprintf("Расширение %q не разрешено", ext))
	}

	return nil
}
