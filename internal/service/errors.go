// errors.go — типизированные ошибки сервисного слоя.
package service

import (
	"net/http"

	apierrors "github.com/pixelfy/storage-service/internal/api/errors"
)

// StorageError — ошибка операции хранилища с привязкой к HTTP-статусу
// и машиночитаемому коду API.
type StorageError struct {
	// StatusCode — HTTP статус-код ответа
	StatusCode int
	// Code — машиночитаемый код ошибки
	Code string
	// Message — человекочитаемое описание
	Message string
}

// Error реализует интерфейс error.
func (e *StorageError) Error() string {
	return e.Message
}

// newValidationError — 400 некорректные входные данные.
func newValidationError(message string) *StorageError {
	return &StorageError{
		StatusCode: http.StatusBadRequest,
		Code:       apierrors.CodeValidationError,
		Message:    message,
	}
}

// newFileTooLargeError — 400 файл превышает лимит.
// Ошибка валидации, как и запрещённое расширение; код FILE_TOO_LARGE
// позволяет клиенту различать причины.
func newFileTooLargeError(message string) *StorageError {
	return &StorageError{
		StatusCode: http.StatusBadRequest,
		Code:       apierrors.CodeFileTooLarge,
		Message:    message,
	}
}

// newExtensionError — 400 расширение не разрешено.
func newExtensionError(message string) *StorageError {
	return &StorageError{
		StatusCode: http.StatusBadRequest,
		Code:       apierrors.CodeExtensionNotAllowed,
		Message:    message,
	}
}

// newNotFoundError — 404 файл не найден.
func newNotFoundError(message string) *StorageError {
	return &StorageError{
		StatusCode: http.StatusNotFound,
		Code:       apierrors.CodeNotFound,
		Message:    message,
	}
}

// newInternalError — 500 внутренняя ошибка хранилища.
func newInternalError(message string) *StorageError {
	return &StorageError{
		StatusCode: http.StatusInternalServerError,
		Code:       apierrors.CodeInternalError,
		Message:    message,
	}
}
