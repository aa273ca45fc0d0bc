// Package apperrors предоставляет структурированные ошибки приложения.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в формате CATEGORY.SPECIFIC_ERROR.
const (
	// CONFIG — загрузка и валидация конфигурации.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// DI — сборка графа зависимостей.
	ErrUnresolvedDependency = "DI.UNRESOLVED_DEPENDENCY"

	// CONNECTION — подключение к сервису трекинга.
	ErrConnectionExists   = "CONNECTION.ALREADY_EXISTS"
	ErrConnectionNotFound = "CONNECTION.NOT_FOUND"
	ErrConnectionProbe    = "CONNECTION.PROBE_FAILED"

	// TRACKING — трекинг пульса.
	ErrTrackingActive      = "TRACKING.ALREADY_ACTIVE"
	ErrTrackingUnsupported = "TRACKING.UNSUPPORTED"
	ErrTrackingNotReady    = "TRACKING.NOT_READY"

	// MESSAGE — отправка и разбор сообщений.
	ErrMessageEmpty   = "MESSAGE.EMPTY"
	ErrMessageSend    = "MESSAGE.SEND_FAILED"
	ErrMessageDecode  = "MESSAGE.DECODE_FAILED"
	ErrMessageInvalid = "MESSAGE.INVALID"

	// STORAGE — репозитории.
	ErrStorageWrite = "STORAGE.WRITE_FAILED"
	ErrStorageRead  = "STORAGE.READ_FAILED"

	// STRESS — модель и пакетная обработка.
	ErrStressModel = "STRESS.MODEL_INVALID"
)

// AppError представляет структурированную ошибку приложения.
// Реализует error и поддерживает wrapping через Unwrap().
type AppError struct {
	// Code — машиночитаемый код в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание.
	Message string `json:"message"`

	// Cause не сериализуется в JSON.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт новый AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Is сообщает, содержит ли цепочка err AppError с кодом code.
func Is(err error, code string) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// Code возвращает код первой AppError в цепочке или пустую строку.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
