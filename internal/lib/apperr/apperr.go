// Package apperr описывает таксономию ошибок ядра: ошибки валидации входных данных,
// отсутствующие сущности, конфликты состояния и сбои хранилища.
//
// Все типы реализуют error и проверяются через errors.As, поэтому их можно
// оборачивать привычным fmt.Errorf("%s: %w", op, err) без потери типа.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError: некорректные входные данные: неверный порядок дат,
// неизвестное значение перечисления, несуществующий внешний ключ.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NotFoundError: операция сослалась на сущность, которой нет.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	if e.Key == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// ConflictError: операция нарушает текущее состояние (дубликат, повторный вход).
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// StorageError: сбой хранилища. Всегда приводит к откату объемлющей транзакции.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Validation создаёт ValidationError.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFound создаёт NotFoundError.
func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// Conflict создаёт ConflictError.
func Conflict(entity, format string, args ...any) error {
	return &ConflictError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

// Storage оборачивает ошибку драйвера. nil остаётся nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
