package service

import (
	"errors"
	"fmt"

	repo "todone/internal/repository"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeVersionConflict  = "VERSION_CONFLICT"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodeAlreadyCompleted = "ALREADY_COMPLETED"
	CodeNotCompleted     = "NOT_COMPLETED"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// fromRepoError переводит ошибки хранилища в бизнес-ошибки,
// остальные ошибки оборачиваются как есть
func fromRepoError(err error, resource, id, action string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(resource, id)
	case errors.Is(err, repo.ErrVersionConflict):
		be := NewBusinessError(CodeVersionConflict, "Запись была изменена другим запросом",
			ToDetail("resource", resource), ToDetail("id", id))
		be.Err = err
		return be
	case errors.Is(err, repo.ErrAlreadyExists):
		be := NewBusinessError(CodeAlreadyExists, fmt.Sprintf("%s уже существует", resource),
			ToDetail("resource", resource))
		be.Err = err
		return be
	}
	return fmt.Errorf("%s: %w", action, err)
}
