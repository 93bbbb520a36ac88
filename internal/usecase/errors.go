package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeEmailTaken       = "EMAIL_TAKEN"
)

// DomainError é um erro de regra de negócio; o handler traduz Code para status HTTP.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is compara só o Code, então errors.Is(err, ErrNotFound) funciona com qualquer mensagem.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound         = &DomainError{Code: CodeNotFound, Message: "not found"}
	ErrInvalidStatus    = &DomainError{Code: CodeInvalidStatus, Message: "invalid status"}
	ErrInvalidParameter = &DomainError{Code: CodeInvalidParameter, Message: "invalid parameter"}
	ErrUnauthorized     = &DomainError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden        = &DomainError{Code: CodeForbidden, Message: "forbidden"}
	ErrConflict         = &DomainError{Code: CodeConflict, Message: "resource was modified by another request"}
	ErrEmailTaken       = &DomainError{Code: CodeEmailTaken, Message: "email already registered"}
)

func NewDomainError(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError embrulha falhas de infraestrutura (banco, fila, rede).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// translate converte erros de entidade/repositório no vocabulário do usecase.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return NewDomainError(CodeNotFound, "%s not found", what)
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return ErrEmailTaken
	case errors.Is(err, entity.ErrInvalidStatus):
		return NewDomainError(CodeInvalidStatus, "%s", err.Error())
	case errors.Is(err, entity.ErrInvalidActionParameter), errors.Is(err, entity.ErrUnknownAction):
		return NewDomainError(CodeInvalidParameter, "%s", err.Error())
	case isValidationError(err):
		return NewDomainError(CodeValidation, "%s", err.Error())
	}
	return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to access " + what, Err: err}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		entity.ErrLeadTitleRequired,
		entity.ErrNegativeValue,
		entity.ErrInvalidPriority,
		entity.ErrRuleNameRequired,
		entity.ErrWebhookURLInvalid,
		entity.ErrWebhookNoEvents,
		entity.ErrWebhookEventUnknown,
		entity.ErrUserEmailInvalid,
		entity.ErrUserNameRequired,
		entity.ErrUserRoleInvalid,
		entity.ErrUserPasswordShort,
		entity.ErrEventTitleRequired,
		entity.ErrEventTypeInvalid,
		entity.ErrEventTimeRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}
