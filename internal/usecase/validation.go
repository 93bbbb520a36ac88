package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors acumula todos os campos inválidos de um input.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// asError devolve nil quando não há erros, para evitar interface não-nil com slice vazio.
func (v ValidationErrors) asError() error {
	if len(v) == 0 {
		return nil
	}
	return NewDomainError(CodeValidation, "%s", v.Error())
}

func ValidateLeadInput(input LeadInput) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, ValidationError{"title", "is required"})
	} else if len(input.Title) > 200 {
		errs = append(errs, ValidationError{"title", "must not exceed 200 characters"})
	}
	if input.Value != nil && *input.Value < 0 {
		errs = append(errs, ValidationError{"value", "must not be negative"})
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}
	return errs
}

func ValidateRegisterInput(input RegisterInput) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}
	if len(input.Password) < 6 {
		errs = append(errs, ValidationError{"password", "must have at least 6 characters"})
	}
	return errs
}
