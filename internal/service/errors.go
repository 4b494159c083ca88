package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/pkg/validator"

	"gorm.io/gorm"
)

// ValidationError reports malformed input. Fields maps a field name to the rule it broke.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+":"+tag)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func invalidField(field, rule, msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: map[string]string{field: rule}}
}

// ValidateInput runs struct tag validation and reports failures as a
// ValidationError keyed by json field name.
func ValidateInput(in interface{}) error {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		rule := e.Tag
		if e.Value != "" {
			rule += "=" + e.Value
		}
		fields[e.FailedField] = rule
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}

// NotFoundError names the kind of record that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// InsufficientStockError is returned when a salida would take stock below zero.
type InsufficientStockError struct {
	Item      model.ItemRef
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s %q: available %d, requested %d",
		e.Item.Type.Label(), e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

// ConflictError reports a request that clashes with existing data.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

// notFound maps gorm.ErrRecordNotFound to a NotFoundError and wraps anything else.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return fmt.Errorf("load %s: %w", resource, err)
}

// requireActor rejects an empty acting user; system work passes model.SystemActor.
func requireActor(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return invalidField("user_id", "required", "acting user is required")
	}
	return nil
}
