// Package foundation holds small generic building blocks shared by the
// configuration and pipeline packages.
package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
)

// Validator represents a validation function.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// Combine merges two results, keeping error order.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// ToError converts an invalid result into a classified error of the given
// category. Field keys are attached as context.
func (vr ValidationResult) ToError(category errors.ErrorCategory, message string) error {
	if vr.Valid {
		return nil
	}
	parts := make([]string, 0, len(vr.Errors))
	fields := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		parts = append(parts, fe.Error())
		fields = append(fields, fe.Field)
	}
	return errors.NewError(category, message+": "+strings.Join(parts, "; ")).
		Fatal().
		UserAction().
		WithContext("fields", fields).
		Build()
}

// ValidatorChain runs every validator and collects all failures.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()
	for _, validator := range vc.validators {
		result = result.Combine(validator(value))
	}
	return result
}

// Check adapts a boolean predicate on T into a Validator.
func Check[T any](field, code, message string, ok func(T) bool) Validator[T] {
	return func(value T) ValidationResult {
		if ok(value) {
			return Valid()
		}
		return Invalid(FieldError{Field: field, Code: code, Message: message})
	}
}

// Required fails when get returns a blank string.
func Required[T any](field string, get func(T) string) Validator[T] {
	return Check(field, "required", "is required", func(v T) bool {
		return strings.TrimSpace(get(v)) != ""
	})
}

// OneOf validates that the extracted value is in a set of allowed values.
func OneOf[T any, V comparable](field string, get func(T) V, allowed ...V) Validator[T] {
	allowedSet := make(map[V]struct{}, len(allowed))
	for _, item := range allowed {
		allowedSet[item] = struct{}{}
	}
	return Check(field, "one_of", fmt.Sprintf("must be one of: %v", allowed), func(v T) bool {
		_, ok := allowedSet[get(v)]
		return ok
	})
}
