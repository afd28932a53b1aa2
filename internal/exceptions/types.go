package exceptions

import (
	"fmt"
	"sort"
	"strings"
)

type ServiceError struct {
	StatusCode int
	Cause      error
}

func (se *ServiceError) Error() string {
	return se.Cause.Error()
}

func (se *ServiceError) Unwrap() error {
	return se.Cause
}

type RequestError interface {
	ToServiceError() *ServiceError
	Error() string
}

type ConflictError struct {
	Resource string
	Id       string
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("Found conflicting %s with id: %s", ce.Resource, ce.Id)
}

func (ce *ConflictError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 409,
		Cause:      ce,
	}
}

func Conflict(resource string, id string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Id:       id,
	}
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

// Message is the client facing text; it never carries the identifier.
func (nfe *NotFoundError) Message() string {
	if nfe.Resource == "" {
		return "Not found"
	}
	return strings.ToUpper(nfe.Resource[:1]) + nfe.Resource[1:] + " not found"
}

func (nfe *NotFoundError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 404,
		Cause:      nfe,
	}
}

func NotFound(resource string, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       id,
	}
}

type InvalidInputError struct {
	Message string
}

func (ie *InvalidInputError) Error() string {
	return ie.Message
}

func (ie *InvalidInputError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ie,
	}
}

func InvalidInput(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

// ValidationError carries one reason per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (ve *ValidationError) Error() string {
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, ve.Fields[name])
	}
	return "Invalid subscription: " + strings.Join(parts, "; ")
}

func (ve *ValidationError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 422,
		Cause:      ve,
	}
}

func Invalid(fields map[string]string) *ValidationError {
	return &ValidationError{
		Fields: fields,
	}
}

// InternalServerError hides its cause from callers. Message is the only
// text that leaves the process; Cause is for the operator log.
type InternalServerError struct {
	Message string
	Cause   error
}

func (ise *InternalServerError) Error() string {
	return ise.Message
}

func (ise *InternalServerError) Unwrap() error {
	return ise.Cause
}

func (ise *InternalServerError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 500,
		Cause:      ise,
	}
}

func InternalServer(message string) *InternalServerError {
	return &InternalServerError{
		Message: message,
	}
}

func Persistence(message string, cause error) *InternalServerError {
	return &InternalServerError{
		Message: message,
		Cause:   cause,
	}
}
