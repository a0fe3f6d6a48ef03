package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string       `json:"error"`
	Details       []FieldError `json:"details,omitempty"`
	CorrelationID string       `json:"correlationId,omitempty"`
}

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorKind classifies a DomainError for the transport layer.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindNotFound       ErrorKind = "not_found"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindBusinessRule   ErrorKind = "business_rule"
	KindInternal       ErrorKind = "internal"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeItemNotInOrder     = "ITEM_NOT_IN_ORDER"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is an error raised by the service layer that carries enough
// information for the boundary to pick a status code and a user-safe message.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details []FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying per-field details.
func NewValidationError(details []FieldError) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrCodeValidationFailed,
		Message: "validation failed",
		Details: details,
	}
}

// NewProductNotFoundError reports a product id absent from the catalog.
func NewProductNotFoundError(productID int64) *DomainError {
	return NewDomainError(KindNotFound, ErrCodeProductNotFound,
		fmt.Sprintf("product with ID %d not found", productID))
}

// NewProductNotInOrderError reports an update for a product the order does not contain.
func NewProductNotInOrderError(productID int64) *DomainError {
	return NewDomainError(KindNotFound, ErrCodeItemNotInOrder,
		fmt.Sprintf("product with ID %d not found in order", productID))
}

// NewInsufficientStockError reports that a product cannot cover the requested quantity.
func NewInsufficientStockError(productName string) *DomainError {
	return NewDomainError(KindBusinessRule, ErrCodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s", productName))
}

// Common domain errors
var (
	ErrInvalidJSON        = NewDomainError(KindValidation, ErrCodeInvalidJSON, "invalid JSON body")
	ErrUsernameTaken      = NewDomainError(KindConflict, ErrCodeUsernameTaken, "user is already registered")
	ErrInvalidCredentials = NewDomainError(KindAuthentication, ErrCodeInvalidCredentials, "invalid credentials")
	ErrInvalidToken       = NewDomainError(KindAuthorization, ErrCodeInvalidToken, "invalid or expired token")
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "order not found")
)

// KindOf returns the kind of the first DomainError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsDomainError unwraps err into a DomainError if it holds one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
