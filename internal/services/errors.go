package services

import (
	"fmt"
	"strings"
)

// ErrorCode classifies a ValidationError.
type ErrorCode string

const (
	CodeRequired         ErrorCode = "required"
	CodeDuplicateProduct ErrorCode = "duplicate_product"
	CodeUnknownProduct   ErrorCode = "unknown_product"
	CodeInvalidQuantity  ErrorCode = "invalid_quantity"
	CodeStatusReadOnly   ErrorCode = "status_read_only"
	CodeInvalidStatus    ErrorCode = "invalid_status"
	CodeTotalOverflow    ErrorCode = "total_overflow"
	CodeInvalidRating    ErrorCode = "invalid_rating"
	CodeDuplicateReview  ErrorCode = "duplicate_review"
	CodeInvalidPrice     ErrorCode = "invalid_price"
	CodeInvalidFilter    ErrorCode = "invalid_filter"
)

// ValidationError rejects a request before anything is written.
// It matches any other ValidationError with the same Code under errors.Is.
type ValidationError struct {
	Field      string
	Code       ErrorCode
	Message    string
	ProductIDs []uint
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if len(e.ProductIDs) > 0 {
		ids := make([]string, len(e.ProductIDs))
		for i, id := range e.ProductIDs {
			ids[i] = fmt.Sprint(id)
		}
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(ids, ", "))
	}
	if e.Field == "" {
		return msg
	}
	return e.Field + ": " + msg
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrRequired         = &ValidationError{Code: CodeRequired}
	ErrDuplicateProduct = &ValidationError{Code: CodeDuplicateProduct}
	ErrUnknownProduct   = &ValidationError{Code: CodeUnknownProduct}
	ErrInvalidQuantity  = &ValidationError{Code: CodeInvalidQuantity}
	ErrStatusReadOnly   = &ValidationError{Code: CodeStatusReadOnly}
	ErrInvalidStatus    = &ValidationError{Code: CodeInvalidStatus}
	ErrTotalOverflow    = &ValidationError{Code: CodeTotalOverflow}
	ErrInvalidRating    = &ValidationError{Code: CodeInvalidRating}
	ErrDuplicateReview  = &ValidationError{Code: CodeDuplicateReview}
	ErrInvalidPrice     = &ValidationError{Code: CodeInvalidPrice}
	ErrInvalidFilter    = &ValidationError{Code: CodeInvalidFilter}
)

// NewValidationError builds a ValidationError for field.
func NewValidationError(field string, code ErrorCode, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}
