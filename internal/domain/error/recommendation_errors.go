// Package error defines domain-specific errors for the recommendation engine.
package error

import (
	"errors"
	"fmt"
)

// Recommendation domain errors.
var (
	// ErrInvalidInput is returned when request data is malformed or out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is returned by forecasting when there is no history and no fallback is configured.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInternalFailure is returned when a strategy or computation fails unexpectedly.
	ErrInternalFailure = errors.New("internal failure")
)

// RecommendationErrorCode defines error codes for recommendation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecommendationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNegativeIncome           RecommendationErrorCode = "REC-010001"
	ErrCodeNegativeFixedExpenses    RecommendationErrorCode = "REC-010002"
	ErrCodeNegativeVariableExpenses RecommendationErrorCode = "REC-010003"
	ErrCodeInvalidSavingsRate       RecommendationErrorCode = "REC-010004"
	ErrCodeInvalidCeilingRate       RecommendationErrorCode = "REC-010005"
	ErrCodeNegativeAmount           RecommendationErrorCode = "REC-010006"
	ErrCodeInvalidTransactionDate   RecommendationErrorCode = "REC-010007"
	ErrCodeInvalidTransactionType   RecommendationErrorCode = "REC-010008"
	ErrCodeInvalidHorizon           RecommendationErrorCode = "REC-010009"
	ErrCodeMissingAsOf              RecommendationErrorCode = "REC-010010"
	ErrCodeInvalidRequestBody       RecommendationErrorCode = "REC-010011"

	// Data sufficiency errors (02XXXX)
	ErrCodeNoHistory RecommendationErrorCode = "REC-020001"

	// Internal errors (99XXXX)
	ErrCodeStrategyFailure    RecommendationErrorCode = "REC-990001"
	ErrCodeDegenerateSeries   RecommendationErrorCode = "REC-990002"
	ErrCodeHistoryUnavailable RecommendationErrorCode = "REC-990003"
)

// RecommendationError represents a recommendation error with code and message.
type RecommendationError struct {
	Code    RecommendationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecommendationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecommendationError) Unwrap() error {
	return e.Err
}

// NewRecommendationError creates a new RecommendationError with the given code and message.
func NewRecommendationError(code RecommendationErrorCode, message string, err error) *RecommendationError {
	return &RecommendationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInvalidInputError creates a RecommendationError wrapping ErrInvalidInput.
func NewInvalidInputError(code RecommendationErrorCode, message string) *RecommendationError {
	return NewRecommendationError(code, message, ErrInvalidInput)
}

// NewInternalFailureError creates a RecommendationError wrapping ErrInternalFailure and the cause.
func NewInternalFailureError(code RecommendationErrorCode, message string, cause error) *RecommendationError {
	err := ErrInternalFailure
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInternalFailure, cause)
	}
	return NewRecommendationError(code, message, err)
}
