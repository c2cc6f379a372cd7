package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors keep their own codes and
// are mapped to a status by GetHTTPStatus.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Authentication
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,

	// Authorization and account state
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_PENDING":     http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"SYSTEM_ROLE":         http.StatusForbidden,

	// Missing resources
	ErrCodeNotFound:     http.StatusNotFound,
	"USER_NOT_FOUND":    http.StatusNotFound,
	"ROLE_NOT_FOUND":    http.StatusNotFound,
	"BARCODE_NOT_FOUND": http.StatusNotFound,
	"ENTRY_NOT_FOUND":   http.StatusNotFound,
	"LINE_NOT_FOUND":    http.StatusNotFound,
	"PAYMENT_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":             http.StatusConflict,
	"CONCURRENCY_CONFLICT":       http.StatusConflict,
	"DUPLICATE_PRODUCT":          http.StatusConflict,
	"CATEGORY_IN_USE":            http.StatusConflict,
	"SUPPLIER_IN_USE":            http.StatusConflict,
	"ROLE_IN_USE":                http.StatusConflict,
	"ALREADY_MERGED":             http.StatusConflict,
	"ROLE_ALREADY_ASSIGNED":      http.StatusConflict,
	"PERMISSION_ALREADY_GRANTED": http.StatusConflict,

	// Malformed input
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,

	// Business rules that look like input codes
	"INVALID_STATE":     http.StatusUnprocessableEntity,
	"INVALID_INCREMENT": http.StatusUnprocessableEntity,

	// Rate limiting
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Internal
	ErrCodeInternal:       http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// INVALID_* codes are bad input; everything else unmapped is a business
// rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
