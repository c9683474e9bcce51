package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain codes come from
// shared.DomainError and pass through unchanged.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidID     = "INVALID_ID"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes that do not follow the
// INVALID_* / *_NOT_FOUND naming conventions to their HTTP status.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInvalidID:  http.StatusBadRequest,

	"EMPTY_PURCHASE": http.StatusBadRequest,
	"EMPTY_SALE":     http.StatusBadRequest,
	"SAME_WAREHOUSE": http.StatusBadRequest,

	"ALREADY_EXISTS":       http.StatusConflict,
	"BARCODE_TAKEN":        http.StatusConflict,
	"DUPLICATE_REQUEST":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"ALREADY_ARCHIVED":     http.StatusConflict,
	"ALREADY_DELETED":      http.StatusConflict,
	"NOT_ARCHIVED":         http.StatusConflict,
	"INVALID_STATE":        http.StatusConflict,

	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,

	// Underflows mean the ledger is internally inconsistent, not that the
	// caller asked for something wrong.
	"STOCK_UNDERFLOW": http.StatusInternalServerError,
	"LOT_UNDERFLOW":   http.StatusInternalServerError,
}

// GetHTTPStatus resolves a domain error code to an HTTP status.
// Unknown codes fall back on naming conventions, then on 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "NOT_FOUND") {
		return http.StatusNotFound
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
