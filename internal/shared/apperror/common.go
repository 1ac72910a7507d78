package apperror

import "net/http"

// Shared sentinels. Feature packages declare their own in <feature>/errors
// and fall back to these for generic cases.
var (
	ErrNotFound     = New(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrInvalidInput = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)

	// ErrForbidden never says whether the target exists.
	ErrForbidden    = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)

	// ErrInternal carries the same message ToHTTP writes for unknown errors.
	ErrInternal = New(CodeInternalError, internalMessage, http.StatusInternalServerError)
)
