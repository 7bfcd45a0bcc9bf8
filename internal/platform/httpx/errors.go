// Package httpx provides HTTP response utilities.
package httpx

import (
	"net/http"

	"github.com/tourhub/tourhub/internal/shared"
)

// StatusFor maps a service error code to its HTTP status.
func StatusFor(code shared.ErrorCode) int {
	switch code {
	case "":
		return http.StatusOK
	case shared.CodeForbidden:
		return http.StatusForbidden
	case shared.CodeValidation:
		return http.StatusBadRequest
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeConflict:
		return http.StatusConflict
	case shared.CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a failed envelope. Errors that are not service
// errors become INTERNAL_ERROR without detail.
func RespondError(w http.ResponseWriter, err error) {
	svcErr, ok := shared.AsServiceError(err)
	if !ok {
		svcErr = shared.Internal(err)
	}
	JSON(w, StatusFor(svcErr.Code), shared.Fail[any](svcErr))
}
