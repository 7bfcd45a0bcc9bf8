package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tourhub/tourhub/internal/shared"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteResult renders a Result with the status matching its error code.
// successStatus overrides 200 for successful results, e.g. 201 on create.
func WriteResult[T any](w http.ResponseWriter, result shared.Result[T], successStatus int) {
	status := StatusFor(result.Code())
	if result.Success && successStatus != 0 {
		status = successStatus
	}
	JSON(w, status, result)
}

// DecodeJSON decodes the request body into target. Malformed bodies are
// reported as VALIDATION_ERROR.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return shared.Validation("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if err == io.EOF {
			return shared.Validation("request body is required")
		}
		return shared.Validation(fmt.Sprintf("malformed JSON: %v", err))
	}
	return nil
}
