package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/api"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var validate = validatorv10.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeAndValidate reads a JSON body into out and validates it, writing the
// 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "invalid_request", "request body is empty")
			return false
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}

	if err := validate.Struct(out); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "request validation failed",
			Code:   "validation_failed",
			Fields: validationErrorsToMap(err),
		})
		return false
	}
	return true
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}

// handleAPIError converts collaborator failures to gateway responses.
func handleAPIError(w http.ResponseWriter, err error) {
	if status, ok := api.IsServerError(err); ok {
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "upstream request failed",
			Code:    "upstream_error",
			Details: http.StatusText(status),
		})
		return
	}

	switch {
	case errors.Is(err, api.ErrNetwork):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "catalog service unreachable")
	case errors.Is(err, api.ErrDecode):
		respondError(w, http.StatusBadGateway, "bad_upstream_response", "malformed upstream response")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
