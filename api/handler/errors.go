package handler

import (
	"net/http"

	"github.com/use-gist/gist/models"
)

// asAPIError normalizes any error into an APIError, defaulting to an
// internal error code.
func asAPIError(err error) *models.APIError {
	if apiErr, ok := err.(*models.APIError); ok {
		return apiErr
	}
	return models.NewAPIError(models.ErrCodeInternal, err.Error(), err)
}

// mapErrorToStatus translates error codes to HTTP status codes.
//
// Extraction failures: no content is the page's fault (422), a fetch
// error is the origin's (502). Upstream LLM failures keep their upstream
// status so callers see rate limits and auth problems verbatim.
func mapErrorToStatus(e *models.APIError) int {
	switch e.Code {
	case models.ErrCodeNoContent:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeFetchError:
		return http.StatusBadGateway // 502
	case models.ErrCodeLLMAuthFailure:
		return http.StatusUnauthorized // 401
	case models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeLLMFailure, models.ErrCodeEmbeddingFailure:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
