package response

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
)

// ValidationErrorKind is the error kind of 400 responses caused by field validation.
const ValidationErrorKind = "Validation Error"

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Code    int         `json:"code,omitempty"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorData is the data member of every error envelope.
type ErrorData struct {
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewMeta(params pagination.Params, total int64) *Meta {
	params = params.Normalize()
	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := Response{
			Status:  false,
			Message: "Failed to encode response",
			Error:   http.StatusText(http.StatusInternalServerError),
			Code:    http.StatusInternalServerError,
			Data:    ErrorData{},
		}
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

func emptyIfNil(data interface{}) interface{} {
	if data == nil {
		return struct{}{}
	}
	return data
}

// Success responses
func Success(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Status:  true,
		Message: message,
		Data:    emptyIfNil(data),
	})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{
		Status:  true,
		Message: message,
		Data:    emptyIfNil(data),
	})
}

func SuccessWithMeta(w http.ResponseWriter, message string, data interface{}, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{
		Status:  true,
		Message: message,
		Data:    emptyIfNil(data),
		Meta:    meta,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes the standard error envelope; the kind is derived from statusCode.
func Error(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	writeError(w, statusCode, http.StatusText(statusCode), message, details)
}

func writeError(w http.ResponseWriter, statusCode int, kind, message string, details interface{}) {
	writeJSON(w, statusCode, Response{
		Status:  false,
		Message: message,
		Error:   kind,
		Code:    statusCode,
		Data:    ErrorData{Details: details},
	})
}

// Error responses
func BadRequest(w http.ResponseWriter, message string, details interface{}) {
	Error(w, http.StatusBadRequest, message, details)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	writeError(w, http.StatusBadRequest, ValidationErrorKind, "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message, nil)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string, details interface{}) {
	Error(w, http.StatusInternalServerError, message, details)
}
