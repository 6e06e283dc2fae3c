package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code              string        `json:"code"`
	Message           string        `json:"message"`
	RemainingAttempts *int          `json:"remainingAttempts,omitempty"`
	Details           []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents a validation error detail
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getStatus(err domain.Error) int {
	switch err.GetCode() {
	case domain.ErrEmailAlreadyRegistered.GetCode():
		return http.StatusConflict
	case domain.ErrPlanNotFound.GetCode():
		return http.StatusNotFound
	case domain.ErrUnauthorized.GetCode():
		return http.StatusUnauthorized
	case domain.ErrForbidden.GetCode():
		return http.StatusForbidden
	case domain.ErrInternal.GetCode():
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, logger *zap.Logger, err domain.Error) {
	RespondErrorWithDetails(w, logger, err, nil)
}

// RespondErrorWithDetails sends a standardized error response with details
func RespondErrorWithDetails(w http.ResponseWriter, logger *zap.Logger, err domain.Error, details []ErrorDetail) {
	response := ErrorResponse{
		Code:    err.GetCode(),
		Message: err.GetMessage(),
		Details: details,
	}

	var incorrect *domain.IncorrectCodeError
	if stderrors.As(err, &incorrect) {
		remaining := incorrect.Remaining
		response.RemainingAttempts = &remaining
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(getStatus(err))
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logger.Error("failed to encode error response",
			zap.String("code", response.Code),
			zap.Error(encodeErr))
	}
}
