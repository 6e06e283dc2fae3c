package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// SuccessResponse is the body of every successful call
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return otpCode(fl.Field().String())
	})
	return v
}

// otpCode accepts exactly six ASCII digits
func otpCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// strongPassword requires 8 characters with an upper case letter and a digit
func strongPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

// decodeRequest decodes the JSON body into req and validates it. Field
// problems come back as details; a nil slice with an error means the body
// could not be read.
func decodeRequest(r *http.Request, req any) ([]errors.ErrorDetail, error) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return nil, err
		}
		details := make([]errors.ErrorDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, errors.ErrorDetail{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		return details, err
	}
	return nil, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "otp":
		return fe.Field() + " must be a 6 digit code"
	case "password":
		return fe.Field() + " must have at least 8 characters, one upper case letter and one number"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func respondInvalid(w http.ResponseWriter, logger *zap.Logger, details []errors.ErrorDetail) {
	errors.RespondErrorWithDetails(w, logger, domain.ErrInvalidField, details)
}

// respondError renders domain errors as is and everything else as a generic
// internal error.
func respondError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	rendered := domain.AsError(err)
	if rendered == domain.Error(domain.ErrInternal) {
		logger.Error(msg, zap.Error(err))
	}
	errors.RespondWithError(w, logger, rendered)
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
