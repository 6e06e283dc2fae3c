package handlers

import (
	"context"
	"net/http"

	"github.com/ipede/negocio-verification-service/internal/application"
	"go.uber.org/zap"
)

const (
	registrationCodeSentMessage = "We sent a verification code to your email."
	registrationVerifiedMessage = "Email verified. You can continue with your registration."
)

type RegistrationService interface {
	RequestCode(ctx context.Context, email string, planID *int64) error
	ConfirmCode(ctx context.Context, email, code string) (*application.RegistrationVerification, error)
}

type RegistrationHandler struct {
	service RegistrationService
	logger  *zap.Logger
}

func NewRegistrationHandler(service RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		logger:  logger,
	}
}

type sendCodeRequest struct {
	Email  string `json:"email" validate:"required,email"`
	PlanID *int64 `json:"planId" validate:"omitempty,gte=1"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp"`
}

// RegistrationVerifiedData is returned once the email is proven
type RegistrationVerifiedData struct {
	Email    string `json:"email"`
	PlanID   *int64 `json:"planId"`
	Verified bool   `json:"verified"`
}

func (h *RegistrationHandler) SendCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if details, err := decodeRequest(r, &req); err != nil {
		respondInvalid(w, h.logger, details)
		return
	}

	if err := h.service.RequestCode(r.Context(), req.Email, req.PlanID); err != nil {
		respondError(w, h.logger, "failed to send registration code", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: registrationCodeSentMessage,
	})
}

func (h *RegistrationHandler) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if details, err := decodeRequest(r, &req); err != nil {
		respondInvalid(w, h.logger, details)
		return
	}

	verification, err := h.service.ConfirmCode(r.Context(), req.Email, req.Code)
	if err != nil {
		respondError(w, h.logger, "failed to verify registration code", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: registrationVerifiedMessage,
		Data: RegistrationVerifiedData{
			Email:    verification.Email,
			PlanID:   verification.PlanID,
			Verified: true,
		},
	})
}
