package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

const (
	forgotPasswordMessage  = "If the email is registered, you will receive a code to reset your password."
	resetCodeValidMessage  = "Code verified. You can now choose a new password."
	passwordUpdatedMessage = "Your password has been updated. You can now sign in."
)

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string)
	CheckResetCode(ctx context.Context, email, code string) error
	ConfirmReset(ctx context.Context, email, code, newPassword string) error
}

type PasswordResetHandler struct {
	service PasswordResetService
	logger  *zap.Logger
}

func NewPasswordResetHandler(service PasswordResetService, logger *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		service: service,
		logger:  logger,
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,otp"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// ForgotPasswordHandler answers the same way whether or not the email
// belongs to an account, including when the body is malformed.
func (h *PasswordResetHandler) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if _, err := decodeRequest(r, &req); err == nil {
		h.service.RequestReset(r.Context(), req.Email)
	}

	respondJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: forgotPasswordMessage,
	})
}

func (h *PasswordResetHandler) VerifyResetCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyResetCodeRequest
	if details, err := decodeRequest(r, &req); err != nil {
		respondInvalid(w, h.logger, details)
		return
	}

	if err := h.service.CheckResetCode(r.Context(), req.Email, req.Code); err != nil {
		respondError(w, h.logger, "failed to verify reset code", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: resetCodeValidMessage,
	})
}

func (h *PasswordResetHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if details, err := decodeRequest(r, &req); err != nil {
		respondInvalid(w, h.logger, details)
		return
	}

	if err := h.service.ConfirmReset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(w, h.logger, "failed to reset password", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: passwordUpdatedMessage,
	})
}
