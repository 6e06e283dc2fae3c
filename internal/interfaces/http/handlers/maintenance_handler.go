package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type MaintenanceService interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type MaintenanceHandler struct {
	service MaintenanceService
	logger  *zap.Logger
}

func NewMaintenanceHandler(service MaintenanceService, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		service: service,
		logger:  logger,
	}
}

type purgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *MaintenanceHandler) PurgeExpiredHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.PurgeExpired(r.Context())
	if err != nil {
		respondError(w, h.logger, "failed to purge expired verification codes", err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, purgeResponse{Deleted: deleted})
}
