package application

import (
	"context"
	"time"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"go.uber.org/zap"
)

// PurgeMetrics counts deleted records
type PurgeMetrics interface {
	Purged(n int64)
}

// MaintenanceService deletes verification records that can no longer be used.
type MaintenanceService struct {
	store   domain.VerificationStore
	metrics PurgeMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewMaintenanceService(store domain.VerificationStore, metrics PurgeMetrics, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// PurgeExpired removes every record whose expiry has passed
func (s *MaintenanceService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.Purged(deleted)
	}
	s.logger.Info("expired verification codes purged", zap.Int64("deleted", deleted))
	return deleted, nil
}

// Run purges on every tick until ctx is done. A non-positive interval disables it.
func (s *MaintenanceService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Info("verification code cleanup disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.Error("failed to purge expired verification codes", zap.Error(err))
			}
		}
	}
}
