package repository

import (
	"context"
	"fmt"

	"github.com/ipede/negocio-verification-service/internal/infrastructure/database"
	"go.uber.org/zap"
)

type PlanRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

func NewPlanRepository(db *database.Postgres, logger *zap.Logger) *PlanRepository {
	return &PlanRepository{db: db, logger: logger}
}

func (r *PlanRepository) ExistsActive(ctx context.Context, planID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM general.gener_plan WHERE id_plan = $1 AND estado = 'A')
	`, planID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check plan", zap.Int64("plan_id", planID), zap.Error(err))
		return false, fmt.Errorf("check plan: %w", err)
	}
	return exists, nil
}
