package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountRepository struct {
	logger *zap.Logger
	db     *database.Postgres
}

func NewAccountRepository(db *database.Postgres, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

func (r *AccountRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account := &domain.Account{}
	var status string
	err := r.db.QueryRow(ctx, `
		SELECT id_usuario, email, primer_nombre, primer_apellido, estado, fecha_creacion
		FROM general.gener_usuario
		WHERE lower(email) = $1 AND estado = $2
	`, domain.NormalizeEmail(email), string(domain.AccountActive)).Scan(
		&account.ID,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&status,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		r.logger.Error("failed to find account by email", zap.Error(err))
		return nil, fmt.Errorf("find account: %w", err)
	}
	account.Status = domain.AccountStatus(status)
	return account, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM general.gener_usuario WHERE lower(email) = $1)
	`, domain.NormalizeEmail(email)).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check if account exists", zap.Error(err))
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, accountID int64, hashedPassword string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE general.gener_usuario
		SET password = $1
		WHERE id_usuario = $2
	`, hashedPassword, accountID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
