package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const verificationColumns = `id, tipo, email, id_usuario, id_plan, token_hash, expires_at, used, attempts, created_at`

// VerificationStore persists one-time codes in general.gener_codigo_verificacion
type VerificationStore struct {
	db     *database.Postgres
	q      querier
	logger *zap.Logger
}

func NewVerificationStore(db *database.Postgres, logger *zap.Logger) *VerificationStore {
	return &VerificationStore{
		db:     db,
		q:      db,
		logger: logger,
	}
}

// subjectColumn picks the column and value a purpose is keyed on
func subjectColumn(purpose domain.Purpose, subject domain.SubjectKey) (string, any) {
	if purpose.ScopedByUser() {
		return "id_usuario", subject.UserID
	}
	return "email", subject.Email
}

func (s *VerificationStore) Create(ctx context.Context, record *domain.VerificationRecord) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO general.gener_codigo_verificacion (`+verificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		record.ID.String(),
		string(record.Purpose),
		record.SubjectEmail,
		record.SubjectUserID,
		record.AssociatedPlanID,
		record.CodeHash,
		record.ExpiresAt,
		record.Consumed,
		record.AttemptCount,
		record.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create verification record",
			zap.String("record_id", record.ID.String()),
			zap.String("purpose", record.Purpose.String()),
			zap.Error(err))
		return fmt.Errorf("create verification record: %w", err)
	}
	return nil
}

func (s *VerificationStore) FindActive(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, now time.Time) (*domain.VerificationRecord, error) {
	column, value := subjectColumn(purpose, subject)

	var (
		record  domain.VerificationRecord
		id      string
		tipo    string
		attempt int32
	)
	err := s.q.QueryRow(ctx, `
		SELECT `+verificationColumns+`
		FROM general.gener_codigo_verificacion
		WHERE tipo = $1 AND `+column+` = $2 AND used = FALSE AND expires_at > $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, string(purpose), value, now).Scan(
		&id,
		&tipo,
		&record.SubjectEmail,
		&record.SubjectUserID,
		&record.AssociatedPlanID,
		&record.CodeHash,
		&record.ExpiresAt,
		&record.Consumed,
		&attempt,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVerificationNotFound
		}
		s.logger.Error("failed to find active verification record",
			zap.String("purpose", purpose.String()),
			zap.Error(err))
		return nil, fmt.Errorf("find active verification record: %w", err)
	}

	record.ID, err = domain.ParseULID(id)
	if err != nil {
		return nil, err
	}
	record.Purpose = domain.Purpose(tipo)
	record.AttemptCount = int(attempt)
	return &record, nil
}

func (s *VerificationStore) IncrementAttempts(ctx context.Context, id ulid.ULID) (int, error) {
	var attempts int32
	err := s.q.QueryRow(ctx, `
		UPDATE general.gener_codigo_verificacion
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`, id.String()).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrVerificationNotFound
		}
		s.logger.Error("failed to increment attempts", zap.String("record_id", id.String()), zap.Error(err))
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return int(attempts), nil
}

func (s *VerificationStore) MarkConsumed(ctx context.Context, id ulid.ULID) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE general.gener_codigo_verificacion
		SET used = TRUE
		WHERE id = $1 AND used = FALSE
	`, id.String())
	if err != nil {
		s.logger.Error("failed to mark verification record consumed", zap.String("record_id", id.String()), zap.Error(err))
		return false, fmt.Errorf("mark consumed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *VerificationStore) InvalidateAllActive(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey) (int64, error) {
	column, value := subjectColumn(purpose, subject)

	tag, err := s.q.Exec(ctx, `
		UPDATE general.gener_codigo_verificacion
		SET used = TRUE
		WHERE tipo = $1 AND `+column+` = $2 AND used = FALSE
	`, string(purpose), value)
	if err != nil {
		s.logger.Error("failed to invalidate verification records",
			zap.String("purpose", purpose.String()),
			zap.Error(err))
		return 0, fmt.Errorf("invalidate active records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *VerificationStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM general.gener_codigo_verificacion
		WHERE expires_at < $1
	`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// WithinSubjectLock runs fn in a transaction holding an advisory lock on the
// subject key, so concurrent issuers for the same key run one after another.
func (s *VerificationStore) WithinSubjectLock(ctx context.Context, purpose domain.Purpose, subject domain.SubjectKey, fn func(store domain.VerificationStore) error) error {
	if s.db == nil {
		// already bound to a transaction
		return fn(s)
	}

	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, subject.LockKey(purpose)); err != nil {
			return fmt.Errorf("acquire subject lock: %w", err)
		}
		return fn(&VerificationStore{q: tx, logger: s.logger})
	})
}
