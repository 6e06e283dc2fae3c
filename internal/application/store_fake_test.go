package application

import (
	"context"
	"sync"
	"time"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/oklog/ulid/v2"
)

// memoryStore is an in-memory VerificationStore with the same ordering and
// atomicity rules as the Postgres one.
type memoryStore struct {
	lock    sync.Mutex
	mu      sync.Mutex
	records []*domain.VerificationRecord

	createErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) Create(_ context.Context, record *domain.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	stored := *record
	s.records = append(s.records, &stored)
	return nil
}

func matches(r *domain.VerificationRecord, purpose domain.Purpose, subject domain.SubjectKey) bool {
	if r.Purpose != purpose {
		return false
	}
	if purpose.ScopedByUser() {
		return r.SubjectUserID != nil && *r.SubjectUserID == subject.UserID
	}
	return r.SubjectEmail == subject.Email
}

func (s *memoryStore) FindActive(_ context.Context, purpose domain.Purpose, subject domain.SubjectKey, now time.Time) (*domain.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *domain.VerificationRecord
	for _, r := range s.records {
		if !matches(r, purpose, subject) || !r.IsActive(now) {
			continue
		}
		if found == nil || r.CreatedAt.After(found.CreatedAt) ||
			(r.CreatedAt.Equal(found.CreatedAt) && r.ID.Compare(found.ID) > 0) {
			found = r
		}
	}
	if found == nil {
		return nil, domain.ErrVerificationNotFound
	}
	out := *found
	return &out, nil
}

func (s *memoryStore) byID(id ulid.ULID) *domain.VerificationRecord {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *memoryStore) IncrementAttempts(_ context.Context, id ulid.ULID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byID(id)
	if r == nil {
		return 0, domain.ErrVerificationNotFound
	}
	*r = r.RecordAttempt()
	return r.AttemptCount, nil
}

func (s *memoryStore) MarkConsumed(_ context.Context, id ulid.ULID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byID(id)
	if r == nil || r.Consumed {
		return false, nil
	}
	*r = r.Consume()
	return true, nil
}

func (s *memoryStore) InvalidateAllActive(_ context.Context, purpose domain.Purpose, subject domain.SubjectKey) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.records {
		if matches(r, purpose, subject) && !r.Consumed {
			*r = r.Consume()
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var n int64
	for _, r := range s.records {
		if r.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return n, nil
}

func (s *memoryStore) WithinSubjectLock(_ context.Context, _ domain.Purpose, _ domain.SubjectKey, fn func(store domain.VerificationStore) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *memoryStore) get(id ulid.ULID) domain.VerificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.byID(id)
}

func (s *memoryStore) active(purpose domain.Purpose, subject domain.SubjectKey, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if matches(r, purpose, subject) && r.IsActive(now) {
			n++
		}
	}
	return n
}

// sequenceGenerator hands out fixed codes in order, repeating the last one.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code, nil
}
