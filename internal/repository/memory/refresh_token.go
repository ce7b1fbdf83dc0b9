package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
)

type refreshTokenRecord struct {
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	Session   auth.SessionTrackingRequest
}

type refreshTokenRepository struct {
	s *Store
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *refreshTokenRepository) Create(ctx context.Context, userID string, token string, expiresAt time.Time, session auth.SessionTrackingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.refreshTokens[hashToken(token)] = refreshTokenRecord{
		UserID:    userID,
		ExpiresAt: expiresAt,
		Session:   session,
	}
	return nil
}

func (r *refreshTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.refreshTokens[hashToken(token)]
	if !ok {
		return true, nil
	}
	return rec.RevokedAt != nil || !rec.ExpiresAt.After(r.s.now()), nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := hashToken(token)
	rec, ok := r.s.refreshTokens[key]
	if !ok || rec.RevokedAt != nil {
		return auth.ErrRefreshTokenNotActive
	}
	now := r.s.now()
	rec.RevokedAt = &now
	r.s.refreshTokens[key] = rec
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for key, rec := range r.s.refreshTokens {
		if rec.ExpiresAt.Before(cutoff) || (rec.RevokedAt != nil && rec.RevokedAt.Before(cutoff)) {
			delete(r.s.refreshTokens, key)
			deleted++
		}
	}
	return deleted, nil
}
