package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
)

// SessionJobs prunes the refresh token store.
type SessionJobs struct {
	refreshTokens auth.RefreshTokenRepository
	retention     time.Duration
	now           func() time.Time
}

// NewSessionJobs keeps expired and revoked tokens for retention before deleting them.
func NewSessionJobs(refreshTokens auth.RefreshTokenRepository, retention time.Duration) *SessionJobs {
	return &SessionJobs{
		refreshTokens: refreshTokens,
		retention:     retention,
		now:           time.Now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("purge_refresh_tokens", interval, j.PurgeRefreshTokens)
}

func (j *SessionJobs) PurgeRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokens.DeleteExpired(ctx, j.now().Add(-j.retention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Purged refresh tokens", "count", deleted)
	}
	return nil
}
