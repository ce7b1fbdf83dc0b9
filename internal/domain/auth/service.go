package auth

import (
	"context"
	"time"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, identity Identity, req LogoutRequest) (LogoutResponse, error)
	// Authenticate verifies an access token and reloads the caller from the store.
	Authenticate(ctx context.Context, accessToken string) (Identity, error)
}

// RefreshTokenRepository stores hashes of issued refresh tokens so they can be revoked.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time, session SessionTrackingRequest) error
	// IsRevoked reports true for revoked, expired and unknown tokens.
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Revoke fails with ErrRefreshTokenNotActive when the token is unknown or already revoked.
	Revoke(ctx context.Context, token string) error
	// DeleteExpired removes tokens that expired or were revoked before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
