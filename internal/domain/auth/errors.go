package auth

import "errors"

var (
	ErrAccessTokenRequired      = errors.New("access token is required")
	ErrInvalidToken             = errors.New("invalid token")
	ErrTokenExpired             = errors.New("token expired")
	ErrInvalidRefreshToken      = errors.New("invalid refresh token")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserInactive             = errors.New("user not found or inactive")
	ErrOrganizationInactive     = errors.New("organization is inactive")
	ErrSuperAdminRequired       = errors.New("super admin access required")
	ErrAdminRequired            = errors.New("admin access required")
	ErrOrganizationAccessDenied = errors.New("access denied to this organization")

	// ErrRefreshTokenNotActive is returned by RefreshTokenRepository.Revoke when no unrevoked
	// record matched, e.g. a concurrent refresh already consumed the token.
	ErrRefreshTokenNotActive = errors.New("refresh token is not active")
)
