package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	// SuperAdminEmail routes login to the super-admin lookup, ignoring the requested role.
	SuperAdminEmail string
	// RefreshRevocation records issued refresh tokens, rotates them on refresh and revokes them on logout.
	RefreshRevocation bool
	// BcryptCost is the cost of stored password hashes. Logins for unknown emails spend the same
	// work on a placeholder hash. Zero means bcrypt.DefaultCost.
	BcryptCost int
}

type AuthServiceImpl struct {
	transactor    database.Transactor
	users         user.UserRepository
	organizations organization.OrganizationRepository
	tokens        jwt.Service
	refreshTokens auth.RefreshTokenRepository
	opts          Options
	now           func() time.Time

	placeholderOnce sync.Once
	placeholder     user.User
	// comparePlaceholder runs when no account matched the login email.
	comparePlaceholder func(password string)
}

func NewAuthService(
	transactor database.Transactor,
	userRepository user.UserRepository,
	organizationRepository organization.OrganizationRepository,
	jwtService jwt.Service,
	refreshTokenRepository auth.RefreshTokenRepository,
	opts Options,
) auth.AuthService {
	a := &AuthServiceImpl{
		transactor:    transactor,
		users:         userRepository,
		organizations: organizationRepository,
		tokens:        jwtService,
		refreshTokens: refreshTokenRepository,
		opts:          opts,
		now:           time.Now,
	}
	a.comparePlaceholder = a.compareWithPlaceholder
	return a
}

// compareWithPlaceholder does the bcrypt work of a real password check so unknown emails cost
// as much as wrong passwords.
func (a *AuthServiceImpl) compareWithPlaceholder(password string) {
	a.placeholderOnce.Do(func() {
		cost := a.opts.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := user.HashPassword("placeholder-password", cost)
		if err != nil {
			return
		}
		a.placeholder = user.User{PasswordHash: hash}
	})
	a.placeholder.ValidatePassword(password)
}

func (a *AuthServiceImpl) revocationEnabled() bool {
	return a.opts.RefreshRevocation && a.refreshTokens != nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.findLoginUser(ctx, req)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	org, err := a.memberOrganization(ctx, u)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	now := a.now()
	if err := a.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to update last login: %w", err)
	}
	u.LastLogin = &now

	var response auth.TokenResponse
	err = a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		response, err = a.issueTokens(txCtx, u, org, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return response, nil
}

// findLoginUser resolves the account a login request refers to. Unknown emails and wrong
// passwords both end in auth.ErrInvalidCredentials.
func (a *AuthServiceImpl) findLoginUser(ctx context.Context, req auth.LoginRequest) (user.User, error) {
	if a.opts.SuperAdminEmail != "" && req.Email == validator.NormalizeEmail(a.opts.SuperAdminEmail) {
		u, err := a.users.GetActiveSuperAdminByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				a.comparePlaceholder(req.Password)
				return user.User{}, auth.ErrInvalidCredentials
			}
			return user.User{}, fmt.Errorf("failed to get super admin by email: %w", err)
		}
		if !u.ValidatePassword(req.Password) {
			return user.User{}, auth.ErrInvalidCredentials
		}
		return u, nil
	}

	candidates, err := a.users.FindActiveByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to find users by email: %w", err)
	}

	var matched []user.User
	compared := false
	for _, candidate := range candidates {
		if req.OrganizationID != nil && !candidate.BelongsTo(*req.OrganizationID) {
			continue
		}
		compared = true
		if candidate.ValidatePassword(req.Password) {
			matched = append(matched, candidate)
		}
	}
	if !compared {
		a.comparePlaceholder(req.Password)
	}

	switch len(matched) {
	case 0:
		return user.User{}, auth.ErrInvalidCredentials
	case 1:
		return matched[0], nil
	default:
		var errs validator.ValidationErrors
		errs.Add("organizationId", "Account exists in multiple organizations; organizationId is required")
		return user.User{}, errs
	}
}

// memberOrganization loads the organization of a tenant member and checks it is active.
// Super-admins have none.
func (a *AuthServiceImpl) memberOrganization(ctx context.Context, u user.User) (*organization.Organization, error) {
	if u.IsSuperAdmin {
		return nil, nil
	}
	if u.OrganizationID == nil {
		return nil, auth.ErrUserInactive
	}

	org, err := a.organizations.GetByID(ctx, *u.OrganizationID)
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			return nil, auth.ErrUserInactive
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if !org.IsActive {
		return nil, auth.ErrOrganizationInactive
	}
	return &org, nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, org *organization.Organization, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	accessToken, _, err := a.tokens.IssueAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, refreshExpiresAt, err := a.tokens.IssueRefreshToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if a.revocationEnabled() {
		if err := a.refreshTokens.Create(ctx, u.ID, refreshToken, refreshExpiresAt, session); err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token: %w", err)
		}
	}

	return auth.TokenResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         auth.NewSessionUser(u, org),
		ExpiresIn:    int64(a.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Refresh implements auth.AuthService.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshTokenRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	claims, err := a.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidRefreshToken
	}

	var response auth.TokenResponse
	err = a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if a.revocationEnabled() {
			revoked, err := a.refreshTokens.IsRevoked(txCtx, req.RefreshToken)
			if err != nil {
				return fmt.Errorf("failed to check refresh token: %w", err)
			}
			if revoked {
				return auth.ErrInvalidRefreshToken
			}
		}

		u, err := a.users.GetByID(txCtx, claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return auth.ErrUserInactive
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		if !u.IsActive {
			return auth.ErrUserInactive
		}

		org, err := a.memberOrganization(txCtx, u)
		if err != nil {
			return err
		}

		if a.revocationEnabled() {
			// Revoke is the single winner between concurrent refreshes of the same token.
			if err := a.refreshTokens.Revoke(txCtx, req.RefreshToken); err != nil {
				if errors.Is(err, auth.ErrRefreshTokenNotActive) {
					return auth.ErrInvalidRefreshToken
				}
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}

		response, err = a.issueTokens(txCtx, u, org, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return response, nil
}

// Logout implements auth.AuthService. Access tokens stay valid until they expire.
func (a *AuthServiceImpl) Logout(ctx context.Context, identity auth.Identity, req auth.LogoutRequest) (auth.LogoutResponse, error) {
	if a.revocationEnabled() && req.RefreshToken != "" {
		claims, err := a.tokens.VerifyRefreshToken(req.RefreshToken)
		if err == nil && claims.UserID == identity.UserID() {
			err := a.refreshTokens.Revoke(ctx, req.RefreshToken)
			if err != nil && !errors.Is(err, auth.ErrRefreshTokenNotActive) {
				return auth.LogoutResponse{}, fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}
	return auth.LogoutResponse{Timestamp: a.now().UTC()}, nil
}

// Authenticate implements auth.AuthService.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (auth.Identity, error) {
	if accessToken == "" {
		return auth.Identity{}, auth.ErrAccessTokenRequired
	}

	claims, err := a.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return auth.Identity{}, err
	}

	u, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.Identity{}, auth.ErrUserInactive
		}
		return auth.Identity{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return auth.Identity{}, auth.ErrUserInactive
	}

	org, err := a.memberOrganization(ctx, u)
	if err != nil {
		return auth.Identity{}, err
	}

	return auth.NewIdentity(u, org)
}
