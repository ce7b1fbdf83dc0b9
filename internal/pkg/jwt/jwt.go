package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the verified content of an access or refresh token. Refresh tokens only carry UserID.
type Claims struct {
	UserID         string
	Email          string
	Role           user.Role
	OrganizationID *string
	IsSuperAdmin   bool
	Type           string
	ExpiresAt      time.Time
}

type Service interface {
	IssueAccessToken(u user.User) (token string, expiresAt time.Time, err error)
	IssueRefreshToken(u user.User) (token string, expiresAt time.Time, err error)
	VerifyAccessToken(token string) (Claims, error)
	VerifyRefreshToken(token string) (Claims, error)
	AccessTokenTTL() time.Duration
}

type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type JWTService struct {
	accessAuth  *jwtauth.JWTAuth
	refreshAuth *jwtauth.JWTAuth
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

// NewJWTService signs both token kinds with HS256, each with its own secret. Expiry is checked
// with no clock skew allowance.
func NewJWTService(opts Options) (*JWTService, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" {
		return nil, errors.New("jwt: access and refresh secrets are required")
	}
	if opts.AccessTTL <= 0 || opts.RefreshTTL <= 0 {
		return nil, errors.New("jwt: token lifetimes must be positive")
	}
	return &JWTService{
		accessAuth:  jwtauth.New("HS256", []byte(opts.AccessSecret), nil),
		refreshAuth: jwtauth.New("HS256", []byte(opts.RefreshSecret), nil),
		accessTTL:   opts.AccessTTL,
		refreshTTL:  opts.RefreshTTL,
		now:         time.Now,
	}, nil
}

func (j *JWTService) AccessTokenTTL() time.Duration { return j.accessTTL }

func (j *JWTService) IssueAccessToken(u user.User) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.accessTTL)

	// organizationId is null for super-admins.
	var organizationID interface{}
	if u.OrganizationID != nil {
		organizationID = *u.OrganizationID
	}
	claims := map[string]interface{}{
		"userId":         u.ID,
		"email":          u.Email,
		"role":           string(u.Role),
		"organizationId": organizationID,
		"isSuperAdmin":   u.IsSuperAdmin,
		"type":           TokenTypeAccess,
		"iat":            issuedAt.Unix(),
		"exp":            expiresAt.Unix(),
	}

	_, tokenString, err := j.accessAuth.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

func (j *JWTService) IssueRefreshToken(u user.User) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.refreshTTL)

	_, tokenString, err := j.refreshAuth.Encode(map[string]interface{}{
		"userId": u.ID,
		"type":   TokenTypeRefresh,
		"iat":    issuedAt.Unix(),
		"exp":    expiresAt.Unix(),
		// jti keeps two refresh tokens minted in the same second distinct.
		"jti": fmt.Sprintf("%s-%d", u.ID, issuedAt.UnixNano()),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// VerifyAccessToken fails with auth.ErrTokenExpired for expired tokens and auth.ErrInvalidToken otherwise.
func (j *JWTService) VerifyAccessToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.accessAuth, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return Claims{}, auth.ErrTokenExpired
		}
		return Claims{}, auth.ErrInvalidToken
	}

	claims, err := claimsFromToken(token)
	if err != nil || claims.Type != TokenTypeAccess {
		return Claims{}, auth.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken fails with auth.ErrInvalidRefreshToken for every kind of failure.
func (j *JWTService) VerifyRefreshToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.refreshAuth, tokenString)
	if err != nil {
		return Claims{}, auth.ErrInvalidRefreshToken
	}

	claims, err := claimsFromToken(token)
	if err != nil || claims.Type != TokenTypeRefresh {
		return Claims{}, auth.ErrInvalidRefreshToken
	}
	return claims, nil
}

func claimsFromToken(token jwt.Token) (Claims, error) {
	var c Claims
	var ok bool

	raw, found := token.Get("userId")
	if !found {
		return Claims{}, errors.New("missing userId")
	}
	if c.UserID, ok = raw.(string); !ok || c.UserID == "" {
		return Claims{}, errors.New("invalid userId")
	}
	if raw, found = token.Get("type"); found {
		c.Type, _ = raw.(string)
	}
	if raw, found = token.Get("email"); found {
		c.Email, _ = raw.(string)
	}
	if raw, found = token.Get("role"); found {
		role, _ := raw.(string)
		c.Role = user.Role(role)
	}
	if raw, found = token.Get("organizationId"); found {
		if orgID, isString := raw.(string); isString && orgID != "" {
			c.OrganizationID = &orgID
		}
	}
	if raw, found = token.Get("isSuperAdmin"); found {
		c.IsSuperAdmin, _ = raw.(bool)
	}
	c.ExpiresAt = token.Expiration()
	return c, nil
}
