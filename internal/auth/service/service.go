package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fieldops_backend/internal/auth/password"
	"fieldops_backend/internal/auth/repository"
	"fieldops_backend/internal/auth/token"
	"fieldops_backend/internal/auth/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/config"
	"fieldops_backend/platform/logger"
)

const (
	accessTokenType  = "access"
	refreshTokenSize = 48
)

const msgInvalidCredentials = "invalid credentials"

// Service handles authentication: credential checks, token issuance and
// refresh rotation.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

// New creates a new auth service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and issues a token pair. Unknown emails, wrong
// passwords and deactivated accounts all yield the same unauthorized error.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.TokenPairResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !user.IsActive {
		s.log.AuthEvent("login", req.Email, false, "account deactivated")
		return transport.TokenPairResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Wrap(apperr.KindInternal, "failed to issue tokens", err)
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Expired tokens are revoked and rejected.
func (s *Service) Refresh(ctx context.Context, req transport.RefreshRequest) (transport.TokenPairResponse, error) {
	hash := token.Hash(req.RefreshToken)

	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.TokenPairResponse{}, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil || !user.IsActive {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.TokenPairResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return transport.TokenPairResponse{}, apperr.Wrap(apperr.KindInternal, "failed to rotate refresh token", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return transport.TokenPairResponse{}, apperr.Wrap(apperr.KindInternal, "failed to issue tokens", err)
	}
	return pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens succeed too;
// logout is idempotent.
func (s *Service) Logout(ctx context.Context, req transport.RefreshRequest) error {
	if err := s.repo.RevokeRefreshToken(ctx, token.Hash(req.RefreshToken)); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
	}
	return nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.UserResponse{}, err
		}
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load user", err)
	}

	resp := transport.UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
	if user.CompanyID != nil {
		companyID := user.CompanyID.String()
		resp.CompanyID = &companyID
	}
	return resp, nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (transport.TokenPairResponse, error) {
	accessToken, err := s.signAccessJWT(user)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	refreshToken, err := token.New(refreshTokenSize)
	if err != nil {
		return transport.TokenPairResponse{}, err
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.Hash(refreshToken), expiresAt); err != nil {
		return transport.TokenPairResponse{}, err
	}

	return transport.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) signAccessJWT(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": accessTokenType,
		"role": user.Role,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
