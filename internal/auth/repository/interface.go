package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an account row as the auth context sees it.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	CompanyID    *uuid.UUID
	CreatedAt    time.Time
}

// Repository provides account and refresh token persistence for auth.
type Repository interface {
	// GetUserByEmail returns the account matching a (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// GetUserByID returns the account by id.
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	// CreateRefreshToken stores a refresh token hash with its expiry.
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	// GetRefreshToken resolves a refresh token hash to its owner and expiry.
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	// RevokeRefreshToken deletes one refresh token by hash.
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	// RevokeAllRefreshTokens deletes every refresh token of a user.
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}
