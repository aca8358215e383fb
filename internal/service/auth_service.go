package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"projector-backend/internal/model"
	"projector-backend/internal/util"
)

// WorkerStore is the identity lookup capability the auth core consumes. The
// returned workers carry their role with the parsed permission set.
type WorkerStore interface {
	FindByID(ctx context.Context, id int64) (model.Worker, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (model.Worker, error)
}

// TokenStore persists refresh token records. DeleteByID must be atomic: of
// two concurrent deletes of the same record, exactly one reports true.
type TokenStore interface {
	Insert(ctx context.Context, tokenHash string, tokenID string, workerID int64, expiresAt time.Time) (int64, error)
	FindByTokenID(ctx context.Context, tokenID string) (model.RefreshTokenRecord, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteAllByTokenID(ctx context.Context, tokenID string) error
}

type accessClaims struct {
	WorkerID   int64  `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Refresh tokens carry no identity claims. The worker is recovered from the
// stored record, never from the token payload.
type refreshClaims struct {
	jwt.RegisteredClaims
}

type AuthService struct {
	workers       WorkerStore
	tokens        TokenStore
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         func() time.Time
}

func NewAuthService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration, workers WorkerStore, tokens TokenStore) (*AuthService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("both signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh signing secrets must differ")
	}

	return &AuthService{
		workers:       workers,
		tokens:        tokens,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// employee id and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, employeeID string, password string) (model.LoginResult, error) {
	worker, err := s.verifyCredentials(ctx, employeeID, password)
	if err != nil {
		return model.LoginResult{}, err
	}

	jti := uuid.NewString()
	accessToken, err := s.mintAccessToken(worker, jti)
	if err != nil {
		return model.LoginResult{}, err
	}
	refreshToken, err := s.mintRefreshToken(ctx, worker.WorkerID, jti)
	if err != nil {
		return model.LoginResult{}, err
	}

	slog.Info("worker logged in", "worker_id", worker.WorkerID, "employee_id", worker.EmployeeID)

	return model.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         worker.Profile(),
	}, nil
}

// Refresh rotates a refresh token: the presented token is validated against
// its server-side record, a brand-new pair is minted under a new jti, and the
// old record is deleted. Once rotation completes the old token is dead; a
// concurrent rotation racing on the same record loses at the delete and fails
// outright, which is what makes replay of a stolen token detectable.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		slog.Warn("refresh token failed verification", "error", err)
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}

	record, err := s.tokens.FindByTokenID(ctx, claims.ID)
	if errors.Is(err, model.ErrTokenNotFound) {
		slog.Warn("refresh token has no server-side record", "jti", claims.ID)
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("look up refresh token record: %w", err)
	}

	// Expiry is enforced at read time; a stale row that cleanup has not
	// reached yet is still dead.
	if record.Expired(s.clock()) {
		slog.Warn("refresh token record expired", "jti", claims.ID)
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}

	// Defense in depth: the signature already passed, but the presented
	// string must also match the stored hash.
	if !util.VerifySecret(refreshToken, record.TokenHash) {
		slog.Warn("refresh token hash mismatch", "jti", claims.ID)
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}

	// Re-fetch the worker so a role change since issuance takes effect now.
	worker, err := s.workers.FindByID(ctx, record.WorkerID)
	if errors.Is(err, model.ErrWorkerNotFound) {
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("load worker for refresh: %w", err)
	}

	newJTI := uuid.NewString()
	accessToken, err := s.mintAccessToken(worker, newJTI)
	if err != nil {
		return model.TokenPair{}, err
	}
	newRefreshToken, err := s.mintRefreshToken(ctx, worker.WorkerID, newJTI)
	if err != nil {
		return model.TokenPair{}, err
	}

	deleted, err := s.tokens.DeleteByID(ctx, record.ID)
	if err != nil {
		s.revokeQuietly(ctx, newJTI)
		return model.TokenPair{}, fmt.Errorf("delete rotated refresh token: %w", err)
	}
	if !deleted {
		// Lost the rotation race: another call redeemed this record first.
		// Withdraw the pair minted above so the loser leaves nothing behind.
		s.revokeQuietly(ctx, newJTI)
		slog.Warn("refresh token already rotated", "jti", claims.ID, "worker_id", record.WorkerID)
		return model.TokenPair{}, model.ErrInvalidRefreshToken
	}

	slog.Info("tokens refreshed", "worker_id", worker.WorkerID)

	return model.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes every record for the presented token's jti. It never fails
// the caller: a garbage token, a repeated logout, or a store error all end in
// an acknowledged logout, logged server-side.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		slog.Warn("logout with unverifiable refresh token", "error", err)
		return
	}

	if err := s.tokens.DeleteAllByTokenID(ctx, claims.ID); err != nil {
		slog.Error("failed to delete refresh token records on logout", "jti", claims.ID, "error", err)
		return
	}

	slog.Info("worker logged out", "jti", claims.ID)
}

// VerifyAccessToken checks the signature and expiry of an access token and
// returns its claims. Purely local; the token store is never consulted, so a
// rotated or revoked refresh token does not retract an already-issued access
// token.
func (s *AuthService) VerifyAccessToken(tokenString string) (*model.AuthClaims, error) {
	var claims accessClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.clock))
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrUnauthorized
	}

	return &model.AuthClaims{
		WorkerID:   claims.WorkerID,
		EmployeeID: claims.EmployeeID,
		Role:       claims.Role,
		TokenID:    claims.ID,
	}, nil
}

func (s *AuthService) GetWorkerByID(ctx context.Context, id int64) (model.Worker, error) {
	return s.workers.FindByID(ctx, id)
}

func (s *AuthService) verifyCredentials(ctx context.Context, employeeID string, password string) (model.Worker, error) {
	worker, err := s.workers.FindByEmployeeID(ctx, employeeID)
	if errors.Is(err, model.ErrWorkerNotFound) {
		slog.Warn("login attempt for unknown employee id", "employee_id", employeeID)
		return model.Worker{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Worker{}, fmt.Errorf("look up worker: %w", err)
	}

	if !util.VerifySecret(password, worker.PasswordHash) {
		slog.Warn("login attempt with wrong password", "employee_id", employeeID)
		return model.Worker{}, model.ErrInvalidCredentials
	}

	return worker, nil
}

func (s *AuthService) mintAccessToken(worker model.Worker, jti string) (string, error) {
	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		WorkerID:   worker.WorkerID,
		EmployeeID: worker.EmployeeID,
		Role:       worker.Role.RoleDescription,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", worker.WorkerID),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})

	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// mintRefreshToken signs a token carrying only the jti, then stores the
// argon2 hash of the signed string. A database read alone can never be
// replayed as a usable token.
func (s *AuthService) mintRefreshToken(ctx context.Context, workerID int64, jti string) (string, error) {
	now := s.clock()
	expiresAt := now.Add(s.refreshTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	hash, err := util.HashSecret(signed)
	if err != nil {
		return "", fmt.Errorf("hash refresh token: %w", err)
	}

	if _, err := s.tokens.Insert(ctx, hash, jti, workerID, expiresAt); err != nil {
		return "", fmt.Errorf("store refresh token record: %w", err)
	}

	return signed, nil
}

func (s *AuthService) parseRefreshToken(tokenString string) (*jwt.RegisteredClaims, error) {
	var claims refreshClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.clock))
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("refresh token claims are invalid")
	}
	return &claims.RegisteredClaims, nil
}

func (s *AuthService) revokeQuietly(ctx context.Context, jti string) {
	if err := s.tokens.DeleteAllByTokenID(ctx, jti); err != nil {
		slog.Error("failed to withdraw freshly minted refresh token", "jti", jti, "error", err)
	}
}
