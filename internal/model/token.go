package model

import "time"

// AuthClaims is the decoded payload of a verified access token, attached to
// the request context by the auth middleware.
type AuthClaims struct {
	WorkerID   int64  `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	TokenID    string `json:"jti"`
}

// RefreshTokenRecord is the persisted server-side half of a refresh token.
// Only the argon2 hash of the signed token string is stored; possession of a
// database row alone is not enough to redeem a refresh.
type RefreshTokenRecord struct {
	ID        int64
	TokenHash string
	TokenID   string
	WorkerID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (r RefreshTokenRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         WorkerProfile `json:"user"`
}
