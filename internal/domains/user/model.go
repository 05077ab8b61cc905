package user

import "time"

// User maps 1:1 to the users table. The password hash and the
// timestamps never leave the API.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Token is a persisted refresh token row.
type Token struct {
	ID        int64
	UserID    int64
	Type      string
	Token     string
	IsRevoked bool
	CreatedAt time.Time
}

// AuthTokens is the login and refresh response payload.
type AuthTokens struct {
	Type         string `json:"type"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
