package domain

import "context"

// Account is an administrator allowed to use the admin API.
type Account struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
}

// AccountRepository defines the data access interface for admin accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// Upsert creates the account or replaces name and password hash of an
	// existing account with the same email.
	Upsert(ctx context.Context, account *Account) error
}

// AuthService authenticates admins and verifies issued tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Token, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, token string) error
}

// Token is an issued bearer token.
type Token struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// Claims identifies the admin behind a verified token.
type Claims struct {
	AccountID string
	Email     string
}
