package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Preference struct {
	ID                 int64     `db:"id"`
	UserID             string    `db:"user_id"`
	ClassificationID   string    `db:"classification_id"`
	ClassificationName string    `db:"classification_name"`
	CreatedAt          time.Time `db:"created_at"`
}

type Favorite struct {
	UserID          string    `db:"user_id"`
	EventExternalID string    `db:"event_external_id"`
	CreatedAt       time.Time `db:"created_at"`
}

type BlacklistedToken struct {
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
