package auth

import (
	"time"

	"github.com/lib/pq"
)

const SessionTTL = 6 * time.Hour

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

type User struct {
	UserID         string         `gorm:"primaryKey" json:"user_id"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string         `gorm:"not null" json:"-"`
	Roles          pq.StringArray `gorm:"type:text[];default:'{user}'" json:"roles"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Session) TableName() string { return "app_auth.sessions" }
func (User) TableName() string    { return "app_auth.users" }

// HasRole is case-sensitive.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type updateRoles struct {
	Roles []string `json:"roles"`
}
