package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the subset of the users subsystem's record the graph needs for display.
// The graph never writes it; it is read through a UserDirectory.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)" bson:"_id"`
	Username  string    `json:"username" gorm:"uniqueIndex" bson:"username"`
	FullName  string    `json:"full_name" bson:"full_name"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the read projection used to decorate graph and feed results
type UserSummary struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// ToSummary projects a user record onto its display summary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}
