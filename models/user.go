package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can claim and manage listings. Admin accounts can
// additionally moderate submissions.
type User struct {
	ID           string    `bson:"id" json:"id,omitempty"`
	Email        string    `bson:"email" json:"email,omitempty"`
	Name         string    `bson:"name" json:"name,omitempty"`
	Password     string    `bson:"-" json:"password,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Token        string    `bson:"-" json:"token,omitempty"`
	TokenHash    string    `bson:"tokenHash" json:"-"`
	Role         string    `bson:"role" json:"role,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// IsAdmin reports whether the account has moderation rights.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
