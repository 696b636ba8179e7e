package models

import (
	"gorm.io/gorm"
)

// User représente un utilisateur dans la base de données

type Role string

const (
	UserRole Role = "USER"
)

type User struct {
	gorm.Model
	Email          string `json:"email" gorm:"uniqueIndex"`
	Password       string `json:"-"`
	UserName       string `json:"username"`
	Role           Role   `json:"role"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
	Enable         bool   `json:"enable"`
	MessageEnable  bool   `json:"messageEnable"`
}

// UserCreate model for registering or logging in
// @Description credentials used by /register and /login
type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	UserName string `json:"username"`
}

// UserSummary is the public identity of a conversation counterpart
type UserSummary struct {
	ID             uint   `json:"id"`
	UserName       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		UserName:       u.UserName,
		ProfilePicture: u.ProfilePicture,
	}
}

// MessagingSettings model for toggling private messages
// @Description whether other users may send private messages to the caller
type MessagingSettings struct {
	MessageEnable *bool `json:"messageEnable" binding:"required"`
}
