package model

import "time"

// User holds the account identity plus the single OTP challenge slot.
// A fresh OTP always overwrites the previous one, so one set of fields
// per user is enough for both email verification and password resets.
type User struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"userId"`
	FullName       string `gorm:"size:100;not null" json:"fullName"`
	Email          string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"size:255;not null" json:"-"`
	Plan           string `gorm:"size:20;not null;default:Demo" json:"plan"`
	EmailConfirmed bool   `gorm:"not null;default:false" json:"emailConfirmed"`

	OTPHash      *string    `gorm:"size:64" json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `gorm:"not null;default:0" json:"-"`

	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
