package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is the auth identity. Passwords are stored as bcrypt hashes only.
// Display data lives in UserProfile.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email        string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Profile      *UserProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`

	AnswersCount   int64 `gorm:"->;-:migration" json:"answers_count,omitempty"`
	QuestionsCount int64 `gorm:"->;-:migration" json:"questions_count,omitempty"`
}

// BeforeSave normalizes identity fields so uniqueness checks are case-insensitive for email.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// DisplayName prefers the profile nickname over the login.
func (u *User) DisplayName() string {
	if u.Profile != nil && u.Profile.Nickname != "" {
		return u.Profile.Nickname
	}
	return u.Username
}
