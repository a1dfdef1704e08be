package models

import "time"

// Answer belongs to exactly one question and is removed together with it.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   *uint     `gorm:"index" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
}
