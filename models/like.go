package models

import "time"

// QuestionLike records that a user liked a question.
// The row's existence is the vote; (user_id, question_id) is unique.
type QuestionLike struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_question_likes_user_question" json:"user_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_question_likes_user_question;index" json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Question *Question `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// AnswerLike records that a user liked an answer.
type AnswerLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_answer_likes_user_answer" json:"user_id"`
	AnswerID  uint      `gorm:"not null;uniqueIndex:idx_answer_likes_user_answer;index" json:"answer_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Answer *Answer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
