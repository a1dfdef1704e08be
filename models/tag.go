package models

// Tag labels questions. Names are unique.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	QuestionsCount int64 `gorm:"->;-:migration" json:"questions_count,omitempty"`
}
