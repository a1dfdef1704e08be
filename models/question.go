package models

import "time"

// Question is asked by a user and answered by others.
// Inactive questions stay in storage but are hidden from every listing.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  *uint     `gorm:"index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	Tags      []Tag     `gorm:"many2many:question_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tags"`
	Answers   []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled by ranking queries, never stored.
	LikesCount   int64 `gorm:"->;-:migration" json:"likes_count"`
	AnswersCount int64 `gorm:"->;-:migration" json:"answers_count"`
	TotalRating  int64 `gorm:"->;-:migration" json:"total_rating"`
}

// TagNames returns the names of the loaded tags in order.
func (q *Question) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Name)
	}
	return names
}
