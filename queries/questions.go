package queries

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/askme/models"
)

const (
	questionLikesExpr   = "(SELECT COUNT(DISTINCT ql.user_id) FROM question_likes ql WHERE ql.question_id = questions.id)"
	questionAnswersExpr = "(SELECT COUNT(DISTINCT a.id) FROM answers a WHERE a.question_id = questions.id)"

	questionSelect = "questions.*, " +
		questionLikesExpr + " AS likes_count, " +
		questionAnswersExpr + " AS answers_count, " +
		questionLikesExpr + " + " + questionAnswersExpr + " AS total_rating"
)

var questionPreloads = []string{"Author.Profile", "Tags"}

func activeQuestions(tx *gorm.DB) *gorm.DB {
	return tx.Where("questions.is_active = ?", true)
}

func (s *Store) questions(scope func(*gorm.DB) *gorm.DB, order ...string) *Listing[models.Question] {
	// id DESC keeps rows with identical timestamps in a stable order
	order = append(order, "questions.id DESC")
	return &Listing[models.Question]{
		db:       s.db,
		scope:    scope,
		selects:  questionSelect,
		order:    order,
		preloads: questionPreloads,
	}
}

// NewQuestions lists active questions, newest first.
func (s *Store) NewQuestions() *Listing[models.Question] {
	return s.questions(activeQuestions, "questions.created_at DESC")
}

// BestQuestions lists active questions by total rating (likes plus answers), newest first on ties.
func (s *Store) BestQuestions() *Listing[models.Question] {
	return s.questions(activeQuestions, "total_rating DESC", "questions.created_at DESC")
}

// HotQuestions lists active questions by number of answers, newest first on ties.
func (s *Store) HotQuestions() *Listing[models.Question] {
	return s.questions(activeQuestions, "answers_count DESC", "questions.created_at DESC")
}

// UnansweredQuestions lists active questions without a single answer row.
func (s *Store) UnansweredQuestions() *Listing[models.Question] {
	return s.questions(func(tx *gorm.DB) *gorm.DB {
		return activeQuestions(tx).Where("NOT EXISTS (SELECT 1 FROM answers a WHERE a.question_id = questions.id)")
	}, "questions.created_at DESC")
}

// WithTags lists active questions carrying at least one of the names.
// Each question appears once however many of the names it carries.
// Unknown names simply match nothing.
func (s *Store) WithTags(names ...string) *Listing[models.Question] {
	return s.questions(func(tx *gorm.DB) *gorm.DB {
		if len(names) == 0 {
			return tx.Where("1 = 0")
		}
		return activeQuestions(tx).Where(
			"questions.id IN (SELECT qt.question_id FROM question_tags qt JOIN tags t ON t.id = qt.tag_id WHERE t.name IN ?)",
			names,
		)
	}, "questions.created_at DESC")
}

// QuestionByID loads one active question with author, tags and counts.
func (s *Store) QuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	return s.questions(func(tx *gorm.DB) *gorm.DB {
		return activeQuestions(tx).Where("questions.id = ?", id)
	}).First(ctx)
}

// TagExists reports whether a tag with the exact name is stored.
func (s *Store) TagExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}
