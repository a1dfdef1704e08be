package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cppla/askme/models"
)

const answerSelect = "answers.*, " +
	"(SELECT COUNT(DISTINCT al.user_id) FROM answer_likes al WHERE al.answer_id = answers.id) AS likes_count"

func (s *Store) answers(questionID uint, order ...string) *Listing[models.Answer] {
	order = append(order, "answers.id DESC")
	return &Listing[models.Answer]{
		db: s.db,
		scope: func(tx *gorm.DB) *gorm.DB {
			tx = tx.Where("answers.is_active = ?", true)
			if questionID != 0 {
				tx = tx.Where("answers.question_id = ?", questionID)
			}
			return tx
		},
		selects:  answerSelect,
		order:    order,
		preloads: []string{"Author.Profile"},
	}
}

// BestAnswers lists active answers by likes, newest first on ties.
// A zero questionID ranks answers across all questions.
func (s *Store) BestAnswers(questionID uint) *Listing[models.Answer] {
	return s.answers(questionID, "likes_count DESC", "answers.created_at DESC")
}

// AnswersForQuestion lists the active answers of one question, newest first.
func (s *Store) AnswersForQuestion(questionID uint) *Listing[models.Answer] {
	return s.answers(questionID, "answers.created_at DESC")
}

// AnswerQuestionID resolves the question an active answer belongs to.
func (s *Store) AnswerQuestionID(ctx context.Context, answerID uint) (uint, error) {
	var a models.Answer
	err := s.db.WithContext(ctx).Select("id", "question_id").
		Where("id = ? AND is_active = ?", answerID, true).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return a.QuestionID, nil
}
