package voting

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/askme/models"
)

// VotesTotal counts vote requests by target, direction and whether state changed.
var VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "askme_votes_total",
	Help: "Total number of vote toggles by target, direction and outcome",
}, []string{"target", "direction", "changed"})

// Toggler applies votes against the like tables.
type Toggler struct {
	db *gorm.DB
}

// NewToggler creates a Toggler.
func NewToggler(db *gorm.DB) *Toggler {
	return &Toggler{db: db}
}

// Question applies vt for userID on an active question.
// changed is false when the like was already in the requested state.
func (t *Toggler) Question(ctx context.Context, userID, questionID uint, vt VoteType) (changed bool, err error) {
	db := t.db.WithContext(ctx)
	if err := requireActive(db, &models.Question{}, questionID); err != nil {
		return false, err
	}
	match := db.Model(&models.QuestionLike{}).Where("user_id = ? AND question_id = ?", userID, questionID).Session(&gorm.Session{})
	if vt.IsUp() {
		changed, err = like(db, match, &models.QuestionLike{UserID: userID, QuestionID: questionID})
	} else {
		changed, err = unlike(match, &models.QuestionLike{})
	}
	observe("question", vt, changed, err)
	return changed, err
}

// Answer applies vt for userID on an active answer.
func (t *Toggler) Answer(ctx context.Context, userID, answerID uint, vt VoteType) (changed bool, err error) {
	db := t.db.WithContext(ctx)
	if err := requireActive(db, &models.Answer{}, answerID); err != nil {
		return false, err
	}
	match := db.Model(&models.AnswerLike{}).Where("user_id = ? AND answer_id = ?", userID, answerID).Session(&gorm.Session{})
	if vt.IsUp() {
		changed, err = like(db, match, &models.AnswerLike{UserID: userID, AnswerID: answerID})
	} else {
		changed, err = unlike(match, &models.AnswerLike{})
	}
	observe("answer", vt, changed, err)
	return changed, err
}

func requireActive(db *gorm.DB, model interface{}, id uint) error {
	var n int64
	if err := db.Model(model).Where("id = ? AND is_active = ?", id, true).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// like inserts row unless match already finds one. A concurrent insert of the
// same pair is either skipped by ON CONFLICT or reported as a duplicate key,
// and both mean the like already exists.
func like(db, match *gorm.DB, row interface{}) (bool, error) {
	var n int64
	if err := match.Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func unlike(match *gorm.DB, model interface{}) (bool, error) {
	res := match.Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func observe(target string, vt VoteType, changed bool, err error) {
	if err != nil {
		return
	}
	VotesTotal.WithLabelValues(target, vt.Direction(), strconv.FormatBool(changed)).Inc()
}
