package voting

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/askme/models"
	fixtures "github.com/cppla/askme/testutil"
)

func countQuestionLikes(t *testing.T, db *gorm.DB, userID, questionID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.QuestionLike{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).Count(&n).Error)
	return n
}

func TestToggler_QuestionUpUpDownDown(t *testing.T) {
	db := fixtures.OpenDB(t)
	fx := fixtures.NewFixtures(t, db)
	toggler := NewToggler(db)
	ctx := context.Background()

	u := fx.User("")
	q := fx.Question(u, 0)

	steps := []struct {
		vt      VoteType
		changed bool
		rows    int64
	}{
		{Up, true, 1},
		{Up, false, 1},
		{Down, true, 0},
		{Down, false, 0},
		{UpDetail, true, 1},
		{DownDetail, true, 0},
	}
	for i, s := range steps {
		changed, err := toggler.Question(ctx, u.ID, q.ID, s.vt)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.changed, changed, "step %d", i)
		assert.Equal(t, s.rows, countQuestionLikes(t, db, u.ID, q.ID), "step %d", i)
	}
}

func TestToggler_QuestionLikesAreIndependentPerUser(t *testing.T) {
	db := fixtures.OpenDB(t)
	fx := fixtures.NewFixtures(t, db)
	toggler := NewToggler(db)
	ctx := context.Background()

	users := fx.Users(2)
	q := fx.Question(users[0], 0)

	for _, u := range users {
		changed, err := toggler.Question(ctx, u.ID, q.ID, Up)
		require.NoError(t, err)
		assert.True(t, changed)
	}
	changed, err := toggler.Question(ctx, users[0].ID, q.ID, Down)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, int64(0), countQuestionLikes(t, db, users[0].ID, q.ID))
	assert.Equal(t, int64(1), countQuestionLikes(t, db, users[1].ID, q.ID))
}

func TestToggler_Answer(t *testing.T) {
	db := fixtures.OpenDB(t)
	fx := fixtures.NewFixtures(t, db)
	toggler := NewToggler(db)
	ctx := context.Background()

	u := fx.User("")
	q := fx.Question(u, 0)
	a := fx.Answer(q, u, 1)

	changed, err := toggler.Answer(ctx, u.ID, a.ID, Up)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = toggler.Answer(ctx, u.ID, a.ID, Up)
	require.NoError(t, err)
	assert.False(t, changed)

	var n int64
	require.NoError(t, db.Model(&models.AnswerLike{}).Where("answer_id = ?", a.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	changed, err = toggler.Answer(ctx, u.ID, a.ID, Down)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, db.Model(&models.AnswerLike{}).Where("answer_id = ?", a.ID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestToggler_MissingOrInactiveTarget(t *testing.T) {
	db := fixtures.OpenDB(t)
	fx := fixtures.NewFixtures(t, db)
	toggler := NewToggler(db)
	ctx := context.Background()

	u := fx.User("")
	q := fx.Question(u, 0)
	fx.Deactivate(q)

	_, err := toggler.Question(ctx, u.ID, q.ID, Up)
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.Equal(t, int64(0), countQuestionLikes(t, db, u.ID, q.ID))

	_, err = toggler.Answer(ctx, u.ID, 404, Up)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestToggler_CountsVotes(t *testing.T) {
	db := fixtures.OpenDB(t)
	fx := fixtures.NewFixtures(t, db)
	toggler := NewToggler(db)
	ctx := context.Background()

	u := fx.User("")
	q := fx.Question(u, 0)

	before := testutil.ToFloat64(VotesTotal.WithLabelValues("question", "up", "false"))
	_, err := toggler.Question(ctx, u.ID, q.ID, Up)
	require.NoError(t, err)
	_, err = toggler.Question(ctx, u.ID, q.ID, Up)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(VotesTotal.WithLabelValues("question", "up", "false")))
}

// A concurrent request may insert the same like between the existence check
// and the insert; MySQL then reports error 1062.
func TestToggler_DuplicateKeyRaceIsNoop(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `questions`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `question_likes`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `question_likes`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-1' for key 'idx_question_likes_user_question'"})
	mock.ExpectRollback()

	changed, err := NewToggler(db).Question(context.Background(), 1, 1, Up)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
