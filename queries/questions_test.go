package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/askme/models"
	"github.com/cppla/askme/testutil"
)

func ids(qs []models.Question) []uint {
	out := make([]uint, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestBestQuestions_TieBrokenByRecency(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)
	ctx := context.Background()

	users := fx.Users(5)
	q1 := fx.Question(users[0], 0)
	q2 := fx.Question(users[0], 10)

	fx.LikeQuestion(q1, users[0], users[1])
	for i := 0; i < 3; i++ {
		fx.Answer(q1, users[1], 1+i)
	}
	fx.LikeQuestion(q2, users...)

	got, err := store.BestQuestions().All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []uint{q2.ID, q1.ID}, ids(got))

	assert.Equal(t, int64(5), got[0].LikesCount)
	assert.Equal(t, int64(0), got[0].AnswersCount)
	assert.Equal(t, int64(5), got[0].TotalRating)
	assert.Equal(t, int64(2), got[1].LikesCount)
	assert.Equal(t, int64(3), got[1].AnswersCount)
	assert.Equal(t, int64(5), got[1].TotalRating)
}

func TestBestQuestions_HigherRatingFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	users := fx.Users(2)
	older := fx.Question(users[0], 0)
	newer := fx.Question(users[0], 5)
	fx.LikeQuestion(older, users...)

	got, err := store.BestQuestions().All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{older.ID, newer.ID}, ids(got))
}

func TestNewQuestions_OrderAndPreloads(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	u := fx.User("")
	a := fx.Question(u, 1, "go")
	b := fx.Question(nil, 3)
	c := fx.Question(u, 2, "go", "sql")

	got, err := store.NewQuestions().All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID, a.ID}, ids(got))

	assert.Nil(t, got[0].Author)
	require.NotNil(t, got[1].Author)
	assert.Equal(t, u.Username, got[1].Author.Username)
	require.NotNil(t, got[1].Author.Profile)
	assert.ElementsMatch(t, []string{"go", "sql"}, got[1].TagNames())
}

func TestHotQuestions_ByAnswerCount(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	users := fx.Users(3)
	liked := fx.Question(users[0], 0)
	answered := fx.Question(users[0], 1)
	fresh := fx.Question(users[0], 2)
	fx.LikeQuestion(liked, users...)
	fx.Answer(answered, users[1], 3)

	got, err := store.HotQuestions().All(context.Background())
	require.NoError(t, err)
	// likes do not count towards hotness; ties fall back to recency
	assert.Equal(t, []uint{answered.ID, fresh.ID, liked.ID}, ids(got))
}

func TestUnansweredQuestions_NeverContainsAnswered(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)

	u := fx.User("")
	open1 := fx.Question(u, 0)
	answered := fx.Question(u, 1)
	hiddenAnswer := fx.Question(u, 2)
	open2 := fx.Question(u, 3)

	fx.Answer(answered, u, 4)
	a := fx.Answer(hiddenAnswer, u, 5)
	require.NoError(t, db.Model(a).Update("is_active", false).Error)

	got, err := store.UnansweredQuestions().All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{open2.ID, open1.ID}, ids(got))

	n, err := store.UnansweredQuestions().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDeactivatedQuestion_HiddenButRowsKept(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)
	ctx := context.Background()

	u := fx.User("")
	visible := fx.Question(u, 0, "go")
	hidden := fx.Question(u, 1, "go")
	fx.Answer(hidden, u, 2)
	fx.LikeQuestion(hidden, u)
	fx.Deactivate(hidden)

	for name, l := range map[string]*Listing[models.Question]{
		"new":  store.NewQuestions(),
		"best": store.BestQuestions(),
		"hot":  store.HotQuestions(),
		"tags": store.WithTags("go"),
	} {
		got, err := l.All(ctx)
		require.NoError(t, err, name)
		assert.Equal(t, []uint{visible.ID}, ids(got), name)
	}

	_, err := store.QuestionByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var answers, likes int64
	require.NoError(t, db.Model(&models.Answer{}).Where("question_id = ?", hidden.ID).Count(&answers).Error)
	require.NoError(t, db.Model(&models.QuestionLike{}).Where("question_id = ?", hidden.ID).Count(&likes).Error)
	assert.Equal(t, int64(1), answers)
	assert.Equal(t, int64(1), likes)
}

func TestWithTags(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)
	ctx := context.Background()

	u := fx.User("")
	both := fx.Question(u, 0, "go", "sql")
	goOnly := fx.Question(u, 1, "go")
	fx.Question(u, 2, "rust")

	got, err := store.WithTags("go", "sql").All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{goOnly.ID, both.ID}, ids(got))

	n, err := store.WithTags("go", "sql").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err = store.WithTags("missing").All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.WithTags().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	exists, err := store.TagExists(ctx, "rust")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.TagExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListing_FetchWindow(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)
	ctx := context.Background()

	u := fx.User("")
	var all []uint
	for i := 0; i < 10; i++ {
		all = append([]uint{fx.Question(u, i).ID}, all...)
	}

	n, err := store.NewQuestions().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	page, err := store.NewQuestions().Fetch(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, all[3:6], ids(page))

	last, err := store.NewQuestions().Fetch(ctx, 3, 9)
	require.NoError(t, err)
	assert.Equal(t, all[9:], ids(last))
}

func TestQuestionByID(t *testing.T) {
	db := testutil.OpenDB(t)
	fx := testutil.NewFixtures(t, db)
	store := New(db)
	ctx := context.Background()

	u := fx.User("")
	q := fx.Question(u, 0, "go")
	fx.Answer(q, u, 1)
	fx.LikeQuestion(q, u)

	got, err := store.QuestionByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Title, got.Title)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.AnswersCount)
	assert.Equal(t, int64(2), got.TotalRating)
	assert.Equal(t, []string{"go"}, got.TagNames())

	_, err = store.QuestionByID(ctx, q.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
