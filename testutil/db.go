// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/askme/config"
	"github.com/cppla/askme/models"
)

// OpenDB returns a migrated in-memory SQLite database closed at test end.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixtures creates rows with predictable names and timestamps.
type Fixtures struct {
	t    *testing.T
	db   *gorm.DB
	seq  int
	base time.Time
}

// NewFixtures starts a fixture builder on db.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db, base: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// At returns the base time shifted by n minutes.
func (f *Fixtures) At(n int) time.Time {
	return f.base.Add(time.Duration(n) * time.Minute)
}

// User creates a user with a profile and the given bcrypt hash (may be empty).
func (f *Fixtures) User(passwordHash string) *models.User {
	f.t.Helper()
	f.seq++
	u := &models.User{
		Username:     fmt.Sprintf("user%d", f.seq),
		Email:        fmt.Sprintf("user%d@example.com", f.seq),
		PasswordHash: passwordHash,
		Profile:      &models.UserProfile{Nickname: fmt.Sprintf("Nick %d", f.seq)},
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// Users creates n users.
func (f *Fixtures) Users(n int) []*models.User {
	out := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.User(""))
	}
	return out
}

// Question creates an active question created at minute n, tagged with tags.
func (f *Fixtures) Question(author *models.User, minute int, tags ...string) *models.Question {
	f.t.Helper()
	f.seq++
	q := &models.Question{
		Title:     fmt.Sprintf("Question %d", f.seq),
		Content:   "content",
		IsActive:  true,
		CreatedAt: f.At(minute),
	}
	if author != nil {
		q.AuthorID = &author.ID
	}
	for _, name := range tags {
		var tag models.Tag
		require.NoError(f.t, f.db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error)
		q.Tags = append(q.Tags, tag)
	}
	require.NoError(f.t, f.db.Create(q).Error)
	return q
}

// Answer creates an active answer on q at minute n.
func (f *Fixtures) Answer(q *models.Question, author *models.User, minute int) *models.Answer {
	f.t.Helper()
	a := &models.Answer{Content: "answer", QuestionID: q.ID, IsActive: true, CreatedAt: f.At(minute)}
	if author != nil {
		a.AuthorID = &author.ID
	}
	require.NoError(f.t, f.db.Create(a).Error)
	return a
}

// LikeQuestion stores a like of q by each user.
func (f *Fixtures) LikeQuestion(q *models.Question, users ...*models.User) {
	f.t.Helper()
	for _, u := range users {
		require.NoError(f.t, f.db.Create(&models.QuestionLike{UserID: u.ID, QuestionID: q.ID}).Error)
	}
}

// LikeAnswer stores a like of a by each user.
func (f *Fixtures) LikeAnswer(a *models.Answer, users ...*models.User) {
	f.t.Helper()
	for _, u := range users {
		require.NoError(f.t, f.db.Create(&models.AnswerLike{UserID: u.ID, AnswerID: a.ID}).Error)
	}
}

// Deactivate hides a question. The update is explicit because gorm skips
// zero values on insert and the column defaults to true.
func (f *Fixtures) Deactivate(q *models.Question) {
	f.t.Helper()
	require.NoError(f.t, f.db.Model(q).Update("is_active", false).Error)
}
