package queries

import (
	"context"

	"github.com/cppla/askme/models"
)

const (
	// DefaultPopularTags is the number of tags shown in the sidebar.
	DefaultPopularTags = 10
	// DefaultBestMembers is the number of members shown in the sidebar.
	DefaultBestMembers = 5
)

// PopularTags returns the tags used by the most questions.
func (s *Store) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = DefaultPopularTags
	}
	var tags []models.Tag
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.*, (SELECT COUNT(*) FROM question_tags qt WHERE qt.tag_id = tags.id) AS questions_count").
		Order("questions_count DESC").
		Order("tags.name ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// BestMembers returns the users with the most answers, then the most questions.
func (s *Store) BestMembers(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = DefaultBestMembers
	}
	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*, " +
			"(SELECT COUNT(*) FROM answers a WHERE a.author_id = users.id) AS answers_count, " +
			"(SELECT COUNT(*) FROM questions q WHERE q.author_id = users.id) AS questions_count").
		Order("answers_count DESC").
		Order("questions_count DESC").
		Order("users.id ASC").
		Preload("Profile").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Sidebar is the aggregate shown next to every listing.
type Sidebar struct {
	Tags    []string `json:"tags"`
	Members []Member `json:"members"`
}

// Member is the public view of a best member.
type Member struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Answers   int64  `json:"answers_count"`
	Questions int64  `json:"questions_count"`
}

// LoadSidebar gathers popular tags and best members.
func (s *Store) LoadSidebar(ctx context.Context) (Sidebar, error) {
	tags, err := s.PopularTags(ctx, DefaultPopularTags)
	if err != nil {
		return Sidebar{}, err
	}
	users, err := s.BestMembers(ctx, DefaultBestMembers)
	if err != nil {
		return Sidebar{}, err
	}
	sb := Sidebar{
		Tags:    make([]string, 0, len(tags)),
		Members: make([]Member, 0, len(users)),
	}
	for _, t := range tags {
		sb.Tags = append(sb.Tags, t.Name)
	}
	for i := range users {
		u := &users[i]
		m := Member{ID: u.ID, Username: u.Username, Nickname: u.DisplayName(), Answers: u.AnswersCount, Questions: u.QuestionsCount}
		if u.Profile != nil {
			m.AvatarURL = u.Profile.AvatarURL
		}
		sb.Members = append(sb.Members, m)
	}
	return sb, nil
}
