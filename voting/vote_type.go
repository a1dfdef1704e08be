// Package voting toggles likes on questions and answers.
//
// A like row's existence is the vote. "up" inserts the row if missing and
// "down" deletes it if present; repeating either is a no-op.
package voting

import (
	"errors"
	"fmt"
	"strings"
)

// VoteType is the raw vote_type form value.
type VoteType string

const (
	Up         VoteType = "up"
	Down       VoteType = "down"
	UpDetail   VoteType = "up_a"
	DownDetail VoteType = "down_a"

	detailSuffix = "_a"
)

var (
	ErrInvalidVoteType = errors.New("invalid vote type")
	ErrTargetNotFound  = errors.New("vote target not found")
)

// ParseVoteType accepts up, down, up_a and down_a.
func ParseVoteType(raw string) (VoteType, error) {
	switch vt := VoteType(strings.TrimSpace(raw)); vt {
	case Up, Down, UpDetail, DownDetail:
		return vt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVoteType, raw)
	}
}

// IsUp reports whether the vote adds a like.
func (vt VoteType) IsUp() bool {
	return vt == Up || vt == UpDetail
}

// FromDetail reports whether the vote was cast on a question detail page.
func (vt VoteType) FromDetail() bool {
	return strings.HasSuffix(string(vt), detailSuffix)
}

// Direction is the metric label for the vote.
func (vt VoteType) Direction() string {
	if vt.IsUp() {
		return "up"
	}
	return "down"
}

// QuestionRedirect is where a question vote sends the browser back to:
// the question itself when cast from its detail page, the index otherwise.
func QuestionRedirect(questionID uint, vt VoteType) string {
	if vt.FromDetail() {
		return QuestionPath(questionID)
	}
	return "/"
}

// AnswerRedirect always returns to the owning question.
func AnswerRedirect(questionID uint) string {
	return QuestionPath(questionID)
}

// QuestionPath is the detail URL of a question.
func QuestionPath(questionID uint) string {
	return fmt.Sprintf("/question/%d/", questionID)
}
