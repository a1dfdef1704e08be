package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteType(t *testing.T) {
	tests := []struct {
		raw        string
		up         bool
		fromDetail bool
		redirect   string
	}{
		{"up", true, false, "/"},
		{"down", false, false, "/"},
		{"up_a", true, true, "/question/7/"},
		{" down_a ", false, true, "/question/7/"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			vt, err := ParseVoteType(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.up, vt.IsUp())
			assert.Equal(t, tt.fromDetail, vt.FromDetail())
			assert.Equal(t, tt.redirect, QuestionRedirect(7, vt))
		})
	}

	for _, raw := range []string{"", "UP", "sideways", "up_b"} {
		_, err := ParseVoteType(raw)
		assert.ErrorIs(t, err, ErrInvalidVoteType, raw)
	}
}

func TestAnswerRedirect(t *testing.T) {
	assert.Equal(t, "/question/12/", AnswerRedirect(12))
}
