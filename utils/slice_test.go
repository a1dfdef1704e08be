package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "redis"}, SplitCommaList(" go,sql , ,redis,go,"))
	assert.Empty(t, SplitCommaList(""))
	assert.Empty(t, SplitCommaList(" , ,"))
	assert.Equal(t, []string{"Go", "go"}, SplitCommaList("Go,go"))
}
