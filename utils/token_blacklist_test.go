package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistToken_Redis(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	assert.False(t, IsTokenBlacklisted(ctx, "tok-a"))
	BlacklistToken(ctx, "tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))
	assert.True(t, mr.Exists(blacklistPrefix+"tok-a"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, IsTokenBlacklisted(ctx, "tok-a"))
}

func TestBlacklistToken_ExpiredIsIgnored(t *testing.T) {
	mr := useMiniredis(t)
	BlacklistToken(context.Background(), "tok-old", time.Now().Add(-time.Minute))
	assert.False(t, mr.Exists(blacklistPrefix+"tok-old"))
	assert.False(t, IsTokenBlacklisted(context.Background(), "tok-old"))
}

func TestBlacklistToken_MemoryFallback(t *testing.T) {
	useDeadRedis(t)
	ctx := context.Background()

	assert.False(t, IsTokenBlacklisted(ctx, "tok-mem"))
	BlacklistToken(ctx, "tok-mem", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-mem"))

	blacklistMu.Lock()
	blacklist["tok-mem"] = time.Now().Add(-time.Second)
	blacklistMu.Unlock()
	assert.False(t, IsTokenBlacklisted(ctx, "tok-mem"))
}
