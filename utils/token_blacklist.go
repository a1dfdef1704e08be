package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.Mutex
)

// BlacklistToken revokes a session token until it expires.
// Redis is preferred; when it is unreachable the revocation is kept in memory.
func BlacklistToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		if err := rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err == nil {
			return
		} else {
			Sugar.Warnf("token blacklist via redis failed, using memory: %v", err)
		}
	}
	blacklistMu.Lock()
	blacklist[token] = expiresAt
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before its natural expiration.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	blacklistMu.Lock()
	exp, ok := blacklist[token]
	if ok && time.Now().After(exp) {
		delete(blacklist, token)
		ok = false
	}
	blacklistMu.Unlock()
	if ok {
		return true
	}

	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	n, err := rc.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		// fail open: an unreachable Redis must not sign everybody out
		return false
	}
	return n > 0
}
