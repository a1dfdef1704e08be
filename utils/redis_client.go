package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/askme/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.Mutex
)

// GetRedis returns the shared Redis client, creating it from config on first use.
// Callers treat Redis as optional: every operation tolerates errors.
func GetRedis() *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient != nil {
		return redisClient
	}

	cfg := config.Get()
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		Sugar.Warnf("redis ping failed, cache will degrade: %v", err)
	}
	return redisClient
}

// SetRedis replaces the shared client, e.g. with one pointing at miniredis.
func SetRedis(c *redis.Client) {
	redisMu.Lock()
	redisClient = c
	redisMu.Unlock()
}
