package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ConnectRedis opens the shared Redis client. Redis carries two workloads
// here: the recipe-feed cache (few larger values, bursty reads when a cached
// list expires) and the per-IP rate limiter (tiny INCRs on every request).
// The pool is sized for the limiter's steady traffic with headroom for
// feed-cache refills.
func ConnectRedis(redisURI string) error {
	if redisURI == "" {
		redisURI = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return err
	}

	opt.PoolSize = 16
	opt.MinIdleConns = 2
	opt.MaxRetries = 2
	opt.DialTimeout = 5 * time.Second
	// Limiter checks sit on the request path; fail fast rather than queue.
	opt.ReadTimeout = 2 * time.Second
	opt.WriteTimeout = 2 * time.Second
	opt.PoolTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 3 * time.Minute

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return err
	}

	RedisClient = client
	log.Println("✅ Connected to Redis (feed cache + rate limiter)")
	return nil
}

// DisconnectRedis closes the Redis connection.
func DisconnectRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}
