package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// RateLimiter is a fixed-window request counter backed by Redis. With a nil
// client every request is allowed, matching the degraded mode the Redis
// initializer falls back to.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	key    string
	perIP  bool
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", time.Minute)
	viper.SetDefault("ratelimit.key", "global")
	viper.SetDefault("ratelimit.per_ip", false)

	return &RateLimiter{
		client: client,
		limit:  viper.GetInt64("ratelimit.requests"),
		window: viper.GetDuration("ratelimit.window"),
		key:    viper.GetString("ratelimit.key"),
		perIP:  viper.GetBool("ratelimit.per_ip"),
	}
}

// Allow reports whether the caller identified by key may proceed within the
// current window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.client.Expire(ctx, "ratelimit:"+key, rl.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= rl.limit, nil
}

// Handler gates requests through the limiter. Limiter errors fail open: a
// broken Redis should not take the API down with it.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.key
		if rl.perIP {
			key = r.RemoteAddr
		}

		allowed, err := rl.Allow(r.Context(), key)
		if err != nil {
			log.Printf("[RATELIMIT] Check failed, allowing request: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
