// db/redis.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/revguard/api/logging"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

// RateLimit counts requests per key in a fixed window and reports whether
// this request is still within the limit.
func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := RedisClient.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := RedisClient.Expire(ctx, redisKey, per).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// RevokeToken records a token ID as revoked until the token would have
// expired anyway. Used by logout.
func RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := fmt.Sprintf("revoked:%s", tokenID)
	if err := RedisClient.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	logger.Debug("Token revoked", zap.String("tokenID", tokenID))
	return nil
}

// IsTokenRevoked reports whether the token ID is on the revocation list.
func IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf("revoked:%s", tokenID)
	_, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
