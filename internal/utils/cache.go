package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Page key formatting
	"time"          // Time durations

	"github.com/google/uuid"       // Cache keys carry user ids
	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// BalanceCacheKey is the cache key for a user's wallet balance view
func BalanceCacheKey(userID uuid.UUID) string {
	return "wallet:user:" + userID.String()
}

// TxCacheKey is the cache key for one page of a user's transaction history
func TxCacheKey(userID uuid.UUID, limit, offset int) string {
	return "txhistory:user:" + userID.String() + ":limit:" + strconv.Itoa(limit) + ":offset:" + strconv.Itoa(offset)
}

// InvalidateWalletCaches drops the balance view and the leading history pages
// for a user after any wallet mutation. Only the first few pages are dropped
// (simple version); deeper pages age out with the TTL.
func InvalidateWalletCaches(ctx context.Context, rdb *redis.Client, userID uuid.UUID) {
	if rdb == nil {
		return // Cache disabled
	}
	_ = DeleteCache(ctx, rdb, BalanceCacheKey(userID)) // Invalidate balance view
	// Invalidate the common pagination shapes for the first 5 pages
	for _, limit := range []int{20, 50} {
		for page := 0; page < 5; page++ {
			_ = DeleteCache(ctx, rdb, TxCacheKey(userID, limit, page*limit))
		}
	}
}
