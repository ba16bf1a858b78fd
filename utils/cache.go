// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"directory101/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the listing page cache.
	CacheClient *redis.Client
	// RecordsClient backs the record-store listing adapter.
	RecordsClient *redis.Client
)

// InitCache initializes the Redis client for the listing page cache.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the page cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitRecordsStore initializes the Redis client for the record-store backend.
func InitRecordsStore() {
	RecordsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRecordsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := RecordsClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Records): %v", err)
	}
}

// GetRecordsClient returns the record-store client.
func GetRecordsClient() *redis.Client {
	if RecordsClient == nil {
		InitRecordsStore()
	}
	return RecordsClient
}
