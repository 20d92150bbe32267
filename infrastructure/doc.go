// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, storage, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache on patrickmn/go-cache
// - cache/redis: Redis-based cache implementation
// - storage/cachestore: Session and conversation stores on any cache backend
// - storage/sqlite: Persistent highlight store
// - http/standard: Standard library HTTP client with retry logic
// - logger/logrus: Structured logger on sirupsen/logrus
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address:   "localhost:6379",
//	    KeyPrefix: "studyflow:",
//	})
//
// # HTTP Client
//
// GET requests are retried on 5xx responses and network errors:
//
//	client := standard.NewStandardHTTPClient(30*time.Second, standard.WithBearerToken(key))
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "info", Format: "json"})
//	logger.Info("Page loaded", map[string]interface{}{
//	    "session_id": id,
//	    "url":        url,
//	})
package infrastructure
