// ABOUTME: Main entry point for the StudyFlow API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyflow-api/api"
	"studyflow-api/api/handlers"
	"studyflow-api/api/middleware"
	"studyflow-api/core/chat"
	"studyflow-api/core/interfaces"
	"studyflow-api/core/navigation"
	"studyflow-api/core/pipeline"
	"studyflow-api/core/scrape"
	"studyflow-api/core/topiclinks"
	"studyflow-api/infrastructure/cache/memory"
	"studyflow-api/infrastructure/cache/redis"
	stdhttp "studyflow-api/infrastructure/http/standard"
	logruslogger "studyflow-api/infrastructure/logger/logrus"
	"studyflow-api/infrastructure/storage/cachestore"
	"studyflow-api/infrastructure/storage/sqlite"
	"studyflow-api/pkg/config"
	"studyflow-api/pkg/featureflags"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
	})
	flags := featureflags.NewEnvManager("")
	logger.Info("Starting StudyFlow API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
	})

	cache := newCache(cfg, logger)

	highlights, err := sqlite.NewHighlightStore(cfg.Storage.HighlightDB)
	if err != nil {
		log.Fatalf("Failed to open highlight store: %v", err)
	}
	defer highlights.Close()

	transport := &middleware.LoggingRoundTripper{Transport: http.DefaultTransport, Logger: logger}
	fetchClient := stdhttp.NewStandardHTTPClient(cfg.Upstream.FetchTimeout,
		stdhttp.WithBearerToken(cfg.Upstream.APIKey),
		stdhttp.WithTransport(transport),
	)
	// chat replies stream for as long as CHAT_TIMEOUT allows, so no client timeout
	chatClient := stdhttp.NewStandardHTTPClient(0,
		stdhttp.WithBearerToken(cfg.Upstream.APIKey),
		stdhttp.WithTransport(transport),
	)

	fetcher, sources := newFetcher(cfg, flags, fetchClient, logger)

	extractor := topiclinks.NewDefaultExtractor()
	if len(cfg.Topics.Keywords) > 0 || len(cfg.Topics.BlockedHosts) > 0 {
		keywords, blocked := topiclinks.DefaultKeywords, topiclinks.DefaultBlockedHosts
		if len(cfg.Topics.Keywords) > 0 {
			keywords = cfg.Topics.Keywords
		}
		if len(cfg.Topics.BlockedHosts) > 0 {
			blocked = cfg.Topics.BlockedHosts
		}
		extractor = topiclinks.NewExtractor(topiclinks.TopicPattern(keywords), blocked)
	}

	readings := pipeline.NewService(fetcher, highlights, pipeline.New(extractor), logger)
	navigator := navigation.NewNavigator(
		readings,
		cachestore.NewSessionStore(cache, cfg.Cache.SessionTTL),
		logger,
		cfg.Upstream.FetchTimeout,
	)
	conversations := chat.NewService(
		chat.NewClient(chatClient, cfg.Upstream.ChatURL, logger),
		cachestore.NewConversationStore(cache, cfg.Cache.SessionTTL),
		logger,
		cfg.Upstream.ChatTimeout,
	)

	apiConfig := api.APIConfig{Logger: logger}
	if flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled) {
		apiConfig.RateLimit = cfg.Server.RateLimit
		apiConfig.RateWindow = time.Minute
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewReadingHandler(readings, logger, cfg.Upstream.FetchTimeout).RegisterRoutes(humaAPI)
	handlers.NewSessionHandler(navigator).RegisterRoutes(humaAPI)
	handlers.NewHighlightHandler(highlights).RegisterRoutes(humaAPI)
	handlers.NewChatHandler(conversations, navigator).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(sources, flags, highlights).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// replies stream for up to CHAT_TIMEOUT
		WriteTimeout: cfg.Upstream.ChatTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
			"sources": sources,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// newCache picks the configured cache backend, falling back to memory when
// redis is unreachable
func newCache(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	if cfg.Cache.Type == "redis" {
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return redisCache
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}
	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache()
}

// newFetcher builds the content fetch chain: scrape service, then proxy,
// then in-process extraction, each only when configured and enabled
func newFetcher(cfg *config.Config, flags featureflags.Manager, client interfaces.HTTPClient, logger interfaces.Logger) (interfaces.ContentFetcher, []string) {
	ctx := context.Background()
	var chain []scrape.Source

	if cfg.Upstream.ScrapeURL != "" {
		chain = append(chain, scrape.Source{
			Name: "scrape",
			Fetcher: scrape.NewClient(client, cfg.Upstream.ScrapeURL, logger,
				scrape.WithRetry(cfg.Upstream.ScrapeMaxAttempts, cfg.Upstream.ScrapeBackoff)),
		})
	}
	if cfg.Upstream.ProxyURL != "" && flags.IsEnabled(ctx, featureflags.ProxyFallback) {
		chain = append(chain, scrape.Source{
			Name:    "proxy",
			Fetcher: scrape.NewProxyClient(client, cfg.Upstream.ProxyURL, logger),
		})
	}
	// with nothing else configured the local extractor is the only source
	if len(chain) == 0 || flags.IsEnabled(ctx, featureflags.LocalFallback) {
		chain = append(chain, scrape.Source{
			Name:    "local",
			Fetcher: scrape.NewLocalExtractor(logger, cfg.Upstream.FetchTimeout),
		})
	}

	names := make([]string, 0, len(chain))
	for _, s := range chain {
		names = append(names, s.Name)
	}
	return scrape.NewChain(logger, chain...), names
}
