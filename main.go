package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairyops/herdwise/api/audit"
	"github.com/dairyops/herdwise/api/cache"
	"github.com/dairyops/herdwise/api/config"
	"github.com/dairyops/herdwise/api/controller"
	"github.com/dairyops/herdwise/api/dao"
	"github.com/dairyops/herdwise/api/db"
	"github.com/dairyops/herdwise/api/flags"
	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/router"
	"github.com/dairyops/herdwise/api/service"
	"github.com/dairyops/herdwise/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Query cache over Redis, shared by services that memoize reads; the
	// tracker collects timings from every store and audit round trip
	queryCache := cache.NewQueryCache(cache.NewRedisStore(db.RedisClient))
	ttlPolicy := cache.NewTTLPolicyFromConfig()
	tracker := cache.NewTracker()

	// Audit trail: Elasticsearch-backed, with cached reads
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch audit repository", zap.Error(err))
	}
	auditService := audit.NewCachedService(audit.NewService(auditRepository), queryCache, ttlPolicy, tracker)

	// Initialize DAOs
	flagDAO := dao.NewFlagDAO(db.Neo4jDriver, auditService, tracker)

	// Rollout engine with its in-process flag cache
	engine := flags.NewEngine(flagDAO, flags.EngineConfig{
		CacheCapacity:      config.GetInt("flags.cache.capacity"),
		CacheShards:        config.GetInt("flags.cache.shards"),
		CacheTTL:           config.GetDuration("flags.cache.ttl"),
		EvictionPercentage: config.GetInt("flags.cache.evictionPercentage"),
		StrictKeys:         config.GetBool("flags.strictKeys"),
	})

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()
	flagService := service.NewFlagService(
		flagDAO,
		engine,
		validationUtil,
		notificationService,
		eventBus,
	)

	// Initialize controllers
	controllers := controller.NewControllers(flagService, auditService, tracker)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(
		controllers,
		engine,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
