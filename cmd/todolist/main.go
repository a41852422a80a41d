package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"todolist/internal/handler"
	"todolist/internal/metric"
	"todolist/internal/repositories"
	"todolist/internal/service"
	"todolist/migrations"
)

func main() {

	// Init Metrics
	metric.InitMetrics()

	// Configuration via environment variables
	dbDriver := getenv("DATABASE_DRIVER", "postgres")
	dbURL := getenv("DATABASE_URL", "")
	redisAddr := getenv("REDIS_ADDR", "")
	tasksKey := getenv("TASKS_KEY", "tasks")
	port := getenv("PORT", "8080")
	cacheTTL, err := time.ParseDuration(getenv("CACHE_TTL", "60s"))
	if err != nil {
		log.Fatalf("invalid CACHE_TTL: %v", err)
	}

	// Redis is optional. Accepts REDIS_ADDR like "localhost:6379" or "redis://localhost:6379"
	var rdb *redis.Client
	if redisAddr != "" {
		redisAddr = strings.TrimPrefix(redisAddr, "redis://")
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Printf("redis not available at %s: %v", redisAddr, err)
			_ = rdb.Close()
			rdb = nil
		}
	}

	// Store selection: sql (with optional redis cache) > redis > memory
	var store repositories.Store
	switch {
	case dbURL != "":
		db, err := sqlx.Connect(dbDriver, dbURL)
		if err != nil {
			log.Fatalf("unable to connect to database: %v", err)
		}
		defer db.Close()

		if err := migrations.EnsureSchema(db); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		store = repositories.NewSQLStore(db)
		if rdb != nil {
			store = repositories.NewCachedStore(store, rdb, cacheTTL)
			log.Printf("redis cache enabled (addr=%s, ttl=%s)", redisAddr, cacheTTL)
		}
		log.Printf("using %s store", dbDriver)
	case rdb != nil:
		store = repositories.NewRedisStore(rdb)
		log.Printf("using redis store (addr=%s)", redisAddr)
	default:
		store = repositories.NewMemoryStore()
		log.Printf("warning: no DATABASE_URL or REDIS_ADDR, tasks are kept in memory only")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	svc, err := service.NewTaskService(ctx, store, tasksKey)
	cancel()
	if err != nil {
		log.Fatalf("failed to load tasks: %v", err)
	}

	h := handler.NewTaskHandler(svc)

	// Gin router setup
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestID())
	r.Use(gin.Logger())
	r.Use(metric.PrometheusMiddleware())

	// Health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(metric.PromhttpHandler()))

	// API v1
	h.RegisterRoutes(r.Group("/api/v1"))

	addr := fmt.Sprintf(":%s", port)
	log.Printf("starting server on %s (tasks key %q)", addr, tasksKey)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server exited: %v", err)
	}
}

// getenv returns environment variable or defaultVal
func getenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
