package app

import (
	"context"
	"log"
	"os"
	"strings"

	"browser-crawler/internal/middleware"
	"browser-crawler/internal/networker"
	"browser-crawler/internal/pageparser"
	"browser-crawler/internal/pages"
	"browser-crawler/internal/processor"
	"browser-crawler/internal/processor/queue"
	"browser-crawler/internal/utils"
	"browser-crawler/internal/webcrawler"
	"browser-crawler/internal/webcrawler/cache"
	"browser-crawler/internal/webcrawler/runstates"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neoconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.uber.org/zap"
)

func InitApp() *CrawlerApp {
	initEnv()

	logger := initLogger()

	tp := initTracing(logger)

	neo4jDriver := initNeo4jDriver(logger)
	pageRepo := pages.NewNeo4jPageRepo(logger, neo4jDriver)

	redisURI := mustGetenv(logger, "REDIS_URI")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	nodeID, err := utils.GenerateID()
	if err != nil {
		logger.Fatalf("Error generating node ID: %v", err)
	}

	runStateManager := runstates.NewRedisRunStateManager(
		initRedisClient(logger, redisURI, redisPassword, 2), logger, nodeID)

	tasksQueue := initQueue(logger, "KAFKA_TOPIC_TASKS", "KAFKA_TASKS_CONSUMER_GROUP")
	runsQueue := initQueue(logger, "KAFKA_TOPIC_RUNS", "KAFKA_RUNS_CONSUMER_GROUP")
	processorQueue := processor.NewQueueProcessor(logger, tasksQueue, runsQueue, runStateManager)

	fetcher := networker.NewHTTPFetcher(logger)
	parser := pageparser.NewLinkParser(logger)

	pagesCache := cache.NewRedisStorage(initRedisClient(logger, redisURI, redisPassword, 0), logger)
	robotsCache := cache.NewRedisStorage(initRedisClient(logger, redisURI, redisPassword, 1), logger)

	browserMW := initBrowserMiddleware(logger)

	middlewares := middleware.Chain{
		middleware.NewRobots(logger, fetcher, robotsCache, UserAgent),
		browserMW,
	}

	crawler := webcrawler.NewCrawlerRepo(logger, parser, fetcher, middlewares, pagesCache, runStateManager)

	return NewCrawlerApp(logger, crawler, pageRepo, processorQueue, runStateManager, browserMW, tp)
}

// initBrowserMiddleware builds the browser middleware from the BROWSER_*
// settings. Misconfiguration is fatal before the crawl starts.
func initBrowserMiddleware(logger *zap.SugaredLogger) *middleware.BrowserMiddleware {
	settings := middleware.SettingsFromEnv()

	browserMW, err := middleware.NewBrowser(logger, settings)
	if err != nil {
		logger.Fatalf("Error initializing browser middleware: %v", err)
	}

	return browserMW
}

func initRedisClient(logger *zap.SugaredLogger, uri, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     uri,
		Password: password,
		DB:       db,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Fatalf("redisotel tracing err: %v", err)
	}

	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		logger.Fatalf("redisotel metrics err: %v", err)
	}

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatalf("Failed to connect to redis db %d: %v", db, err)
	}

	logger.Infow("Connected to redis", "addr", uri, "db", db)
	return rdb
}

func initQueue(logger *zap.SugaredLogger, topicKey, groupKey string) queue.Queue {
	cfg := queue.KafkaConfig{
		Seeds:         strings.Split(mustGetenv(logger, "KAFKA_ADDR"), ","),
		ConsumerGroup: mustGetenv(logger, groupKey),
		Topic:         mustGetenv(logger, topicKey),
	}

	q, err := queue.NewKafkaQueue(logger, &cfg)
	if err != nil {
		logger.Fatalf("Error initializing kafka queue for %s: %v", cfg.Topic, err)
	}

	return q
}

func initNeo4jDriver(logger *zap.SugaredLogger) neo4j.DriverWithContext {
	neo4jURI := mustGetenv(logger, "NEO4J_URI")
	neo4jUser := mustGetenv(logger, "NEO4J_USER")
	neo4jPassword := mustGetenv(logger, "NEO4J_PASSWORD")

	neo4jDriver, err := neo4j.NewDriverWithContext(neo4jURI,
		neo4j.BasicAuth(neo4jUser, neo4jPassword, ""),
		func(config *neoconfig.Config) {
			config.MaxConnectionPoolSize = DefaultConcurrentTasksWorkers
		})
	if err != nil {
		logger.Fatalf("Error initializing neo4j: %v", err)
	}

	return neo4jDriver
}

func initTracing(logger *zap.SugaredLogger) *trace.TracerProvider {
	otlpEndpoint := mustGetenv(logger, "OTLP_ENDPOINT")

	exp, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(otlpEndpoint),
		otlptracehttp.WithInsecure())
	if err != nil {
		logger.Fatalf("Error initializing otlp exporter: %v", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String("browser-crawler")),
	)
	if err != nil {
		logger.Fatalf("Error initializing otel resource: %v", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)

	return tracerProvider
}

func initLogger() *zap.SugaredLogger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error initializing zap logger: %v", err)
	}

	return zapLogger.Sugar()
}

func mustGetenv(logger *zap.SugaredLogger, key string) string {
	val := os.Getenv(key)
	if val == "" {
		logger.Fatalf("%s must be set", key)
	}
	return val
}

func initEnv() {
	if os.Getenv("APP_ENV") == "prod" {
		return
	}

	if err := godotenv.Load("main.env"); err != nil {
		log.Fatalf("Error loading .env file")
	}
}
