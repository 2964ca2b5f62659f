// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"career-workers/internal/assessment/session"
	"career-workers/internal/cache"
	awsclients "career-workers/internal/common/aws"
	"career-workers/internal/common/camunda"
	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/events"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/observability"
	"career-workers/internal/profiles"
	"career-workers/internal/repository"
	"career-workers/pkg/registry"

	aa "career-workers/internal/workers/assessment/advance-assessment"
	sa "career-workers/internal/workers/assessment/submit-assessment"
	cc "career-workers/internal/workers/counseling/career-chat"
	qe "career-workers/internal/workers/data-access/query-elasticsearch"
	qp "career-workers/internal/workers/data-access/query-postgresql"
	cms "career-workers/internal/workers/matching/calculate-match-score"
	rcp "career-workers/internal/workers/matching/rank-career-paths"
	san "career-workers/internal/workers/notification/send-assessment-notification"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs, err := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
		obs = observability.NewNoop()
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(ctx, cfg.Camunda)
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Events ---
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Messaging.RabbitMQ.Enabled {
		var amqpPublisher *events.AMQPPublisher
		err = retryWithBackoff(func() error {
			var err error
			amqpPublisher, err = events.NewAMQPPublisher(cfg.Messaging.RabbitMQ.URL, cfg.Messaging.RabbitMQ.Exchange)
			return err
		}, 10, 2*time.Second, log, "RabbitMQ connection")
		if err != nil {
			zapLog.Fatal("rabbitmq failed after retries", zap.Error(err))
		}
		publisher = amqpPublisher
		zapLog.Info("RabbitMQ connected successfully")
	}
	defer publisher.Close()

	// --- AWS ---
	var (
		sesClient awsclients.SESService
		snsClient awsclients.SNSService
	)
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sesSDK, snsSDK, err := awsclients.NewClients(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Fatal("aws clients failed", zap.Error(err))
		}
		if awsCfg.SES.Enabled {
			sesClient = sesSDK
		}
		if awsCfg.SNS.Enabled {
			snsClient = snsSDK
		}
	}

	// --- Shared services ---
	store := repository.New(pg.DB)
	sessions := session.NewStore(rdb.Client, config.Seconds(cfg.Assessment.SessionTTL))
	latest := cache.NewLatestAssessments(rdb.Client, config.Seconds(cfg.Assessment.LatestCacheTTL))
	catalog := cache.NewCatalog(store, rdb.Client, config.Seconds(cfg.Matching.CatalogCacheTTL), log)
	resolver := profiles.NewResolver(store, latest, log)

	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	var (
		workers   []worker.JobWorker
		taskTypes []string
	)
	start := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		w := camunda.StartWorker(zeebeClient, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log)
		workers = append(workers, w)
		taskTypes = append(taskTypes, taskType)
	}

	// --- Assessment ---
	start(aa.TaskType, aa.NewHandler(&aa.Config{Timeout: timeout(aa.TaskType)}, sessions, store, log))

	start(sa.TaskType, sa.NewHandler(
		&sa.Config{
			Timeout:       timeout(sa.TaskType),
			SubmitLockTTL: config.Seconds(cfg.Assessment.SubmitLockTTL),
		},
		sessions, store, latest, publisher, log,
	))

	// --- Matching ---
	start(rcp.TaskType, rcp.NewHandler(
		&rcp.Config{
			Timeout:      timeout(rcp.TaskType),
			DefaultLimit: cfg.Matching.DefaultLimit,
		},
		resolver, catalog, log,
	))

	start(cms.TaskType, cms.NewHandler(&cms.Config{Timeout: timeout(cms.TaskType)}, resolver, store, log))

	// --- Data access ---
	start(qp.TaskType, qp.NewHandler(&qp.Config{Timeout: timeout(qp.TaskType)}, store, log))

	start(qe.TaskType, qe.NewHandler(&qe.Config{Timeout: timeout(qe.TaskType)}, esClient.Client, log))

	// --- Counseling ---
	chatCfg := cc.LoadConfig()
	chatCfg.BaseURL = cfg.APIs.Chat.BaseURL
	chatCfg.APIKey = cfg.APIs.Chat.APIKey
	chatCfg.Model = cfg.APIs.Chat.Model
	chatCfg.MaxTokens = cfg.APIs.Chat.MaxTokens
	chatCfg.Temperature = cfg.APIs.Chat.Temperature
	chatCfg.Timeout = config.GetDuration(cfg.APIs.Chat.Timeout)
	chatCfg.MaxRetries = cfg.APIs.Chat.MaxRetries
	start(cc.TaskType, cc.NewHandler(chatCfg, store, log))

	// --- Notification ---
	start(san.TaskType, san.NewHandler(
		&san.Config{
			EmailEnabled: awsCfg.SES.Enabled,
			SMSEnabled:   awsCfg.SNS.Enabled,
			FromEmail:    awsCfg.SES.FromEmail,
			SMSSenderID:  awsCfg.SNS.DefaultSMSSenderID,
			Timeout:      timeout(san.TaskType),
		},
		store, sesClient, snsClient, log,
	))

	zapLog.Info("workers registered", zap.Int("count", len(workers)))
	checkRegistry(cfg.App.RegistryPath, taskTypes, log)

	srv := newHealthServer(cfg.Observability.MetricsPort, func(ctx context.Context) map[string]error {
		return map[string]error{
			"postgres":      pg.Ping(ctx),
			"redis":         rdb.Ping(ctx),
			"elasticsearch": esClient.Ping(ctx),
			"zeebe":         camunda.HealthCheck(ctx, zeebeClient, 2*time.Second),
		}
	})
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about started workers that the activity registry does
// not document. A missing or invalid registry never blocks startup.
func checkRegistry(path string, taskTypes []string, log logger.Logger) {
	if path == "" {
		return
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", map[string]interface{}{"path": path, "error": err.Error()})
	}
	if missing := reg.Missing(taskTypes...); len(missing) > 0 {
		log.Warn("workers missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}
}

func newHealthServer(port int, checks func(ctx context.Context) map[string]error) *http.Server {
	if port == 0 {
		port = 8080
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		deps := map[string]string{}
		for name, err := range checks(ctx) {
			if err != nil {
				deps[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		writeStatus(w, code, map[string]interface{}{
			"status":       status,
			"dependencies": deps,
			"time":         time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
