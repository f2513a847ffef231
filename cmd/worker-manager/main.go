// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"seasonal-story-workers/internal/common/camunda"
	"seasonal-story-workers/internal/common/config"
	"seasonal-story-workers/internal/common/database"
	httpclient "seasonal-story-workers/internal/common/http"
	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/observability"
	"seasonal-story-workers/internal/providers/generation"
	"seasonal-story-workers/internal/providers/naver"
	"seasonal-story-workers/internal/providers/openweather"
	"seasonal-story-workers/internal/scheduler"
	"seasonal-story-workers/internal/story"
	"seasonal-story-workers/internal/story/history"
	"seasonal-story-workers/pkg/registry"

	csc "seasonal-story-workers/internal/workers/story/collect-store-context"
	gms "seasonal-story-workers/internal/workers/story/generate-menu-story"
	gss "seasonal-story-workers/internal/workers/story/generate-seasonal-story"
	gwm "seasonal-story-workers/internal/workers/story/generate-welcome-message"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability init failed, otel instruments disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer zeebe.Close()

	// --- Redis (shared trend cache) ---
	var redis *database.RedisClient
	if cfg.Story.TrendCacheBackend == config.TrendCacheRedis {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- PostgreSQL (story history) ---
	var recorder story.HistoryRecorder = story.NoopRecorder{}
	var historyReader csc.HistoryReader
	if cfg.Story.HistoryEnabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		repo := history.NewRepository(pg.DB, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("story history schema", zap.Error(err))
		}
		recorder = repo
		historyReader = repo
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Story pipeline ---
	service, trendSource, closer, err := buildStoryService(ctx, cfg, redis, recorder, log)
	if err != nil {
		zapLog.Fatal("story service init failed", zap.Error(err))
	}
	defer closer.Close()

	if cfg.Story.Warmer.Enabled {
		warmer := scheduler.NewWarmer(
			trendSource,
			cfg.Story.Warmer.Locations,
			cfg.Story.Warmer.Categories,
			config.GetDuration(cfg.Story.Warmer.Interval),
			log,
		)
		if err := warmer.Start(); err != nil {
			zapLog.Error("trend warmer failed to start", zap.Error(err))
		} else {
			defer warmer.Stop()
		}
	}

	// --- Workers ---
	var workers []worker.JobWorker
	var activities []registry.Activity

	if config.IsWorkerEnabled(cfg, gss.TaskType) {
		wcfg := gss.NewConfig(config.GetWorkerConfig(cfg, gss.TaskType))
		handler, err := gss.NewHandler(gss.HandlerOptions{
			Config:        wcfg,
			Service:       service,
			Observability: obs,
			Logger:        log,
		})
		if err != nil {
			zapLog.Fatal("generate worker init failed", zap.Error(err))
		}
		activities = append(activities, gss.Activity(wcfg))
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      gss.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       wcfg.Timeout,
		}, handler, log))
	}

	if config.IsWorkerEnabled(cfg, csc.TaskType) {
		wcfg := csc.NewConfig(config.GetWorkerConfig(cfg, csc.TaskType))
		handler := csc.NewHandler(wcfg, service, historyReader, obs, log)
		activities = append(activities, csc.Activity(wcfg))
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      csc.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       wcfg.Timeout,
		}, handler, log))
	}

	if config.IsWorkerEnabled(cfg, gwm.TaskType) {
		wcfg := gwm.NewConfig(config.GetWorkerConfig(cfg, gwm.TaskType))
		handler := gwm.NewHandler(wcfg, service, obs, log)
		activities = append(activities, gwm.Activity(wcfg))
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      gwm.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       wcfg.Timeout,
		}, handler, log))
	}

	if config.IsWorkerEnabled(cfg, gms.TaskType) {
		wcfg := gms.NewConfig(config.GetWorkerConfig(cfg, gms.TaskType))
		handler := gms.NewHandler(wcfg, service, obs, log)
		activities = append(activities, gms.Activity(wcfg))
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      gms.TaskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       wcfg.Timeout,
		}, handler, log))
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           healthMux(zeebe, redis, registry.New(cfg.App.Version, time.Now(), activities...)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Health/Metrics server shutdown", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildStoryService wires providers, cache, aggregator and composer. Providers without
// credentials are left out so their sources run on fallback data.
func buildStoryService(ctx context.Context, cfg *config.Config, redis *database.RedisClient, recorder story.HistoryRecorder, log logger.Logger) (*story.Service, *story.TrendSource, io.Closer, error) {
	st := cfg.Story
	loc := st.Location()

	var weatherProvider story.WeatherProvider
	if w := cfg.APIs.Weather; w.Enabled && w.APIKey != "" {
		weatherProvider = openweather.New(w.APIKey, w.BaseURL, httpclient.NewClient(httpclient.Options{
			Name:       "openweather",
			Timeout:    config.GetDuration(w.Timeout),
			MaxRetries: w.MaxRetries,
		}))
	} else {
		log.Warn("weather provider not configured, using synthetic weather", map[string]interface{}{"enabled": w.Enabled})
	}

	var trendProvider story.TrendProvider
	if tr := cfg.APIs.Trends; tr.Enabled && tr.ClientID != "" && tr.ClientSecret != "" {
		trendProvider = naver.New(tr.ClientID, tr.ClientSecret, tr.BaseURL, tr.Display, httpclient.NewClient(httpclient.Options{
			Name:    "naver",
			Timeout: config.GetDuration(tr.Timeout),
		}))
	} else {
		log.Warn("trend provider not configured, using static trends", map[string]interface{}{"enabled": tr.Enabled})
	}

	var store story.CacheStore = story.NewMemoryStore(config.GetDuration(st.TrendStaleRetention))
	if redis != nil {
		store = story.NewRedisStore(redis.Client, config.GetDuration(st.TrendStaleRetention))
	}
	cache := story.NewTrendCache(store, config.GetDuration(st.TrendCacheTTL), story.SystemClock{}, log)

	trendSource := story.NewTrendSource(trendProvider, cache, story.TrendSourceConfig{
		Timeout:  config.GetDuration(cfg.APIs.Trends.Timeout),
		Location: loc,
	}, story.SystemClock{}, log)

	aggregator := story.NewAggregator(
		story.NewWeatherSource(weatherProvider, config.GetDuration(cfg.APIs.Weather.Timeout), log),
		trendSource,
		story.AggregatorConfig{TrendLimit: st.TrendLimit, Location: loc},
		story.SystemClock{},
		log,
	)

	backend, closer, err := generation.New(ctx, cfg.APIs.Generation, log)
	if err != nil {
		return nil, nil, nil, err
	}
	composer := story.NewComposer(backend, story.ComposerConfig{
		MaxLength:       st.MaxNarrativeLength,
		TemperatureBase: st.TemperatureBase,
		TemperatureStep: st.TemperatureStep,
		MaxTokens:       cfg.APIs.Generation.MaxTokens,
		Timeout:         config.GetDuration(cfg.APIs.Generation.Timeout),
	}, log)

	service := story.NewService(aggregator, composer, recorder, story.ServiceConfig{
		DefaultVariantCount: st.DefaultVariantCount,
		MaxVariantCount:     st.MaxVariantCount,
	}, story.SystemClock{}, log)

	return service, trendSource, closer, nil
}

func healthMux(zeebe *camunda.Client, redis *database.RedisClient, reg *registry.ActivityRegistry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok"}
		code := http.StatusOK
		if err := zeebe.HealthCheck(ctx); err != nil {
			checks["zeebe"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if redis != nil {
			checks["redis"] = "ok"
			if err := redis.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		status := "ready"
		if code != http.StatusOK {
			status = "not_ready"
		}
		writeStatus(w, code, status, checks)
	})
	mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"checks": checks,
	})
}
