package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sunnyfiber/visitops/libs/config"
	"github.com/sunnyfiber/visitops/libs/httpx"
	"github.com/sunnyfiber/visitops/libs/kafkax"
	otelx "github.com/sunnyfiber/visitops/libs/otel"
	"github.com/sunnyfiber/visitops/libs/runtime"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/activation"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/events"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/handlers"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/orderindex"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/scheduling"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/seed"
	"github.com/sunnyfiber/visitops/services/visit-service/internal/store"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "visit-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	data, err := seed.Default()
	if err != nil {
		logger.Error("seed load failed", "err", err)
		panic(err)
	}
	if path := strings.TrimSpace(config.String("SLOT_SEED_PATH", "")); path != "" {
		slots, err := seed.SlotsFromFile(path)
		if err != nil {
			logger.Error("slot seed override failed", "err", err, "path", path)
			panic(err)
		}
		data.Slots = slots
		logger.Info("slot inventory loaded from file", "path", path, "count", len(slots))
	}
	if path := strings.TrimSpace(config.String("ORDER_SEED_PATH", "")); path != "" {
		orders, err := seed.OrdersFromFile(path)
		if err != nil {
			logger.Error("order seed override failed", "err", err, "path", path)
			panic(err)
		}
		data.Orders = orders
		logger.Info("order index loaded from file", "path", path, "count", len(orders))
	}

	memoryOrders := orderindex.NewMemoryProvider(data.Orders)
	var orders orderindex.Provider = memoryOrders
	if addr := strings.TrimSpace(config.String("ORDER_INDEX_GRPC_ADDR", "")); addr != "" {
		remote, err := orderindex.NewRemoteProvider(addr)
		if err != nil {
			logger.Error("order index dial failed; using in-memory index", "err", err, "addr", addr)
		} else if remote != nil {
			orders = remote
			logger.Info("order index connected", "addr", addr)
		}
	}

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	publisher := events.NewPublisher(kafkaBrokers, logger)
	defer func() { _ = publisher.Close() }()

	slotPool := store.NewSlotPool(data.Slots)
	ledger := store.NewAppointmentLedger(data.Appointments)
	flags := store.NewFlagLog()
	schedulingSvc := scheduling.NewService(slotPool, ledger, flags, orders, publisher, logger)
	activationSvc := activation.NewService(memoryOrders, publisher, logger)

	visitHandler := handlers.NewVisitHandler(schedulingSvc, logger)
	activationHandler := handlers.NewActivationHandler(activationSvc, logger)
	adminHandler := handlers.NewAdminHandler(schedulingSvc, config.String("ADMIN_TOKEN_BCRYPT_HASH", ""), logger)

	var readyChecks []runtime.ReadyCheck
	if strings.TrimSpace(kafkaBrokers) != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	jwtSecret := config.String("AUTH_JWT_SECRET", "")
	mux.HandleFunc("/api/v1/visits/details", visitHandler.Details)
	mux.HandleFunc("/api/v1/slots", visitHandler.Slots)
	mux.Handle("/api/v1/visits/schedule", handlers.RequireAuth(http.HandlerFunc(visitHandler.Schedule), jwtSecret))
	mux.Handle("/api/v1/visits/reschedule", handlers.RequireAuth(http.HandlerFunc(visitHandler.Reschedule), jwtSecret))
	mux.Handle("/api/v1/visits/flag-issue", handlers.RequireAuth(http.HandlerFunc(visitHandler.FlagIssue), jwtSecret))
	mux.Handle("/api/v1/activations/trigger", handlers.RequireAuth(http.HandlerFunc(activationHandler.Trigger), jwtSecret))
	mux.HandleFunc("/api/v1/activations/status", activationHandler.Status)
	mux.HandleFunc("/api/v1/admin/slots", adminHandler.AddSlots)

	handler := buildMiddleware(mux, logger)
	handler = otelhttp.NewHandler(handler, "visit")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func buildMiddleware(mux http.Handler, logger *slog.Logger) http.Handler {
	bodyLimit := int64(1 << 20) // 1MB
	if v, err := strconv.Atoi(config.String("REQUEST_BODY_LIMIT_BYTES", "1048576")); err == nil && v > 0 {
		bodyLimit = int64(v)
	}
	requestTimeout := 10 * time.Second
	if v, err := strconv.Atoi(config.String("REQUEST_TIMEOUT_SECONDS", "10")); err == nil && v > 0 {
		requestTimeout = time.Duration(v) * time.Second
	}
	limitPerMinute := 120
	if v, err := strconv.Atoi(config.String("RATE_LIMIT_PER_MINUTE", "120")); err == nil && v > 0 {
		limitPerMinute = v
	}

	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		redisDB := 0
		if v, err := strconv.Atoi(config.String("REDIS_DB", "0")); err == nil && v >= 0 {
			redisDB = v
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       redisDB,
		})
		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, isTruthy(config.String("RATE_LIMIT_FAIL_OPEN", "true")))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	return httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")),
			AllowedHeaders:   parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			AllowCredentials: isTruthy(config.String("CORS_ALLOW_CREDENTIALS", "false")),
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(bodyLimit),
		httpx.WithTimeout(requestTimeout),
		rateLimitMW,
	)
}

func isTruthy(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
