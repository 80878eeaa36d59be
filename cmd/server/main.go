package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	assistantapp "github.com/hyperflow/backend/internal/application/assistant"
	crmapp "github.com/hyperflow/backend/internal/application/crm"
	financeapp "github.com/hyperflow/backend/internal/application/finance"
	hrapp "github.com/hyperflow/backend/internal/application/hr"
	identityapp "github.com/hyperflow/backend/internal/application/identity"
	marketingapp "github.com/hyperflow/backend/internal/application/marketing"
	workapp "github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/hyperflow/backend/internal/infrastructure/cache"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/event"
	"github.com/hyperflow/backend/internal/infrastructure/llm"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"github.com/hyperflow/backend/internal/infrastructure/messaging"
	"github.com/hyperflow/backend/internal/infrastructure/persistence"
	"github.com/hyperflow/backend/internal/infrastructure/printing"
	"github.com/hyperflow/backend/internal/infrastructure/scheduler"
	"github.com/hyperflow/backend/internal/infrastructure/storage"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"github.com/hyperflow/backend/internal/interfaces/http/handler"
	"github.com/hyperflow/backend/internal/interfaces/http/middleware"
	"github.com/hyperflow/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/hyperflow/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			HyperFlow API
//	@version		1.0
//	@description	Multi-tenant agency management backend: CRM, tasks, HR, finance, marketing and an AI assistant.

//	@contact.name	HyperFlow Support
//	@contact.email	support@hyperflow.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const overdueJob = "invoice_overdue"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log, cfg.App.Env)
	defer func() {
		_ = log.Sync()
	}()

	loc := cfg.App.Location()
	log.Info("Starting HyperFlow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.HTTP.Port),
		zap.String("timezone", loc.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability
	metrics := telemetry.NewMetrics()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if tracer.IsEnabled() && profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}
	otlpLogs, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = otlpLogs.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	otlpMetrics, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to initialize metric export", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if db.Driver == "sqlite" {
		// postgres schemas are owned by cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentDB(db.DB, telemetry.DBTracingConfig{
			DBSystem:      db.Driver,
			WithVariables: !cfg.App.IsProduction(),
			SlowThreshold: cfg.Database.SlowQuery,
		}, log); err != nil {
			log.Warn("Failed to instrument database", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := metrics.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	// Redis backs the token blacklist, the LLM cache and event de-duplication.
	// Without it everything stays in process.
	var (
		blacklist   auth.TokenBlacklist
		completions llm.CompletionStore
		processed   event.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		store := cache.NewRedisStore(redisClient, "hyperflow:")
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		completions, processed = store, store
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		store := cache.NewMemoryStore(time.Minute)
		defer func() {
			_ = store.Close()
		}()
		blacklist = auth.NewInMemoryTokenBlacklist()
		completions, processed = store, store
		log.Warn("Redis disabled, using in-memory token blacklist and caches")
	}

	// Object storage
	var objects financeapp.ObjectStore = storage.DisabledStorage{}
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		objects = s3
	}

	// Invoice PDFs
	var renderer printing.Renderer = printing.DisabledRenderer{}
	if cfg.PDF.Enabled {
		renderer = printing.NewChromedpRenderer(printing.ChromedpConfig{
			ExecPath:  cfg.PDF.ChromePath,
			Timeout:   cfg.PDF.Timeout,
			NoSandbox: true,
		}, log)
	}
	defer func() {
		_ = renderer.Close()
	}()
	invoiceTemplate, err := printing.NewInvoiceTemplate(cfg.PDF.Locale, cfg.Finance.Currency)
	if err != nil {
		log.Fatal("Failed to parse invoice template", zap.Error(err))
	}

	// Language model and assistant
	llmClient, err := llm.New(ctx, cfg.LLM, completions, metrics, log)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	lateThreshold, err := hr.ParseTimeOfDay(cfg.HR.LateThreshold)
	if err != nil {
		log.Fatal("Invalid hr.late_threshold", zap.String("value", cfg.HR.LateThreshold), zap.Error(err))
	}
	analyzer := assistantapp.NewAnalyzer(llmClient, log,
		assistantapp.WithRecorder(metrics),
		assistantapp.WithLateThreshold(lateThreshold),
		assistantapp.WithLocation(loc),
	)

	// Events: handlers run synchronously on publish, kafka forwarding is buffered
	eventBus := event.NewInMemoryEventBus(log)
	if cfg.Kafka.Enabled {
		forwarder := messaging.NewEventForwarder(messaging.NewKafkaWriter(cfg.Kafka), 0, metrics, log)
		forwarder.Start(ctx)
		eventBus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Error("Error closing event forwarder", zap.Error(err))
			}
		}()
		log.Info("Kafka event forwarding enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	commRepo := persistence.NewGormCommunicationRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	taskInsightRepo := persistence.NewGormInsightRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRepository(db.DB)
	announcementRepo := persistence.NewGormAnnouncementRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	recordRepo := persistence.NewGormFinancialRecordRepository(db.DB)
	trendRepo := persistence.NewGormTrendRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, tenantRepo, jwtService, blacklist, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, persistence.NewIdentityTx(db), jwtService, eventBus, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, eventBus, log)
	roleService := identityapp.NewRoleService(roleRepo, log)

	clientService := crmapp.NewClientService(clientRepo, invoiceRepo, eventBus, log)
	brandService := crmapp.NewBrandService(clientRepo, brandRepo, commRepo, log)
	clientInsightService := crmapp.NewInsightService(clientRepo, commRepo, taskRepo, analyzer, log)

	taskService := workapp.NewTaskService(workapp.TaskDeps{
		Tasks:    taskRepo,
		Insights: taskInsightRepo,
		Clients:  clientRepo,
		Brands:   brandRepo,
		Users:    userRepo,
	}, analyzer, eventBus, log)

	markdown := hrapp.NewMarkdown()
	attendanceService := hrapp.NewAttendanceService(attendanceRepo, userRepo, lateThreshold, loc, log)
	leaveService := hrapp.NewLeaveService(leaveRepo, eventBus, log)
	announcementService := hrapp.NewAnnouncementService(announcementRepo, markdown, log)
	employeeService := hrapp.NewEmployeeService(userRepo, roleRepo, attendanceRepo, taskRepo, analyzer, log)
	recruitmentService := hrapp.NewRecruitmentService(analyzer, objects, log)

	invoiceService := financeapp.NewInvoiceService(invoiceRepo, clientRepo, eventBus, log)
	invoicePDFService := financeapp.NewInvoicePDFService(invoiceRepo, clientRepo, invoiceTemplate, renderer, objects, cfg.App.Name, log)
	recordService := financeapp.NewRecordService(recordRepo, log)
	reportService := financeapp.NewReportService(financeapp.ReportDeps{
		Records:    recordRepo,
		Invoices:   invoiceRepo,
		Users:      userRepo,
		Roles:      roleRepo,
		Attendance: attendanceRepo,
		Tasks:      taskRepo,
		Clients:    clientRepo,
	}, analyzer, decimal.NewFromFloat(cfg.Finance.DefaultHourlyRate), log)

	marketingService := marketingapp.NewMarketingService(analyzer, analyzer, trendRepo, log)

	if otlpMetrics.IsEnabled() {
		eventCounter, err := telemetry.NewDomainEventCounter(otlpMetrics.Meter("hyperflow"))
		if err != nil {
			log.Fatal("Failed to create domain event counter", zap.Error(err))
		}
		eventBus.Subscribe(eventCounter)
	}

	// Paid invoices book income once, even when the event is delivered twice
	eventBus.Subscribe(event.NewIdempotentHandler(financeapp.NewInvoicePaidHandler(recordRepo, log), processed, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Background jobs
	jobs := scheduler.NewScheduler(scheduler.Config{
		Workers:       2,
		QueueSize:     32,
		JobTimeout:    cfg.Scheduler.JobTimeout,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
	}, metrics, log)
	jobs.Register(overdueJob, financeapp.NewOverdueSweeper(invoiceRepo, eventBus, metrics, cfg.Scheduler.BatchSize, loc, log))
	var overdueTrigger *scheduler.IntervalTrigger
	if cfg.Scheduler.Enabled {
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		overdueTrigger = scheduler.NewIntervalTrigger(jobs, overdueJob, cfg.Scheduler.OverdueInterval, true, log)
		overdueTrigger.Start(ctx)
	}

	// Handlers
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, tenantService),
		Users:     handler.NewUserHandler(userService),
		Roles:     handler.NewRoleHandler(roleService),
		Clients:   handler.NewClientHandler(clientService, brandService, taskService, clientInsightService, loc),
		Tasks:     handler.NewTaskHandler(taskService),
		Employee:  handler.NewEmployeeHandler(attendanceService, taskService, leaveService, loc),
		HR:        handler.NewHRHandler(employeeService, attendanceService, leaveService, announcementService, recruitmentService, handler.HRHandlerConfig{ResumeMaxBytes: cfg.HR.ResumeMaxBytes, Location: loc}),
		Finance:   handler.NewFinanceHandler(invoiceService, invoicePDFService, recordService, reportService, loc),
		Marketing: handler.NewMarketingHandler(marketingService),
		AI:        handler.NewAIHandler(analyzer, taskService, employeeService, loc),
		System:    handler.NewSystemHandler(cfg.App.Version, db),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.RegisterValidators()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Recovery - Catch panics
	// 2. RequestID - Generate/propagate request ID
	// 3. Logger - Log requests
	// 4. Tracing - Server span per request, errors marked on the span
	// 5. Metrics - Prometheus request counters and latency
	// 6. CORS and security headers
	// 7. BodyLimit - Limit request body size
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(metrics))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Storage-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Secure(cfg.App.IsProduction()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	var authLimiter gin.HandlerFunc
	if cfg.HTTP.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)
		go limiter.Run(ctx)
		authLimiter = middleware.RateLimit(limiter)
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimit),
			zap.Duration("window", cfg.HTTP.AuthRateWindow),
		)
	}

	docsGuard, err := middleware.DocsGuard(middleware.DocsAccess{
		Enabled:     cfg.HTTP.SwaggerEnabled,
		Allowlist:   cfg.HTTP.SwaggerAllowlist,
		RequireAuth: cfg.App.IsProduction(),
	}, jwtMiddleware)
	if err != nil {
		log.Fatal("Invalid http.swagger_allowlist", zap.Error(err))
	}

	apiMiddleware := []gin.HandlerFunc{middleware.TracingAttributeInjector()}
	if profiler.IsEnabled() {
		apiMiddleware = append(apiMiddleware, middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}

	router.Mount(engine, handlers, router.Config{
		JWT:           jwtMiddleware,
		APIMiddleware: apiMiddleware,
		AuthLimiter:   authLimiter,
		Metrics:       metrics.Handler(),
		Swagger:       []gin.HandlerFunc{docsGuard, ginSwagger.WrapHandler(swaggerFiles.Handler)},
		Logger: log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if overdueTrigger != nil {
		overdueTrigger.Stop()
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer", zap.Error(err))
	}
	if err := otlpMetrics.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := otlpLogs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
