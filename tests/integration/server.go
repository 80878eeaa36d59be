package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
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
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/hyperflow/backend/internal/infrastructure/cache"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/event"
	"github.com/hyperflow/backend/internal/infrastructure/llm"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"github.com/hyperflow/backend/internal/infrastructure/persistence"
	"github.com/hyperflow/backend/internal/infrastructure/printing"
	"github.com/hyperflow/backend/internal/infrastructure/storage"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/hyperflow/backend/internal/interfaces/http/handler"
	"github.com/hyperflow/backend/internal/interfaces/http/middleware"
	"github.com/hyperflow/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestServer is the full HTTP API over a TestDB, with AI, PDF rendering and
// object storage disabled
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
	JWT    *auth.JWTService
	Events *eventRecorder
	t      *testing.T
}

func testLogger(t *testing.T) *zap.Logger {
	if os.Getenv("TEST_LOG") != "" {
		return zaptest.NewLogger(t)
	}
	return zap.NewNop()
}

// NewTestServer wires repositories, services and handlers the way the server
// binary does
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()

	tdb := NewTestDB(t)
	log := testLogger(t)
	loc := time.UTC

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-integration-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "hyperflow-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	template, err := printing.NewInvoiceTemplate("en", "USD")
	require.NoError(t, err)
	analyzer := assistantapp.NewAnalyzer(llm.DisabledClient{}, log,
		assistantapp.WithLateThreshold(hr.DefaultLateThreshold),
		assistantapp.WithLocation(loc),
	)

	bus := event.NewInMemoryEventBus(log)
	recorder := &eventRecorder{}
	bus.Subscribe(recorder)

	db := tdb.DB
	tenantRepo := persistence.NewGormTenantRepository(db)
	roleRepo := persistence.NewGormRoleRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	clientRepo := persistence.NewGormClientRepository(db)
	brandRepo := persistence.NewGormBrandRepository(db)
	commRepo := persistence.NewGormCommunicationRepository(db)
	taskRepo := persistence.NewGormTaskRepository(db)
	attendanceRepo := persistence.NewGormAttendanceRepository(db)
	leaveRepo := persistence.NewGormLeaveRepository(db)
	announcementRepo := persistence.NewGormAnnouncementRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	recordRepo := persistence.NewGormFinancialRecordRepository(db)
	trendRepo := persistence.NewGormTrendRepository(db)

	authService := identityapp.NewAuthService(userRepo, roleRepo, tenantRepo, jwtService, blacklist, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, persistence.NewIdentityTx(tdb.Database), jwtService, bus, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, bus, log)
	roleService := identityapp.NewRoleService(roleRepo, log)

	clientService := crmapp.NewClientService(clientRepo, invoiceRepo, bus, log)
	brandService := crmapp.NewBrandService(clientRepo, brandRepo, commRepo, log)
	clientInsights := crmapp.NewInsightService(clientRepo, commRepo, taskRepo, analyzer, log)
	taskService := workapp.NewTaskService(workapp.TaskDeps{
		Tasks:    taskRepo,
		Insights: persistence.NewGormInsightRepository(db),
		Clients:  clientRepo,
		Brands:   brandRepo,
		Users:    userRepo,
	}, analyzer, bus, log)

	attendanceService := hrapp.NewAttendanceService(attendanceRepo, userRepo, hr.DefaultLateThreshold, loc, log)
	leaveService := hrapp.NewLeaveService(leaveRepo, bus, log)
	announcementService := hrapp.NewAnnouncementService(announcementRepo, hrapp.NewMarkdown(), log)
	employeeService := hrapp.NewEmployeeService(userRepo, roleRepo, attendanceRepo, taskRepo, analyzer, log)
	recruitmentService := hrapp.NewRecruitmentService(analyzer, storage.DisabledStorage{}, log)

	invoiceService := financeapp.NewInvoiceService(invoiceRepo, clientRepo, bus, log)
	pdfService := financeapp.NewInvoicePDFService(invoiceRepo, clientRepo, template, printing.DisabledRenderer{}, storage.DisabledStorage{}, "HyperFlow", log)
	recordService := financeapp.NewRecordService(recordRepo, log)
	reportService := financeapp.NewReportService(financeapp.ReportDeps{
		Records:    recordRepo,
		Invoices:   invoiceRepo,
		Users:      userRepo,
		Roles:      roleRepo,
		Attendance: attendanceRepo,
		Tasks:      taskRepo,
		Clients:    clientRepo,
	}, analyzer, decimal.NewFromInt(50), log)
	marketingService := marketingapp.NewMarketingService(analyzer, analyzer, trendRepo, log)

	bus.Subscribe(event.NewIdempotentHandler(financeapp.NewInvoicePaidHandler(recordRepo, log), store, log))
	require.NoError(t, bus.Start(context.Background()))

	engine := gin.New()
	engine.Use(logger.Recovery(log), middleware.RequestID())

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	router.Mount(engine, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, tenantService),
		Users:     handler.NewUserHandler(userService),
		Roles:     handler.NewRoleHandler(roleService),
		Clients:   handler.NewClientHandler(clientService, brandService, taskService, clientInsights, loc),
		Tasks:     handler.NewTaskHandler(taskService),
		Employee:  handler.NewEmployeeHandler(attendanceService, taskService, leaveService, loc),
		HR:        handler.NewHRHandler(employeeService, attendanceService, leaveService, announcementService, recruitmentService, handler.HRHandlerConfig{ResumeMaxBytes: 1 << 20, Location: loc}),
		Finance:   handler.NewFinanceHandler(invoiceService, pdfService, recordService, reportService, loc),
		Marketing: handler.NewMarketingHandler(marketingService),
		AI:        handler.NewAIHandler(analyzer, taskService, employeeService, loc),
		System:    handler.NewSystemHandler("test", tdb.Database),
	}, router.Config{
		JWT:    middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		Logger: log,
	})

	return &TestServer{DB: tdb, Engine: engine, JWT: jwtService, Events: recorder, t: t}
}

// Request sends a JSON request, with a bearer token when token is not empty
func (ts *TestServer) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// session is a logged in user
type session struct {
	Token        string
	RefreshToken string
	User         identityapp.UserInfo
}

// Register creates a tenant and returns its admin session
func (ts *TestServer) Register(code, email string) session {
	ts.t.Helper()
	w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"tenant_name": "Tenant " + code,
		"tenant_code": code,
		"name":        "Admin " + code,
		"email":       email,
		"password":    "password-123",
	}, "")
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	return toSession(ts.t, w)
}

// Login returns a session for email
func (ts *TestServer) Login(email, password string) session {
	ts.t.Helper()
	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(ts.t, http.StatusOK, w.Code, w.Body.String())
	return toSession(ts.t, w)
}

// CreateUser adds a user with the named role and returns its session
func (ts *TestServer) CreateUser(admin session, email, role string) session {
	ts.t.Helper()
	roles := data[[]identityapp.RoleDTO](ts.t, ts.Request(http.MethodGet, "/api/v1/roles", nil, admin.Token))
	body := map[string]any{
		"name":        email,
		"email":       email,
		"password":    "password-123",
		"hourly_rate": 40,
	}
	for _, r := range roles {
		if r.Name == role {
			body["role_id"] = r.ID
		}
	}
	require.Contains(ts.t, body, "role_id", "role %s not found", role)
	w := ts.Request(http.MethodPost, "/api/v1/users", body, admin.Token)
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	return ts.Login(email, "password-123")
}

func toSession(t *testing.T, w *httptest.ResponseRecorder) session {
	t.Helper()
	res := data[identityapp.LoginResult](t, w)
	require.NotEmpty(t, res.AccessToken)
	return session{Token: res.AccessToken, RefreshToken: res.RefreshToken, User: res.User}
}

// data unwraps the success envelope
func data[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool      `json:"success"`
		Data    T         `json:"data"`
		Meta    *dto.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	return env.Data
}

// errorCode returns the error code of a failure envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	return res.Error.Code
}

// eventRecorder keeps every published event type
type eventRecorder struct {
	mu    sync.Mutex
	types []string
}

func (r *eventRecorder) EventTypes() []string { return nil }

func (r *eventRecorder) Handle(_ context.Context, e shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.EventType())
	return nil
}

func (r *eventRecorder) Count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.types {
		if t == eventType {
			n++
		}
	}
	return n
}
