package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/interfaces/http/handler"
	"github.com/hyperflow/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Roles     *handler.RoleHandler
	Clients   *handler.ClientHandler
	Tasks     *handler.TaskHandler
	Employee  *handler.EmployeeHandler
	HR        *handler.HRHandler
	Finance   *handler.FinanceHandler
	Marketing *handler.MarketingHandler
	AI        *handler.AIHandler
	System    *handler.SystemHandler
}

// Config carries the middleware and optional endpoints Mount wires in
type Config struct {
	// JWT authenticates /api/v1; public paths are skipped by the middleware itself
	JWT gin.HandlerFunc
	// APIMiddleware runs after JWT on every /api/v1 route
	APIMiddleware []gin.HandlerFunc
	// AuthLimiter throttles login and register; nil disables it
	AuthLimiter gin.HandlerFunc
	// Metrics serves /metrics when set
	Metrics http.Handler
	// Swagger serves /swagger/*any when set, guards first
	Swagger []gin.HandlerFunc
	Logger  *zap.Logger
}

// Mount registers the probes, docs and the versioned API on engine
func Mount(engine *gin.Engine, h Handlers, cfg Config) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	if len(cfg.Swagger) > 0 {
		engine.GET("/swagger/*any", cfg.Swagger...)
	}

	var mw []gin.HandlerFunc
	if cfg.JWT != nil {
		mw = append(mw, cfg.JWT)
	}
	mw = append(mw, cfg.APIMiddleware...)

	groups := Groups(h, cfg)
	api := API(engine, "v1", mw, groups...)

	if cfg.Logger != nil {
		var table []string
		for _, g := range groups {
			table = append(table, g.Table(api.BasePath())...)
		}
		cfg.Logger.Debug("api routes mounted", zap.Int("routes", len(table)), zap.Strings("table", table))
	}
}

// Groups builds one route group per area, role gates attached
func Groups(h Handlers, cfg Config) []*Group {
	roles := func(names ...string) gin.HandlerFunc {
		return middleware.RequireRolesWithConfig(middleware.PermissionConfig{Logger: cfg.Logger}, names...)
	}
	limited := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthLimiter == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{cfg.AuthLimiter, fn}
	}

	system := NewGroup("system", "")
	system.GET("/health", h.System.Health)

	authRoutes := NewGroup("auth", "/auth")
	authRoutes.POST("/register", limited(h.Auth.Register)...)
	authRoutes.POST("/login", limited(h.Auth.Login)...)
	authRoutes.POST("/refresh", h.Auth.RefreshToken)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.GetCurrentUser)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	users := NewGroup("users", "/users", roles())
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.GET("/:id", h.Users.GetByID)
	users.PUT("/:id", h.Users.Update)
	users.POST("/:id/activate", h.Users.Activate)
	users.POST("/:id/deactivate", h.Users.Deactivate)

	roleRoutes := NewGroup("roles", "/roles", roles())
	roleRoutes.GET("", h.Roles.List)
	roleRoutes.POST("", h.Roles.Create)

	clients := NewGroup("clients", "/clients")
	clients.GET("", h.Clients.List)
	clients.POST("", h.Clients.Create)
	clients.POST("/analyze-input", h.Clients.AnalyzeInput)
	clients.GET("/:id", h.Clients.Get)
	clients.PUT("/:id", h.Clients.Update)
	clients.DELETE("/:id", h.Clients.Delete)
	clients.GET("/:id/tasks", h.Clients.ListTasks)
	clients.POST("/:id/tasks", h.Clients.CreateTask)
	clients.GET("/:id/brands", h.Clients.ListBrands)
	clients.POST("/:id/brands", h.Clients.CreateBrand)
	clients.GET("/:id/communications", h.Clients.ListCommunications)
	clients.POST("/:id/communications", h.Clients.LogCommunication)
	clients.GET("/:id/reports/performance", h.Clients.PerformanceReport)

	brands := NewGroup("brands", "/brands")
	brands.PUT("/:id", h.Clients.UpdateBrand)
	brands.DELETE("/:id", h.Clients.DeleteBrand)

	tasks := NewGroup("tasks", "/tasks")
	tasks.GET("", h.Tasks.List)
	tasks.POST("", h.Tasks.Create)
	tasks.GET("/:id", h.Tasks.Get)
	tasks.PUT("/:id", h.Tasks.Update)
	tasks.DELETE("/:id", h.Tasks.Delete)
	tasks.GET("/:id/insights", h.Tasks.Insights)

	employee := NewGroup("employee", "/employee")
	attendance := employee.Sub("attendance", "/attendance")
	attendance.POST("/login", h.Employee.AttendanceLogin)
	attendance.POST("/logout", h.Employee.AttendanceLogout)
	attendance.GET("/today", h.Employee.AttendanceToday)
	attendance.GET("/history", h.Employee.AttendanceHistory)
	employee.GET("/tasks", h.Employee.ListTasks)
	employee.GET("/tasks/:id", h.Employee.GetTask)
	employee.PUT("/tasks/:id/status", h.Employee.UpdateTaskStatus)
	employee.GET("/leave-requests", h.Employee.ListLeaveRequests)
	employee.POST("/leave-requests", h.Employee.CreateLeaveRequest)

	hr := NewGroup("hr", "/hr", roles(identity.RoleHR))
	hr.GET("/employees", h.HR.ListEmployees)
	hr.GET("/employees/:id", h.HR.GetEmployee)
	hr.GET("/employees/:id/attendance", h.HR.EmployeeAttendance)
	hr.GET("/employees/:id/tasks", h.HR.EmployeeTasks)
	hr.POST("/analyze-performance", h.HR.AnalyzePerformance)
	hr.POST("/resume-analysis", h.HR.AnalyzeResume)
	hr.GET("/attendance-stats", h.HR.AttendanceStats)
	hr.GET("/leave-requests", h.HR.ListLeaveRequests)
	hr.POST("/leave-requests/:id/approve", h.HR.ApproveLeave)
	hr.POST("/leave-requests/:id/reject", h.HR.RejectLeave)
	hr.GET("/announcements", h.HR.ListAnnouncements)
	hr.POST("/announcements", h.HR.CreateAnnouncement)
	hr.GET("/announcements/:id", h.HR.GetAnnouncement)
	hr.PUT("/announcements/:id", h.HR.UpdateAnnouncement)
	hr.DELETE("/announcements/:id", h.HR.DeleteAnnouncement)

	finance := NewGroup("finance", "/finance", roles(identity.RoleFinance))
	finance.GET("/invoices", h.Finance.ListInvoices)
	finance.POST("/invoices", h.Finance.CreateInvoice)
	finance.GET("/invoices/:id", h.Finance.GetInvoice)
	finance.PATCH("/invoices/:id/status", h.Finance.UpdateInvoiceStatus)
	finance.GET("/invoices/:id/pdf", h.Finance.InvoicePDF)
	finance.GET("/financial-records", h.Finance.ListRecords)
	finance.POST("/financial-records", h.Finance.CreateRecord)
	finance.GET("/financial-summary", h.Finance.Summary)
	finance.POST("/analyze-cost", h.Finance.AnalyzeCost)

	marketing := NewGroup("marketing", "/marketing")
	marketing.POST("/generate-email-copy", h.Marketing.GenerateEmailCopy)
	marketing.POST("/analyze-market-trends", h.Marketing.AnalyzeMarketTrends)
	marketing.GET("/trends", h.Marketing.ListTrends)
	marketing.POST("/analyze-meeting", h.Marketing.AnalyzeMeeting)
	marketing.POST("/campaign-insights", h.Marketing.CampaignInsights)

	ai := NewGroup("ai", "/ai")
	ai.POST("/analyze-client-input", h.AI.AnalyzeClientInput)
	ai.POST("/analyze-platform-messages", h.AI.AnalyzePlatformMessages)
	ai.POST("/predict-task-timeline", h.AI.PredictTaskTimeline)
	ai.POST("/analyze-meeting-transcript", h.AI.AnalyzeMeetingTranscript)
	ai.POST("/generate-marketing-insights", h.AI.GenerateMarketingInsights)
	ai.POST("/analyze-financial-data", h.AI.AnalyzeFinancialData)
	ai.POST("/analyze-employee-performance", h.AI.AnalyzeEmployeePerformance)
	ai.POST("/generate-suggested-tasks", h.AI.GenerateSuggestedTasks)
	ai.POST("/generate-performance-insights", h.AI.GeneratePerformanceInsights)
	ai.POST("/estimate-task-time", h.AI.EstimateTaskTime)

	return []*Group{
		system, authRoutes, users, roleRoutes, clients, brands, tasks,
		employee, hr, finance, marketing, ai,
	}
}
