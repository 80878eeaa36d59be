package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	assistantapp "github.com/hyperflow/backend/internal/application/assistant"
	crmapp "github.com/hyperflow/backend/internal/application/crm"
	financeapp "github.com/hyperflow/backend/internal/application/finance"
	hrapp "github.com/hyperflow/backend/internal/application/hr"
	identityapp "github.com/hyperflow/backend/internal/application/identity"
	workapp "github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/hyperflow/backend/internal/infrastructure/event"
	"github.com/hyperflow/backend/internal/infrastructure/llm"
	"github.com/hyperflow/backend/internal/infrastructure/logger"
	"github.com/hyperflow/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixturePath string
	logLevel    string
	migrate     bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into a new HyperFlow tenant",
	Long: `Create a tenant with users, clients, tasks, invoices and HR data.

Data goes through the application services, so it obeys the same rules as
API requests. Without --file the built-in demo fixture is used. Running it
twice against the same database fails because the tenant code is taken.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and check a fixture without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := LoadFixture(fixturePath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fixture ok: tenant %s, %d users, %d clients\n",
			f.Tenant.Code, len(f.Users)+1, len(f.Clients))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fixturePath, "file", "f", "", "YAML fixture (default: built-in demo data)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&migrate, "auto-migrate", false, "create tables from the models first (sqlite)")
	rootCmd.AddCommand(validateCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"}, "development")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(&cfg.Database, log, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()
	if migrate || cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
	}

	seeder := NewSeeder(newServices(db, auth.NewJWTService(cfg.JWT), log), cfg.App.Location(), log)
	sum, err := seeder.Run(ctx, f)
	if errors.Is(err, ErrAlreadySeeded) {
		log.Warn("Nothing to do", zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded tenant %s (%s): %d users, %d clients, %d brands, %d tasks, %d invoices\n",
		f.Tenant.Code, sum.TenantID, sum.Users+1, sum.Clients, sum.Brands, sum.Tasks, sum.Invoices)
	return nil
}

// newServices wires the services the seeder needs. AI is disabled and events
// go to a bus without subscribers.
func newServices(db *persistence.Database, jwt *auth.JWTService, log *zap.Logger) Services {
	bus := event.NewInMemoryEventBus(log)
	analyzer := assistantapp.NewAnalyzer(llm.DisabledClient{}, log)

	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	tasks := workapp.NewTaskService(workapp.TaskDeps{
		Tasks:    persistence.NewGormTaskRepository(db.DB),
		Insights: persistence.NewGormInsightRepository(db.DB),
		Clients:  clientRepo,
		Brands:   brandRepo,
		Users:    userRepo,
	}, analyzer, bus, log)

	return Services{
		Tenants:       identityapp.NewTenantService(tenantRepo, userRepo, persistence.NewIdentityTx(db), jwt, bus, log),
		Users:         identityapp.NewUserService(userRepo, roleRepo, bus, log),
		Roles:         identityapp.NewRoleService(roleRepo, log),
		Clients:       crmapp.NewClientService(clientRepo, invoiceRepo, bus, log),
		Brands:        crmapp.NewBrandService(clientRepo, brandRepo, persistence.NewGormCommunicationRepository(db.DB), log),
		Tasks:         tasks,
		Invoices:      financeapp.NewInvoiceService(invoiceRepo, clientRepo, bus, log),
		Records:       financeapp.NewRecordService(persistence.NewGormFinancialRecordRepository(db.DB), log),
		Announcements: hrapp.NewAnnouncementService(persistence.NewGormAnnouncementRepository(db.DB), hrapp.NewMarkdown(), log),
		Leaves:        hrapp.NewLeaveService(persistence.NewGormLeaveRepository(db.DB), bus, log),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
