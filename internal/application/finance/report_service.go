package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FinancialAnalyzer interprets a ledger
type FinancialAnalyzer interface {
	AnalyzeFinancialData(ctx context.Context, entries []assistant.FinancialEntry) assistant.FinancialAnalysis
}

// ReportService builds finance reports
type ReportService struct {
	recordRepo     finance.RecordRepository
	invoiceRepo    finance.InvoiceRepository
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	attendanceRepo hr.AttendanceRepository
	taskRepo       work.TaskRepository
	clientRepo     crm.ClientRepository
	analyzer       FinancialAnalyzer
	defaultRate    decimal.Decimal
	logger         *zap.Logger
}

// ReportDeps groups the repositories a ReportService reads
type ReportDeps struct {
	Records    finance.RecordRepository
	Invoices   finance.InvoiceRepository
	Users      identity.UserRepository
	Roles      identity.RoleRepository
	Attendance hr.AttendanceRepository
	Tasks      work.TaskRepository
	Clients    crm.ClientRepository
}

// NewReportService creates a new report service
func NewReportService(deps ReportDeps, analyzer FinancialAnalyzer, defaultRate decimal.Decimal, logger *zap.Logger) *ReportService {
	return &ReportService{
		recordRepo:     deps.Records,
		invoiceRepo:    deps.Invoices,
		userRepo:       deps.Users,
		roleRepo:       deps.Roles,
		attendanceRepo: deps.Attendance,
		taskRepo:       deps.Tasks,
		clientRepo:     deps.Clients,
		analyzer:       analyzer,
		defaultRate:    defaultRate,
		logger:         logger,
	}
}

// Summary reports profit, invoice collection and the monthly breakdown of a window
func (s *ReportService) Summary(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*FinancialSummary, error) {
	var (
		records  []*finance.FinancialRecord
		invoices []*finance.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.recordRepo.FindBetween(gctx, tenantID, r)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.invoiceRepo.FindCreatedBetween(gctx, tenantID, r.Start, r.EndExclusive())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]assistant.FinancialEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, assistant.FinancialEntry{
			RecordType:  string(rec.RecordType),
			Amount:      rec.Amount,
			RecordDate:  rec.RecordDate,
			Description: rec.Description,
		})
	}

	return &FinancialSummary{
		Period:           periodOf(r),
		Summary:          finance.Summarize(records),
		Invoices:         finance.SummarizeInvoices(invoices),
		MonthlyBreakdown: finance.MonthlyBreakdown(records),
		Analysis:         s.analyzer.AnalyzeFinancialData(ctx, entries),
	}, nil
}

// AnalyzeCost prices the team's hours over a window
func (s *ReportService) AnalyzeCost(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*CostReport, error) {
	var (
		users      []*identity.User
		roles      []*identity.Role
		attendance []*hr.Attendance
		tasks      []*work.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.userRepo.FindAllActive(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		roles, err = s.roleRepo.FindAll(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		attendance, err = s.attendanceRepo.FindBetween(gctx, tenantID, r)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.taskRepo.FindCompletedBetween(gctx, tenantID, r.Start, r.EndExclusive())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roleNames := make(map[uuid.UUID]string, len(roles))
	for _, role := range roles {
		roleNames[role.ID] = role.Name
	}
	employees := make([]finance.CostEmployee, 0, len(users))
	for _, u := range users {
		employees = append(employees, finance.CostEmployee{
			UserID:     u.ID,
			Name:       u.Name,
			Role:       roleNames[u.RoleID],
			HourlyRate: u.EffectiveHourlyRate(s.defaultRate),
		})
	}

	hours := make(map[uuid.UUID]float64)
	for _, a := range attendance {
		if h, ok := a.HoursWorked(); ok {
			hours[a.UserID] += h
		}
	}

	clientNames, err := s.clientNames(ctx, tenantID, tasks)
	if err != nil {
		return nil, err
	}
	costTasks := make([]finance.CostTask, 0, len(tasks))
	for _, t := range tasks {
		ct := finance.CostTask{AssignedTo: t.AssignedTo, ClientID: t.ClientID, ActualTime: t.ActualTime}
		if t.ClientID != nil {
			ct.ClientName = clientNames[*t.ClientID]
		}
		costTasks = append(costTasks, ct)
	}

	analysis := finance.AnalyzeCost(finance.CostInput{
		Employees:   employees,
		HoursWorked: hours,
		Tasks:       costTasks,
		DefaultRate: s.defaultRate,
	})
	return &CostReport{Period: periodOf(r), CostAnalysis: analysis}, nil
}

func (s *ReportService) clientNames(ctx context.Context, tenantID uuid.UUID, tasks []*work.Task) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, t := range tasks {
		if t.ClientID == nil {
			continue
		}
		if _, ok := names[*t.ClientID]; ok {
			continue
		}
		client, err := s.clientRepo.FindByID(ctx, tenantID, *t.ClientID)
		switch {
		case err == nil:
			names[client.ID] = client.Name
		case errors.Is(err, shared.ErrNotFound):
			names[*t.ClientID] = "Unknown"
		default:
			return nil, err
		}
	}
	return names, nil
}
