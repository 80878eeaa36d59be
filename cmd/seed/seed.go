package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	crmapp "github.com/hyperflow/backend/internal/application/crm"
	financeapp "github.com/hyperflow/backend/internal/application/finance"
	hrapp "github.com/hyperflow/backend/internal/application/hr"
	identityapp "github.com/hyperflow/backend/internal/application/identity"
	workapp "github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Services are the application services the seeder writes through, so
// seeded data passes the same validation as API traffic.
type Services struct {
	Tenants       *identityapp.TenantService
	Users         *identityapp.UserService
	Roles         *identityapp.RoleService
	Clients       *crmapp.ClientService
	Brands        *crmapp.BrandService
	Tasks         *workapp.TaskService
	Invoices      *financeapp.InvoiceService
	Records       *financeapp.RecordService
	Announcements *hrapp.AnnouncementService
	Leaves        *hrapp.LeaveService
}

// Summary counts what a run created
type Summary struct {
	TenantID      uuid.UUID
	Users         int
	Clients       int
	Brands        int
	Tasks         int
	Invoices      int
	Records       int
	Announcements int
	LeaveRequests int
}

// ErrAlreadySeeded is returned when the fixture tenant already exists
var ErrAlreadySeeded = errors.New("tenant already exists")

// Seeder loads a Fixture into one new tenant
type Seeder struct {
	svc    Services
	now    func() time.Time
	logger *zap.Logger
}

func NewSeeder(svc Services, loc *time.Location, logger *zap.Logger) *Seeder {
	if loc == nil {
		loc = time.UTC
	}
	return &Seeder{
		svc:    svc,
		now:    func() time.Time { return time.Now().In(loc) },
		logger: logger,
	}
}

// Run creates the tenant and everything below it. Relative dates in the
// fixture are resolved against today.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Summary, error) {
	today := shared.DateOnly(s.now())

	reg, err := s.svc.Tenants.Register(ctx, identityapp.RegisterInput{
		TenantName: f.Tenant.Name,
		TenantCode: f.Tenant.Code,
		Name:       f.Admin.Name,
		Email:      f.Admin.Email,
		Password:   f.Admin.Password,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrAlreadyExists.Code {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySeeded, domainErr.Message)
		}
		return nil, fmt.Errorf("register tenant: %w", err)
	}
	tenantID, adminID := reg.User.TenantID, reg.User.ID
	sum := &Summary{TenantID: tenantID}
	s.logger.Info("Tenant registered", zap.String("tenant_id", tenantID.String()), zap.String("code", f.Tenant.Code))

	people, err := s.seedUsers(ctx, f, tenantID, adminID, sum)
	if err != nil {
		return nil, err
	}

	for _, c := range f.Clients {
		if err := s.seedClient(ctx, c, tenantID, adminID, people, today, sum); err != nil {
			return nil, err
		}
	}

	for _, r := range f.Records {
		amount, _ := decimal.NewFromString(r.Amount)
		if _, err := s.svc.Records.Create(ctx, financeapp.CreateRecordInput{
			TenantID:    tenantID,
			CreatedBy:   adminID,
			RecordType:  finance.RecordType(r.Type),
			Amount:      amount,
			Description: r.Description,
			RecordDate:  today.AddDate(0, 0, -r.DaysAgo),
		}); err != nil {
			return nil, fmt.Errorf("record %q: %w", r.Description, err)
		}
		sum.Records++
	}

	for _, a := range f.Announcements {
		if _, err := s.svc.Announcements.Create(ctx, tenantID, adminID, hr.AnnouncementFields{
			Title:    a.Title,
			Content:  a.Content,
			Category: hr.AnnouncementCategory(a.Category),
			IsPinned: a.Pinned,
		}); err != nil {
			return nil, fmt.Errorf("announcement %q: %w", a.Title, err)
		}
		sum.Announcements++
	}

	for _, l := range f.LeaveRequests {
		start := today.AddDate(0, 0, l.StartInDays)
		if _, err := s.svc.Leaves.Create(ctx, hrapp.CreateLeaveInput{
			TenantID:   tenantID,
			EmployeeID: people[strings.ToLower(l.Employee)],
			StartDate:  start,
			EndDate:    start.AddDate(0, 0, l.Days-1),
			LeaveType:  hr.LeaveType(l.Type),
			Reason:     l.Reason,
		}); err != nil {
			return nil, fmt.Errorf("leave request for %s: %w", l.Employee, err)
		}
		sum.LeaveRequests++
	}

	s.logger.Info("Seed complete",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("users", sum.Users),
		zap.Int("clients", sum.Clients),
		zap.Int("tasks", sum.Tasks),
		zap.Int("invoices", sum.Invoices),
	)
	return sum, nil
}

// seedUsers returns user IDs keyed by lower-cased email, admin included
func (s *Seeder) seedUsers(ctx context.Context, f *Fixture, tenantID, adminID uuid.UUID, sum *Summary) (map[string]uuid.UUID, error) {
	roles, err := s.svc.Roles.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roleIDs := make(map[string]uuid.UUID, len(roles))
	for _, r := range roles {
		roleIDs[r.Name] = r.ID
	}

	people := map[string]uuid.UUID{strings.ToLower(f.Admin.Email): adminID}
	for _, u := range f.Users {
		input := identityapp.CreateUserInput{
			TenantID:   tenantID,
			CreatedBy:  adminID,
			Name:       u.Name,
			Email:      u.Email,
			Password:   u.Password,
			Position:   u.Position,
			Department: u.Department,
		}
		if u.Role != "" {
			id, ok := roleIDs[u.Role]
			if !ok {
				return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
			}
			input.RoleID = &id
		}
		if u.HourlyRate != "" {
			rate, _ := decimal.NewFromString(u.HourlyRate)
			input.HourlyRate = &rate
		}
		created, err := s.svc.Users.Create(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Email, err)
		}
		people[strings.ToLower(u.Email)] = created.ID
		sum.Users++
	}
	return people, nil
}

func (s *Seeder) seedClient(ctx context.Context, c ClientFixture, tenantID, adminID uuid.UUID, people map[string]uuid.UUID, today time.Time, sum *Summary) error {
	client, err := s.svc.Clients.Create(ctx, crmapp.CreateClientInput{
		TenantID:    tenantID,
		CreatedBy:   adminID,
		Name:        c.Name,
		Description: c.Description,
		ContactInfo: c.ContactInfo,
	})
	if err != nil {
		return fmt.Errorf("client %q: %w", c.Name, err)
	}
	sum.Clients++

	brands := make(map[string]uuid.UUID, len(c.Brands))
	for _, b := range c.Brands {
		brand, err := s.svc.Brands.CreateBrand(ctx, tenantID, client.ID, crm.BrandFields{
			Name:        b.Name,
			Description: b.Description,
			Website:     b.Website,
			Industry:    b.Industry,
		})
		if err != nil {
			return fmt.Errorf("brand %q: %w", b.Name, err)
		}
		brands[b.Name] = brand.ID
		sum.Brands++
	}

	for _, t := range c.Tasks {
		clientID := client.ID
		input := workapp.CreateTaskInput{
			TenantID:      tenantID,
			CreatedBy:     adminID,
			Title:         t.Title,
			Description:   t.Description,
			ClientID:      &clientID,
			EstimatedTime: t.EstimatedHours,
			DueDate:       daysFrom(today, t.DueInDays),
		}
		if t.Brand != "" {
			id := brands[t.Brand]
			input.BrandID = &id
		}
		if t.Assignee != "" {
			id := people[strings.ToLower(t.Assignee)]
			input.AssignedTo = &id
		}
		if _, err := s.svc.Tasks.Create(ctx, input); err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}
		sum.Tasks++
	}

	for _, inv := range c.Invoices {
		amount, _ := decimal.NewFromString(inv.Amount)
		if _, err := s.svc.Invoices.Create(ctx, financeapp.CreateInvoiceInput{
			TenantID:      tenantID,
			CreatedBy:     adminID,
			ClientID:      client.ID,
			InvoiceNumber: inv.Number,
			Amount:        amount,
			DueDate:       daysFrom(today, inv.DueInDays),
		}); err != nil {
			return fmt.Errorf("invoice %s: %w", inv.Number, err)
		}
		sum.Invoices++
	}
	return nil
}

func daysFrom(today time.Time, days *int) *time.Time {
	if days == nil {
		return nil
	}
	t := today.AddDate(0, 0, *days)
	return &t
}
