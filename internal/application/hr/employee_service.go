package hr

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	identityapp "github.com/hyperflow/backend/internal/application/identity"
	workapp "github.com/hyperflow/backend/internal/application/work"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/insight"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errEmployeeNotFound = shared.NewDomainError(shared.ErrNotFound.Code, "Employee not found")

// PerformanceAnalyzer reviews an employee's activity
type PerformanceAnalyzer interface {
	AnalyzeEmployeePerformance(ctx context.Context, req assistant.EmployeePerformanceRequest) assistant.EmployeePerformance
}

// EmployeeService gives HR a view of employees and their activity
type EmployeeService struct {
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	attendanceRepo hr.AttendanceRepository
	taskRepo       work.TaskRepository
	analyzer       PerformanceAnalyzer
	logger         *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	attendanceRepo hr.AttendanceRepository,
	taskRepo work.TaskRepository,
	analyzer PerformanceAnalyzer,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		attendanceRepo: attendanceRepo,
		taskRepo:       taskRepo,
		analyzer:       analyzer,
		logger:         logger,
	}
}

// List returns a page of employees
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) (*shared.Paginated[identityapp.UserDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	items := make([]identityapp.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, identityapp.ToUserDTO(u, names[u.RoleID]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.UserDTO, error) {
	user, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	roleName := ""
	if role, err := s.roleRepo.FindByID(ctx, tenantID, user.RoleID); err == nil {
		roleName = role.Name
	}
	dto := identityapp.ToUserDTO(user, roleName)
	return &dto, nil
}

// Attendance returns an employee's records in r, newest first
func (s *EmployeeService) Attendance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) ([]AttendanceDTO, error) {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.FindByUserBetween(ctx, tenantID, id, r)
	if err != nil {
		return nil, err
	}
	return toAttendanceDTOs(records), nil
}

// Tasks returns the tasks assigned to an employee
func (s *EmployeeService) Tasks(ctx context.Context, tenantID, id uuid.UUID, filter work.TaskFilter) (*shared.Paginated[workapp.TaskDTO], error) {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return nil, err
	}
	filter.Filter = filter.Filter.Normalize()
	filter.AssignedTo = &id
	tasks, total, err := s.taskRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]workapp.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, workapp.ToTaskDTO(t))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AnalyzePerformance reviews an employee's attendance and the tasks assigned
// to them that were created within r
func (s *EmployeeService) AnalyzePerformance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) (*PerformanceReview, error) {
	user, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var (
		records []*hr.Attendance
		tasks   []*work.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.FindByUserBetween(gctx, tenantID, id, r)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.FindCreatedBetween(gctx, tenantID, r.Start, r.EndExclusive(), nil, &id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load employee activity", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	req := assistant.EmployeePerformanceRequest{
		EmployeeName: user.Name,
		Attendance:   make([]insight.AttendanceSample, 0, len(records)),
		Tasks:        make([]insight.TaskSample, 0, len(tasks)),
	}
	for _, a := range records {
		req.Attendance = append(req.Attendance, insight.AttendanceSample{LoginTime: a.LoginTime, LogoutTime: a.LogoutTime})
	}
	for _, t := range tasks {
		req.Tasks = append(req.Tasks, insight.TaskSample{Status: string(t.Status), EstimatedTime: t.EstimatedTime, ActualTime: t.ActualTime})
	}

	return &PerformanceReview{
		Employee:            EmployeeRef{ID: user.ID, Name: user.Name, Email: user.Email},
		DateRange:           periodOf(r),
		EmployeePerformance: s.analyzer.AnalyzeEmployeePerformance(ctx, req),
	}, nil
}

func (s *EmployeeService) find(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errEmployeeNotFound
		}
		return nil, err
	}
	return user, nil
}
