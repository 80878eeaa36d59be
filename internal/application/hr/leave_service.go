package hr

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LeaveService files and decides leave requests
type LeaveService struct {
	leaveRepo hr.LeaveRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaveService creates a new leave service
func NewLeaveService(leaveRepo hr.LeaveRepository, publisher shared.EventPublisher, logger *zap.Logger) *LeaveService {
	return &LeaveService{leaveRepo: leaveRepo, publisher: publisher, logger: logger, now: time.Now}
}

// Create files a pending request for the employee
func (s *LeaveService) Create(ctx context.Context, input CreateLeaveInput) (*LeaveDTO, error) {
	req, err := hr.NewLeaveRequest(input.TenantID, input.EmployeeID, input.StartDate, input.EndDate, input.LeaveType, input.Reason)
	if err != nil {
		return nil, err
	}
	req.SetCreatedBy(input.EmployeeID)
	if err := s.leaveRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.publish(ctx, req)

	s.logger.Info("Leave requested",
		zap.String("leave_id", req.ID.String()),
		zap.String("employee_id", input.EmployeeID.String()),
		zap.Int("days", req.Days),
	)
	dto := ToLeaveDTO(req)
	return &dto, nil
}

// List returns requests newest first
func (s *LeaveService) List(ctx context.Context, tenantID uuid.UUID, filter hr.LeaveFilter) (*shared.Paginated[LeaveDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	reqs, total, err := s.leaveRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LeaveDTO, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, ToLeaveDTO(r))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListOwn returns the employee's own requests
func (s *LeaveService) ListOwn(ctx context.Context, tenantID, employeeID uuid.UUID, filter hr.LeaveFilter) (*shared.Paginated[LeaveDTO], error) {
	filter.EmployeeID = &employeeID
	return s.List(ctx, tenantID, filter)
}

// Approve accepts a pending request
func (s *LeaveService) Approve(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*LeaveDTO, error) {
	return s.decide(ctx, tenantID, id, func(r *hr.LeaveRequest) error {
		return r.Approve(approverID, notes, s.now())
	})
}

// Reject declines a pending request
func (s *LeaveService) Reject(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*LeaveDTO, error) {
	return s.decide(ctx, tenantID, id, func(r *hr.LeaveRequest) error {
		return r.Reject(approverID, notes, s.now())
	})
}

func (s *LeaveService) decide(ctx context.Context, tenantID, id uuid.UUID, apply func(*hr.LeaveRequest) error) (*LeaveDTO, error) {
	req, err := s.leaveRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Leave request not found")
		}
		return nil, err
	}
	if err := apply(req); err != nil {
		return nil, err
	}
	if err := s.leaveRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.publish(ctx, req)

	s.logger.Info("Leave request decided",
		zap.String("leave_id", req.ID.String()),
		zap.String("status", string(req.Status)),
	)
	dto := ToLeaveDTO(req)
	return &dto, nil
}

func (s *LeaveService) publish(ctx context.Context, req *hr.LeaveRequest) {
	if err := shared.PublishPending(ctx, s.publisher, req); err != nil {
		s.logger.Warn("Failed to publish leave events", zap.String("leave_id", req.ID.String()), zap.Error(err))
	}
}
