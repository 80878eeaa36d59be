package hr

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errAttendanceNotFound = shared.NewDomainError(shared.ErrNotFound.Code, "Attendance record not found")

// AttendanceService records employee logins and logouts
type AttendanceService struct {
	attendanceRepo hr.AttendanceRepository
	userRepo       identity.UserRepository
	lateThreshold  time.Duration
	loc            *time.Location
	logger         *zap.Logger
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service. Work days are
// calendar days in loc.
func NewAttendanceService(
	attendanceRepo hr.AttendanceRepository,
	userRepo identity.UserRepository,
	lateThreshold time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	if lateThreshold <= 0 {
		lateThreshold = hr.DefaultLateThreshold
	}
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		lateThreshold:  lateThreshold,
		loc:            loc,
		logger:         logger,
		now:            time.Now,
	}
}

// Login stamps today's login. An existing record without a login is reused.
func (s *AttendanceService) Login(ctx context.Context, tenantID, userID uuid.UUID) (*AttendanceDTO, error) {
	now := s.now().In(s.loc)
	today := shared.DateOnly(now)

	record, err := s.attendanceRepo.FindByUserAndDate(ctx, tenantID, userID, today)
	switch {
	case err == nil:
		if err := record.Login(now); err != nil {
			return nil, err
		}
		if err := s.attendanceRepo.Update(ctx, record); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		record, err = hr.NewAttendance(tenantID, userID, today)
		if err != nil {
			return nil, err
		}
		if err := record.Login(now); err != nil {
			return nil, err
		}
		if err := s.attendanceRepo.Create(ctx, record); err != nil {
			// a concurrent login for the same day loses on the unique index
			if errors.Is(err, shared.ErrAlreadyExists) {
				return nil, hr.ErrAlreadyLoggedIn
			}
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("Attendance login",
		zap.String("user_id", userID.String()),
		zap.String("work_date", today.Format(shared.DateLayout)),
	)
	dto := ToAttendanceDTO(record)
	return &dto, nil
}

// Logout stamps the logout of one of the caller's records
func (s *AttendanceService) Logout(ctx context.Context, tenantID, userID, attendanceID uuid.UUID) (*AttendanceDTO, error) {
	record, err := s.attendanceRepo.FindByID(ctx, tenantID, attendanceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errAttendanceNotFound
		}
		return nil, err
	}
	if record.UserID != userID {
		return nil, errAttendanceNotFound
	}
	if err := record.Logout(s.now().In(s.loc)); err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("Attendance logout", zap.String("user_id", userID.String()))
	dto := ToAttendanceDTO(record)
	return &dto, nil
}

// Today returns the caller's record for today, or nil
func (s *AttendanceService) Today(ctx context.Context, tenantID, userID uuid.UUID) (*AttendanceDTO, error) {
	today := shared.DateOnly(s.now().In(s.loc))
	record, err := s.attendanceRepo.FindByUserAndDate(ctx, tenantID, userID, today)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	dto := ToAttendanceDTO(record)
	return &dto, nil
}

// History returns a user's records in r, newest first
func (s *AttendanceService) History(ctx context.Context, tenantID, userID uuid.UUID, r shared.DateRange) ([]AttendanceDTO, error) {
	records, err := s.attendanceRepo.FindByUserBetween(ctx, tenantID, userID, r)
	if err != nil {
		return nil, err
	}
	return toAttendanceDTOs(records), nil
}

// Stats reports daily presence over r against the active headcount
func (s *AttendanceService) Stats(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*AttendanceStatsReport, error) {
	records, err := s.attendanceRepo.FindBetween(ctx, tenantID, r)
	if err != nil {
		return nil, err
	}
	headcount, err := s.userRepo.CountActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &AttendanceStatsReport{
		Period:          periodOf(r),
		AttendanceStats: hr.BuildAttendanceStats(records, int(headcount), s.lateThreshold, s.loc),
	}, nil
}
