package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// Attendance is one user's login/logout pair for one work day
type Attendance struct {
	shared.TenantAggregateRoot
	UserID     uuid.UUID
	WorkDate   time.Time
	LoginTime  *time.Time
	LogoutTime *time.Time
}

// Attendance errors surfaced to employees
var (
	ErrAlreadyLoggedIn  = shared.NewDomainError("ALREADY_LOGGED_IN", "Already logged in for today")
	ErrAlreadyLoggedOut = shared.NewDomainError("ALREADY_LOGGED_OUT", "Already logged out")
	ErrNotLoggedIn      = shared.NewDomainError("NOT_LOGGED_IN", "No login recorded for this attendance")
)

// NewAttendance creates an empty record for the calendar day of workDate
func NewAttendance(tenantID, userID uuid.UUID, workDate time.Time) (*Attendance, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	return &Attendance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		WorkDate:            shared.DateOnly(workDate),
	}, nil
}

// Login stamps the login time. A day has at most one login.
func (a *Attendance) Login(now time.Time) error {
	if a.LoginTime != nil {
		return ErrAlreadyLoggedIn
	}
	a.LoginTime = &now
	a.IncrementVersion()
	return nil
}

// Logout stamps the logout time
func (a *Attendance) Logout(now time.Time) error {
	if a.LogoutTime != nil {
		return ErrAlreadyLoggedOut
	}
	if a.LoginTime == nil {
		return ErrNotLoggedIn
	}
	if now.Before(*a.LoginTime) {
		now = *a.LoginTime
	}
	a.LogoutTime = &now
	a.IncrementVersion()
	return nil
}

// HoursWorked returns logout minus login in hours for a completed pair
func (a *Attendance) HoursWorked() (float64, bool) {
	if a.LoginTime == nil || a.LogoutTime == nil {
		return 0, false
	}
	return a.LogoutTime.Sub(*a.LoginTime).Hours(), true
}

// IsLate reports whether the login time-of-day in loc is after threshold, given as an offset from midnight
func (a *Attendance) IsLate(threshold time.Duration, loc *time.Location) bool {
	if a.LoginTime == nil {
		return false
	}
	return TimeOfDay(a.LoginTime.In(loc)) > threshold
}

// TimeOfDay returns the wall-clock reading of t as an offset from midnight
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight
func ParseTimeOfDay(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, shared.NewDomainError("INVALID_TIME_OF_DAY", "Time of day must be HH:MM or HH:MM:SS")
}
