package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/application/crm"
	"github.com/hyperflow/backend/internal/application/finance"
	"github.com/hyperflow/backend/internal/application/hr"
	"github.com/hyperflow/backend/internal/application/identity"
	"github.com/hyperflow/backend/internal/application/marketing"
	"github.com/hyperflow/backend/internal/application/work"
	domainCRM "github.com/hyperflow/backend/internal/domain/crm"
	domainFinance "github.com/hyperflow/backend/internal/domain/finance"
	domainHR "github.com/hyperflow/backend/internal/domain/hr"
	domainIdentity "github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	domainWork "github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/mock"
)

// result unpacks a (value, error) pair, tolerating a nil value
func result[T any](args mock.Arguments) (T, error) {
	var zero T
	if v := args.Get(0); v != nil {
		return v.(T), args.Error(1)
	}
	return zero, args.Error(1)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	return result[*identity.LoginResult](m.Called(ctx, input))
}

func (m *mockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.RefreshTokenResult, error) {
	return result[*identity.RefreshTokenResult](m.Called(ctx, input))
}

func (m *mockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*identity.CurrentUserResult, error) {
	return result[*identity.CurrentUserResult](m.Called(ctx, tenantID, userID))
}

func (m *mockAuthService) ChangePassword(ctx context.Context, input identity.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

type mockRegistrar struct{ mock.Mock }

func (m *mockRegistrar) Register(ctx context.Context, input identity.RegisterInput) (*identity.LoginResult, error) {
	return result[*identity.LoginResult](m.Called(ctx, input))
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Create(ctx context.Context, input identity.CreateUserInput) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, input))
}

func (m *mockUserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, tenantID, id))
}

func (m *mockUserService) List(ctx context.Context, tenantID uuid.UUID, filter domainIdentity.UserFilter) (*shared.Paginated[identity.UserDTO], error) {
	return result[*shared.Paginated[identity.UserDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockUserService) Update(ctx context.Context, input identity.UpdateUserInput) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, input))
}

func (m *mockUserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, tenantID, id))
}

func (m *mockUserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, tenantID, id))
}

type mockRoleService struct{ mock.Mock }

func (m *mockRoleService) List(ctx context.Context, tenantID uuid.UUID) ([]identity.RoleDTO, error) {
	return result[[]identity.RoleDTO](m.Called(ctx, tenantID))
}

func (m *mockRoleService) Create(ctx context.Context, input identity.CreateRoleInput) (*identity.RoleDTO, error) {
	return result[*identity.RoleDTO](m.Called(ctx, input))
}

type mockClientService struct{ mock.Mock }

func (m *mockClientService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[crm.ClientDTO], error) {
	return result[*shared.Paginated[crm.ClientDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockClientService) Create(ctx context.Context, input crm.CreateClientInput) (*crm.ClientDTO, error) {
	return result[*crm.ClientDTO](m.Called(ctx, input))
}

func (m *mockClientService) Get(ctx context.Context, tenantID, id uuid.UUID) (*crm.ClientDTO, error) {
	return result[*crm.ClientDTO](m.Called(ctx, tenantID, id))
}

func (m *mockClientService) Update(ctx context.Context, input crm.UpdateClientInput) (*crm.ClientDTO, error) {
	return result[*crm.ClientDTO](m.Called(ctx, input))
}

func (m *mockClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockClientService) Exists(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockBrandService struct{ mock.Mock }

func (m *mockBrandService) ListBrands(ctx context.Context, tenantID, clientID uuid.UUID) ([]crm.BrandDTO, error) {
	return result[[]crm.BrandDTO](m.Called(ctx, tenantID, clientID))
}

func (m *mockBrandService) CreateBrand(ctx context.Context, tenantID, clientID uuid.UUID, fields domainCRM.BrandFields) (*crm.BrandDTO, error) {
	return result[*crm.BrandDTO](m.Called(ctx, tenantID, clientID, fields))
}

func (m *mockBrandService) UpdateBrand(ctx context.Context, tenantID, id uuid.UUID, fields domainCRM.BrandFields) (*crm.BrandDTO, error) {
	return result[*crm.BrandDTO](m.Called(ctx, tenantID, id, fields))
}

func (m *mockBrandService) DeleteBrand(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockBrandService) ListCommunications(ctx context.Context, tenantID, clientID uuid.UUID, limit int) ([]crm.CommunicationDTO, error) {
	return result[[]crm.CommunicationDTO](m.Called(ctx, tenantID, clientID, limit))
}

func (m *mockBrandService) LogCommunication(ctx context.Context, tenantID, clientID, senderID uuid.UUID, channel, message string) (*crm.CommunicationDTO, error) {
	return result[*crm.CommunicationDTO](m.Called(ctx, tenantID, clientID, senderID, channel, message))
}

type mockClientInsights struct{ mock.Mock }

func (m *mockClientInsights) AnalyzeInput(ctx context.Context, tenantID uuid.UUID, text string, clientID *uuid.UUID) (*assistant.ClientInputAnalysis, error) {
	return result[*assistant.ClientInputAnalysis](m.Called(ctx, tenantID, text, clientID))
}

func (m *mockClientInsights) PerformanceReport(ctx context.Context, tenantID, clientID uuid.UUID, r shared.DateRange) (*crm.PerformanceReport, error) {
	return result[*crm.PerformanceReport](m.Called(ctx, tenantID, clientID, r))
}

type mockTaskService struct{ mock.Mock }

func (m *mockTaskService) List(ctx context.Context, tenantID uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error) {
	return result[*shared.Paginated[work.TaskDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockTaskService) Create(ctx context.Context, input work.CreateTaskInput) (*work.TaskDTO, error) {
	return result[*work.TaskDTO](m.Called(ctx, input))
}

func (m *mockTaskService) Get(ctx context.Context, tenantID, id uuid.UUID) (*work.TaskDTO, error) {
	return result[*work.TaskDTO](m.Called(ctx, tenantID, id))
}

func (m *mockTaskService) Update(ctx context.Context, input work.UpdateTaskInput) (*work.TaskDTO, error) {
	return result[*work.TaskDTO](m.Called(ctx, input))
}

func (m *mockTaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockTaskService) ListAssigned(ctx context.Context, tenantID, userID uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error) {
	return result[*shared.Paginated[work.TaskDTO]](m.Called(ctx, tenantID, userID, filter))
}

func (m *mockTaskService) GetAssigned(ctx context.Context, tenantID, userID, id uuid.UUID) (*work.TaskDTO, error) {
	return result[*work.TaskDTO](m.Called(ctx, tenantID, userID, id))
}

func (m *mockTaskService) ChangeAssignedStatus(ctx context.Context, tenantID, userID, id uuid.UUID, status domainWork.TaskStatus) (*work.TaskDTO, error) {
	return result[*work.TaskDTO](m.Called(ctx, tenantID, userID, id, status))
}

func (m *mockTaskService) Insights(ctx context.Context, tenantID, taskID uuid.UUID) ([]work.InsightDTO, error) {
	return result[[]work.InsightDTO](m.Called(ctx, tenantID, taskID))
}

func (m *mockTaskService) PredictTimeline(ctx context.Context, input work.PredictTimelineInput) (*work.TimelinePrediction, error) {
	return result[*work.TimelinePrediction](m.Called(ctx, input))
}

type mockAttendanceService struct{ mock.Mock }

func (m *mockAttendanceService) Login(ctx context.Context, tenantID, userID uuid.UUID) (*hr.AttendanceDTO, error) {
	return result[*hr.AttendanceDTO](m.Called(ctx, tenantID, userID))
}

func (m *mockAttendanceService) Logout(ctx context.Context, tenantID, userID, attendanceID uuid.UUID) (*hr.AttendanceDTO, error) {
	return result[*hr.AttendanceDTO](m.Called(ctx, tenantID, userID, attendanceID))
}

func (m *mockAttendanceService) Today(ctx context.Context, tenantID, userID uuid.UUID) (*hr.AttendanceDTO, error) {
	return result[*hr.AttendanceDTO](m.Called(ctx, tenantID, userID))
}

func (m *mockAttendanceService) History(ctx context.Context, tenantID, userID uuid.UUID, r shared.DateRange) ([]hr.AttendanceDTO, error) {
	return result[[]hr.AttendanceDTO](m.Called(ctx, tenantID, userID, r))
}

func (m *mockAttendanceService) Stats(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*hr.AttendanceStatsReport, error) {
	return result[*hr.AttendanceStatsReport](m.Called(ctx, tenantID, r))
}

type mockLeaveService struct{ mock.Mock }

func (m *mockLeaveService) Create(ctx context.Context, input hr.CreateLeaveInput) (*hr.LeaveDTO, error) {
	return result[*hr.LeaveDTO](m.Called(ctx, input))
}

func (m *mockLeaveService) List(ctx context.Context, tenantID uuid.UUID, filter domainHR.LeaveFilter) (*shared.Paginated[hr.LeaveDTO], error) {
	return result[*shared.Paginated[hr.LeaveDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockLeaveService) ListOwn(ctx context.Context, tenantID, employeeID uuid.UUID, filter domainHR.LeaveFilter) (*shared.Paginated[hr.LeaveDTO], error) {
	return result[*shared.Paginated[hr.LeaveDTO]](m.Called(ctx, tenantID, employeeID, filter))
}

func (m *mockLeaveService) Approve(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*hr.LeaveDTO, error) {
	return result[*hr.LeaveDTO](m.Called(ctx, tenantID, id, approverID, notes))
}

func (m *mockLeaveService) Reject(ctx context.Context, tenantID, id, approverID uuid.UUID, notes string) (*hr.LeaveDTO, error) {
	return result[*hr.LeaveDTO](m.Called(ctx, tenantID, id, approverID, notes))
}

type mockEmployeeService struct{ mock.Mock }

func (m *mockEmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter domainIdentity.UserFilter) (*shared.Paginated[identity.UserDTO], error) {
	return result[*shared.Paginated[identity.UserDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockEmployeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserDTO, error) {
	return result[*identity.UserDTO](m.Called(ctx, tenantID, id))
}

func (m *mockEmployeeService) Attendance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) ([]hr.AttendanceDTO, error) {
	return result[[]hr.AttendanceDTO](m.Called(ctx, tenantID, id, r))
}

func (m *mockEmployeeService) Tasks(ctx context.Context, tenantID, id uuid.UUID, filter domainWork.TaskFilter) (*shared.Paginated[work.TaskDTO], error) {
	return result[*shared.Paginated[work.TaskDTO]](m.Called(ctx, tenantID, id, filter))
}

func (m *mockEmployeeService) AnalyzePerformance(ctx context.Context, tenantID, id uuid.UUID, r shared.DateRange) (*hr.PerformanceReview, error) {
	return result[*hr.PerformanceReview](m.Called(ctx, tenantID, id, r))
}

type mockAnnouncementService struct{ mock.Mock }

func (m *mockAnnouncementService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *domainHR.AnnouncementCategory) (*shared.Paginated[hr.AnnouncementDTO], error) {
	return result[*shared.Paginated[hr.AnnouncementDTO]](m.Called(ctx, tenantID, filter, category))
}

func (m *mockAnnouncementService) Get(ctx context.Context, tenantID, id uuid.UUID) (*hr.AnnouncementDTO, error) {
	return result[*hr.AnnouncementDTO](m.Called(ctx, tenantID, id))
}

func (m *mockAnnouncementService) Create(ctx context.Context, tenantID, authorID uuid.UUID, fields domainHR.AnnouncementFields) (*hr.AnnouncementDTO, error) {
	return result[*hr.AnnouncementDTO](m.Called(ctx, tenantID, authorID, fields))
}

func (m *mockAnnouncementService) Update(ctx context.Context, tenantID, id uuid.UUID, fields domainHR.AnnouncementFields) (*hr.AnnouncementDTO, error) {
	return result[*hr.AnnouncementDTO](m.Called(ctx, tenantID, id, fields))
}

func (m *mockAnnouncementService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockResumeAnalyzer struct{ mock.Mock }

func (m *mockResumeAnalyzer) AnalyzeResume(ctx context.Context, input hr.ResumeInput) (*hr.ResumeAnalysis, error) {
	return result[*hr.ResumeAnalysis](m.Called(ctx, input))
}

type mockInvoiceService struct{ mock.Mock }

func (m *mockInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter domainFinance.InvoiceFilter) (*shared.Paginated[finance.InvoiceDTO], error) {
	return result[*shared.Paginated[finance.InvoiceDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockInvoiceService) Create(ctx context.Context, input finance.CreateInvoiceInput) (*finance.InvoiceDTO, error) {
	return result[*finance.InvoiceDTO](m.Called(ctx, input))
}

func (m *mockInvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceDTO, error) {
	return result[*finance.InvoiceDTO](m.Called(ctx, tenantID, id))
}

func (m *mockInvoiceService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status domainFinance.InvoiceStatus) (*finance.InvoiceDTO, error) {
	return result[*finance.InvoiceDTO](m.Called(ctx, tenantID, id, status))
}

type mockInvoiceRenderer struct{ mock.Mock }

func (m *mockInvoiceRenderer) Render(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoicePDF, error) {
	return result[*finance.InvoicePDF](m.Called(ctx, tenantID, id))
}

type mockRecordService struct{ mock.Mock }

func (m *mockRecordService) List(ctx context.Context, tenantID uuid.UUID, filter domainFinance.RecordFilter) (*shared.Paginated[finance.RecordDTO], error) {
	return result[*shared.Paginated[finance.RecordDTO]](m.Called(ctx, tenantID, filter))
}

func (m *mockRecordService) Create(ctx context.Context, input finance.CreateRecordInput) (*finance.RecordDTO, error) {
	return result[*finance.RecordDTO](m.Called(ctx, input))
}

type mockFinanceReports struct{ mock.Mock }

func (m *mockFinanceReports) Summary(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*finance.FinancialSummary, error) {
	return result[*finance.FinancialSummary](m.Called(ctx, tenantID, r))
}

func (m *mockFinanceReports) AnalyzeCost(ctx context.Context, tenantID uuid.UUID, r shared.DateRange) (*finance.CostReport, error) {
	return result[*finance.CostReport](m.Called(ctx, tenantID, r))
}

type mockMarketingService struct{ mock.Mock }

func (m *mockMarketingService) GenerateEmailCopy(ctx context.Context, input marketing.EmailCopyInput) (*marketing.EmailCopy, error) {
	return result[*marketing.EmailCopy](m.Called(ctx, input))
}

func (m *mockMarketingService) AnalyzeMarketTrends(ctx context.Context, input marketing.TrendInput) (*marketing.TrendAnalysis, error) {
	return result[*marketing.TrendAnalysis](m.Called(ctx, input))
}

func (m *mockMarketingService) ListTrends(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, industry string) (*shared.Paginated[marketing.TrendDTO], error) {
	return result[*shared.Paginated[marketing.TrendDTO]](m.Called(ctx, tenantID, filter, industry))
}

func (m *mockMarketingService) AnalyzeMeeting(ctx context.Context, transcript, meetingType string) (*assistant.MeetingAnalysis, error) {
	return result[*assistant.MeetingAnalysis](m.Called(ctx, transcript, meetingType))
}

func (m *mockMarketingService) CampaignInsights(ctx context.Context, campaignData map[string]any, segment string) (*assistant.MarketingInsights, error) {
	return result[*assistant.MarketingInsights](m.Called(ctx, campaignData, segment))
}

type mockAnalyzer struct{ mock.Mock }

func (m *mockAnalyzer) AnalyzeClientInput(ctx context.Context, req assistant.ClientInputRequest) assistant.ClientInputAnalysis {
	return m.Called(ctx, req).Get(0).(assistant.ClientInputAnalysis)
}

func (m *mockAnalyzer) AnalyzePlatformMessages(ctx context.Context, messages []assistant.PlatformMessage) assistant.PlatformAnalysis {
	return m.Called(ctx, messages).Get(0).(assistant.PlatformAnalysis)
}

func (m *mockAnalyzer) AnalyzeMeetingTranscript(ctx context.Context, transcript, meetingType string) assistant.MeetingAnalysis {
	return m.Called(ctx, transcript, meetingType).Get(0).(assistant.MeetingAnalysis)
}

func (m *mockAnalyzer) GenerateMarketingInsights(ctx context.Context, campaignData any, segment string) assistant.MarketingInsights {
	return m.Called(ctx, campaignData, segment).Get(0).(assistant.MarketingInsights)
}

func (m *mockAnalyzer) AnalyzeFinancialData(ctx context.Context, entries []assistant.FinancialEntry) assistant.FinancialAnalysis {
	return m.Called(ctx, entries).Get(0).(assistant.FinancialAnalysis)
}

func (m *mockAnalyzer) AnalyzeEmployeePerformance(ctx context.Context, req assistant.EmployeePerformanceRequest) assistant.EmployeePerformance {
	return m.Called(ctx, req).Get(0).(assistant.EmployeePerformance)
}
