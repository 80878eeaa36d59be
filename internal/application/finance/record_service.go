package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RecordService manages income and expense records
type RecordService struct {
	recordRepo finance.RecordRepository
	logger     *zap.Logger
}

// NewRecordService creates a new record service
func NewRecordService(recordRepo finance.RecordRepository, logger *zap.Logger) *RecordService {
	return &RecordService{recordRepo: recordRepo, logger: logger}
}

// List returns records newest record date first
func (s *RecordService) List(ctx context.Context, tenantID uuid.UUID, filter finance.RecordFilter) (*shared.Paginated[RecordDTO], error) {
	filter.Filter = filter.Filter.Normalize()
	records, total, err := s.recordRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		items = append(items, ToRecordDTO(r))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create books a ledger line
func (s *RecordService) Create(ctx context.Context, input CreateRecordInput) (*RecordDTO, error) {
	rec, err := finance.NewFinancialRecord(input.TenantID, input.RecordType, input.Amount, input.Description, input.RecordDate)
	if err != nil {
		return nil, err
	}
	if input.CreatedBy != uuid.Nil {
		rec.SetCreatedBy(input.CreatedBy)
	}
	if err := s.recordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("financial record created",
		zap.String("record_id", rec.ID.String()),
		zap.String("type", string(rec.RecordType)),
		zap.String("amount", rec.Amount.String()),
	)
	dto := ToRecordDTO(rec)
	return &dto, nil
}
