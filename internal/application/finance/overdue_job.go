package finance

import (
	"context"
	"errors"
	"time"

	"github.com/hyperflow/backend/internal/domain/finance"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// OverdueJobName is the scheduler name of the overdue sweep
const OverdueJobName = "invoice_overdue"

// OverdueRecorder counts invoices flagged overdue
type OverdueRecorder interface {
	AddInvoicesOverdue(n int)
}

// OverdueSweeper marks pending invoices past their due date overdue
type OverdueSweeper struct {
	invoiceRepo finance.InvoiceRepository
	publisher   shared.EventPublisher
	recorder    OverdueRecorder
	batchSize   int
	loc         *time.Location
	logger      *zap.Logger
	now         func() time.Time
}

// NewOverdueSweeper creates the sweep job
func NewOverdueSweeper(
	invoiceRepo finance.InvoiceRepository,
	publisher shared.EventPublisher,
	recorder OverdueRecorder,
	batchSize int,
	loc *time.Location,
	logger *zap.Logger,
) *OverdueSweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OverdueSweeper{
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
		recorder:    recorder,
		batchSize:   batchSize,
		loc:         loc,
		logger:      logger,
		now:         time.Now,
	}
}

var _ scheduler.JobExecutor = (*OverdueSweeper)(nil)

// Execute sweeps every tenant in batches until a batch comes back short
func (s *OverdueSweeper) Execute(ctx context.Context, job *scheduler.Job) error {
	now := s.now().In(s.loc)
	today := shared.DateOnly(now)

	marked := 0
	var errs []error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := s.invoiceRepo.FindPendingDueBefore(ctx, today, s.batchSize)
		if err != nil {
			return err
		}

		progressed := 0
		for _, inv := range batch {
			ok, err := inv.MarkOverdue(now)
			if err != nil || !ok {
				continue
			}
			if err := s.invoiceRepo.Update(ctx, inv); err != nil {
				s.logger.Error("failed to mark invoice overdue",
					zap.String("invoice_id", inv.ID.String()),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}
			if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
				s.logger.Warn("failed to publish overdue event", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
			}
			progressed++
		}
		marked += progressed

		if len(batch) < s.batchSize || progressed == 0 {
			break
		}
	}

	if s.recorder != nil && marked > 0 {
		s.recorder.AddInvoicesOverdue(marked)
	}
	s.logger.Info("overdue sweep finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("marked", marked),
		zap.Int("failed", len(errs)),
	)
	return errors.Join(errs...)
}
