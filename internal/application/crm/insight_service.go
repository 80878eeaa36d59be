package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/crm"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// historyMessages caps how many communications are shown to the model
const historyMessages = 20

// ClientInputAnalyzer reads free-text client requests
type ClientInputAnalyzer interface {
	AnalyzeClientInput(ctx context.Context, req assistant.ClientInputRequest) assistant.ClientInputAnalysis
}

// InsightService analyzes client requests and reports on client delivery
type InsightService struct {
	clientRepo crm.ClientRepository
	commRepo   crm.CommunicationRepository
	taskRepo   work.TaskRepository
	analyzer   ClientInputAnalyzer
	logger     *zap.Logger
}

// NewInsightService creates a new client insight service
func NewInsightService(
	clientRepo crm.ClientRepository,
	commRepo crm.CommunicationRepository,
	taskRepo work.TaskRepository,
	analyzer ClientInputAnalyzer,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		clientRepo: clientRepo,
		commRepo:   commRepo,
		taskRepo:   taskRepo,
		analyzer:   analyzer,
		logger:     logger,
	}
}

// AnalyzeInput analyzes text. With a client ID the client's tasks and
// communications are attached as history.
func (s *InsightService) AnalyzeInput(ctx context.Context, tenantID uuid.UUID, text string, clientID *uuid.UUID) (*assistant.ClientInputAnalysis, error) {
	req := assistant.ClientInputRequest{Text: text}
	if clientID != nil {
		history, err := s.history(ctx, tenantID, *clientID)
		if err != nil {
			return nil, err
		}
		req.History = history
	}
	result := s.analyzer.AnalyzeClientInput(ctx, req)
	return &result, nil
}

// PerformanceReport summarizes the tasks of a client created within r
func (s *InsightService) PerformanceReport(ctx context.Context, tenantID, clientID uuid.UUID, r shared.DateRange) (*PerformanceReport, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, clientID)
	if err != nil {
		return nil, notFoundAsClient(err)
	}
	tasks, err := s.taskRepo.FindCreatedBetween(ctx, tenantID, r.Start, r.EndExclusive(), &clientID, nil)
	if err != nil {
		return nil, err
	}
	return &PerformanceReport{
		ClientID:          client.ID,
		ClientName:        client.Name,
		Period:            periodOf(r),
		PerformanceReport: work.BuildPerformanceReport(tasks),
	}, nil
}

func (s *InsightService) history(ctx context.Context, tenantID, clientID uuid.UUID) (*assistant.ClientHistory, error) {
	if _, err := s.clientRepo.FindByID(ctx, tenantID, clientID); err != nil {
		return nil, notFoundAsClient(err)
	}

	var (
		tasks []*work.Task
		logs  []*crm.CommunicationLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		filter := work.NewTaskFilter()
		filter.ClientID = &clientID
		filter.PageSize = shared.MaxPageSize
		var err error
		tasks, _, err = s.taskRepo.FindAll(gctx, tenantID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.commRepo.FindByClient(gctx, tenantID, clientID, historyMessages)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load client history", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, err
	}

	h := &assistant.ClientHistory{}
	for _, t := range tasks {
		h.Tasks = append(h.Tasks, assistant.HistoryTask{Title: t.Title, Description: t.Description, Status: string(t.Status)})
	}
	for _, l := range logs {
		h.Communications = append(h.Communications, assistant.HistoryMessage{Message: l.Message, Channel: l.Channel, CreatedAt: l.CreatedAt})
	}
	return h, nil
}

func notFoundAsClient(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return errClientNotFound
	}
	return err
}
