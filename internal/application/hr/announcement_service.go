package hr

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// NewMarkdown returns the renderer used for announcement bodies. Raw HTML in
// the source is not passed through.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
}

// AnnouncementService manages the company board
type AnnouncementService struct {
	repo     hr.AnnouncementRepository
	markdown goldmark.Markdown
	logger   *zap.Logger
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(repo hr.AnnouncementRepository, markdown goldmark.Markdown, logger *zap.Logger) *AnnouncementService {
	if markdown == nil {
		markdown = NewMarkdown()
	}
	return &AnnouncementService{repo: repo, markdown: markdown, logger: logger}
}

// List returns pinned announcements first, then newest first
func (s *AnnouncementService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, category *hr.AnnouncementCategory) (*shared.Paginated[AnnouncementDTO], error) {
	if category != nil && !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown announcement category: "+string(*category))
	}
	filter = filter.Normalize()
	items, total, err := s.repo.FindAll(ctx, tenantID, filter, category)
	if err != nil {
		return nil, err
	}
	out := make([]AnnouncementDTO, 0, len(items))
	for _, a := range items {
		out = append(out, s.toDTO(a))
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one announcement
func (s *AnnouncementService) Get(ctx context.Context, tenantID, id uuid.UUID) (*AnnouncementDTO, error) {
	a, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(a)
	return &dto, nil
}

// Create posts an announcement by authorID
func (s *AnnouncementService) Create(ctx context.Context, tenantID, authorID uuid.UUID, fields hr.AnnouncementFields) (*AnnouncementDTO, error) {
	a, err := hr.NewAnnouncement(tenantID, authorID, fields)
	if err != nil {
		return nil, err
	}
	a.SetCreatedBy(authorID)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("Announcement posted", zap.String("announcement_id", a.ID.String()), zap.Bool("pinned", a.IsPinned))
	dto := s.toDTO(a)
	return &dto, nil
}

// Update replaces an announcement's fields
func (s *AnnouncementService) Update(ctx context.Context, tenantID, id uuid.UUID, fields hr.AnnouncementFields) (*AnnouncementDTO, error) {
	a, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(fields); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	dto := s.toDTO(a)
	return &dto, nil
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// Render converts markdown to HTML
func (s *AnnouncementService) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *AnnouncementService) toDTO(a *hr.Announcement) AnnouncementDTO {
	rendered, err := s.Render(a.Content)
	if err != nil {
		s.logger.Warn("Failed to render announcement", zap.String("announcement_id", a.ID.String()), zap.Error(err))
	}
	return AnnouncementDTO{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		ContentHTML:   rendered,
		Category:      string(a.Category),
		IsPinned:      a.IsPinned,
		AuthorID:      a.AuthorID,
		AttachmentURL: a.AttachmentURL,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (s *AnnouncementService) find(ctx context.Context, tenantID, id uuid.UUID) (*hr.Announcement, error) {
	a, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Announcement not found")
		}
		return nil, err
	}
	return a, nil
}
