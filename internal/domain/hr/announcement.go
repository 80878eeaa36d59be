package hr

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
)

// AnnouncementCategory groups announcements on the board
type AnnouncementCategory string

const (
	AnnouncementGeneral AnnouncementCategory = "general"
	AnnouncementHR      AnnouncementCategory = "hr"
	AnnouncementCompany AnnouncementCategory = "company"
	AnnouncementEvent   AnnouncementCategory = "event"
)

func (c AnnouncementCategory) IsValid() bool {
	switch c {
	case AnnouncementGeneral, AnnouncementHR, AnnouncementCompany, AnnouncementEvent:
		return true
	}
	return false
}

// Announcement is a markdown post on the company board
type Announcement struct {
	shared.TenantAggregateRoot
	Title         string
	Content       string
	Category      AnnouncementCategory
	IsPinned      bool
	AuthorID      uuid.UUID
	AttachmentURL string
}

// AnnouncementFields holds the editable fields
type AnnouncementFields struct {
	Title         string
	Content       string
	Category      AnnouncementCategory
	IsPinned      bool
	AttachmentURL string
}

// NewAnnouncement creates an announcement by authorID
func NewAnnouncement(tenantID, authorID uuid.UUID, f AnnouncementFields) (*Announcement, error) {
	a := &Announcement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AuthorID:            authorID,
	}
	if err := a.apply(f); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields
func (a *Announcement) Update(f AnnouncementFields) error {
	if err := a.apply(f); err != nil {
		return err
	}
	a.IncrementVersion()
	return nil
}

func (a *Announcement) apply(f AnnouncementFields) error {
	title := strings.TrimSpace(f.Title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1-200 characters")
	}
	if strings.TrimSpace(f.Content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	if f.Category == "" {
		f.Category = AnnouncementGeneral
	}
	if !f.Category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown announcement category: "+string(f.Category))
	}
	a.Title = title
	a.Content = f.Content
	a.Category = f.Category
	a.IsPinned = f.IsPinned
	a.AttachmentURL = strings.TrimSpace(f.AttachmentURL)
	return nil
}
