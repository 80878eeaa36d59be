package hr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperflow/backend/internal/application/assistant"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxResumeSize is the largest accepted resume upload
const MaxResumeSize = 5 << 20

const resumeSystemPrompt = "You are an HR recruitment specialist that analyzes resumes and provides structured assessments. Always respond with valid JSON."

var errInvalidResume = shared.NewDomainError("INVALID_RESUME", "Resume must be a non-empty text file of at most 5 MiB")

// JSONCompleter asks the model for a JSON document
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, kind, system, prompt string, out any) error
}

// ObjectStore is the slice of object storage the recruitment flow writes to
type ObjectStore interface {
	Key(parts ...string) string
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// RecruitmentService screens resumes
type RecruitmentService struct {
	llm    JSONCompleter
	store  ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRecruitmentService creates a new recruitment service
func NewRecruitmentService(llm JSONCompleter, store ObjectStore, logger *zap.Logger) *RecruitmentService {
	return &RecruitmentService{llm: llm, store: store, logger: logger, now: time.Now}
}

// AnalyzeResume archives the upload and returns the model's assessment for
// the position. A storage outage does not block the analysis.
func (s *RecruitmentService) AnalyzeResume(ctx context.Context, input ResumeInput) (*ResumeAnalysis, error) {
	position := strings.TrimSpace(input.Position)
	if position == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "position is required")
	}
	text, err := resumeText(input.Data)
	if err != nil {
		return nil, err
	}

	analyzedAt := s.now().UTC()
	key := s.archive(ctx, input, analyzedAt)

	var result ResumeAnalysis
	if err := s.llm.CompleteJSON(ctx, assistant.KindResume, resumeSystemPrompt, resumePrompt(position, text), &result); err != nil {
		return nil, err
	}
	result.Metadata = ResumeMetadata{
		Position:       position,
		ResumeFilename: input.Filename,
		AnalyzedAt:     analyzedAt,
		StorageKey:     key,
	}
	if result.KeySkills == nil {
		result.KeySkills = []string{}
	}
	if result.RelevantExperience == nil {
		result.RelevantExperience = []string{}
	}
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.Gaps == nil {
		result.Gaps = []string{}
	}
	return &result, nil
}

func (s *RecruitmentService) archive(ctx context.Context, input ResumeInput, at time.Time) string {
	if s.store == nil {
		return ""
	}
	name := input.Filename
	if name == "" {
		name = "resume.txt"
	}
	key := s.store.Key("resumes", input.TenantID.String(), at.Format("20060102T150405"), name)
	contentType := input.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	if err := s.store.Upload(ctx, key, input.Data, contentType); err != nil {
		if !errors.Is(err, storage.ErrStorageDisabled) {
			s.logger.Warn("Failed to archive resume", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return key
}

// resumeText decodes an upload as UTF-8, honouring a UTF-8 or UTF-16 byte order mark
func resumeText(data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxResumeSize {
		return "", errInvalidResume
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", errInvalidResume
	}
	text := string(decoded)
	// the decoder substitutes invalid bytes, so binary uploads show up as U+FFFD
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", errInvalidResume
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errInvalidResume
	}
	return text, nil
}

func resumePrompt(position, text string) string {
	return fmt.Sprintf(`Analyze this resume for a %s position:

Resume:
%s

Provide:
1. Key skills identified
2. Years of experience
3. Education summary
4. Relevant experience highlights
5. Skills match score (0-100) for the position
6. Strengths
7. Gaps or areas for improvement
8. Overall recommendation (Reject, Consider, Interview, Strong Candidate)

Format as JSON with these keys:
- key_skills (array)
- years_experience (number)
- education (string)
- relevant_experience (array)
- skills_match_score (number)
- strengths (array)
- gaps (array)
- recommendation (string)`, position, text)
}
