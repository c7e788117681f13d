package letters

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yugant99/TaylorAI/internal/llm"
	"github.com/yugant99/TaylorAI/internal/shared/metrics"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
	"github.com/yugant99/TaylorAI/internal/shared/util"
)

// Service generates and persists cover letters.
type Service struct {
	repo       Repo
	client     llm.Client
	limit      int
	perJobWait time.Duration
	metrics    *metrics.Registry
}

// NewService wires the letter service. limit bounds concurrent completion
// calls per request; perJobWait bounds each completion attempt.
func NewService(repo Repo, client llm.Client, limit int, perJobWait time.Duration, reg *metrics.Registry) *Service {
	if limit <= 0 {
		limit = 4
	}
	if perJobWait <= 0 {
		perJobWait = 120 * time.Second
	}
	return &Service{
		repo:       repo,
		client:     client,
		limit:      limit,
		perJobWait: perJobWait,
		metrics:    reg,
	}
}

func (s *Service) validate(p Params) error {
	var reasons []string
	if len(p.Jobs) == 0 {
		reasons = append(reasons, "no jobs")
	}
	for i, job := range p.Jobs {
		if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.Company) == "" {
			reasons = append(reasons, fmt.Sprintf("job %d missing title or company", i))
		}
	}
	if !ValidTone(p.Tone) {
		reasons = append(reasons, fmt.Sprintf("unknown tone %q", p.Tone))
	}
	if !ValidStyle(p.Style) {
		reasons = append(reasons, fmt.Sprintf("unknown style %q", p.Style))
	}
	if strings.TrimSpace(p.Resume) == "" {
		reasons = append(reasons, "resume text is empty")
	}
	if strings.TrimSpace(p.CoverLetter) == "" {
		reasons = append(reasons, "cover letter text is empty")
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(reasons, "; "))
	}
	return nil
}

// Generate produces one letter per input job. The result slice always has
// the same length and order as p.Jobs; one job's failure never aborts the
// others. Validation and configuration are checked before any completion
// call.
func (s *Service) Generate(ctx context.Context, userID string, p Params) ([]Result, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	results := make([]Result, len(p.Jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, job := range p.Jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = s.generateOne(gctx, userID, job, p)
			return nil
		})
	}
	// Workers never return errors; failures live in their result slots.
	g.Wait()

	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(start))
	}
	return results, nil
}

func (s *Service) generateOne(ctx context.Context, userID string, job JobInput, p Params) Result {
	res := Result{JobID: job.ID}

	prompt := BuildPrompt(job, p.Tone, p.Style, p.Resume, p.CoverLetter)

	callCtx, cancel := context.WithTimeout(ctx, s.perJobWait)
	defer cancel()

	raw, err := completeWithRetry(callCtx, s.client, prompt)
	if err != nil {
		res.Err = classifyCompletionError(err)
		telemetry.Warn("letters.completion_failed", map[string]any{
			"user_id": userID, "job_id": job.ID, "code": res.Err.Code,
			"status": res.Err.Status, "error": err.Error(),
		})
		if s.metrics != nil {
			s.metrics.IncLettersFailed()
		}
		return res
	}

	content := util.SanitizeText(raw)
	if content == "" {
		res.Err = &GenerationError{
			Code:    CodeInvalidResponse,
			Message: "completion returned no usable text",
		}
		if s.metrics != nil {
			s.metrics.IncLettersFailed()
		}
		return res
	}
	res.Content = content

	letter := &Letter{
		ID:       uuid.NewString(),
		UserID:   userID,
		JobID:    job.ID,
		JobTitle: job.Title,
		Company:  job.Company,
		Tone:     p.Tone,
		Style:    p.Style,
		Content:  content,
	}
	if err := s.repo.Create(ctx, letter); err != nil {
		// The content survived generation; keep it so the save can be
		// retried without another completion call.
		res.Err = &GenerationError{
			Code:    CodeSaveFailed,
			Message: "letter generated but could not be saved",
		}
		telemetry.Error("letters.save_failed", map[string]any{
			"user_id": userID, "job_id": job.ID, "error": err.Error(),
		})
		if s.metrics != nil {
			s.metrics.IncLettersFailed()
		}
		return res
	}

	res.LetterID = letter.ID
	if s.metrics != nil {
		s.metrics.IncLettersGenerated()
	}
	return res
}

func classifyCompletionError(err error) *GenerationError {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return &GenerationError{
			Code:    CodeCompletionFailed,
			Status:  statusErr.Status,
			Message: fmt.Sprintf("API error (%d)", statusErr.Status),
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerationError{
			Code:    CodeCompletionFailed,
			Message: "completion timed out",
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &GenerationError{
			Code:    CodeCompletionFailed,
			Message: "network error calling completion API",
		}
	}
	return &GenerationError{
		Code:    CodeInvalidResponse,
		Message: err.Error(),
	}
}

// Get returns one of the user's letters.
func (s *Service) Get(ctx context.Context, userID, id string) (*Letter, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// UpdateContent overwrites a letter body after sanitizing it.
func (s *Service) UpdateContent(ctx context.Context, userID, id, content string) (*Letter, error) {
	clean := util.SanitizeText(content)
	if clean == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInvalidRequest)
	}
	if err := s.repo.UpdateContent(ctx, userID, id, clean); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the user's letters, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Letter, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
