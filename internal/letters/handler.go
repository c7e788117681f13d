package letters

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/jobs"
	"github.com/yugant99/TaylorAI/internal/profiles"
	"github.com/yugant99/TaylorAI/internal/shared/server/middleware"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
	"github.com/yugant99/TaylorAI/internal/shared/telemetry"
)

// Handler exposes letter generation and editing over HTTP.
type Handler struct {
	svc      *Service
	jobsRepo jobs.Repo
	docs     *profiles.Service
}

// NewHandler builds the letters handler.
func NewHandler(svc *Service, jobsRepo jobs.Repo, docs *profiles.Service) *Handler {
	return &Handler{svc: svc, jobsRepo: jobsRepo, docs: docs}
}

// Register mounts the read and edit routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/letters", h.List)
	rg.GET("/letters/:id", h.Get)
	rg.PUT("/letters/:id", h.Update)
}

// RegisterGenerate mounts the generation route, kept separate so it can
// sit behind a stricter rate limit.
func (h *Handler) RegisterGenerate(rg *gin.RouterGroup) {
	rg.POST("/letters/generate", h.Generate)
}

type generateRequest struct {
	Jobs        []JobInput `json:"jobs"`
	JobIDs      []string   `json:"jobIds"`
	Tone        string     `json:"tone"`
	Style       string     `json:"style"`
	Resume      string     `json:"resume"`
	CoverLetter string     `json:"cover_letter"`
}

type generateResponse struct {
	Letters []string `json:"letters"`
	Results []Result `json:"results"`
}

// failurePlaceholder renders the letters[i] entry for a failed slot.
func failurePlaceholder(ge *GenerationError) string {
	if ge.Status > 0 {
		return fmt.Sprintf("Could not generate cover letter: API error (%d)", ge.Status)
	}
	return "Could not generate cover letter: " + ge.Message
}

// Generate runs batch letter generation for the posted jobs.
func (h *Handler) Generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil)
		return
	}

	jobInputs := req.Jobs
	if len(jobInputs) == 0 && len(req.JobIDs) > 0 {
		resolved, err := h.jobsRepo.GetByIDs(c.Request.Context(), req.JobIDs)
		if err != nil {
			telemetry.Error("letters.resolve_jobs_failed", map[string]any{"user_id": userID, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal", "Could not load jobs", nil)
			return
		}
		known := make(map[string]bool, len(resolved))
		for _, j := range resolved {
			known[j.ID] = true
			jobInputs = append(jobInputs, JobInput{
				ID:          j.ID,
				Title:       j.Title,
				Company:     j.Company,
				Description: j.Description,
			})
		}
		var unknown []string
		for _, id := range req.JobIDs {
			if !known[id] {
				unknown = append(unknown, id)
			}
		}
		if len(unknown) > 0 {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "unknown job ids", gin.H{"unknownJobIds": unknown})
			return
		}
	}

	resume := strings.TrimSpace(req.Resume)
	coverLetter := strings.TrimSpace(req.CoverLetter)

	if resume == "" {
		text, err := h.docs.EnsureText(c.Request.Context(), userID, profiles.SlotResume)
		if err != nil && !errors.Is(err, profiles.ErrDocumentMissing) && !errors.Is(err, profiles.ErrExtractionFailed) {
			telemetry.Error("letters.resume_text_failed", map[string]any{"user_id": userID, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal", "Could not load resume text", nil)
			return
		}
		resume = text
	}
	if coverLetter == "" {
		text, err := h.docs.EnsureText(c.Request.Context(), userID, profiles.SlotCoverLetter)
		if err != nil && !errors.Is(err, profiles.ErrDocumentMissing) && !errors.Is(err, profiles.ErrExtractionFailed) {
			telemetry.Error("letters.cover_text_failed", map[string]any{"user_id": userID, "error": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "internal", "Could not load cover letter text", nil)
			return
		}
		coverLetter = text
	}

	c.Set("jobCount", len(jobInputs))

	results, err := h.svc.Generate(c.Request.Context(), userID, Params{
		Jobs:        jobInputs,
		Tone:        req.Tone,
		Style:       req.Style,
		Resume:      resume,
		CoverLetter: coverLetter,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
			return
		}
		if errors.Is(err, ErrNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "not_configured", "Letter generation is not configured", nil)
			return
		}
		telemetry.Error("letters.generate_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Letter generation failed", nil)
		return
	}

	resp := generateResponse{
		Letters: make([]string, len(results)),
		Results: results,
	}
	for i, r := range results {
		if r.Err != nil && r.Content == "" {
			resp.Letters[i] = failurePlaceholder(r.Err)
		} else {
			resp.Letters[i] = r.Content
		}
	}

	respond.OK(c, resp)
}

// List returns the user's letters, newest first.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	list, err := h.svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		telemetry.Error("letters.list_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load letters", nil)
		return
	}
	if list == nil {
		list = []*Letter{}
	}
	respond.OK(c, gin.H{"letters": list})
}

// Get returns one letter.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")

	letter, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Letter not found", nil)
			return
		}
		telemetry.Error("letters.get_failed", map[string]any{"user_id": userID, "letter_id": id, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load letter", nil)
		return
	}
	c.Set("letterId", letter.ID)
	respond.OK(c, gin.H{"letter": letter})
}

type updateRequest struct {
	Content string `json:"content"`
}

// Update overwrites a letter body.
func (h *Handler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil)
		return
	}

	letter, err := h.svc.UpdateContent(c.Request.Context(), userID, id, req.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Letter not found", nil)
			return
		}
		if errors.Is(err, ErrInvalidRequest) {
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
			return
		}
		telemetry.Error("letters.update_failed", map[string]any{"user_id": userID, "letter_id": id, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not update letter", nil)
		return
	}

	c.Set("letterId", letter.ID)
	respond.OK(c, gin.H{"letter": letter})
}
