package letters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/jobs"
	"github.com/yugant99/TaylorAI/internal/llm"
	"github.com/yugant99/TaylorAI/internal/profiles"
	"github.com/yugant99/TaylorAI/internal/shared/storage/object/local"
)

type stubExtractor struct{ text string }

func (s stubExtractor) FromBytes(name string, data []byte) (string, error) {
	return s.text, nil
}

func newTestRouter(t *testing.T, client llm.Client, jobsRepo jobs.Repo, docsRepo profiles.Repo) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := local.New(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	docs := profiles.NewService(docsRepo, store, stubExtractor{text: "extracted resume"}, time.Hour)

	lettersRepo := NewMemoryRepo()
	svc := NewService(lettersRepo, client, 4, 5*time.Second, nil)
	h := NewHandler(svc, jobsRepo, docs)

	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	h.Register(api)
	h.RegisterGenerate(api)
	return r, lettersRepo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpointSuccess(t *testing.T) {
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		return "Dear hiring team,", nil
	})
	r, _ := newTestRouter(t, client, jobs.NewMemoryRepo(), profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobs": []map[string]string{
			{"id": "j1", "title": "Backend Engineer", "company": "Foo Inc", "description": "Build APIs"},
		},
		"tone":         "formal",
		"style":        "narrative",
		"resume":       "5 years Python",
		"cover_letter": "Previously at Acme",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Letters) != 1 || len(resp.Results) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Letters[0] != "Dear hiring team," {
		t.Errorf("letters[0] = %q", resp.Letters[0])
	}
	if resp.Results[0].LetterID == "" {
		t.Error("result missing letter id")
	}
}

func TestGenerateEndpointFailurePlaceholder(t *testing.T) {
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", &llm.StatusError{Status: 500, Body: "boom"}
	})
	r, _ := newTestRouter(t, client, jobs.NewMemoryRepo(), profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobs": []map[string]string{
			{"id": "j1", "title": "Backend Engineer", "company": "Foo Inc"},
		},
		"tone":         "formal",
		"style":        "narrative",
		"resume":       "resume text",
		"cover_letter": "cover text",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Letters[0] != "Could not generate cover letter: API error (500)" {
		t.Errorf("letters[0] = %q", resp.Letters[0])
	}
	if resp.Results[0].Err == nil || resp.Results[0].Err.Code != CodeCompletionFailed {
		t.Errorf("results[0] = %+v", resp.Results[0])
	}
}

func TestGenerateEndpointUnconfiguredIs500(t *testing.T) {
	// A nil client is what bootstrap wires when no API key is set; the
	// whole request must fail before any per-job work.
	r, _ := newTestRouter(t, nil, jobs.NewMemoryRepo(), profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobs": []map[string]string{
			{"id": "j1", "title": "Backend Engineer", "company": "Foo Inc"},
		},
		"tone":         "formal",
		"style":        "narrative",
		"resume":       "resume text",
		"cover_letter": "cover text",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "not_configured" {
		t.Errorf("error code %q", resp.Error.Code)
	}
}

func TestGenerateEndpointValidation(t *testing.T) {
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Error("completion called despite invalid request")
		return "", nil
	})
	r, _ := newTestRouter(t, client, jobs.NewMemoryRepo(), profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobs":         []map[string]string{},
		"tone":         "formal",
		"style":        "narrative",
		"resume":       "resume text",
		"cover_letter": "cover text",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateEndpointResolvesJobIDs(t *testing.T) {
	jobsRepo := jobs.NewMemoryRepo()
	jobsRepo.Seed(
		&jobs.Job{ID: "j1", Title: "SRE", Company: "Bar Ltd", Description: "Keep it up"},
		&jobs.Job{ID: "j2", Title: "Dev", Company: "Foo Inc", Description: "Ship it"},
	)
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		return "letter body", nil
	})
	r, _ := newTestRouter(t, client, jobsRepo, profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobIds":       []string{"j2", "j1"},
		"tone":         "casual",
		"style":        "hybrid",
		"resume":       "resume text",
		"cover_letter": "cover text",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results", len(resp.Results))
	}
	// Input id order is preserved through resolution.
	if resp.Results[0].JobID != "j2" || resp.Results[1].JobID != "j1" {
		t.Errorf("order not preserved: %+v", resp.Results)
	}
}

func TestGenerateEndpointRejectsUnknownJobIDs(t *testing.T) {
	jobsRepo := jobs.NewMemoryRepo()
	jobsRepo.Seed(&jobs.Job{ID: "j1", Title: "SRE", Company: "Bar Ltd", Description: "Keep it up"})
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Error("completion called despite unknown job ids")
		return "", nil
	})
	r, _ := newTestRouter(t, client, jobsRepo, profiles.NewMemoryRepo())

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobIds":       []string{"j1", "ghost"},
		"tone":         "formal",
		"style":        "narrative",
		"resume":       "resume text",
		"cover_letter": "cover text",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				UnknownJobIDs []string `json:"unknownJobIds"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "invalid_request" {
		t.Errorf("error code %q", resp.Error.Code)
	}
	if len(resp.Error.Details.UnknownJobIDs) != 1 || resp.Error.Details.UnknownJobIDs[0] != "ghost" {
		t.Errorf("unknown ids %v", resp.Error.Details.UnknownJobIDs)
	}
}

func TestGenerateEndpointPullsCachedResume(t *testing.T) {
	docsRepo := profiles.NewMemoryRepo()
	ctx := context.Background()
	if err := docsRepo.SetText(ctx, "u1", profiles.SlotResume, "cached resume text"); err != nil {
		t.Fatal(err)
	}
	if err := docsRepo.SetText(ctx, "u1", profiles.SlotCoverLetter, "cached cover text"); err != nil {
		t.Fatal(err)
	}

	var sawResume bool
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		sawResume = bytes.Contains([]byte(prompt), []byte("cached resume text"))
		return "letter body", nil
	})
	r, _ := newTestRouter(t, client, jobs.NewMemoryRepo(), docsRepo)

	w := postJSON(t, r, "/api/v1/letters/generate", map[string]any{
		"jobs": []map[string]string{
			{"id": "j1", "title": "Dev", "company": "Foo"},
		},
		"tone":  "formal",
		"style": "narrative",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !sawResume {
		t.Error("prompt did not contain the cached resume text")
	}
}

func TestLetterGetUpdateNotFound(t *testing.T) {
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) { return "x", nil })
	r, repo := newTestRouter(t, client, jobs.NewMemoryRepo(), profiles.NewMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/letters/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET missing letter: status %d", w.Code)
	}

	if err := repo.Create(context.Background(), &Letter{ID: "l1", UserID: "someone-else", JobID: "j1", Tone: "formal", Style: "narrative", Content: "body"}); err != nil {
		t.Fatal(err)
	}

	raw, _ := json.Marshal(map[string]string{"content": "hijacked"})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/letters/l1", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("PUT other user's letter: status %d", w.Code)
	}
}
