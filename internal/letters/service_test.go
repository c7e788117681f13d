package letters

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yugant99/TaylorAI/internal/llm"
)

// scriptedClient returns canned responses keyed by a substring of the prompt.
type scriptedClient struct {
	mu       sync.Mutex
	calls    int
	perJob   map[string]string
	perJobErr map[string]error
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	for key, err := range c.perJobErr {
		if strings.Contains(prompt, key) {
			return "", err
		}
	}
	for key, out := range c.perJob {
		if strings.Contains(prompt, key) {
			return out, nil
		}
	}
	return "generic letter body", nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type failingRepo struct {
	*MemoryRepo
	failFor map[string]bool
}

func (r *failingRepo) Create(ctx context.Context, letter *Letter) error {
	if r.failFor[letter.JobID] {
		return errors.New("db unavailable")
	}
	return r.MemoryRepo.Create(ctx, letter)
}

func validParams(jobs ...JobInput) Params {
	return Params{
		Jobs:        jobs,
		Tone:        ToneFormal,
		Style:       StyleNarrative,
		Resume:      "5 years Python",
		CoverLetter: "Previously at Acme",
	}
}

func newSvc(repo Repo, client llm.Client) *Service {
	return NewService(repo, client, 4, 5*time.Second, nil)
}

func TestGenerateSuccess(t *testing.T) {
	repo := NewMemoryRepo()
	client := &scriptedClient{perJob: map[string]string{"Foo Inc": "Dear Foo team, my Python work..."}}
	svc := newSvc(repo, client)

	results, err := svc.Generate(context.Background(), "u1", validParams(
		JobInput{ID: "j1", Title: "Backend Engineer", Company: "Foo Inc", Description: "Build APIs"},
	))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	r := results[0]
	if r.Err != nil {
		t.Fatalf("unexpected error: %+v", r.Err)
	}
	if r.JobID != "j1" || r.LetterID == "" || r.Content == "" {
		t.Errorf("incomplete result %+v", r)
	}

	saved, err := repo.GetByID(context.Background(), "u1", r.LetterID)
	if err != nil {
		t.Fatalf("letter not persisted: %v", err)
	}
	if saved.Content != r.Content || saved.JobID != "j1" {
		t.Errorf("persisted letter mismatch %+v", saved)
	}
}

func TestGenerateValidationGating(t *testing.T) {
	client := &scriptedClient{}
	svc := newSvc(NewMemoryRepo(), client)
	ctx := context.Background()

	cases := []Params{
		{Jobs: nil, Tone: ToneFormal, Style: StyleNarrative, Resume: "r", CoverLetter: "c"},
		{Jobs: []JobInput{{Title: "T", Company: "C"}}, Tone: "bogus", Style: StyleNarrative, Resume: "r", CoverLetter: "c"},
		{Jobs: []JobInput{{Title: "T", Company: "C"}}, Tone: ToneFormal, Style: "bogus", Resume: "r", CoverLetter: "c"},
		{Jobs: []JobInput{{Title: "T", Company: "C"}}, Tone: ToneFormal, Style: StyleNarrative, Resume: "  ", CoverLetter: "c"},
		{Jobs: []JobInput{{Title: "T", Company: "C"}}, Tone: ToneFormal, Style: StyleNarrative, Resume: "r", CoverLetter: ""},
		{Jobs: []JobInput{{Title: "", Company: "C"}}, Tone: ToneFormal, Style: StyleNarrative, Resume: "r", CoverLetter: "c"},
	}
	for i, p := range cases {
		if _, err := svc.Generate(ctx, "u1", p); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("case %d: expected ErrInvalidRequest, got %v", i, err)
		}
	}
	if client.callCount() != 0 {
		t.Errorf("validation failures still made %d completion calls", client.callCount())
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil, 4, time.Second, nil)
	_, err := svc.Generate(context.Background(), "u1", validParams(
		JobInput{Title: "T", Company: "C"},
	))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateFailureIsolationAndOrder(t *testing.T) {
	repo := NewMemoryRepo()
	client := &scriptedClient{
		perJob: map[string]string{
			"Good Corp":  "letter for good corp",
			"Other Corp": "letter for other corp",
		},
		perJobErr: map[string]error{
			"Bad Corp": &llm.StatusError{Status: 404, Body: "not found"},
		},
	}
	svc := newSvc(repo, client)

	jobsIn := []JobInput{
		{ID: "j1", Title: "Engineer", Company: "Bad Corp"},
		{ID: "j2", Title: "Engineer", Company: "Good Corp"},
		{ID: "j3", Title: "Engineer", Company: "Other Corp"},
	}
	results, err := svc.Generate(context.Background(), "u1", validParams(jobsIn...))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(results) != len(jobsIn) {
		t.Fatalf("got %d results for %d jobs", len(results), len(jobsIn))
	}

	for i, r := range results {
		if r.JobID != jobsIn[i].ID {
			t.Errorf("slot %d holds job %q, want %q", i, r.JobID, jobsIn[i].ID)
		}
	}

	if results[0].Err == nil {
		t.Fatal("failed job reported success")
	}
	if results[0].Err.Code != CodeCompletionFailed || results[0].Err.Status != 404 {
		t.Errorf("unexpected failure %+v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Content == "" {
		t.Errorf("sibling job 2 affected: %+v", results[1])
	}
	if results[2].Err != nil || results[2].Content == "" {
		t.Errorf("sibling job 3 affected: %+v", results[2])
	}
}

func TestGenerateRetriesTransientFailure(t *testing.T) {
	old := retryBackoff
	retryBackoff = 10 * time.Millisecond
	defer func() { retryBackoff = old }()

	var mu sync.Mutex
	attempts := 0
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return "", &llm.StatusError{Status: 503, Body: "overloaded"}
		}
		return "letter after retry", nil
	})

	svc := newSvc(NewMemoryRepo(), client)
	results, err := svc.Generate(context.Background(), "u1", validParams(
		JobInput{ID: "j1", Title: "T", Company: "C"},
	))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("retry did not recover: %+v", results[0].Err)
	}
	if attempts != 2 {
		t.Errorf("made %d attempts, want 2", attempts)
	}
}

func TestGenerateDoesNotRetryClientError(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return "", &llm.StatusError{Status: 400, Body: "bad prompt"}
	})

	svc := newSvc(NewMemoryRepo(), client)
	results, _ := svc.Generate(context.Background(), "u1", validParams(
		JobInput{ID: "j1", Title: "T", Company: "C"},
	))
	if results[0].Err == nil || results[0].Err.Status != 400 {
		t.Fatalf("unexpected result %+v", results[0])
	}
	if attempts != 1 {
		t.Errorf("made %d attempts, want 1", attempts)
	}
}

func TestGenerateSaveFailedKeepsContent(t *testing.T) {
	repo := &failingRepo{MemoryRepo: NewMemoryRepo(), failFor: map[string]bool{"j1": true}}
	client := &scriptedClient{perJob: map[string]string{"C": "the generated letter"}}
	svc := newSvc(repo, client)

	results, err := svc.Generate(context.Background(), "u1", validParams(
		JobInput{ID: "j1", Title: "T", Company: "C"},
	))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	r := results[0]
	if r.Err == nil || r.Err.Code != CodeSaveFailed {
		t.Fatalf("expected save_failed, got %+v", r)
	}
	if r.Content == "" {
		t.Error("save_failed dropped the generated content")
	}
	if r.LetterID != "" {
		t.Error("save_failed should not report a letter id")
	}
}

func TestGenerateEmptyCompletionIsInvalidResponse(t *testing.T) {
	client := completeFunc(func(ctx context.Context, prompt string) (string, error) {
		return "   \x00  ", nil
	})
	svc := newSvc(NewMemoryRepo(), client)

	results, err := svc.Generate(context.Background(), "u1", validParams(
		JobInput{ID: "j1", Title: "T", Company: "C"},
	))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if results[0].Err == nil || results[0].Err.Code != CodeInvalidResponse {
		t.Errorf("expected invalid_response, got %+v", results[0])
	}
}

func TestUpdateContentSanitizesAndChecksOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := newSvc(repo, &scriptedClient{})

	letter := &Letter{ID: "l1", UserID: "u1", JobID: "j1", Tone: ToneFormal, Style: StyleNarrative, Content: "original"}
	if err := repo.Create(ctx, letter); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateContent(ctx, "u1", "l1", "edited\x00 body")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if updated.Content != "edited body" {
		t.Errorf("got %q", updated.Content)
	}

	if _, err := svc.UpdateContent(ctx, "u2", "l1", "hijack"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's edit: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateContent(ctx, "u1", "l1", "   "); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("blank content: expected ErrInvalidRequest, got %v", err)
	}
}

// completeFunc adapts a function to llm.Client.
type completeFunc func(ctx context.Context, prompt string) (string, error)

func (f completeFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
