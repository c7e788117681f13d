package jobs

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func jobRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "title", "company", "description", "location",
		"salary_min", "salary_max", "currency",
		"tech_skills", "soft_skills", "responsibilities", "qualifications",
		"source_url", "created_at",
	})
}

func TestPGRepoGetByIDsPreservesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	// Database returns rows in its own order.
	rows := jobRows(t).
		AddRow("j1", "Dev", "Foo", "", "", 0, 0, "", []byte(`["go"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), "", now).
		AddRow("j3", "SRE", "Baz", "", "", 0, 0, "", []byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), "", now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id IN")).
		WithArgs("j3", "missing", "j1").
		WillReturnRows(rows)

	repo := NewPGRepo(db)
	got, err := repo.GetByIDs(context.Background(), []string{"j3", "missing", "j1"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs", len(got))
	}
	if got[0].ID != "j3" || got[1].ID != "j1" {
		t.Errorf("order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if len(got[1].TechSkills) != 1 || got[1].TechSkills[0] != "go" {
		t.Errorf("jsonb list not decoded: %+v", got[1].TechSkills)
	}
}

func TestMemoryRepoSelections(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.Seed(
		&Job{ID: "j1", Title: "Dev", Company: "Foo"},
		&Job{ID: "j2", Title: "SRE", Company: "Bar"},
	)

	if err := repo.SetSelections(ctx, "u1", []string{"j2", "j1"}); err != nil {
		t.Fatal(err)
	}
	ids, err := repo.GetSelections(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "j2" || ids[1] != "j1" {
		t.Errorf("selections %v", ids)
	}

	// Replacement, not accumulation.
	if err := repo.SetSelections(ctx, "u1", []string{"j1"}); err != nil {
		t.Fatal(err)
	}
	ids, _ = repo.GetSelections(ctx, "u1")
	if len(ids) != 1 || ids[0] != "j1" {
		t.Errorf("selections after replace %v", ids)
	}
}

func TestMemoryRepoGetByIDsSkipsUnknown(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Seed(&Job{ID: "j1", Title: "Dev", Company: "Foo"})

	got, err := repo.GetByIDs(context.Background(), []string{"nope", "j1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "j1" {
		t.Errorf("got %+v", got)
	}
}
