package repository

import (
	"strings"
	"testing"
)

func TestBuildSubmissionFiltersEmpty(t *testing.T) {
	cond, args := buildSubmissionFilters(SubmissionSearchQuery{})
	if cond != "1=1" {
		t.Fatalf("cond = %q, want 1=1", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestBuildSubmissionFiltersStatusAllSkipsStatus(t *testing.T) {
	cond, args := buildSubmissionFilters(SubmissionSearchQuery{Status: "ALL", Category: "folktales"})
	if strings.Contains(cond, "status") {
		t.Fatalf("cond %q should not filter status for all", cond)
	}
	if len(args) != 1 || args[0] != "folktales" {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildSubmissionFiltersLowercasesStatusAndTribe(t *testing.T) {
	_, args := buildSubmissionFilters(SubmissionSearchQuery{Status: "Approved", Tribe: "Khasi"})
	if args[0] != "approved" {
		t.Fatalf("status arg = %v, want approved", args[0])
	}
	if args[1] != "khasi" {
		t.Fatalf("tribe arg = %v, want khasi", args[1])
	}
}

func TestBuildSubmissionFiltersSearch(t *testing.T) {
	cond, args := buildSubmissionFilters(SubmissionSearchQuery{Search: "  Folk Song "})
	if !strings.Contains(cond, "LOWER(title) LIKE ?") ||
		!strings.Contains(cond, "LOWER(description) LIKE ?") ||
		!strings.Contains(cond, "LOWER(body) LIKE ?") {
		t.Fatalf("cond = %q missing search columns", cond)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v, want 3 like patterns", args)
	}
	for _, a := range args {
		if a != "%folk song%" {
			t.Fatalf("like arg = %v, want %%folk song%%", a)
		}
	}
}

func TestBuildSubmissionFiltersCombined(t *testing.T) {
	cond, args := buildSubmissionFilters(SubmissionSearchQuery{
		Status:  "pending",
		Country: "India",
		State:   "Assam",
		Village: "majuli",
	})
	for _, want := range []string{"status = ?", "country = ?", "state = ?", "village = ?"} {
		if !strings.Contains(cond, want) {
			t.Fatalf("cond %q missing %q", cond, want)
		}
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4", args)
	}
}

func TestOrderClause(t *testing.T) {
	if orderClause("oldest") != "ORDER BY created_at ASC" {
		t.Fatalf("oldest clause = %q", orderClause("oldest"))
	}
	for _, s := range []string{"", "newest", "id; DROP TABLE submissions"} {
		if orderClause(s) != "ORDER BY created_at DESC" {
			t.Fatalf("sort %q clause = %q, want newest default", s, orderClause(s))
		}
	}
}

func TestSubmissionInsertBindsEveryColumn(t *testing.T) {
	cols := strings.Count(submissionInsertSQL[:strings.Index(submissionInsertSQL, "VALUES")], ",") + 1
	marks := strings.Count(submissionInsertSQL[strings.Index(submissionInsertSQL, "VALUES"):], "?")
	if cols != marks {
		t.Fatalf("insert lists %d columns but binds %d values", cols, marks)
	}
	if !strings.Contains(submissionInsertSQL, "consent_collected_at") {
		t.Fatal("insert does not record when consent was collected")
	}
}

func TestNullable(t *testing.T) {
	if v := nullable(""); v != nil {
		t.Fatalf("nullable(\"\") = %v, want nil", v)
	}
	if v := nullable("   "); v != nil {
		t.Fatalf("nullable(blank) = %v, want nil", v)
	}
	if v := nullable("x"); v != "x" {
		t.Fatalf("nullable(x) = %v, want x", v)
	}
}
