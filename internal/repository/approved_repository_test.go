package repository

import (
	"strings"
	"testing"
)

func TestBuildApprovedFiltersEmpty(t *testing.T) {
	cond, args := buildApprovedFilters(ApprovedSearchQuery{})
	if cond != "1=1" {
		t.Fatalf("cond = %q, want 1=1", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestBuildApprovedFiltersLowercasesTribe(t *testing.T) {
	cond, args := buildApprovedFilters(ApprovedSearchQuery{Tribe: "Khasi", Village: "mawlynnong"})
	for _, want := range []string{"tribe = ?", "village = ?"} {
		if !strings.Contains(cond, want) {
			t.Fatalf("cond %q missing %q", cond, want)
		}
	}
	if args[0] != "khasi" {
		t.Fatalf("tribe arg = %v, want khasi", args[0])
	}
	if args[1] != "mawlynnong" {
		t.Fatalf("village arg = %v", args[1])
	}
}

func TestBuildApprovedFiltersSearch(t *testing.T) {
	cond, args := buildApprovedFilters(ApprovedSearchQuery{Search: "  Bamboo Dance "})
	for _, want := range []string{
		"LOWER(title) LIKE ?",
		"LOWER(description) LIKE ?",
		"LOWER(tribe) LIKE ?",
		"LOWER(village) LIKE ?",
	} {
		if !strings.Contains(cond, want) {
			t.Fatalf("cond = %q missing %q", cond, want)
		}
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 like patterns", args)
	}
	for _, a := range args {
		if a != "%bamboo dance%" {
			t.Fatalf("like arg = %v, want %%bamboo dance%%", a)
		}
	}
}

func TestBuildApprovedFiltersCategoryAndSearchCombine(t *testing.T) {
	cond, args := buildApprovedFilters(ApprovedSearchQuery{Category: "folktales", Search: "river"})
	if !strings.Contains(cond, "category = ?") || !strings.Contains(cond, " AND ") {
		t.Fatalf("cond = %q", cond)
	}
	if len(args) != 5 {
		t.Fatalf("args = %v, want category plus 4 like patterns", args)
	}
}
