package main

import (
	"strings"
	"testing"

	"github.com/jask/collectdash/internal/backend"
)

func TestSlugifySavedFilterID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Overdue Acme", "overdue-acme"},
		{"  spaced   out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
		{"UPPER_case", "upper_case"},
		{"!!!", "filter"},
		{"", "filter"},
		{"--leading--", "leading"},
		{"mixed!!chars??here", "mixed-chars-here"},
		{strings.Repeat("x", 80), strings.Repeat("x", 63)},
	}
	for _, tt := range tests {
		if got := slugifySavedFilterID(tt.in); got != tt.want {
			t.Errorf("slugifySavedFilterID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextUniqueSavedFilterID(t *testing.T) {
	existing := []savedFilter{{ID: "overdue"}, {ID: "overdue-2"}}
	if got := nextUniqueSavedFilterID(existing, "Overdue"); got != "overdue-3" {
		t.Errorf("collision suffix = %q, want overdue-3", got)
	}
	if got := nextUniqueSavedFilterID(existing, "Fresh"); got != "fresh" {
		t.Errorf("no collision = %q, want fresh", got)
	}
}

func TestSavedFilterEncodeDecodeRoundTrip(t *testing.T) {
	// Applying a saved filter must restore the exact criteria and exclusion
	// snapshot that was saved, not an approximation.
	in := savedFilter{
		ID:   "us-will-pay",
		Name: "US will pay",
		View: "customers",
		Criteria: filterCriteria{
			Search:    "acme",
			Country:   "US",
			Color:     backend.ColorWillPay,
			HasColor:  true,
			MinAmount: "1,500.00",
			SortBy:    "balance_cents",
			SortDir:   backend.SortDesc,
			NonZero:   true,
		},
		Exclusions: []backend.ExcludedCustomer{
			{CustomerID: "C105", Reason: "credit balance"},
		},
		UseCount: 3,
	}

	rec, err := encodeSavedFilter(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if rec.LastUsedUnix == 0 {
		t.Error("encode did not stamp LastUsedUnix")
	}

	out, err := decodeSavedFilter(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Criteria != in.Criteria {
		t.Errorf("criteria changed in round trip:\n got %+v\nwant %+v", out.Criteria, in.Criteria)
	}
	if len(out.Exclusions) != 1 || out.Exclusions[0].CustomerID != "C105" || out.Exclusions[0].Reason != "credit balance" {
		t.Errorf("exclusions changed in round trip: %+v", out.Exclusions)
	}
	if out.UseCount != 3 || out.View != "customers" {
		t.Errorf("metadata changed: %+v", out)
	}
}

func TestDecodeSavedFiltersDropsCorruptRows(t *testing.T) {
	recs := []backend.SavedFilterRecord{
		{ID: "good", View: "invoices", Criteria: []byte(`{"status":"open"}`)},
		{ID: "bad", View: "invoices", Criteria: []byte(`{not json`)},
	}
	got := decodeSavedFilters(recs)
	if len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("decoded = %+v, want only the good row", got)
	}
	if got[0].Criteria.Status != "open" {
		t.Errorf("criteria = %+v", got[0].Criteria)
	}
}

func TestOrderedSavedFiltersMostRecentFirst(t *testing.T) {
	list := []savedFilter{
		{ID: "b", LastUsedUnix: 10},
		{ID: "a", LastUsedUnix: 10},
		{ID: "c", LastUsedUnix: 99},
	}
	got := orderedSavedFilters(list)
	if got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("order = %s %s %s, want c a b", got[0].ID, got[1].ID, got[2].ID)
	}
	if list[0].ID != "b" {
		t.Error("orderedSavedFilters mutated its input")
	}
}

func TestViewNameTabRoundTrip(t *testing.T) {
	for tab := 0; tab < tabCount; tab++ {
		name := viewName(tab)
		if name == "" {
			continue // settings has no saved-filter view
		}
		back, ok := tabForView(name)
		if !ok || back != tab {
			t.Errorf("tabForView(viewName(%d)) = %d, %v", tab, back, ok)
		}
	}
	if _, ok := tabForView("nope"); ok {
		t.Error("unknown view accepted")
	}
}
