package main

import (
	"testing"

	"github.com/jask/collectdash/internal/backend"
)

func jumpNames(p *jumpPicker) []string {
	out := make([]string, len(p.filtered))
	for i, c := range p.filtered {
		out[i] = c.Name
	}
	return out
}

func TestJumpRanksPrefixBeforeSubstring(t *testing.T) {
	p := &jumpPicker{all: []backend.Customer{
		{ID: "C1", Name: "Global Acme"},
		{ID: "C2", Name: "Acme Industrial"},
		{ID: "C3", Name: "Northwind"},
	}}
	p.query = "acme"
	p.rebuild()

	got := jumpNames(p)
	if len(got) != 2 {
		t.Fatalf("filtered = %v, want 2 matches", got)
	}
	if got[0] != "Acme Industrial" {
		t.Errorf("prefix match not first: %v", got)
	}
}

func TestJumpMatchesOnID(t *testing.T) {
	p := &jumpPicker{all: []backend.Customer{
		{ID: "C104", Name: "Evergreen Logistics"},
		{ID: "C200", Name: "Other"},
	}}
	p.query = "c104"
	p.rebuild()
	if len(p.filtered) != 1 || p.filtered[0].ID != "C104" {
		t.Fatalf("ID match = %+v", p.filtered)
	}
}

func TestJumpEmptyQueryShowsAll(t *testing.T) {
	p := &jumpPicker{all: []backend.Customer{{ID: "C1"}, {ID: "C2"}}, cursor: 5}
	p.rebuild()
	if len(p.filtered) != 2 {
		t.Fatalf("filtered = %d, want all", len(p.filtered))
	}
	if p.cursor != 1 {
		t.Errorf("cursor not clamped: %d", p.cursor)
	}
}
