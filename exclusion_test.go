package main

import (
	"testing"
	"time"

	"github.com/jask/collectdash/internal/backend"
)

func TestExclusionStoreBasics(t *testing.T) {
	s := newExclusionStore()
	s.Add(backend.ExcludedCustomer{CustomerID: "C2", Reason: "dispute"})
	s.Add(backend.ExcludedCustomer{CustomerID: "C1"})

	if !s.Has("C1") || !s.Has("C2") || s.Has("C3") {
		t.Error("membership wrong after Add")
	}
	if got := s.IDs(); len(got) != 2 || got[0] != "C1" || got[1] != "C2" {
		t.Errorf("IDs = %v, want sorted [C1 C2]", got)
	}

	s.Remove("C1")
	if s.Has("C1") || s.Len() != 1 {
		t.Error("Remove did not take")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Error("Clear did not take")
	}
}

func TestExclusionListNewestFirst(t *testing.T) {
	s := newExclusionStore()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.Add(backend.ExcludedCustomer{CustomerID: "old", ExcludedAt: base})
	s.Add(backend.ExcludedCustomer{CustomerID: "new", ExcludedAt: base.Add(time.Hour)})

	list := s.List()
	if len(list) != 2 || list[0].CustomerID != "new" || list[1].CustomerID != "old" {
		t.Errorf("List order = %+v, want newest first", list)
	}
}

func TestReplaceSwapsSnapshot(t *testing.T) {
	s := newExclusionStore()
	s.Add(backend.ExcludedCustomer{CustomerID: "C9"})
	s.Replace([]backend.ExcludedCustomer{{CustomerID: "C1"}, {CustomerID: "C2"}})
	if s.Has("C9") || !s.Has("C1") || !s.Has("C2") {
		t.Errorf("Replace left stale state: %v", s.IDs())
	}
}

func TestFilterExcludedKeepsCacheIntact(t *testing.T) {
	rows := []backend.Invoice{
		{RefNbr: "INV-1", CustomerID: "C1"},
		{RefNbr: "INV-2", CustomerID: "C2"},
		{RefNbr: "INV-3", CustomerID: "C1"},
	}
	s := newExclusionStore()
	s.Add(backend.ExcludedCustomer{CustomerID: "C1"})

	visible := filterExcluded(rows, func(i backend.Invoice) string { return i.CustomerID }, s)
	if len(visible) != 1 || visible[0].RefNbr != "INV-2" {
		t.Fatalf("visible = %+v, want only INV-2", visible)
	}
	if len(rows) != 3 {
		t.Fatal("input slice mutated")
	}

	// Including the customer again restores the rows without a refetch.
	s.Remove("C1")
	visible = filterExcluded(rows, func(i backend.Invoice) string { return i.CustomerID }, s)
	if len(visible) != 3 {
		t.Fatalf("after include, visible = %d rows, want 3", len(visible))
	}
}

func TestFilterExcludedNilStore(t *testing.T) {
	rows := []backend.Payment{{ID: "P1"}}
	got := filterExcluded(rows, func(p backend.Payment) string { return p.CustomerID }, nil)
	if len(got) != 1 {
		t.Errorf("nil store filtered rows: %v", got)
	}
}
