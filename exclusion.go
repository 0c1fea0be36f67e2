package main

import (
	"sort"
	"time"

	"github.com/jask/collectdash/internal/backend"
)

// exclusionStore is the in-memory mirror of the signed-in user's exclusion
// list. Table views filter their cached rows through it on every render, so
// hiding a customer never requires a refetch; aggregate totals are recomputed
// server-side with the same ID set.
type exclusionStore struct {
	byID map[string]backend.ExcludedCustomer
}

func newExclusionStore() *exclusionStore {
	return &exclusionStore{byID: make(map[string]backend.ExcludedCustomer)}
}

// Replace swaps the whole list, used after the initial backend load and when
// a saved filter's exclusion snapshot is applied.
func (s *exclusionStore) Replace(list []backend.ExcludedCustomer) {
	s.byID = make(map[string]backend.ExcludedCustomer, len(list))
	for _, e := range list {
		s.byID[e.CustomerID] = e
	}
}

func (s *exclusionStore) Has(customerID string) bool {
	_, ok := s.byID[customerID]
	return ok
}

func (s *exclusionStore) Add(e backend.ExcludedCustomer) {
	if e.ExcludedAt.IsZero() {
		e.ExcludedAt = time.Now()
	}
	s.byID[e.CustomerID] = e
}

func (s *exclusionStore) Remove(customerID string) {
	delete(s.byID, customerID)
}

func (s *exclusionStore) Clear() {
	s.byID = make(map[string]backend.ExcludedCustomer)
}

func (s *exclusionStore) Len() int { return len(s.byID) }

// IDs returns the excluded customer IDs in stable order, the shape the
// analytics RPC wants.
func (s *exclusionStore) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the entries ordered by exclusion time, newest first.
func (s *exclusionStore) List() []backend.ExcludedCustomer {
	out := make([]backend.ExcludedCustomer, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExcludedAt.Equal(out[j].ExcludedAt) {
			return out[i].ExcludedAt.After(out[j].ExcludedAt)
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// filterExcluded drops rows belonging to excluded customers. The cache keeps
// the full page; only the visible slice shrinks, so including a customer
// again restores their rows without touching the backend.
func filterExcluded[Row any](rows []Row, customerID func(Row) string, s *exclusionStore) []Row {
	if s == nil || s.Len() == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !s.Has(customerID(r)) {
			out = append(out, r)
		}
	}
	return out
}
