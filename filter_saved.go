package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jask/collectdash/internal/backend"
)

// savedFilter is a named snapshot of one view's criteria plus the exclusion
// list that was active when it was saved. Applying it restores both exactly.
type savedFilter struct {
	ID           string
	Name         string
	View         string // customers, invoices, payments, tickets
	Criteria     filterCriteria
	Exclusions   []backend.ExcludedCustomer
	LastUsedUnix int64
	UseCount     int
}

// viewName maps a tab index to the view key stored with saved filters.
func viewName(tab int) string {
	switch tab {
	case tabCustomers:
		return "customers"
	case tabInvoices:
		return "invoices"
	case tabPayments:
		return "payments"
	case tabTickets:
		return "tickets"
	default:
		return ""
	}
}

func tabForView(view string) (int, bool) {
	switch view {
	case "customers":
		return tabCustomers, true
	case "invoices":
		return tabInvoices, true
	case "payments":
		return tabPayments, true
	case "tickets":
		return tabTickets, true
	default:
		return 0, false
	}
}

const maxSavedFilterIDLen = 63

// slugifySavedFilterID derives a stable ID from a human filter name.
// Alphanumerics are kept lowercase, '-' and '_' survive as typed, and any
// other run of characters collapses to a single '-'. Separators never lead
// or trail the result.
func slugifySavedFilterID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	id := make([]byte, 0, len(raw))
	var sep byte // separator held back until the next alphanumeric
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; {
		case ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9':
			if sep != 0 && len(id) > 0 {
				id = append(id, sep)
			}
			sep = 0
			id = append(id, ch)
		case ch == '-' || ch == '_':
			if sep == 0 {
				sep = ch
			}
		default:
			if sep == 0 {
				sep = '-'
			}
		}
	}
	if len(id) == 0 {
		return "filter"
	}
	if len(id) > maxSavedFilterIDLen {
		id = id[:maxSavedFilterIDLen]
	}
	return string(id)
}

func nextUniqueSavedFilterID(existing []savedFilter, base string) string {
	taken := make(map[string]bool, len(existing))
	for _, sf := range existing {
		taken[strings.ToLower(strings.TrimSpace(sf.ID))] = true
	}
	id := slugifySavedFilterID(base)
	if !taken[id] {
		return id
	}
	for n := 2; n < 10000; n++ {
		suffix := "-" + strconv.Itoa(n)
		candidate := id
		if len(candidate)+len(suffix) > maxSavedFilterIDLen {
			candidate = candidate[:maxSavedFilterIDLen-len(suffix)]
		}
		candidate += suffix
		if !taken[candidate] {
			return candidate
		}
	}
	return id
}

// encodeSavedFilter serializes the snapshot for the backend. Criteria and
// exclusions go in as JSON blobs the backend never interprets.
func encodeSavedFilter(sf savedFilter) (backend.SavedFilterRecord, error) {
	criteria, err := json.Marshal(sf.Criteria)
	if err != nil {
		return backend.SavedFilterRecord{}, fmt.Errorf("encode criteria: %w", err)
	}
	exclusions, err := json.Marshal(sf.Exclusions)
	if err != nil {
		return backend.SavedFilterRecord{}, fmt.Errorf("encode exclusions: %w", err)
	}
	last := sf.LastUsedUnix
	if last == 0 {
		last = time.Now().Unix()
	}
	return backend.SavedFilterRecord{
		ID:           sf.ID,
		Name:         sf.Name,
		View:         sf.View,
		Criteria:     criteria,
		Exclusions:   exclusions,
		LastUsedUnix: last,
		UseCount:     sf.UseCount,
	}, nil
}

func decodeSavedFilter(rec backend.SavedFilterRecord) (savedFilter, error) {
	sf := savedFilter{
		ID:           rec.ID,
		Name:         rec.Name,
		View:         rec.View,
		LastUsedUnix: rec.LastUsedUnix,
		UseCount:     rec.UseCount,
	}
	if len(rec.Criteria) > 0 {
		if err := json.Unmarshal(rec.Criteria, &sf.Criteria); err != nil {
			return savedFilter{}, fmt.Errorf("decode filter %s criteria: %w", rec.ID, err)
		}
	}
	if len(rec.Exclusions) > 0 {
		if err := json.Unmarshal(rec.Exclusions, &sf.Exclusions); err != nil {
			return savedFilter{}, fmt.Errorf("decode filter %s exclusions: %w", rec.ID, err)
		}
	}
	return sf, nil
}

// decodeSavedFilters drops records that fail to decode rather than failing
// the whole load; a corrupt row should not hide the healthy ones.
func decodeSavedFilters(recs []backend.SavedFilterRecord) []savedFilter {
	out := make([]savedFilter, 0, len(recs))
	for _, rec := range recs {
		sf, err := decodeSavedFilter(rec)
		if err != nil {
			continue
		}
		out = append(out, sf)
	}
	return out
}

// orderedSavedFilters sorts most-recently-used first, ID as tiebreak.
func orderedSavedFilters(list []savedFilter) []savedFilter {
	out := append([]savedFilter(nil), list...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastUsedUnix != out[j].LastUsedUnix {
			return out[i].LastUsedUnix > out[j].LastUsedUnix
		}
		return strings.ToLower(out[i].ID) < strings.ToLower(out[j].ID)
	})
	return out
}

func findSavedFilter(list []savedFilter, id string) (savedFilter, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, sf := range list {
		if strings.ToLower(strings.TrimSpace(sf.ID)) == id {
			return sf, true
		}
	}
	return savedFilter{}, false
}
