package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
)

func TestViewRendersEveryTab(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	seedCustomers(t, &m, []backend.Customer{{ID: "C1", Name: "Acme Freight", BalanceCents: 120000}})
	seedInvoices(t, &m, []backend.Invoice{{RefNbr: "INV-77", CustomerName: "Acme Freight", AmountCents: 50000}})
	res, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = res.(model)

	for tab := 0; tab < tabCount; tab++ {
		m.activeTab = tab
		out := m.View()
		if out == "" {
			t.Fatalf("tab %s rendered empty", tabNames[tab])
		}
		if !strings.Contains(out, tabNames[tab]) {
			t.Errorf("tab %s missing from header", tabNames[tab])
		}
	}

	m.activeTab = tabCustomers
	if out := m.View(); !strings.Contains(out, "Acme Freight") {
		t.Error("customer row not rendered")
	}
	m.activeTab = tabInvoices
	if out := m.View(); !strings.Contains(out, "INV-77") {
		t.Error("invoice row not rendered")
	}
}

func TestViewNotesOverlay(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.notes = &notesOverlay{
		title: "Acme Freight",
		notes: []backend.Note{{Body: "promised payment friday", Author: "demo"}},
	}
	out := m.View()
	if !strings.Contains(out, "promised payment friday") {
		t.Error("note body not rendered")
	}

	m.notes = &notesOverlay{title: "Acme Freight", loading: true}
	if out := m.View(); !strings.Contains(out, "loading") {
		t.Error("loading state not rendered")
	}
}
