package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/internal/config"
)

// fakeClient is an in-memory backend.Client for model/update tests. Reads
// return the canned slices; writes record the call and succeed.
type fakeClient struct {
	customers []backend.Customer
	invoices  []backend.Invoice
	payments  []backend.Payment
	tickets   []backend.Ticket
	notes     []backend.Note
}

func (f *fakeClient) Customers(context.Context, backend.Query) ([]backend.Customer, error) {
	return f.customers, nil
}
func (f *fakeClient) CustomersCount(context.Context, backend.Query) (int, error) {
	return len(f.customers), nil
}
func (f *fakeClient) Invoices(context.Context, backend.Query) ([]backend.Invoice, error) {
	return f.invoices, nil
}
func (f *fakeClient) InvoicesCount(context.Context, backend.Query) (int, error) {
	return len(f.invoices), nil
}
func (f *fakeClient) Payments(context.Context, backend.Query) ([]backend.Payment, error) {
	return f.payments, nil
}
func (f *fakeClient) PaymentsCount(context.Context, backend.Query) (int, error) {
	return len(f.payments), nil
}
func (f *fakeClient) Tickets(context.Context, backend.Query) ([]backend.Ticket, error) {
	return f.tickets, nil
}
func (f *fakeClient) TicketsCount(context.Context, backend.Query) (int, error) {
	return len(f.tickets), nil
}
func (f *fakeClient) Notes(context.Context, string, string) ([]backend.Note, error) {
	return f.notes, nil
}
func (f *fakeClient) CustomersWithBalance(ctx context.Context, q backend.Query) ([]backend.Customer, error) {
	return f.Customers(ctx, q)
}
func (f *fakeClient) CustomersWithBalanceCount(ctx context.Context, q backend.Query) (int, error) {
	return f.CustomersCount(ctx, q)
}
func (f *fakeClient) CustomerInvoicesAdvanced(ctx context.Context, q backend.Query) ([]backend.Invoice, error) {
	return f.Invoices(ctx, q)
}
func (f *fakeClient) CustomerInvoicesAdvancedCount(ctx context.Context, q backend.Query) (int, error) {
	return f.InvoicesCount(ctx, q)
}
func (f *fakeClient) CustomerAnalytics(context.Context, backend.Query, []string) (backend.CustomerAnalytics, error) {
	return backend.CustomerAnalytics{}, nil
}
func (f *fakeClient) CollectorActivitySummary(context.Context, string) (backend.ActivitySummary, error) {
	return backend.ActivitySummary{}, nil
}
func (f *fakeClient) BatchUpdateInvoiceColorStatus(context.Context, []string, backend.ColorStatus) error {
	return nil
}
func (f *fakeClient) UpdateTicketPriority(context.Context, string, int) error { return nil }
func (f *fakeClient) UpdateFilterLastUsed(context.Context, string) error { return nil }
func (f *fakeClient) UpdateCustomerColor(context.Context, string, backend.ColorStatus) error {
	return nil
}
func (f *fakeClient) UpdateTicketStatus(context.Context, string, string) error { return nil }
func (f *fakeClient) AssignTicket(context.Context, string, string) error { return nil }
func (f *fakeClient) AddNote(context.Context, backend.Note) error { return nil }
func (f *fakeClient) ExcludedCustomers(context.Context) ([]backend.ExcludedCustomer, error) {
	return nil, nil
}
func (f *fakeClient) ExcludeCustomer(context.Context, backend.ExcludedCustomer) error { return nil }
func (f *fakeClient) IncludeCustomer(context.Context, string) error { return nil }
func (f *fakeClient) IncludeAllCustomers(context.Context) error { return nil }
func (f *fakeClient) SavedFilters(context.Context) ([]backend.SavedFilterRecord, error) {
	return nil, nil
}
func (f *fakeClient) SaveFilter(context.Context, backend.SavedFilterRecord) error { return nil }
func (f *fakeClient) DeleteFilter(context.Context, string) error { return nil }

func newTestModel(t *testing.T, be backend.Client) model {
	t.Helper()
	cfg := config.Config{}
	cfg.Backend.PageSize = 50
	cfg.Backend.Collector = "demo"
	return newModel(context.Background(), cfg, be, nil)
}

// seedCustomers loads rows into the customers session as a completed first page.
func seedCustomers(t *testing.T, m *model, rows []backend.Customer) {
	t.Helper()
	f, ok := m.customers.session.BeginFetch()
	if !ok {
		t.Fatal("session refused first fetch")
	}
	m.customers.session.Complete(f, rows, len(rows), nil)
}

// seedInvoices loads rows into the invoices session as a completed first page.
func seedInvoices(t *testing.T, m *model, rows []backend.Invoice) {
	t.Helper()
	f, ok := m.invoices.session.BeginFetch()
	if !ok {
		t.Fatal("session refused first fetch")
	}
	m.invoices.session.Complete(f, rows, len(rows), nil)
}

func TestApplySavedFilterRestoresSnapshot(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.exclusions.Add(backend.ExcludedCustomer{CustomerID: "C9", Reason: "stale"})

	sf := savedFilter{
		ID:   "open-disputes",
		Name: "Open disputes",
		View: "invoices",
		Criteria: filterCriteria{
			Status:    "open",
			MinAmount: "1,000.00",
			SortBy:    "days_past_due",
			SortDir:   backend.SortDesc,
		},
		Exclusions: []backend.ExcludedCustomer{{CustomerID: "C105", Reason: "credit balance"}},
	}

	m2, cmd := m.applySavedFilter(sf)
	if m2.activeTab != tabInvoices {
		t.Errorf("activeTab = %d, want invoices", m2.activeTab)
	}
	if m2.invoices.criteria != sf.Criteria {
		t.Errorf("criteria = %+v, want the saved snapshot verbatim", m2.invoices.criteria)
	}
	// The exclusion overlay is swapped, not merged.
	if m2.exclusions.Has("C9") || !m2.exclusions.Has("C105") {
		t.Errorf("exclusions after apply = %v", m2.exclusions.IDs())
	}
	if cmd == nil {
		t.Error("apply returned no refetch command")
	}
}

func TestApplySavedFilterUnknownView(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m2, cmd := m.applySavedFilter(savedFilter{ID: "x", View: "ledger"})
	if !m2.statusErr {
		t.Error("unknown view did not surface an error")
	}
	if cmd != nil {
		t.Error("unknown view still produced a command")
	}
}

func TestSearchTickSupersededIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.customers.searchSeq = 5

	if _, cmd := m.applySearchTick(searchTickMsg{tab: tabCustomers, seq: 4}); cmd != nil {
		t.Error("stale tick triggered a refetch")
	}
	if _, cmd := m.applySearchTick(searchTickMsg{tab: tabCustomers, seq: 5}); cmd == nil {
		t.Error("current tick did not trigger a refetch")
	}
}

func TestBatchColorPatchesInPlaceWhenUnfiltered(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	seedInvoices(t, &m, []backend.Invoice{
		{RefNbr: "INV-1", CustomerID: "C1"},
		{RefNbr: "INV-2", CustomerID: "C2"},
	})
	m.invoices.selected["INV-1"] = true

	m2, cmd := m.applyBatchColor(batchColorMsg{refNbrs: []string{"INV-1"}, color: backend.ColorWillPay})
	if cmd != nil {
		t.Error("unfiltered flag change forced a reload")
	}
	if len(m2.invoices.selected) != 0 {
		t.Error("selection survived the batch update")
	}
	rows := m2.invoices.session.Rows()
	if rows[0].Color != backend.ColorWillPay || rows[1].Color != backend.ColorNone {
		t.Errorf("rows after patch = %+v", rows)
	}
}

func TestBatchColorReloadsWhenFlagFiltered(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m.invoices.criteria.HasColor = true
	m.invoices.criteria.Color = backend.ColorWillPay
	seedInvoices(t, &m, []backend.Invoice{{RefNbr: "INV-1", Color: backend.ColorWillPay}})

	_, cmd := m.applyBatchColor(batchColorMsg{refNbrs: []string{"INV-1"}, color: backend.ColorWillNotPay})
	if cmd == nil {
		t.Error("flag change under a flag filter did not reload")
	}
}

func TestPinnedTicketNarrowsToItsCustomer(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	tk := backend.Ticket{ID: "TCK-501", CustomerID: "C102", CustomerName: "Northfield"}

	res, cmd := m.Update(pinnedTicketMsg{ticket: tk})
	m2 := res.(model)
	if m2.activeTab != tabTickets {
		t.Errorf("activeTab = %d, want tickets", m2.activeTab)
	}
	if m2.tickets.criteria.CustomerID != "C102" {
		t.Errorf("tickets criteria = %+v", m2.tickets.criteria)
	}
	if m2.deepTicket != "TCK-501" {
		t.Errorf("deepTicket = %q", m2.deepTicket)
	}
	if cmd == nil {
		t.Error("pinned ticket did not fetch the narrowed page")
	}
}

func TestNotesOverlayOpensAndCloses(t *testing.T) {
	fake := &fakeClient{notes: []backend.Note{
		{ID: "N1", EntityKind: "customer", EntityID: "C1", Body: "promised payment friday"},
	}}
	m := newTestModel(t, fake)
	seedCustomers(t, &m, []backend.Customer{{ID: "C1", Name: "Acme"}})

	res, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})
	m2 := res.(model)
	if m2.notes == nil || !m2.notes.loading {
		t.Fatal("overlay did not open in loading state")
	}
	if cmd == nil {
		t.Fatal("overlay open did not fetch notes")
	}

	res, _ = m2.Update(cmd())
	m3 := res.(model)
	if m3.notes == nil || m3.notes.loading {
		t.Fatal("loaded notes did not land in the overlay")
	}
	if len(m3.notes.notes) != 1 || m3.notes.notes[0].ID != "N1" {
		t.Errorf("overlay notes = %+v", m3.notes.notes)
	}

	res, _ = m3.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m4 := res.(model)
	if m4.notes != nil {
		t.Error("esc did not close the overlay")
	}
}

func TestExcludeLastRowClampsCursor(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	seedCustomers(t, &m, []backend.Customer{{ID: "C1"}, {ID: "C2"}, {ID: "C3"}})
	m.customers.cursor = 2

	res, _ := m.Update(excludeDoneMsg{entry: backend.ExcludedCustomer{CustomerID: "C3"}})
	m2 := res.(model)
	if got := len(m2.customers.visible(m2.exclusions)); got != 2 {
		t.Fatalf("visible rows = %d, want 2", got)
	}
	if m2.customers.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m2.customers.cursor)
	}
}

func TestExcludeIncludeRoundTripThroughMessages(t *testing.T) {
	m := newTestModel(t, &fakeClient{})

	res, _ := m.Update(excludeDoneMsg{entry: backend.ExcludedCustomer{CustomerID: "C3", Reason: "legal"}})
	m2 := res.(model)
	if !m2.exclusions.Has("C3") {
		t.Fatal("exclude message did not update the overlay")
	}

	res, _ = m2.Update(includeDoneMsg{customerID: "C3"})
	m3 := res.(model)
	if m3.exclusions.Has("C3") {
		t.Fatal("include message did not update the overlay")
	}
}
