package backend

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func openSeeded(t *testing.T) *Local {
	t.Helper()
	l, err := OpenLocal(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	if err := SeedDemo(context.Background(), l); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	return l
}

func TestSeedIsIdempotent(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()
	if err := SeedDemo(ctx, l); err != nil {
		t.Fatalf("second SeedDemo: %v", err)
	}
	n, err := l.CustomersCount(ctx, Query{})
	if err != nil {
		t.Fatalf("CustomersCount: %v", err)
	}
	if n != 6 {
		t.Fatalf("customers = %d, want 6", n)
	}
}

func TestCountMatchesWindowPredicate(t *testing.T) {
	// The count and the windowed read must agree for every predicate shape:
	// walking all pages under a filter must yield exactly count rows.
	l := openSeeded(t)
	ctx := context.Background()

	minCents := int64(500_000)
	queries := map[string]Query{
		"all":       {},
		"search":    {Search: "acme"},
		"country":   {Country: "US"},
		"min":       {MinCents: &minCents},
		"sign":      {BalanceSign: "negative"},
		"color":     {HasColor: true, Color: ColorWillPay},
		"unflagged": {HasColor: true, Color: ColorNone},
	}
	for name, q := range queries {
		total, err := l.CustomersCount(ctx, q)
		if err != nil {
			t.Fatalf("%s: count: %v", name, err)
		}
		var got int
		for offset := 0; ; offset += 2 {
			rows, err := l.Customers(ctx, q.WithWindow(offset, 2))
			if err != nil {
				t.Fatalf("%s: page at %d: %v", name, offset, err)
			}
			got += len(rows)
			if len(rows) < 2 {
				break
			}
		}
		if got != total {
			t.Errorf("%s: walked %d rows, count said %d", name, got, total)
		}
	}
}

func TestInvoiceFiltersUseJoinedColumns(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	// Country lives on customers; the invoice query must reach it through
	// the join on both the window and count paths.
	q := Query{Country: "US"}
	rows, err := l.Invoices(ctx, q.WithWindow(0, 50))
	if err != nil {
		t.Fatalf("Invoices: %v", err)
	}
	total, err := l.InvoicesCount(ctx, q)
	if err != nil {
		t.Fatalf("InvoicesCount: %v", err)
	}
	if len(rows) != total {
		t.Fatalf("rows=%d count=%d", len(rows), total)
	}
	for _, inv := range rows {
		if inv.CustomerName == "" {
			t.Errorf("invoice %s missing joined customer name", inv.RefNbr)
		}
	}
}

func TestPaymentSearchMatchesCustomerName(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()
	rows, err := l.Payments(ctx, Query{Search: "evergreen", Limit: 10})
	if err != nil {
		t.Fatalf("Payments: %v", err)
	}
	if len(rows) != 1 || rows[0].CustomerID != "C104" {
		t.Fatalf("search by customer name = %+v, want C104's payment", rows)
	}
}

func TestRefIDTargetsSingleRow(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()
	rows, err := l.Tickets(ctx, Query{RefID: "TCK-501", Limit: 10})
	if err != nil {
		t.Fatalf("Tickets: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "TCK-501" {
		t.Fatalf("RefID lookup = %+v, want TCK-501", rows)
	}
	if got := rows[0].InvoiceRefs; len(got) != 1 || got[0] != "INV-0003" {
		t.Errorf("invoice refs = %v, want [INV-0003]", got)
	}
}

func TestCustomersWithBalanceExcludesZero(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()
	rows, err := l.CustomersWithBalance(ctx, Query{Limit: 50})
	if err != nil {
		t.Fatalf("CustomersWithBalance: %v", err)
	}
	for _, c := range rows {
		if c.BalanceCents == 0 {
			t.Errorf("customer %s has zero balance", c.ID)
		}
	}
	n, err := l.CustomersWithBalanceCount(ctx, Query{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(rows) {
		t.Errorf("count=%d rows=%d", n, len(rows))
	}
	// C103 settled in full and must not appear.
	for _, c := range rows {
		if c.ID == "C103" {
			t.Error("zero-balance customer C103 in result")
		}
	}
}

func TestAnalyticsHonorsExclusions(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	all, err := l.CustomerAnalytics(ctx, Query{}, nil)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	without, err := l.CustomerAnalytics(ctx, Query{}, []string{"C100"})
	if err != nil {
		t.Fatalf("analytics with exclusion: %v", err)
	}
	if without.CustomerCount != all.CustomerCount-1 {
		t.Errorf("customer count %d, want %d", without.CustomerCount, all.CustomerCount-1)
	}
	if diff := all.TotalBalanceCents - without.TotalBalanceCents; diff != 4_250_000 {
		t.Errorf("excluded balance delta = %d, want 4250000", diff)
	}
}

func TestExclusionPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.db")
	ctx := context.Background()

	l, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	if err := SeedDemo(ctx, l); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := l.ExcludeCustomer(ctx, ExcludedCustomer{CustomerID: "C102", Reason: "bankruptcy"}); err != nil {
		t.Fatalf("exclude: %v", err)
	}
	l.Close()

	l2, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l2.Close()
	list, err := l2.ExcludedCustomers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].CustomerID != "C102" || list[0].Reason != "bankruptcy" {
		t.Fatalf("exclusions after reopen = %+v", list)
	}

	if err := l2.IncludeAllCustomers(ctx); err != nil {
		t.Fatalf("include all: %v", err)
	}
	list, err = l2.ExcludedCustomers(ctx)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("exclusions not cleared: %+v", list)
	}
}

func TestBatchColorUpdate(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	refs := []string{"INV-0001", "INV-0005"}
	if err := l.BatchUpdateInvoiceColorStatus(ctx, refs, ColorWillTakeCare); err != nil {
		t.Fatalf("batch update: %v", err)
	}
	rows, err := l.Invoices(ctx, Query{HasColor: true, Color: ColorWillTakeCare, Limit: 10})
	if err != nil {
		t.Fatalf("query flagged: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("flagged %d invoices, want 2", len(rows))
	}
}

func TestTicketUpdatesAndNotFound(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	if err := l.UpdateTicketStatus(ctx, "TCK-500", "resolved"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := l.UpdateTicketPriority(ctx, "TCK-500", 4); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if err := l.AssignTicket(ctx, "TCK-500", "sam"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	rows, err := l.Tickets(ctx, Query{RefID: "TCK-500", Limit: 1})
	if err != nil || len(rows) != 1 {
		t.Fatalf("reload ticket: %v (%d rows)", err, len(rows))
	}
	got := rows[0]
	if got.Status != "resolved" || got.Priority != 4 || got.Collector != "sam" {
		t.Fatalf("ticket after updates = %+v", got)
	}

	if err := l.UpdateTicketStatus(ctx, "TCK-999", "open"); err == nil {
		t.Fatal("missing ticket update did not fail")
	}
}

func TestSavedFilterRoundTrip(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	criteria := json.RawMessage(`{"search":"acme","min_amount":"1500.00"}`)
	exclusions := json.RawMessage(`[{"customer_id":"C105","reason":"credit balance"}]`)
	rec := SavedFilterRecord{
		ID: "overdue-acme", Name: "Overdue Acme", View: "customers",
		Criteria: criteria, Exclusions: exclusions, LastUsedUnix: 100,
	}
	if err := l.SaveFilter(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	list, err := l.SavedFilters(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("saved filters = %d, want 1", len(list))
	}
	got := list[0]
	if string(got.Criteria) != string(criteria) {
		t.Errorf("criteria = %s, want %s", got.Criteria, criteria)
	}
	if string(got.Exclusions) != string(exclusions) {
		t.Errorf("exclusions = %s, want %s", got.Exclusions, exclusions)
	}

	if err := l.UpdateFilterLastUsed(ctx, "overdue-acme"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	list, _ = l.SavedFilters(ctx)
	if list[0].UseCount != 1 || list[0].LastUsedUnix == 100 {
		t.Errorf("usage not tracked: %+v", list[0])
	}

	if err := l.DeleteFilter(ctx, "overdue-acme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = l.SavedFilters(ctx)
	if len(list) != 0 {
		t.Errorf("filter not deleted: %+v", list)
	}
}

func TestNotesRoundTrip(t *testing.T) {
	l := openSeeded(t)
	ctx := context.Background()

	if err := l.AddNote(ctx, Note{EntityKind: "customer", EntityID: "C100", Body: "promised payment friday", Author: "demo"}); err != nil {
		t.Fatalf("add note: %v", err)
	}
	notes, err := l.Notes(ctx, "customer", "C100")
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Body != "promised payment friday" {
		t.Fatalf("notes = %+v", notes)
	}
	if notes[0].ID == "" {
		t.Error("note ID not generated")
	}
}
