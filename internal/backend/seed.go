package backend

import (
	"context"
	"fmt"
)

// SeedDemo populates a fresh demo database with a small book of customers,
// invoices, payments and tickets. It is idempotent: a database that already
// has customers is left alone.
func SeedDemo(ctx context.Context, l *Local) error {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&n); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if n > 0 {
		return nil
	}

	customers := []Customer{
		{ID: "C100", Name: "Acme Industrial", Country: "US", Collector: "demo", BalanceCents: 4_250_000, OverdueCents: 1_800_000, OpenInvoices: 6},
		{ID: "C101", Name: "Borealis Mining", Country: "CA", Collector: "demo", BalanceCents: 1_120_500, OverdueCents: 0, OpenInvoices: 2},
		{ID: "C102", Name: "Cobalt Freight", Country: "US", Collector: "demo", BalanceCents: 890_000, OverdueCents: 890_000, OpenInvoices: 3, Color: ColorWillNotPay},
		{ID: "C103", Name: "Delta Fabrication", Country: "MX", Collector: "demo", BalanceCents: 0, OverdueCents: 0, OpenInvoices: 0, LastPaymentISO: "2025-07-14"},
		{ID: "C104", Name: "Evergreen Paper", Country: "US", Collector: "demo", BalanceCents: 2_675_000, OverdueCents: 340_000, OpenInvoices: 4, Color: ColorWillPay},
		{ID: "C105", Name: "Foxtrot Logistics", Country: "DE", Collector: "demo", BalanceCents: -120_000, OverdueCents: 0, OpenInvoices: 1},
	}
	for _, c := range customers {
		if _, err := l.db.ExecContext(ctx,
			"INSERT INTO customers("+customerCols+") VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Country, c.Collector, c.BalanceCents, c.OverdueCents, c.OpenInvoices, c.Color, c.LastPaymentISO); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}

	invoices := []Invoice{
		{RefNbr: "INV-0001", CustomerID: "C100", DateISO: "2025-05-02", DueDateISO: "2025-06-01", AmountCents: 1_200_000, OpenCents: 1_200_000, Status: "open", DaysPastDue: 91},
		{RefNbr: "INV-0002", CustomerID: "C100", DateISO: "2025-06-18", DueDateISO: "2025-07-18", AmountCents: 600_000, OpenCents: 600_000, Status: "open", Color: ColorWillPay, DaysPastDue: 44},
		{RefNbr: "INV-0003", CustomerID: "C102", DateISO: "2025-04-10", DueDateISO: "2025-05-10", AmountCents: 890_000, OpenCents: 890_000, Status: "disputed", Color: ColorWillNotPay, DaysPastDue: 113},
		{RefNbr: "INV-0004", CustomerID: "C104", DateISO: "2025-07-01", DueDateISO: "2025-07-31", AmountCents: 340_000, OpenCents: 340_000, Status: "open", Color: ColorWillPay, DaysPastDue: 31},
		{RefNbr: "INV-0005", CustomerID: "C101", DateISO: "2025-08-05", DueDateISO: "2025-09-04", AmountCents: 1_120_500, OpenCents: 1_120_500, Status: "open"},
		{RefNbr: "INV-0006", CustomerID: "C103", DateISO: "2025-06-01", DueDateISO: "2025-07-01", AmountCents: 450_000, OpenCents: 0, Status: "closed"},
	}
	for _, v := range invoices {
		if _, err := l.db.ExecContext(ctx,
			`INSERT INTO invoices(ref_nbr, customer_id, invoice_date, due_date, amount_cents, open_cents, status, color_status, days_past_due)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.RefNbr, v.CustomerID, v.DateISO, v.DueDateISO, v.AmountCents, v.OpenCents, v.Status, v.Color, v.DaysPastDue); err != nil {
			return fmt.Errorf("seed invoice %s: %w", v.RefNbr, err)
		}
	}

	payments := []Payment{
		{ID: "PMT-9001", CustomerID: "C103", DateISO: "2025-07-14", AmountCents: 450_000, Method: "wire", AppliedRef: "INV-0006", Status: "applied"},
		{ID: "PMT-9002", CustomerID: "C104", DateISO: "2025-08-20", AmountCents: 500_000, Method: "check", Status: "applied"},
	}
	for _, p := range payments {
		if _, err := l.db.ExecContext(ctx,
			`INSERT INTO payments(payment_id, customer_id, payment_date, amount_cents, method, applied_ref, status)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.CustomerID, p.DateISO, p.AmountCents, p.Method, p.AppliedRef, p.Status); err != nil {
			return fmt.Errorf("seed payment %s: %w", p.ID, err)
		}
	}

	tickets := []struct {
		id, customer, status string
		priority             int
		due, refs            string
	}{
		{"TCK-500", "C100", "open", 1, "2025-09-05", `["INV-0001","INV-0002"]`},
		{"TCK-501", "C102", "in_progress", 2, "2025-09-12", `["INV-0003"]`},
		{"TCK-502", "C104", "resolved", 3, "2025-08-15", `["INV-0004"]`},
	}
	for _, t := range tickets {
		if _, err := l.db.ExecContext(ctx,
			`INSERT INTO tickets(ticket_id, customer_id, collector, status, priority, due_date, invoice_refs)
			 VALUES(?, ?, 'demo', ?, ?, ?, ?)`,
			t.id, t.customer, t.status, t.priority, t.due, t.refs); err != nil {
			return fmt.Errorf("seed ticket %s: %w", t.id, err)
		}
	}
	return nil
}
