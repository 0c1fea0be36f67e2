package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// exportCurrentTab writes the active view's rows to a timestamped CSV in the
// configured export directory. What lands in the file is exactly what the
// user sees: the exclusion filter is applied, amounts are decimal.
func (m *model) exportCurrentTab() tea.Cmd {
	var (
		header []string
		rows   [][]string
	)
	switch m.activeTab {
	case tabCustomers:
		header = []string{"customer_id", "customer_name", "country", "collector", "balance", "overdue", "open_invoices", "flag", "last_payment"}
		for _, c := range m.customers.visible(m.exclusions) {
			rows = append(rows, []string{
				c.ID, c.Name, c.Country, c.Collector,
				formatCents(c.BalanceCents), formatCents(c.OverdueCents),
				strconv.Itoa(c.OpenInvoices), string(c.Color), c.LastPaymentISO,
			})
		}
	case tabInvoices:
		header = []string{"ref_nbr", "customer_id", "customer_name", "invoice_date", "due_date", "amount", "open", "status", "flag", "days_past_due"}
		for _, i := range m.invoices.visible(m.exclusions) {
			rows = append(rows, []string{
				i.RefNbr, i.CustomerID, i.CustomerName, i.DateISO, i.DueDateISO,
				formatCents(i.AmountCents), formatCents(i.OpenCents),
				i.Status, string(i.Color), strconv.Itoa(i.DaysPastDue),
			})
		}
	case tabPayments:
		header = []string{"payment_id", "customer_id", "customer_name", "payment_date", "amount", "method", "applied_ref", "status"}
		for _, p := range m.payments.visible(m.exclusions) {
			rows = append(rows, []string{
				p.ID, p.CustomerID, p.CustomerName, p.DateISO,
				formatCents(p.AmountCents), p.Method, p.AppliedRef, p.Status,
			})
		}
	case tabTickets:
		header = []string{"ticket_id", "customer_id", "customer_name", "collector", "status", "priority", "due_date", "invoice_refs"}
		for _, t := range m.tickets.visible(m.exclusions) {
			rows = append(rows, []string{
				t.ID, t.CustomerID, t.CustomerName, t.Collector, t.Status,
				strconv.Itoa(t.Priority), t.DueDateISO, strings.Join(t.InvoiceRefs, " "),
			})
		}
	default:
		return nil
	}

	dir := m.cfg.UI.ExportDir
	name := fmt.Sprintf("%s-%s.csv", viewName(m.activeTab), time.Now().Format("20060102-150405"))
	return func() tea.Msg {
		path, err := writeCSV(dir, name, header, rows)
		return exportDoneMsg{path: path, rows: len(rows), err: err}
	}
}

func writeCSV(dir, name string, header []string, rows [][]string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync export: %w", err)
	}
	return path, nil
}
