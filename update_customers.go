package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/listflow"
)

// customersView is the customer balance tab: an incrementally loaded table of
// accounts under the collector's book, with flag triage and exclusions.
type customersView struct {
	session   *listflow.Session[backend.Customer]
	criteria  filterCriteria
	cursor    int
	searchSeq int
}

func newCustomersView(pageSize int) *customersView {
	v := &customersView{session: listflow.NewSession[backend.Customer](pageSize)}
	v.criteria.NonZero = true
	return v
}

func (v *customersView) firstPage(ctx context.Context, be backend.Client) tea.Cmd {
	v.session.Reset()
	v.cursor = 0
	f, ok := v.session.BeginFetch()
	if !ok {
		return nil
	}
	return fetchCustomersCmd(ctx, be, v.criteria.query(), f, v.criteria.NonZero)
}

func (v *customersView) nextPage(ctx context.Context, be backend.Client) tea.Cmd {
	f, ok := v.session.Advance()
	if !ok {
		return nil
	}
	return fetchCustomersCmd(ctx, be, v.criteria.query(), f, v.criteria.NonZero)
}

func (v *customersView) visible(ex *exclusionStore) []backend.Customer {
	return filterExcluded(v.session.Rows(), func(c backend.Customer) string { return c.ID }, ex)
}

func (v *customersView) current(ex *exclusionStore) (backend.Customer, bool) {
	rows := v.visible(ex)
	if v.cursor < 0 || v.cursor >= len(rows) {
		return backend.Customer{}, false
	}
	return rows[v.cursor], true
}

// sortOption is one stop in a tab's sort cycle.
type sortOption struct {
	by  string
	dir backend.SortDir
}

var customerSortCycle = []sortOption{
	{"", ""}, // server default: balance desc
	{"overdue_cents", backend.SortDesc},
	{"customer_name", backend.SortAsc},
	{"last_payment_date", backend.SortDesc},
}

func cycleSort(cycle []sortOption, c *filterCriteria) {
	for i, s := range cycle {
		if c.SortBy == s.by && c.SortDir == s.dir {
			next := cycle[(i+1)%len(cycle)]
			c.SortBy, c.SortDir = next.by, next.dir
			return
		}
	}
	c.SortBy, c.SortDir = cycle[0].by, cycle[0].dir
}

func (m *model) refreshCustomerAnalytics() tea.Cmd {
	return analyticsCmd(m.ctx, m.be, m.customers.criteria.query(), m.exclusions.IDs())
}

func (m model) updateCustomersKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.customers
	switch {
	case key.Matches(msg, m.keys.UpDown):
		return m.moveCustomersCursor(msg)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing customers…")
		return m, tea.Batch(v.firstPage(m.ctx, m.be), m.refreshCustomerAnalytics())

	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "")
		m.input.SetValue(v.criteria.Search)
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		cycleSort(customerSortCycle, &v.criteria)
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Filter):
		m.filterEd = newFilterEditor(tabCustomers, v.criteria)
		m.input.SetValue(m.filterEd.current().get(&m.filterEd.working))
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Color):
		cust, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		next := backend.CycleColor(cust.Color)
		return m, saveCustomerColorCmd(m.ctx, m.be, cust.ID, next)

	case key.Matches(msg, m.keys.Note):
		cust, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptNote, cust.ID)
		return m, nil

	case key.Matches(msg, m.keys.Notes):
		cust, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		cmd := m.openNotes("customer", cust.ID, cust.Name)
		return m, cmd

	case key.Matches(msg, m.keys.Exclude):
		cust, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptExcludeReason, cust.ID)
		return m, nil

	case key.Matches(msg, m.keys.Include):
		if m.exclusions.Len() == 0 {
			m.setStatus("No excluded customers.")
			return m, nil
		}
		return m, includeAllCmd(m.ctx, m.be)

	case key.Matches(msg, m.keys.Enter):
		// Drill into the customer's invoices.
		cust, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.invoices.criteria = filterCriteria{CustomerID: cust.ID}
		m.activeTab = tabInvoices
		m.setStatus(fmt.Sprintf("Invoices for %s", cust.Name))
		return m, m.invoices.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Jump):
		return m.openJumpPicker()

	case key.Matches(msg, m.keys.SaveFlt):
		m.openPrompt(promptFilterName, "")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCurrentTab()

	case key.Matches(msg, m.keys.Close):
		if v.criteria.active() {
			v.criteria = filterCriteria{NonZero: true, SortBy: v.criteria.SortBy, SortDir: v.criteria.SortDir}
			m.setStatus("Filter cleared.")
			return m, tea.Batch(v.firstPage(m.ctx, m.be), m.refreshCustomerAnalytics())
		}
		return m, nil
	}
	return m, nil
}

func (m model) moveCustomersCursor(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.customers
	rows := v.visible(m.exclusions)
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(rows)-1 {
			v.cursor++
		}
	}
	// Infinite scroll: approach the end of the cache, fetch the next page.
	if v.cursor >= len(rows)-scrollThreshold {
		return m, v.nextPage(m.ctx, m.be)
	}
	return m, nil
}

func (m model) applyCustomersPage(msg customersPageMsg) (model, tea.Cmd) {
	v := m.customers
	switch v.session.Complete(msg.fetch, msg.rows, msg.total, msg.err) {
	case listflow.Stale:
		return m, nil
	case listflow.Failed:
		m.setError(fmt.Sprintf("Customers load failed: %v", msg.err))
		return m, nil
	}
	rows := v.visible(m.exclusions)
	if v.cursor >= len(rows) && len(rows) > 0 {
		v.cursor = len(rows) - 1
	}
	if !msg.fetch.Append {
		return m, m.refreshCustomerAnalytics()
	}
	return m, nil
}
