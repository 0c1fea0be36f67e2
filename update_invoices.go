package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/listflow"
)

// invoicesView is the AR document tab. Rows can be multi-selected for batch
// flag updates; drilling in from a customer narrows the criteria to that
// customer and routes reads through the advanced invoice procedure.
type invoicesView struct {
	session   *listflow.Session[backend.Invoice]
	criteria  filterCriteria
	cursor    int
	searchSeq int
	selected  map[string]bool // ref_nbr -> marked
}

func newInvoicesView(pageSize int) *invoicesView {
	return &invoicesView{
		session:  listflow.NewSession[backend.Invoice](pageSize),
		selected: make(map[string]bool),
	}
}

func (v *invoicesView) firstPage(ctx context.Context, be backend.Client) tea.Cmd {
	v.session.Reset()
	v.cursor = 0
	v.selected = make(map[string]bool)
	f, ok := v.session.BeginFetch()
	if !ok {
		return nil
	}
	return fetchInvoicesCmd(ctx, be, v.criteria.query(), f)
}

func (v *invoicesView) nextPage(ctx context.Context, be backend.Client) tea.Cmd {
	f, ok := v.session.Advance()
	if !ok {
		return nil
	}
	return fetchInvoicesCmd(ctx, be, v.criteria.query(), f)
}

func (v *invoicesView) visible(ex *exclusionStore) []backend.Invoice {
	return filterExcluded(v.session.Rows(), func(i backend.Invoice) string { return i.CustomerID }, ex)
}

func (v *invoicesView) current(ex *exclusionStore) (backend.Invoice, bool) {
	rows := v.visible(ex)
	if v.cursor < 0 || v.cursor >= len(rows) {
		return backend.Invoice{}, false
	}
	return rows[v.cursor], true
}

// batchTargets returns the refs a batch mutation applies to: the marked rows,
// or just the cursor row when nothing is marked.
func (v *invoicesView) batchTargets(ex *exclusionStore) []string {
	if len(v.selected) > 0 {
		refs := make([]string, 0, len(v.selected))
		for _, row := range v.visible(ex) {
			if v.selected[row.RefNbr] {
				refs = append(refs, row.RefNbr)
			}
		}
		return refs
	}
	if inv, ok := v.current(ex); ok {
		return []string{inv.RefNbr}
	}
	return nil
}

var invoiceSortCycle = []sortOption{
	{"", ""}, // server default: due date asc
	{"days_past_due", backend.SortDesc},
	{"open_cents", backend.SortDesc},
	{"invoice_date", backend.SortDesc},
}

func (m model) updateInvoicesKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.invoices
	switch {
	case key.Matches(msg, m.keys.UpDown):
		return m.moveInvoicesCursor(msg)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing invoices…")
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "")
		m.input.SetValue(v.criteria.Search)
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		cycleSort(invoiceSortCycle, &v.criteria)
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Filter):
		m.filterEd = newFilterEditor(tabInvoices, v.criteria)
		m.input.SetValue(m.filterEd.current().get(&m.filterEd.working))
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if inv, ok := v.current(m.exclusions); ok {
			if v.selected[inv.RefNbr] {
				delete(v.selected, inv.RefNbr)
			} else {
				v.selected[inv.RefNbr] = true
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Color):
		refs := v.batchTargets(m.exclusions)
		if len(refs) == 0 {
			return m, nil
		}
		// The whole batch moves to the cycle successor of the cursor row's
		// flag, so mixed selections converge on one value.
		cur, _ := v.current(m.exclusions)
		next := backend.CycleColor(cur.Color)
		return m, batchColorCmd(m.ctx, m.be, refs, next)

	case key.Matches(msg, m.keys.Note):
		inv, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptNote, inv.CustomerID)
		return m, nil

	case key.Matches(msg, m.keys.Jump):
		return m.openJumpPicker()

	case key.Matches(msg, m.keys.SaveFlt):
		m.openPrompt(promptFilterName, "")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCurrentTab()

	case key.Matches(msg, m.keys.Close):
		if len(v.selected) > 0 {
			v.selected = make(map[string]bool)
			m.setStatus("Selection cleared.")
			return m, nil
		}
		if v.criteria.active() {
			v.criteria = filterCriteria{SortBy: v.criteria.SortBy, SortDir: v.criteria.SortDir}
			m.setStatus("Filter cleared.")
			return m, v.firstPage(m.ctx, m.be)
		}
		return m, nil
	}
	return m, nil
}

func (m model) moveInvoicesCursor(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.invoices
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
	if v.cursor >= len(rows)-scrollThreshold {
		return m, v.nextPage(m.ctx, m.be)
	}
	return m, nil
}

func (m model) applyInvoicesPage(msg invoicesPageMsg) (model, tea.Cmd) {
	v := m.invoices
	switch v.session.Complete(msg.fetch, msg.rows, msg.total, msg.err) {
	case listflow.Stale:
		return m, nil
	case listflow.Failed:
		m.setError(fmt.Sprintf("Invoices load failed: %v", msg.err))
		return m, nil
	}
	rows := v.visible(m.exclusions)
	if v.cursor >= len(rows) && len(rows) > 0 {
		v.cursor = len(rows) - 1
	}
	return m, nil
}

func (m model) applyBatchColor(msg batchColorMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Flag update failed: %v", msg.err))
		return m, nil
	}
	v := m.invoices
	v.selected = make(map[string]bool)
	m.setStatus(fmt.Sprintf("Flagged %s.", pluralize(len(msg.refNbrs), "invoice")))
	if v.criteria.HasColor {
		// The mutated field is part of the active filter; the cached rows may
		// no longer belong in the result set, so reload from page one.
		return m, v.firstPage(m.ctx, m.be)
	}
	inSet := make(map[string]bool, len(msg.refNbrs))
	for _, ref := range msg.refNbrs {
		inSet[ref] = true
	}
	v.session.Update(
		func(i backend.Invoice) bool { return inSet[i.RefNbr] },
		func(i *backend.Invoice) { i.Color = msg.color },
	)
	return m, nil
}
