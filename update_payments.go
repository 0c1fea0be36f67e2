package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/listflow"
)

// paymentsView is the received-payments tab, read-only apart from notes.
type paymentsView struct {
	session   *listflow.Session[backend.Payment]
	criteria  filterCriteria
	cursor    int
	searchSeq int
}

func newPaymentsView(pageSize int) *paymentsView {
	return &paymentsView{session: listflow.NewSession[backend.Payment](pageSize)}
}

func (v *paymentsView) firstPage(ctx context.Context, be backend.Client) tea.Cmd {
	v.session.Reset()
	v.cursor = 0
	f, ok := v.session.BeginFetch()
	if !ok {
		return nil
	}
	return fetchPaymentsCmd(ctx, be, v.criteria.query(), f)
}

func (v *paymentsView) nextPage(ctx context.Context, be backend.Client) tea.Cmd {
	f, ok := v.session.Advance()
	if !ok {
		return nil
	}
	return fetchPaymentsCmd(ctx, be, v.criteria.query(), f)
}

func (v *paymentsView) visible(ex *exclusionStore) []backend.Payment {
	return filterExcluded(v.session.Rows(), func(p backend.Payment) string { return p.CustomerID }, ex)
}

func (v *paymentsView) current(ex *exclusionStore) (backend.Payment, bool) {
	rows := v.visible(ex)
	if v.cursor < 0 || v.cursor >= len(rows) {
		return backend.Payment{}, false
	}
	return rows[v.cursor], true
}

var paymentSortCycle = []sortOption{
	{"", ""}, // server default: payment date desc
	{"amount_cents", backend.SortDesc},
	{"customer_id", backend.SortAsc},
}

func (m model) updatePaymentsKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.payments
	switch {
	case key.Matches(msg, m.keys.UpDown):
		return m.movePaymentsCursor(msg)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing payments…")
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "")
		m.input.SetValue(v.criteria.Search)
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		cycleSort(paymentSortCycle, &v.criteria)
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Filter):
		m.filterEd = newFilterEditor(tabPayments, v.criteria)
		m.input.SetValue(m.filterEd.current().get(&m.filterEd.working))
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Note):
		p, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptNote, p.CustomerID)
		return m, nil

	case key.Matches(msg, m.keys.Jump):
		return m.openJumpPicker()

	case key.Matches(msg, m.keys.SaveFlt):
		m.openPrompt(promptFilterName, "")
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCurrentTab()

	case key.Matches(msg, m.keys.Close):
		if v.criteria.active() {
			v.criteria = filterCriteria{SortBy: v.criteria.SortBy, SortDir: v.criteria.SortDir}
			m.setStatus("Filter cleared.")
			return m, v.firstPage(m.ctx, m.be)
		}
		return m, nil
	}
	return m, nil
}

func (m model) movePaymentsCursor(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.payments
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

func (m model) applyPaymentsPage(msg paymentsPageMsg) (model, tea.Cmd) {
	v := m.payments
	switch v.session.Complete(msg.fetch, msg.rows, msg.total, msg.err) {
	case listflow.Stale:
		return m, nil
	case listflow.Failed:
		m.setError(fmt.Sprintf("Payments load failed: %v", msg.err))
		return m, nil
	}
	rows := v.visible(m.exclusions)
	if v.cursor >= len(rows) && len(rows) > 0 {
		v.cursor = len(rows) - 1
	}
	return m, nil
}
