package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/listflow"
)

// ticketStatusCycle is the lifecycle a ticket moves through with the status
// key. Closed tickets reopen.
var ticketStatusCycle = map[string]string{
	"open":        "in_progress",
	"in_progress": "resolved",
	"resolved":    "closed",
	"closed":      "open",
}

const maxTicketPriority = 5

// ticketsView is the collections work-queue tab.
type ticketsView struct {
	session   *listflow.Session[backend.Ticket]
	criteria  filterCriteria
	cursor    int
	searchSeq int
}

func newTicketsView(pageSize int) *ticketsView {
	return &ticketsView{session: listflow.NewSession[backend.Ticket](pageSize)}
}

func (v *ticketsView) firstPage(ctx context.Context, be backend.Client) tea.Cmd {
	v.session.Reset()
	v.cursor = 0
	f, ok := v.session.BeginFetch()
	if !ok {
		return nil
	}
	return fetchTicketsCmd(ctx, be, v.criteria.query(), f)
}

func (v *ticketsView) nextPage(ctx context.Context, be backend.Client) tea.Cmd {
	f, ok := v.session.Advance()
	if !ok {
		return nil
	}
	return fetchTicketsCmd(ctx, be, v.criteria.query(), f)
}

func (v *ticketsView) visible(ex *exclusionStore) []backend.Ticket {
	return filterExcluded(v.session.Rows(), func(t backend.Ticket) string { return t.CustomerID }, ex)
}

func (v *ticketsView) current(ex *exclusionStore) (backend.Ticket, bool) {
	rows := v.visible(ex)
	if v.cursor < 0 || v.cursor >= len(rows) {
		return backend.Ticket{}, false
	}
	return rows[v.cursor], true
}

var ticketSortCycle = []sortOption{
	{"", ""}, // server default: priority then due date
	{"due_date", backend.SortAsc},
	{"status", backend.SortAsc},
	{"customer_id", backend.SortAsc},
}

func (m model) updateTicketsKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.tickets
	switch {
	case key.Matches(msg, m.keys.UpDown):
		return m.moveTicketsCursor(msg)

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing tickets…")
		return m, tea.Batch(v.firstPage(m.ctx, m.be), activityCmd(m.ctx, m.be, m.cfg.Backend.Collector))

	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "")
		m.input.SetValue(v.criteria.Search)
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		cycleSort(ticketSortCycle, &v.criteria)
		return m, v.firstPage(m.ctx, m.be)

	case key.Matches(msg, m.keys.Filter):
		m.filterEd = newFilterEditor(tabTickets, v.criteria)
		m.input.SetValue(m.filterEd.current().get(&m.filterEd.working))
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Status):
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		next := ticketStatusCycle[t.Status]
		if next == "" {
			next = "open"
		}
		return m, ticketStatusCmd(m.ctx, m.be, t.ID, next)

	case key.Matches(msg, m.keys.Priority):
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		next := t.Priority + 1
		if next > maxTicketPriority {
			next = 1
		}
		return m, ticketPriorityCmd(m.ctx, m.be, t.ID, next)

	case key.Matches(msg, m.keys.Assign):
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptAssignee, t.ID)
		m.input.SetValue(t.Collector)
		return m, nil

	case key.Matches(msg, m.keys.Note):
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		m.openPrompt(promptTicketNote, t.ID)
		return m, nil

	case key.Matches(msg, m.keys.Notes):
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		cmd := m.openNotes("ticket", t.ID, t.ID)
		return m, cmd

	case key.Matches(msg, m.keys.Enter):
		// Jump to the ticket's customer.
		t, ok := v.current(m.exclusions)
		if !ok {
			return m, nil
		}
		return m.focusCustomer(t.CustomerID)

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

func (m model) moveTicketsCursor(msg tea.KeyMsg) (model, tea.Cmd) {
	v := m.tickets
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

func (m model) applyTicketsPage(msg ticketsPageMsg) (model, tea.Cmd) {
	v := m.tickets
	switch v.session.Complete(msg.fetch, msg.rows, msg.total, msg.err) {
	case listflow.Stale:
		return m, nil
	case listflow.Failed:
		m.setError(fmt.Sprintf("Tickets load failed: %v", msg.err))
		return m, nil
	}
	rows := v.visible(m.exclusions)
	if v.cursor >= len(rows) && len(rows) > 0 {
		v.cursor = len(rows) - 1
	}
	if m.deepTicket != "" && !msg.fetch.Append {
		for i, t := range rows {
			if t.ID == m.deepTicket {
				v.cursor = i
				break
			}
		}
		m.deepTicket = ""
	}
	return m, nil
}

func (m model) applyTicketSaved(msg ticketSavedMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Ticket update failed: %v", msg.err))
		return m, nil
	}
	v := m.tickets
	filtered := (msg.field == "status" && v.criteria.Status != "") ||
		(msg.field == "collector" && v.criteria.Collector != "")
	if filtered {
		// The row may have filtered itself out; rebuild from page one.
		m.setStatus(fmt.Sprintf("Ticket %s updated.", msg.ticketID))
		return m, v.firstPage(m.ctx, m.be)
	}
	v.session.Update(
		func(t backend.Ticket) bool { return t.ID == msg.ticketID },
		func(t *backend.Ticket) {
			switch msg.field {
			case "status":
				t.Status = msg.status
			case "priority":
				t.Priority = msg.priority
			case "collector":
				t.Collector = msg.assignee
			}
		},
	)
	m.setStatus(fmt.Sprintf("Ticket %s updated.", msg.ticketID))
	return m, nil
}
