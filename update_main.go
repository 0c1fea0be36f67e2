package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
)

// ---------------------------------------------------------------------------
// Prompt state
// ---------------------------------------------------------------------------

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptNote
	promptTicketNote
	promptExcludeReason
	promptFilterName
	promptAssignee
)

type promptState struct {
	kind     promptKind
	targetID string
}

func promptLabel(kind promptKind) string {
	switch kind {
	case promptSearch:
		return "Search"
	case promptNote, promptTicketNote:
		return "Note"
	case promptExcludeReason:
		return "Exclude reason (optional)"
	case promptFilterName:
		return "Save filter as"
	case promptAssignee:
		return "Assign to"
	default:
		return ""
	}
}

func (m *model) openPrompt(kind promptKind, targetID string) {
	m.prompt = promptState{kind: kind, targetID: targetID}
	m.input.SetValue("")
	m.input.Placeholder = promptLabel(kind)
	m.input.Focus()
}

func (m *model) closePrompt() {
	m.prompt = promptState{}
	m.input.Blur()
	m.input.SetValue("")
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case customersPageMsg:
		return m.applyCustomersPage(msg)
	case invoicesPageMsg:
		return m.applyInvoicesPage(msg)
	case paymentsPageMsg:
		return m.applyPaymentsPage(msg)
	case ticketsPageMsg:
		return m.applyTicketsPage(msg)

	case searchTickMsg:
		return m.applySearchTick(msg)

	case exclusionsLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Exclusion load failed: %v", msg.err))
			return m, nil
		}
		m.exclusions.Replace(msg.list)
		m.clampCursors()
		return m, m.refreshCustomerAnalytics()

	case savedFiltersLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Saved filter load failed: %v", msg.err))
			return m, nil
		}
		m.savedFilters = msg.list
		return m, nil

	case analyticsMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Analytics load failed: %v", msg.err))
			return m, nil
		}
		m.analytics = msg.analytics
		return m, nil

	case activityMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Activity summary failed: %v", msg.err))
			return m, nil
		}
		m.activity = msg.summary
		return m, nil

	case colorSavedMsg:
		return m.applyColorSaved(msg)
	case batchColorMsg:
		return m.applyBatchColor(msg)
	case ticketSavedMsg:
		return m.applyTicketSaved(msg)

	case noteSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Note save failed: %v", msg.err))
			return m, nil
		}
		m.setStatus("Note added.")
		return m, nil

	case notesLoadedMsg:
		return m.applyNotesLoaded(msg)

	case excludeDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Exclude failed: %v", msg.err))
			return m, nil
		}
		m.exclusions.Add(msg.entry)
		m.clampCursors()
		m.setStatus(fmt.Sprintf("Excluded %s.", msg.entry.CustomerID))
		return m, m.refreshCustomerAnalytics()

	case includeDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Include failed: %v", msg.err))
			return m, nil
		}
		m.exclusions.Remove(msg.customerID)
		if m.settings.cursor > 0 {
			m.settings.cursor--
		}
		m.setStatus(fmt.Sprintf("Included %s.", msg.customerID))
		return m, m.refreshCustomerAnalytics()

	case includeAllDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Include all failed: %v", msg.err))
			return m, nil
		}
		n := m.exclusions.Len()
		m.exclusions.Clear()
		m.settings.cursor = 0
		m.setStatus(fmt.Sprintf("Included %s.", pluralize(n, "customer")))
		return m, m.refreshCustomerAnalytics()

	case filterSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Filter save failed: %v", msg.err))
			return m, nil
		}
		replaced := false
		for i := range m.savedFilters {
			if m.savedFilters[i].ID == msg.saved.ID {
				m.savedFilters[i] = msg.saved
				replaced = true
				break
			}
		}
		if !replaced {
			m.savedFilters = append(m.savedFilters, msg.saved)
		}
		m.setStatus(fmt.Sprintf("Saved filter %q.", msg.saved.ID))
		return m, nil

	case filterDeletedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Filter delete failed: %v", msg.err))
			return m, nil
		}
		kept := m.savedFilters[:0]
		for _, sf := range m.savedFilters {
			if sf.ID != msg.filterID {
				kept = append(kept, sf)
			}
		}
		m.savedFilters = kept
		if m.settings.cursor >= len(kept) && m.settings.cursor > 0 {
			m.settings.cursor--
		}
		m.setStatus(fmt.Sprintf("Deleted filter %q.", msg.filterID))
		return m, nil

	case filterTouchedMsg:
		if msg.err != nil {
			// Usage tracking is best-effort; the filter itself applied fine.
			return m, nil
		}
		for i := range m.savedFilters {
			if m.savedFilters[i].ID == msg.filterID {
				m.savedFilters[i].LastUsedUnix = time.Now().Unix()
				m.savedFilters[i].UseCount++
				break
			}
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Export failed: %v", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %s to %s.", pluralize(msg.rows, "row"), msg.path))
		return m, nil

	case pinnedCustomerMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Customer lookup failed: %v", msg.err))
			return m, nil
		}
		return m.focusCustomer(msg.customer.ID)

	case pinnedTicketMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Ticket lookup failed: %v", msg.err))
			return m, nil
		}
		m.activeTab = tabTickets
		m.deepTicket = msg.ticket.ID
		m.tickets.criteria = filterCriteria{CustomerID: msg.ticket.CustomerID}
		m.setStatus(fmt.Sprintf("Ticket %s (%s)", msg.ticket.ID, msg.ticket.CustomerName))
		return m, m.tickets.firstPage(m.ctx, m.be)

	case jumpLoadedMsg:
		return m.applyJumpLoaded(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Key routing
// ---------------------------------------------------------------------------

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal layers swallow keys first.
	if m.notes != nil {
		return m.updateNotesKeys(msg)
	}
	if m.jump != nil {
		return m.updateJumpKeys(msg)
	}
	if m.filterEd != nil {
		return m.updateFilterEditorKeys(msg)
	}
	if m.prompt.kind != promptNone {
		return m.updatePromptKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	}

	switch m.activeTab {
	case tabCustomers:
		return m.updateCustomersKeys(msg)
	case tabInvoices:
		return m.updateInvoicesKeys(msg)
	case tabPayments:
		return m.updatePaymentsKeys(msg)
	case tabTickets:
		return m.updateTicketsKeys(msg)
	case tabSettings:
		return m.updateSettingsKeys(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Per-tab plumbing shared by prompts and the filter editor
// ---------------------------------------------------------------------------

func (m *model) criteriaFor(tab int) *filterCriteria {
	switch tab {
	case tabCustomers:
		return &m.customers.criteria
	case tabInvoices:
		return &m.invoices.criteria
	case tabPayments:
		return &m.payments.criteria
	case tabTickets:
		return &m.tickets.criteria
	default:
		return nil
	}
}

func (m *model) searchSeqFor(tab int) *int {
	switch tab {
	case tabCustomers:
		return &m.customers.searchSeq
	case tabInvoices:
		return &m.invoices.searchSeq
	case tabPayments:
		return &m.payments.searchSeq
	case tabTickets:
		return &m.tickets.searchSeq
	default:
		return nil
	}
}

func (m *model) firstPageFor(tab int) tea.Cmd {
	switch tab {
	case tabCustomers:
		return tea.Batch(m.customers.firstPage(m.ctx, m.be), m.refreshCustomerAnalytics())
	case tabInvoices:
		return m.invoices.firstPage(m.ctx, m.be)
	case tabPayments:
		return m.payments.firstPage(m.ctx, m.be)
	case tabTickets:
		return m.tickets.firstPage(m.ctx, m.be)
	default:
		return nil
	}
}

// clampCursors pulls each tab cursor back inside its visible row set.
// Exclusions shrink the visible rows without a refetch, so a cursor can be
// left pointing past the end.
func (m *model) clampCursors() {
	clamp := func(cursor *int, n int) {
		if *cursor >= n && n > 0 {
			*cursor = n - 1
		}
	}
	clamp(&m.customers.cursor, len(m.customers.visible(m.exclusions)))
	clamp(&m.invoices.cursor, len(m.invoices.visible(m.exclusions)))
	clamp(&m.payments.cursor, len(m.payments.visible(m.exclusions)))
	clamp(&m.tickets.cursor, len(m.tickets.visible(m.exclusions)))
}

// focusCustomer narrows the customers tab to one account and switches to it.
func (m model) focusCustomer(customerID string) (model, tea.Cmd) {
	m.activeTab = tabCustomers
	m.customers.criteria = filterCriteria{CustomerID: customerID}
	m.setStatus(fmt.Sprintf("Focused customer %s. Esc restores the full list.", customerID))
	return m, tea.Batch(m.customers.firstPage(m.ctx, m.be), m.refreshCustomerAnalytics())
}

// ---------------------------------------------------------------------------
// Prompt keys
// ---------------------------------------------------------------------------

func (m model) updatePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		kind := m.prompt.kind
		m.closePrompt()
		if kind == promptSearch {
			c := m.criteriaFor(m.activeTab)
			if c != nil && c.Search != "" {
				c.Search = ""
				return m, m.firstPageFor(m.activeTab)
			}
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		return m.commitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Live search: each keystroke updates the criteria and rearms the
	// debounce timer; only the newest tick triggers a refetch.
	if m.prompt.kind == promptSearch {
		c := m.criteriaFor(m.activeTab)
		seq := m.searchSeqFor(m.activeTab)
		if c != nil && seq != nil && c.Search != m.input.Value() {
			c.Search = m.input.Value()
			*seq++
			return m, tea.Batch(cmd, searchDebounceCmd(m.activeTab, *seq))
		}
	}
	return m, cmd
}

func (m model) commitPrompt() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	prompt := m.prompt
	m.closePrompt()

	switch prompt.kind {
	case promptSearch:
		// The search already applied live; Enter just dismisses the prompt.
		return m, nil

	case promptNote, promptTicketNote:
		if value == "" {
			return m, nil
		}
		kind := "customer"
		if prompt.kind == promptTicketNote {
			kind = "ticket"
		}
		return m, addNoteCmd(m.ctx, m.be, backend.Note{
			EntityKind: kind,
			EntityID:   prompt.targetID,
			Body:       value,
			Author:     m.cfg.Backend.Collector,
		})

	case promptExcludeReason:
		return m, excludeCustomerCmd(m.ctx, m.be, backend.ExcludedCustomer{
			CustomerID: prompt.targetID,
			Reason:     value,
		})

	case promptFilterName:
		if value == "" {
			m.setError("Filter name is required.")
			return m, nil
		}
		c := m.criteriaFor(m.activeTab)
		if c == nil {
			return m, nil
		}
		sf := savedFilter{
			ID:         nextUniqueSavedFilterID(m.savedFilters, value),
			Name:       value,
			View:       viewName(m.activeTab),
			Criteria:   *c,
			Exclusions: m.exclusions.List(),
		}
		return m, saveFilterCmd(m.ctx, m.be, sf)

	case promptAssignee:
		if value == "" {
			return m, nil
		}
		return m, assignTicketCmd(m.ctx, m.be, prompt.targetID, value)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Filter editor keys
// ---------------------------------------------------------------------------

func (m model) updateFilterEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.filterEd
	switch {
	case key.Matches(msg, m.keys.Close):
		m.filterEd = nil
		m.input.Blur()
		m.input.SetValue("")
		m.setStatus("Filter edit cancelled.")
		return m, nil

	case msg.Type == tea.KeyEnter:
		e.current().set(&e.working, m.input.Value())
		tab := e.tab
		c := m.criteriaFor(tab)
		m.filterEd = nil
		m.input.Blur()
		m.input.SetValue("")
		if c == nil {
			return m, nil
		}
		*c = e.working
		m.setStatus("Filter applied.")
		return m, m.firstPageFor(tab)

	case msg.Type == tea.KeyUp:
		e.current().set(&e.working, m.input.Value())
		e.up()
		m.input.SetValue(e.current().get(&e.working))
		return m, nil

	case msg.Type == tea.KeyDown:
		e.current().set(&e.working, m.input.Value())
		e.down()
		m.input.SetValue(e.current().get(&e.working))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Remaining mutation appliers
// ---------------------------------------------------------------------------

func (m model) applyColorSaved(msg colorSavedMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Flag update failed: %v", msg.err))
		return m, nil
	}
	v := m.customers
	m.setStatus(fmt.Sprintf("Flagged %s.", msg.customerID))
	if v.criteria.HasColor {
		return m, v.firstPage(m.ctx, m.be)
	}
	v.session.Update(
		func(c backend.Customer) bool { return c.ID == msg.customerID },
		func(c *backend.Customer) { c.Color = msg.color },
	)
	return m, nil
}

func (m model) applySearchTick(msg searchTickMsg) (model, tea.Cmd) {
	seq := m.searchSeqFor(msg.tab)
	if seq == nil || *seq != msg.seq {
		return m, nil // superseded by later keystrokes
	}
	return m, m.firstPageFor(msg.tab)
}
