package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Settings tab sections.
const (
	settingsSectionFilters  = 0
	settingsSectionExcluded = 1
	settingsSectionCount    = 2
)

// settingsView hosts saved filter management, the exclusion list and the
// collector activity summary.
type settingsView struct {
	section int
	cursor  int
}

func (m model) updateSettingsKeys(msg tea.KeyMsg) (model, tea.Cmd) {
	s := &m.settings
	switch msg.String() {
	case "left", "h":
		if s.section > 0 {
			s.section--
			s.cursor = 0
		}
		return m, nil
	case "right", "l":
		if s.section < settingsSectionCount-1 {
			s.section++
			s.cursor = 0
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.UpDown):
		n := m.settingsSectionLen()
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < n-1 {
				s.cursor++
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing…")
		return m, tea.Batch(
			loadSavedFiltersCmd(m.ctx, m.be),
			loadExclusionsCmd(m.ctx, m.be),
			activityCmd(m.ctx, m.be, m.cfg.Backend.Collector),
		)

	case key.Matches(msg, m.keys.Enter):
		if s.section == settingsSectionFilters {
			ordered := orderedSavedFilters(m.savedFilters)
			if s.cursor < len(ordered) {
				return m.applySavedFilter(ordered[s.cursor])
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		switch s.section {
		case settingsSectionFilters:
			ordered := orderedSavedFilters(m.savedFilters)
			if s.cursor < len(ordered) {
				return m, deleteFilterCmd(m.ctx, m.be, ordered[s.cursor].ID)
			}
		case settingsSectionExcluded:
			list := m.exclusions.List()
			if s.cursor < len(list) {
				return m, includeCustomerCmd(m.ctx, m.be, list[s.cursor].CustomerID)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Include):
		if m.exclusions.Len() == 0 {
			m.setStatus("No excluded customers.")
			return m, nil
		}
		return m, includeAllCmd(m.ctx, m.be)
	}
	return m, nil
}

func (m model) settingsSectionLen() int {
	switch m.settings.section {
	case settingsSectionFilters:
		return len(m.savedFilters)
	case settingsSectionExcluded:
		return m.exclusions.Len()
	default:
		return 0
	}
}

// applySavedFilter restores a snapshot: the owning view gets the saved
// criteria verbatim, the exclusion overlay is swapped in, and the view
// refetches from page one.
func (m model) applySavedFilter(sf savedFilter) (model, tea.Cmd) {
	tab, ok := tabForView(sf.View)
	if !ok {
		m.setError(fmt.Sprintf("Saved filter %q targets unknown view %q.", sf.ID, sf.View))
		return m, nil
	}
	m.exclusions.Replace(sf.Exclusions)
	m.activeTab = tab

	var fetch tea.Cmd
	switch tab {
	case tabCustomers:
		m.customers.criteria = sf.Criteria
		fetch = tea.Batch(m.customers.firstPage(m.ctx, m.be), m.refreshCustomerAnalytics())
	case tabInvoices:
		m.invoices.criteria = sf.Criteria
		fetch = m.invoices.firstPage(m.ctx, m.be)
	case tabPayments:
		m.payments.criteria = sf.Criteria
		fetch = m.payments.firstPage(m.ctx, m.be)
	case tabTickets:
		m.tickets.criteria = sf.Criteria
		fetch = m.tickets.firstPage(m.ctx, m.be)
	}
	m.setStatus(fmt.Sprintf("Applied saved filter %q.", sf.ID))
	return m, tea.Batch(fetch, touchFilterCmd(m.ctx, m.be, sf.ID))
}
