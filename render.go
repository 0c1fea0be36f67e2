package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/collectdash/widgets"
)

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	height := m.height
	if height <= 0 {
		height = 30
	}
	bodyHeight := height - 5
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	var body string
	switch {
	case m.notes != nil:
		body = m.viewNotes()
	case m.jump != nil:
		body = m.viewJump()
	case m.filterEd != nil:
		body = m.viewFilterEditor()
	default:
		switch m.activeTab {
		case tabCustomers:
			body = m.viewCustomers(bodyHeight)
		case tabInvoices:
			body = m.viewInvoices(bodyHeight)
		case tabPayments:
			body = m.viewPayments(bodyHeight)
		case tabTickets:
			body = m.viewTickets(bodyHeight)
		case tabSettings:
			body = m.viewSettings(bodyHeight)
		}
	}

	sections := []string{
		m.viewHeader(width),
		m.viewSummary(width),
		m.viewFilterBar(width),
		body,
		m.viewStatusBar(width),
		m.viewFooter(width),
	}
	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m model) viewHeader(width int) string {
	var tabs []string
	for i, name := range tabNames {
		if i == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	line := headerAppStyle.Render(appName) + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return headerBarStyle.Width(width).Render(line)
}

// viewSummary is the aggregate line under the header: analytics for the
// money views, the collector activity summary for tickets.
func (m model) viewSummary(width int) string {
	var s string
	switch m.activeTab {
	case tabCustomers, tabInvoices, tabPayments:
		a := m.analytics
		s = fmt.Sprintf("%s accounts · balance %s%s · overdue %s%s · collected this month %s%s",
			groupThousands(int64(a.CustomerCount)),
			m.cfg.UI.CurrencySymbol, formatCents(a.TotalBalanceCents),
			m.cfg.UI.CurrencySymbol, formatCents(a.TotalOverdueCents),
			m.cfg.UI.CurrencySymbol, formatCents(a.CollectedMonthCents))
		if n := m.exclusions.Len(); n > 0 {
			s += fmt.Sprintf(" · %s excluded", pluralize(n, "customer"))
		}
	case tabTickets:
		act := m.activity
		s = fmt.Sprintf("%s · %d open · %d resolved this week · %d notes · promised %s%s",
			act.Collector, act.OpenTickets, act.ResolvedWeek, act.NotesAdded,
			m.cfg.UI.CurrencySymbol, formatCents(act.PromisedCents))
	default:
		s = fmt.Sprintf("%s saved filters · %s excluded", strconv.Itoa(len(m.savedFilters)), pluralize(m.exclusions.Len(), "customer"))
	}
	return mutedStyle.Width(width).Render(padRight(s, width))
}

func (m model) viewFilterBar(width int) string {
	var c *filterCriteria
	var loaded, total int
	var inFlight bool
	switch m.activeTab {
	case tabCustomers:
		c = &m.customers.criteria
		loaded, total = len(m.customers.visible(m.exclusions)), m.customers.session.Total()
		inFlight = m.customers.session.InFlight()
	case tabInvoices:
		c = &m.invoices.criteria
		loaded, total = len(m.invoices.visible(m.exclusions)), m.invoices.session.Total()
		inFlight = m.invoices.session.InFlight()
	case tabPayments:
		c = &m.payments.criteria
		loaded, total = len(m.payments.visible(m.exclusions)), m.payments.session.Total()
		inFlight = m.payments.session.InFlight()
	case tabTickets:
		c = &m.tickets.criteria
		loaded, total = len(m.tickets.visible(m.exclusions)), m.tickets.session.Total()
		inFlight = m.tickets.session.InFlight()
	default:
		return filterBarStyle.Width(width).Render(padRight("", width))
	}

	left := c.summary()
	right := fmt.Sprintf("%d of %d", loaded, total)
	if inFlight {
		right = m.spin.View() + " " + right
	}
	line := padRight(left, max(0, width-len(right)-1)) + " " + right
	if c.active() {
		return filterActiveStyle.Width(width).Render(line)
	}
	return filterBarStyle.Width(width).Render(line)
}

func (m model) viewStatusBar(width int) string {
	if m.prompt.kind != promptNone {
		return statusBarStyle.Width(width).Render(promptLabel(m.prompt.kind) + ": " + m.input.View())
	}
	if m.statusErr {
		return statusErrBarStyle.Width(width).Render(padRight(m.status, width))
	}
	return statusBarStyle.Width(width).Render(padRight(m.status, width))
}

func (m model) viewFooter(width int) string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, keyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return footerStyle.Width(width).Render(padRight(strings.Join(parts, "  "), width))
}

// ---------------------------------------------------------------------------
// Tab bodies
// ---------------------------------------------------------------------------

// clipRows slices the table window so the cursor stays visible.
func clipRows(lines []string, cursor, height int) ([]string, int) {
	if len(lines) <= height {
		return lines, cursor
	}
	top := 0
	if cursor >= height {
		top = cursor - height + 1
	}
	return lines[top : top+height], cursor - top
}

func renderTable(t widgets.Table, cursor, height int, marked map[int]bool) string {
	lines := t.Lines()
	window, cur := clipRows(lines, cursor, height-1)
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(t.Header()))
	offset := cursor - cur
	for i, line := range window {
		b.WriteString("\n")
		switch {
		case i == cur:
			b.WriteString(selectedRowStyle.Render(line))
		case marked != nil && marked[offset+i]:
			b.WriteString(markedRowStyle.Render(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

func (m model) viewCustomers(height int) string {
	rows := m.customers.visible(m.exclusions)
	if len(rows) == 0 {
		return m.emptyBody(m.customers.session.Loaded(), m.customers.session.InFlight())
	}
	t := widgets.Table{
		Columns: []widgets.Column{
			{Title: " ", Width: 1},
			{Title: "ID", Width: 10},
			{Title: "Customer", Width: 28},
			{Title: "Ctry", Width: 4},
			{Title: "Balance", Width: 14, Right: true},
			{Title: "Overdue", Width: 14, Right: true},
			{Title: "Open", Width: 5, Right: true},
			{Title: "Last payment", Width: 12},
		},
	}
	for _, c := range rows {
		t.Rows = append(t.Rows, []string{
			flagGlyph(c.Color), c.ID, c.Name, c.Country,
			formatCents(c.BalanceCents), formatCents(c.OverdueCents),
			strconv.Itoa(c.OpenInvoices), c.LastPaymentISO,
		})
	}
	return renderTable(t, m.customers.cursor, height, nil)
}

func (m model) viewInvoices(height int) string {
	rows := m.invoices.visible(m.exclusions)
	if len(rows) == 0 {
		return m.emptyBody(m.invoices.session.Loaded(), m.invoices.session.InFlight())
	}
	t := widgets.Table{
		Columns: []widgets.Column{
			{Title: " ", Width: 1},
			{Title: " ", Width: 1},
			{Title: "Ref", Width: 12},
			{Title: "Customer", Width: 24},
			{Title: "Due", Width: 10},
			{Title: "Amount", Width: 13, Right: true},
			{Title: "Open", Width: 13, Right: true},
			{Title: "Status", Width: 9},
			{Title: "DPD", Width: 4, Right: true},
		},
	}
	marked := make(map[int]bool, len(m.invoices.selected))
	for i, inv := range rows {
		mark := " "
		if m.invoices.selected[inv.RefNbr] {
			mark = "*"
			marked[i] = true
		}
		t.Rows = append(t.Rows, []string{
			mark, flagGlyph(inv.Color), inv.RefNbr, inv.CustomerName, inv.DueDateISO,
			formatCents(inv.AmountCents), formatCents(inv.OpenCents),
			inv.Status, strconv.Itoa(inv.DaysPastDue),
		})
	}
	return renderTable(t, m.invoices.cursor, height, marked)
}

func (m model) viewPayments(height int) string {
	rows := m.payments.visible(m.exclusions)
	if len(rows) == 0 {
		return m.emptyBody(m.payments.session.Loaded(), m.payments.session.InFlight())
	}
	t := widgets.Table{
		Columns: []widgets.Column{
			{Title: "Payment", Width: 12},
			{Title: "Customer", Width: 28},
			{Title: "Date", Width: 10},
			{Title: "Amount", Width: 13, Right: true},
			{Title: "Method", Width: 8},
			{Title: "Applied to", Width: 12},
			{Title: "Status", Width: 9},
		},
	}
	for _, p := range rows {
		t.Rows = append(t.Rows, []string{
			p.ID, p.CustomerName, p.DateISO, formatCents(p.AmountCents),
			p.Method, p.AppliedRef, p.Status,
		})
	}
	return renderTable(t, m.payments.cursor, height, nil)
}

func (m model) viewTickets(height int) string {
	rows := m.tickets.visible(m.exclusions)
	if len(rows) == 0 {
		return m.emptyBody(m.tickets.session.Loaded(), m.tickets.session.InFlight())
	}
	t := widgets.Table{
		Columns: []widgets.Column{
			{Title: "Ticket", Width: 10},
			{Title: "Customer", Width: 26},
			{Title: "Assignee", Width: 12},
			{Title: "Status", Width: 12},
			{Title: "Pri", Width: 3, Right: true},
			{Title: "Due", Width: 10},
			{Title: "Invoices", Width: 20},
		},
	}
	for _, tk := range rows {
		t.Rows = append(t.Rows, []string{
			tk.ID, tk.CustomerName, tk.Collector, tk.Status,
			strconv.Itoa(tk.Priority), tk.DueDateISO, strings.Join(tk.InvoiceRefs, " "),
		})
	}
	return renderTable(t, m.tickets.cursor, height, nil)
}

func (m model) viewSettings(height int) string {
	var b strings.Builder

	title := func(label string, active bool) string {
		if active {
			return modalTitleStyle.Render(label)
		}
		return mutedStyle.Render(label)
	}

	b.WriteString(title("Saved filters", m.settings.section == settingsSectionFilters))
	b.WriteString("\n")
	ordered := orderedSavedFilters(m.savedFilters)
	if len(ordered) == 0 {
		b.WriteString(mutedStyle.Render("  none saved") + "\n")
	}
	for i, sf := range ordered {
		line := fmt.Sprintf("  %s  %s  (%s, used %d)", padRight(sf.ID, 24), padRight(sf.Name, 24), sf.View, sf.UseCount)
		if m.settings.section == settingsSectionFilters && i == m.settings.cursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(title("Excluded customers", m.settings.section == settingsSectionExcluded))
	b.WriteString("\n")
	excluded := m.exclusions.List()
	if len(excluded) == 0 {
		b.WriteString(mutedStyle.Render("  none excluded") + "\n")
	}
	for i, e := range excluded {
		reason := e.Reason
		if reason == "" {
			reason = "-"
		}
		line := fmt.Sprintf("  %s  %s  %s", padRight(e.CustomerID, 12), padRight(reason, 32), e.ExcludedAt.Format(m.cfg.UI.DateFormat))
		if m.settings.section == settingsSectionExcluded && i == m.settings.cursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("enter applies filter · d deletes/includes · X includes all · ←/→ switch section"))
	return b.String()
}

func (m model) viewFilterEditor() string {
	e := m.filterEd
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Filter " + tabNames[e.tab]))
	b.WriteString("\n\n")
	for i, f := range e.fields {
		val := f.get(&e.working)
		if i == e.idx {
			b.WriteString(selectedRowStyle.Render("> "+padRight(f.label, 44)) + " " + m.input.View() + "\n")
			continue
		}
		b.WriteString("  " + padRight(f.label, 44) + " " + val + "\n")
	}
	b.WriteString("\n" + helpDescStyle.Render("↑/↓ fields · enter applies · esc cancels"))
	return modalStyle.Render(b.String())
}

func (m model) viewNotes() string {
	o := m.notes
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Notes · " + o.title))
	b.WriteString("\n\n")
	switch {
	case o.loading:
		b.WriteString(m.spin.View() + " loading…\n")
	case len(o.notes) == 0:
		b.WriteString(mutedStyle.Render("No notes yet. n adds one.") + "\n")
	default:
		for _, n := range o.notes {
			b.WriteString(mutedStyle.Render(n.CreatedAt.Format(m.cfg.UI.DateFormat)+" · "+n.Author) + "\n")
			b.WriteString(n.Body + "\n\n")
		}
	}
	b.WriteString("\n" + helpDescStyle.Render("esc closes"))
	return modalStyle.Render(b.String())
}

func (m model) emptyBody(loaded, inFlight bool) string {
	switch {
	case inFlight:
		return m.spin.View() + " loading…"
	case loaded:
		return mutedStyle.Render("No rows match the current filter.")
	default:
		return mutedStyle.Render("Not loaded yet. Press r to fetch.")
	}
}
