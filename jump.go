package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
)

// jumpCandidateLimit caps how many customers the picker loads. The picker is
// for quick navigation, not browsing; the ranked list surfaces the match long
// before the cap matters.
const jumpCandidateLimit = 500

type jumpLoadedMsg struct {
	customers []backend.Customer
	err       error
}

// jumpPicker is the jump-to-customer overlay: type a fragment, get candidates
// ranked with prefix matches first and edit distance as the tiebreak.
type jumpPicker struct {
	loading  bool
	all      []backend.Customer
	filtered []backend.Customer
	query    string
	cursor   int
}

func (m model) openJumpPicker() (model, tea.Cmd) {
	m.jump = &jumpPicker{loading: true}
	ctx, be := m.ctx, m.be
	return m, func() tea.Msg {
		rows, err := be.Customers(ctx, backend.Query{Limit: jumpCandidateLimit, SortBy: "customer_name", SortDir: backend.SortAsc})
		return jumpLoadedMsg{customers: rows, err: err}
	}
}

func (m model) applyJumpLoaded(msg jumpLoadedMsg) (model, tea.Cmd) {
	if m.jump == nil {
		return m, nil
	}
	if msg.err != nil {
		m.jump = nil
		m.setError(fmt.Sprintf("Jump picker load failed: %v", msg.err))
		return m, nil
	}
	m.jump.loading = false
	m.jump.all = msg.customers
	m.jump.rebuild()
	return m, nil
}

type rankedCustomer struct {
	customer backend.Customer
	prefix   bool
	distance int
	index    int
}

func (p *jumpPicker) rebuild() {
	q := strings.ToLower(strings.TrimSpace(p.query))
	if q == "" {
		p.filtered = append([]backend.Customer(nil), p.all...)
		p.clampCursor()
		return
	}

	ranked := make([]rankedCustomer, 0, len(p.all))
	for i, c := range p.all {
		name := strings.ToLower(c.Name)
		id := strings.ToLower(c.ID)
		if !strings.Contains(name, q) && !strings.Contains(id, q) {
			continue
		}
		ranked = append(ranked, rankedCustomer{
			customer: c,
			prefix:   strings.HasPrefix(name, q) || strings.HasPrefix(id, q),
			distance: levenshtein.ComputeDistance(q, name),
			index:    i,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].prefix != ranked[j].prefix {
			return ranked[i].prefix
		}
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].index < ranked[j].index
	})
	p.filtered = make([]backend.Customer, len(ranked))
	for i, r := range ranked {
		p.filtered[i] = r.customer
	}
	p.clampCursor()
}

func (p *jumpPicker) clampCursor() {
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *jumpPicker) currentCustomer() (backend.Customer, bool) {
	if len(p.filtered) == 0 || p.cursor < 0 || p.cursor >= len(p.filtered) {
		return backend.Customer{}, false
	}
	return p.filtered[p.cursor], true
}

func (m model) updateJumpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.jump
	switch msg.String() {
	case "esc":
		m.jump = nil
		return m, nil
	case "enter":
		c, ok := p.currentCustomer()
		m.jump = nil
		if !ok {
			return m, nil
		}
		return m.focusCustomer(c.ID)
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
		return m, nil
	case "backspace":
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.rebuild()
		}
		return m, nil
	}
	if s := msg.String(); len(s) == 1 && s[0] >= 32 && s[0] < 127 {
		p.query += s
		p.rebuild()
	}
	return m, nil
}

func (m model) viewJump() string {
	p := m.jump
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Jump to customer"))
	b.WriteString("\n\n")
	query := p.query
	if query == "" {
		query = "(type to search)"
	}
	b.WriteString("Find: " + query + "\n\n")
	switch {
	case p.loading:
		b.WriteString(m.spin.View() + " loading customers…")
	case len(p.filtered) == 0:
		b.WriteString(mutedStyle.Render("No matches"))
	default:
		max := len(p.filtered)
		if max > 10 {
			max = 10
		}
		for i := 0; i < max; i++ {
			c := p.filtered[i]
			line := fmt.Sprintf("%s  %s", padRight(c.ID, 10), padRight(c.Name, 32))
			if i == p.cursor {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + helpDescStyle.Render("enter selects · esc cancels"))
	return modalStyle.Render(b.String())
}
