package main

import (
	"strings"

	"github.com/jask/collectdash/internal/backend"
)

// filterCriteria is the single source of truth for what a table view shows.
// It is serialized verbatim into saved filters, so every field carries a json
// tag and a loaded snapshot restores the exact state that was saved.
type filterCriteria struct {
	Search      string              `json:"search,omitempty"`
	Status      string              `json:"status,omitempty"`
	Country     string              `json:"country,omitempty"`
	Collector   string              `json:"collector,omitempty"`
	CustomerID  string              `json:"customer_id,omitempty"`
	Color       backend.ColorStatus `json:"color,omitempty"`
	HasColor    bool                `json:"has_color,omitempty"`
	BalanceSign string              `json:"balance_sign,omitempty"`
	MinAmount   string              `json:"min_amount,omitempty"` // user-entered decimal, e.g. "1500.00"
	MaxAmount   string              `json:"max_amount,omitempty"`
	DateFrom    string              `json:"date_from,omitempty"` // yyyy-mm-dd
	DateTo      string              `json:"date_to,omitempty"`
	SortBy      string              `json:"sort_by,omitempty"`
	SortDir     backend.SortDir     `json:"sort_dir,omitempty"`
	NonZero     bool                `json:"non_zero,omitempty"` // customers: only accounts with a balance
}

// query converts the criteria into the backend predicate. The window is left
// zero; fetch commands stamp it with WithWindow so the count query and the
// page query always share this exact predicate.
func (c filterCriteria) query() backend.Query {
	q := backend.Query{
		Search:      strings.TrimSpace(c.Search),
		Status:      c.Status,
		Country:     c.Country,
		Collector:   c.Collector,
		CustomerID:  c.CustomerID,
		Color:       c.Color,
		HasColor:    c.HasColor,
		BalanceSign: c.BalanceSign,
		DateFromISO: c.DateFrom,
		DateToISO:   c.DateTo,
		SortBy:      c.SortBy,
		SortDir:     c.SortDir,
	}
	if cents, ok := parseMoney(c.MinAmount); ok {
		q.MinCents = &cents
	}
	if cents, ok := parseMoney(c.MaxAmount); ok {
		q.MaxCents = &cents
	}
	return q
}

// active reports whether any predicate field is set beyond the defaults.
// Sort alone does not count as an active filter.
func (c filterCriteria) active() bool {
	c.SortBy = ""
	c.SortDir = ""
	return c != (filterCriteria{NonZero: c.NonZero})
}

// summary renders the criteria for the filter bar, e.g.
// "search:acme status:open >=1500.00".
func (c filterCriteria) summary() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+":"+v)
		}
	}
	add("search", c.Search)
	add("status", c.Status)
	add("country", c.Country)
	add("collector", c.Collector)
	add("customer", c.CustomerID)
	if c.HasColor {
		label := string(c.Color)
		if label == "" {
			label = "none"
		}
		add("flag", label)
	}
	add("balance", c.BalanceSign)
	if c.MinAmount != "" {
		parts = append(parts, ">="+c.MinAmount)
	}
	if c.MaxAmount != "" {
		parts = append(parts, "<="+c.MaxAmount)
	}
	add("from", c.DateFrom)
	add("to", c.DateTo)
	if len(parts) == 0 {
		return "no filter"
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Filter editor
// ---------------------------------------------------------------------------

// filterField is one editable line in the filter modal.
type filterField struct {
	label string
	get   func(*filterCriteria) string
	set   func(*filterCriteria, string)
}

func textField(label string, get func(*filterCriteria) string, set func(*filterCriteria, string)) filterField {
	return filterField{label: label, get: get, set: set}
}

// filterFieldsFor returns the editable fields for a tab. Customers and
// invoices expose the flag and amount predicates; payments and tickets the
// subset that applies to them.
func filterFieldsFor(tab int) []filterField {
	search := textField("Search", func(c *filterCriteria) string { return c.Search }, func(c *filterCriteria, v string) { c.Search = v })
	status := textField("Status", func(c *filterCriteria) string { return c.Status }, func(c *filterCriteria, v string) { c.Status = v })
	country := textField("Country", func(c *filterCriteria) string { return c.Country }, func(c *filterCriteria, v string) { c.Country = v })
	collector := textField("Collector", func(c *filterCriteria) string { return c.Collector }, func(c *filterCriteria, v string) { c.Collector = v })
	customer := textField("Customer ID", func(c *filterCriteria) string { return c.CustomerID }, func(c *filterCriteria, v string) { c.CustomerID = v })
	minAmt := textField("Min amount", func(c *filterCriteria) string { return c.MinAmount }, func(c *filterCriteria, v string) { c.MinAmount = v })
	maxAmt := textField("Max amount", func(c *filterCriteria) string { return c.MaxAmount }, func(c *filterCriteria, v string) { c.MaxAmount = v })
	dateFrom := textField("Date from", func(c *filterCriteria) string { return c.DateFrom }, func(c *filterCriteria, v string) { c.DateFrom = v })
	dateTo := textField("Date to", func(c *filterCriteria) string { return c.DateTo }, func(c *filterCriteria, v string) { c.DateTo = v })
	flag := textField("Flag (will_pay/will_not_pay/will_take_care/none)",
		func(c *filterCriteria) string {
			if !c.HasColor {
				return ""
			}
			if c.Color == backend.ColorNone {
				return "none"
			}
			return string(c.Color)
		},
		func(c *filterCriteria, v string) {
			v = strings.TrimSpace(strings.ToLower(v))
			switch v {
			case "":
				c.HasColor = false
				c.Color = backend.ColorNone
			case "none":
				c.HasColor = true
				c.Color = backend.ColorNone
			default:
				c.HasColor = true
				c.Color = backend.ColorStatus(v)
			}
		})
	balanceSign := textField("Balance (positive/negative/zero)",
		func(c *filterCriteria) string { return c.BalanceSign },
		func(c *filterCriteria, v string) { c.BalanceSign = strings.TrimSpace(strings.ToLower(v)) })

	switch tab {
	case tabCustomers:
		return []filterField{search, country, collector, flag, balanceSign, minAmt, maxAmt}
	case tabInvoices:
		return []filterField{search, status, customer, flag, minAmt, maxAmt, dateFrom, dateTo}
	case tabPayments:
		return []filterField{search, customer, minAmt, maxAmt, dateFrom, dateTo}
	case tabTickets:
		return []filterField{search, status, customer, collector, dateFrom, dateTo}
	default:
		return nil
	}
}

// filterEditor is the modal state for editing a view's criteria. Edits apply
// to a working copy; commit hands the copy back to the view, which resets its
// session and refetches.
type filterEditor struct {
	tab     int
	fields  []filterField
	idx     int
	working filterCriteria
}

func newFilterEditor(tab int, current filterCriteria) *filterEditor {
	return &filterEditor{
		tab:     tab,
		fields:  filterFieldsFor(tab),
		working: current,
	}
}

func (e *filterEditor) current() filterField { return e.fields[e.idx] }

func (e *filterEditor) up() {
	if e.idx > 0 {
		e.idx--
	}
}

func (e *filterEditor) down() {
	if e.idx < len(e.fields)-1 {
		e.idx++
	}
}
