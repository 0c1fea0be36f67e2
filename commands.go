package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/listflow"
)

const searchDebounce = 300 * time.Millisecond

// searchDebounceCmd schedules the debounce tick for free-text search. The seq
// lets the handler drop ticks that were superseded by further keystrokes.
func searchDebounceCmd(tab, seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{tab: tab, seq: seq}
	})
}

// ---------------------------------------------------------------------------
// Page fetches
//
// Each command runs the windowed read and its paired count from the same
// Query value, then reports back with the Fetch token so stale responses are
// recognized and dropped.
// ---------------------------------------------------------------------------

func fetchCustomersCmd(ctx context.Context, be backend.Client, q backend.Query, f listflow.Fetch, nonZero bool) tea.Cmd {
	return func() tea.Msg {
		wq := q.WithWindow(f.Offset, f.Limit)
		var (
			rows  []backend.Customer
			total int
			err   error
		)
		if nonZero {
			rows, err = be.CustomersWithBalance(ctx, wq)
			if err == nil {
				total, err = be.CustomersWithBalanceCount(ctx, q)
			}
		} else {
			rows, err = be.Customers(ctx, wq)
			if err == nil {
				total, err = be.CustomersCount(ctx, q)
			}
		}
		return customersPageMsg{fetch: f, rows: rows, total: total, err: err}
	}
}

func fetchInvoicesCmd(ctx context.Context, be backend.Client, q backend.Query, f listflow.Fetch) tea.Cmd {
	return func() tea.Msg {
		wq := q.WithWindow(f.Offset, f.Limit)
		var (
			rows  []backend.Invoice
			total int
			err   error
		)
		if q.CustomerID != "" {
			// Per-customer drill-down goes through the advanced procedure so
			// the server can fold in dispute state.
			rows, err = be.CustomerInvoicesAdvanced(ctx, wq)
			if err == nil {
				total, err = be.CustomerInvoicesAdvancedCount(ctx, q)
			}
		} else {
			rows, err = be.Invoices(ctx, wq)
			if err == nil {
				total, err = be.InvoicesCount(ctx, q)
			}
		}
		return invoicesPageMsg{fetch: f, rows: rows, total: total, err: err}
	}
}

func fetchPaymentsCmd(ctx context.Context, be backend.Client, q backend.Query, f listflow.Fetch) tea.Cmd {
	return func() tea.Msg {
		rows, err := be.Payments(ctx, q.WithWindow(f.Offset, f.Limit))
		var total int
		if err == nil {
			total, err = be.PaymentsCount(ctx, q)
		}
		return paymentsPageMsg{fetch: f, rows: rows, total: total, err: err}
	}
}

func fetchTicketsCmd(ctx context.Context, be backend.Client, q backend.Query, f listflow.Fetch) tea.Cmd {
	return func() tea.Msg {
		rows, err := be.Tickets(ctx, q.WithWindow(f.Offset, f.Limit))
		var total int
		if err == nil {
			total, err = be.TicketsCount(ctx, q)
		}
		return ticketsPageMsg{fetch: f, rows: rows, total: total, err: err}
	}
}

// ---------------------------------------------------------------------------
// Shared state loads
// ---------------------------------------------------------------------------

func loadExclusionsCmd(ctx context.Context, be backend.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := be.ExcludedCustomers(ctx)
		return exclusionsLoadedMsg{list: list, err: err}
	}
}

func loadSavedFiltersCmd(ctx context.Context, be backend.Client) tea.Cmd {
	return func() tea.Msg {
		recs, err := be.SavedFilters(ctx)
		if err != nil {
			return savedFiltersLoadedMsg{err: err}
		}
		return savedFiltersLoadedMsg{list: decodeSavedFilters(recs)}
	}
}

func analyticsCmd(ctx context.Context, be backend.Client, q backend.Query, excludeIDs []string) tea.Cmd {
	return func() tea.Msg {
		a, err := be.CustomerAnalytics(ctx, q, excludeIDs)
		return analyticsMsg{analytics: a, err: err}
	}
}

func activityCmd(ctx context.Context, be backend.Client, collector string) tea.Cmd {
	return func() tea.Msg {
		s, err := be.CollectorActivitySummary(ctx, collector)
		return activityMsg{summary: s, err: err}
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func saveCustomerColorCmd(ctx context.Context, be backend.Client, customerID string, color backend.ColorStatus) tea.Cmd {
	return func() tea.Msg {
		err := be.UpdateCustomerColor(ctx, customerID, color)
		return colorSavedMsg{customerID: customerID, color: color, err: err}
	}
}

func batchColorCmd(ctx context.Context, be backend.Client, refNbrs []string, color backend.ColorStatus) tea.Cmd {
	return func() tea.Msg {
		err := be.BatchUpdateInvoiceColorStatus(ctx, refNbrs, color)
		return batchColorMsg{refNbrs: refNbrs, color: color, err: err}
	}
}

func addNoteCmd(ctx context.Context, be backend.Client, n backend.Note) tea.Cmd {
	return func() tea.Msg {
		return noteSavedMsg{err: be.AddNote(ctx, n)}
	}
}

func loadNotesCmd(ctx context.Context, be backend.Client, entityKind, entityID string) tea.Cmd {
	return func() tea.Msg {
		notes, err := be.Notes(ctx, entityKind, entityID)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func excludeCustomerCmd(ctx context.Context, be backend.Client, e backend.ExcludedCustomer) tea.Cmd {
	return func() tea.Msg {
		err := be.ExcludeCustomer(ctx, e)
		return excludeDoneMsg{entry: e, err: err}
	}
}

func includeCustomerCmd(ctx context.Context, be backend.Client, customerID string) tea.Cmd {
	return func() tea.Msg {
		err := be.IncludeCustomer(ctx, customerID)
		return includeDoneMsg{customerID: customerID, err: err}
	}
}

func includeAllCmd(ctx context.Context, be backend.Client) tea.Cmd {
	return func() tea.Msg {
		return includeAllDoneMsg{err: be.IncludeAllCustomers(ctx)}
	}
}

func ticketStatusCmd(ctx context.Context, be backend.Client, ticketID, status string) tea.Cmd {
	return func() tea.Msg {
		err := be.UpdateTicketStatus(ctx, ticketID, status)
		return ticketSavedMsg{ticketID: ticketID, field: "status", status: status, err: err}
	}
}

func ticketPriorityCmd(ctx context.Context, be backend.Client, ticketID string, priority int) tea.Cmd {
	return func() tea.Msg {
		err := be.UpdateTicketPriority(ctx, ticketID, priority)
		return ticketSavedMsg{ticketID: ticketID, field: "priority", priority: priority, err: err}
	}
}

func assignTicketCmd(ctx context.Context, be backend.Client, ticketID, collector string) tea.Cmd {
	return func() tea.Msg {
		err := be.AssignTicket(ctx, ticketID, collector)
		return ticketSavedMsg{ticketID: ticketID, field: "collector", assignee: collector, err: err}
	}
}

// ---------------------------------------------------------------------------
// Saved filters
// ---------------------------------------------------------------------------

func saveFilterCmd(ctx context.Context, be backend.Client, sf savedFilter) tea.Cmd {
	return func() tea.Msg {
		rec, err := encodeSavedFilter(sf)
		if err != nil {
			return filterSavedMsg{saved: sf, err: err}
		}
		sf.LastUsedUnix = rec.LastUsedUnix
		return filterSavedMsg{saved: sf, err: be.SaveFilter(ctx, rec)}
	}
}

func deleteFilterCmd(ctx context.Context, be backend.Client, filterID string) tea.Cmd {
	return func() tea.Msg {
		return filterDeletedMsg{filterID: filterID, err: be.DeleteFilter(ctx, filterID)}
	}
}

func touchFilterCmd(ctx context.Context, be backend.Client, filterID string) tea.Cmd {
	return func() tea.Msg {
		return filterTouchedMsg{filterID: filterID, err: be.UpdateFilterLastUsed(ctx, filterID)}
	}
}

// ---------------------------------------------------------------------------
// Deep links
// ---------------------------------------------------------------------------

func pinCustomerCmd(ctx context.Context, be backend.Client, customerID string) tea.Cmd {
	return func() tea.Msg {
		rows, err := be.Customers(ctx, backend.Query{CustomerID: customerID, Limit: 1})
		if err != nil {
			return pinnedCustomerMsg{err: err}
		}
		if len(rows) == 0 {
			return pinnedCustomerMsg{err: backend.ErrNotFound}
		}
		return pinnedCustomerMsg{customer: rows[0]}
	}
}

func pinTicketCmd(ctx context.Context, be backend.Client, ticketID string) tea.Cmd {
	return func() tea.Msg {
		rows, err := be.Tickets(ctx, backend.Query{RefID: ticketID, Limit: 1})
		if err != nil {
			return pinnedTicketMsg{err: err}
		}
		if len(rows) == 0 {
			return pinnedTicketMsg{err: backend.ErrNotFound}
		}
		return pinnedTicketMsg{ticket: rows[0]}
	}
}
