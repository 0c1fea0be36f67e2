package backend

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a targeted read matches no row.
var ErrNotFound = errors.New("backend: not found")

// SortDir selects sort direction for windowed reads.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Query carries the filter predicate plus sort and window for a table read.
// Every field is optional; the zero value matches everything. A windowed read
// and its paired count must be given the same Query so the predicates cannot
// diverge.
type Query struct {
	Search     string // matched against the table's search column (ilike)
	Status     string
	Country    string
	Collector  string
	CustomerID string
	RefID      string // the table's own key: ref_nbr, payment_id or ticket_id
	Color      ColorStatus
	HasColor   bool // filter on Color even when it is ColorNone

	BalanceSign string // "", "positive", "negative", "zero"
	MinCents    *int64
	MaxCents    *int64
	DateFromISO string
	DateToISO   string

	SortBy  string
	SortDir SortDir

	Offset int
	Limit  int
}

// WithWindow returns a copy of q with the window replaced. Counts use the
// original query; the predicate fields are shared by construction.
func (q Query) WithWindow(offset, limit int) Query {
	q.Offset = offset
	q.Limit = limit
	return q
}

// Client is the contract with the hosted backend: plain table reads/writes
// plus the remote procedures that own all business logic (balances, analytics,
// batch updates). Implementations must treat RPC results as opaque server
// truth; nothing here recomputes them.
type Client interface {
	// Windowed table reads with paired counts.
	Customers(ctx context.Context, q Query) ([]Customer, error)
	CustomersCount(ctx context.Context, q Query) (int, error)
	Invoices(ctx context.Context, q Query) ([]Invoice, error)
	InvoicesCount(ctx context.Context, q Query) (int, error)
	Payments(ctx context.Context, q Query) ([]Payment, error)
	PaymentsCount(ctx context.Context, q Query) (int, error)
	Tickets(ctx context.Context, q Query) ([]Ticket, error)
	TicketsCount(ctx context.Context, q Query) (int, error)
	Notes(ctx context.Context, entityKind, entityID string) ([]Note, error)

	// Remote procedures.
	CustomersWithBalance(ctx context.Context, q Query) ([]Customer, error)
	CustomersWithBalanceCount(ctx context.Context, q Query) (int, error)
	CustomerInvoicesAdvanced(ctx context.Context, q Query) ([]Invoice, error)
	CustomerInvoicesAdvancedCount(ctx context.Context, q Query) (int, error)
	CustomerAnalytics(ctx context.Context, q Query, excludeIDs []string) (CustomerAnalytics, error)
	CollectorActivitySummary(ctx context.Context, collector string) (ActivitySummary, error)
	BatchUpdateInvoiceColorStatus(ctx context.Context, refNbrs []string, color ColorStatus) error
	UpdateTicketPriority(ctx context.Context, ticketID string, priority int) error
	UpdateFilterLastUsed(ctx context.Context, filterID string) error

	// Writes.
	UpdateCustomerColor(ctx context.Context, customerID string, color ColorStatus) error
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error
	AssignTicket(ctx context.Context, ticketID, collector string) error
	AddNote(ctx context.Context, n Note) error

	// Exclusions, scoped to the signed-in user.
	ExcludedCustomers(ctx context.Context) ([]ExcludedCustomer, error)
	ExcludeCustomer(ctx context.Context, e ExcludedCustomer) error
	IncludeCustomer(ctx context.Context, customerID string) error
	IncludeAllCustomers(ctx context.Context) error

	// Saved filters.
	SavedFilters(ctx context.Context) ([]SavedFilterRecord, error)
	SaveFilter(ctx context.Context, f SavedFilterRecord) error
	DeleteFilter(ctx context.Context, filterID string) error
}
