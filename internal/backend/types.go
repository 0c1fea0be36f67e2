package backend

import (
	"encoding/json"
	"time"
)

// ColorStatus is the collector triage flag carried by invoices and customers.
// An empty value means unflagged.
type ColorStatus string

const (
	ColorNone         ColorStatus = ""
	ColorWillPay      ColorStatus = "will_pay"
	ColorWillNotPay   ColorStatus = "will_not_pay"
	ColorWillTakeCare ColorStatus = "will_take_care"
)

// CycleColor returns the next flag in triage order, wrapping back to unflagged.
func CycleColor(c ColorStatus) ColorStatus {
	switch c {
	case ColorNone:
		return ColorWillPay
	case ColorWillPay:
		return ColorWillNotPay
	case ColorWillNotPay:
		return ColorWillTakeCare
	default:
		return ColorNone
	}
}

// Customer is one row of the customer balance view synced from the ERP.
type Customer struct {
	ID             string      `json:"customer_id"`
	Name           string      `json:"customer_name"`
	Country        string      `json:"country"`
	Collector      string      `json:"collector"`
	BalanceCents   int64       `json:"balance_cents"`
	OverdueCents   int64       `json:"overdue_cents"`
	OpenInvoices   int         `json:"open_invoices"`
	Color          ColorStatus `json:"color_status"`
	LastPaymentISO string      `json:"last_payment_date"` // yyyy-mm-dd, empty when never paid
}

// Invoice is one AR document row.
type Invoice struct {
	RefNbr       string      `json:"ref_nbr"`
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	DateISO      string      `json:"invoice_date"`
	DueDateISO   string      `json:"due_date"`
	AmountCents  int64       `json:"amount_cents"`
	OpenCents    int64       `json:"open_cents"`
	Status       string      `json:"status"` // open, closed, disputed
	Color        ColorStatus `json:"color_status"`
	DaysPastDue  int         `json:"days_past_due"`
}

// Payment is one received payment row.
type Payment struct {
	ID           string `json:"payment_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	DateISO      string `json:"payment_date"`
	AmountCents  int64  `json:"amount_cents"`
	Method       string `json:"method"`
	AppliedRef   string `json:"applied_ref"` // invoice the payment was applied to, if any
	Status       string `json:"status"`
}

// Ticket is a collections work item grouping invoices for one customer.
type Ticket struct {
	ID           string    `json:"ticket_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Collector    string    `json:"collector"`
	Status       string    `json:"status"` // open, in_progress, resolved, closed
	Priority     int       `json:"priority"`
	DueDateISO   string    `json:"due_date"`
	InvoiceRefs  []string  `json:"invoice_refs"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Note is a free-text annotation attached to a customer or ticket.
type Note struct {
	ID         string    `json:"note_id"`
	EntityKind string    `json:"entity_kind"` // customer or ticket
	EntityID   string    `json:"entity_id"`
	Body       string    `json:"body"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExcludedCustomer marks a customer hidden from the signed-in user's views
// and aggregate totals.
type ExcludedCustomer struct {
	CustomerID string    `json:"customer_id"`
	Reason     string    `json:"reason"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// SavedFilterRecord is a persisted filter snapshot. Criteria and Exclusions
// are stored as opaque JSON so a load restores exactly what was saved.
type SavedFilterRecord struct {
	ID           string          `json:"filter_id"`
	Name         string          `json:"name"`
	View         string          `json:"view"`
	Criteria     json.RawMessage `json:"criteria"`
	Exclusions   json.RawMessage `json:"exclusions"`
	LastUsedUnix int64           `json:"last_used_unix"`
	UseCount     int             `json:"use_count"`
}

// CustomerAnalytics is the server-computed aggregate for the customer and
// payment views. The exclusion list is applied server-side before aggregation.
type CustomerAnalytics struct {
	CustomerCount       int   `json:"customer_count"`
	TotalBalanceCents   int64 `json:"total_balance_cents"`
	TotalOverdueCents   int64 `json:"total_overdue_cents"`
	CollectedMonthCents int64 `json:"collected_month_cents"`
}

// ActivitySummary is the server-computed per-collector work summary.
type ActivitySummary struct {
	Collector     string `json:"collector"`
	OpenTickets   int    `json:"open_tickets"`
	ResolvedWeek  int    `json:"resolved_week"`
	NotesAdded    int    `json:"notes_added"`
	PromisedCents int64  `json:"promised_cents"`
}
