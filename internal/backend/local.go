package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Local is a sqlite-backed implementation of Client. It serves demo mode
// (no backend URL configured) and hermetic tests; the schema mirrors the
// hosted tables one to one.
type Local struct {
	db *sql.DB
}

// OpenLocal opens (or creates) the local database and applies migrations.
func OpenLocal(path string) (*Local, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Local{db: db}, nil
}

// Close closes the underlying database.
func (l *Local) Close() error { return l.db.Close() }

// DB exposes the handle for seeding in tests and demo setup.
func (l *Local) DB() *sql.DB { return l.db }

// ---------------------------------------------------------------------------
// Shared predicate builder
//
// Window and count queries for the same table are built from localWhere and
// localFrom, so their predicates cannot diverge. Column references are fully
// qualified because invoices/payments/tickets join customers for the name.
// ---------------------------------------------------------------------------

type localColumns struct {
	search     string
	status     string
	country    string
	collector  string
	customerID string
	id         string
	color      string
	amount     string
	date       string
}

var localCols = map[string]localColumns{
	"customers": {
		search: "customer_name", country: "country", collector: "collector",
		customerID: "customer_id", id: "customer_id", color: "color_status",
		amount: "balance_cents", date: "last_payment_date",
	},
	"invoices": {
		search: "i.ref_nbr", status: "i.status", country: "c.country",
		customerID: "i.customer_id", id: "i.ref_nbr", color: "i.color_status",
		amount: "i.open_cents", date: "i.invoice_date",
	},
	"payments": {
		search: "c.customer_name", status: "p.status", country: "c.country",
		customerID: "p.customer_id", id: "p.payment_id",
		amount: "p.amount_cents", date: "p.payment_date",
	},
	"tickets": {
		search: "c.customer_name", status: "t.status", country: "c.country",
		collector: "t.collector", customerID: "t.customer_id", id: "t.ticket_id",
		date: "t.due_date",
	},
}

var localFrom = map[string]string{
	"customers": "customers",
	"invoices":  "invoices i JOIN customers c ON c.customer_id = i.customer_id",
	"payments":  "payments p JOIN customers c ON c.customer_id = p.customer_id",
	"tickets":   "tickets t JOIN customers c ON c.customer_id = t.customer_id",
}

func localWhere(table string, q Query) ([]string, []any) {
	cols := localCols[table]
	var conds []string
	var args []any

	if s := strings.TrimSpace(q.Search); s != "" && cols.search != "" {
		conds = append(conds, cols.search+" LIKE ? COLLATE NOCASE")
		args = append(args, "%"+s+"%")
	}
	if q.Status != "" && q.Status != "all" && cols.status != "" {
		conds = append(conds, cols.status+" = ?")
		args = append(args, q.Status)
	}
	if q.Country != "" && q.Country != "all" && cols.country != "" {
		conds = append(conds, cols.country+" = ?")
		args = append(args, q.Country)
	}
	if q.Collector != "" && cols.collector != "" {
		conds = append(conds, cols.collector+" = ?")
		args = append(args, q.Collector)
	}
	if q.CustomerID != "" {
		conds = append(conds, cols.customerID+" = ?")
		args = append(args, q.CustomerID)
	}
	if q.RefID != "" && cols.id != "" {
		conds = append(conds, cols.id+" = ?")
		args = append(args, q.RefID)
	}
	if (q.HasColor || q.Color != ColorNone) && cols.color != "" {
		conds = append(conds, cols.color+" = ?")
		args = append(args, string(q.Color))
	}
	if cols.amount != "" {
		switch q.BalanceSign {
		case "positive":
			conds = append(conds, cols.amount+" > 0")
		case "negative":
			conds = append(conds, cols.amount+" < 0")
		case "zero":
			conds = append(conds, cols.amount+" = 0")
		}
		if q.MinCents != nil {
			conds = append(conds, cols.amount+" >= ?")
			args = append(args, *q.MinCents)
		}
		if q.MaxCents != nil {
			conds = append(conds, cols.amount+" <= ?")
			args = append(args, *q.MaxCents)
		}
	}
	if cols.date != "" {
		if q.DateFromISO != "" {
			conds = append(conds, cols.date+" >= ?")
			args = append(args, q.DateFromISO)
		}
		if q.DateToISO != "" {
			conds = append(conds, cols.date+" <= ?")
			args = append(args, q.DateToISO)
		}
	}
	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Sortable columns per table, mapped from API sort keys to qualified SQL
// expressions. Anything not listed falls back to the default, which keeps
// user-supplied sort keys out of the SQL text.
var sortable = map[string]map[string]string{
	"customers": {
		"customer_id": "customer_id", "customer_name": "customer_name",
		"country": "country", "balance_cents": "balance_cents",
		"overdue_cents": "overdue_cents", "last_payment_date": "last_payment_date",
	},
	"invoices": {
		"ref_nbr": "i.ref_nbr", "customer_id": "i.customer_id",
		"invoice_date": "i.invoice_date", "due_date": "i.due_date",
		"amount_cents": "i.amount_cents", "open_cents": "i.open_cents",
		"days_past_due": "i.days_past_due",
	},
	"payments": {
		"payment_id": "p.payment_id", "customer_id": "p.customer_id",
		"payment_date": "p.payment_date", "amount_cents": "p.amount_cents",
	},
	"tickets": {
		"ticket_id": "t.ticket_id", "customer_id": "t.customer_id",
		"priority": "t.priority", "due_date": "t.due_date", "status": "t.status",
	},
}

var defaultSort = map[string]string{
	"customers": "balance_cents DESC",
	"invoices":  "i.due_date ASC",
	"payments":  "p.payment_date DESC",
	"tickets":   "t.priority ASC, t.due_date ASC",
}

func orderAndWindow(table string, q Query) string {
	order := defaultSort[table]
	if expr, ok := sortable[table][q.SortBy]; ok {
		dir := "ASC"
		if q.SortDir == SortDesc {
			dir = "DESC"
		}
		order = expr + " " + dir
	}
	clause := " ORDER BY " + order
	if q.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}
	return clause
}

func (l *Local) countWhere(ctx context.Context, table string, conds []string, args []any) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+localFrom[table]+whereClause(conds), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Table reads
// ---------------------------------------------------------------------------

const customerCols = "customer_id, customer_name, country, collector, balance_cents, overdue_cents, open_invoices, color_status, last_payment_date"

func scanCustomers(rows *sql.Rows) ([]Customer, error) {
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Country, &c.Collector, &c.BalanceCents, &c.OverdueCents, &c.OpenInvoices, &c.Color, &c.LastPaymentISO); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (l *Local) Customers(ctx context.Context, q Query) ([]Customer, error) {
	conds, args := localWhere("customers", q)
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+customerCols+" FROM customers"+whereClause(conds)+orderAndWindow("customers", q), args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return scanCustomers(rows)
}

func (l *Local) CustomersCount(ctx context.Context, q Query) (int, error) {
	conds, args := localWhere("customers", q)
	return l.countWhere(ctx, "customers", conds, args)
}

const invoiceCols = "i.ref_nbr, i.customer_id, c.customer_name, i.invoice_date, i.due_date, i.amount_cents, i.open_cents, i.status, i.color_status, i.days_past_due"

func (l *Local) queryInvoices(ctx context.Context, q Query) ([]Invoice, error) {
	conds, args := localWhere("invoices", q)
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+invoiceCols+" FROM "+localFrom["invoices"]+whereClause(conds)+orderAndWindow("invoices", q), args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		var v Invoice
		if err := rows.Scan(&v.RefNbr, &v.CustomerID, &v.CustomerName, &v.DateISO, &v.DueDateISO, &v.AmountCents, &v.OpenCents, &v.Status, &v.Color, &v.DaysPastDue); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (l *Local) Invoices(ctx context.Context, q Query) ([]Invoice, error) {
	return l.queryInvoices(ctx, q)
}

func (l *Local) InvoicesCount(ctx context.Context, q Query) (int, error) {
	conds, args := localWhere("invoices", q)
	return l.countWhere(ctx, "invoices", conds, args)
}

const paymentCols = "p.payment_id, p.customer_id, c.customer_name, p.payment_date, p.amount_cents, p.method, p.applied_ref, p.status"

func (l *Local) Payments(ctx context.Context, q Query) ([]Payment, error) {
	conds, args := localWhere("payments", q)
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM "+localFrom["payments"]+whereClause(conds)+orderAndWindow("payments", q), args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.CustomerName, &p.DateISO, &p.AmountCents, &p.Method, &p.AppliedRef, &p.Status); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (l *Local) PaymentsCount(ctx context.Context, q Query) (int, error) {
	conds, args := localWhere("payments", q)
	return l.countWhere(ctx, "payments", conds, args)
}

const ticketCols = "t.ticket_id, t.customer_id, c.customer_name, t.collector, t.status, t.priority, t.due_date, t.invoice_refs, t.created_at, t.updated_at"

func (l *Local) Tickets(ctx context.Context, q Query) ([]Ticket, error) {
	conds, args := localWhere("tickets", q)
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+ticketCols+" FROM "+localFrom["tickets"]+whereClause(conds)+orderAndWindow("tickets", q), args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()
	var out []Ticket
	for rows.Next() {
		var t Ticket
		var refs string
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.CustomerName, &t.Collector, &t.Status, &t.Priority, &t.DueDateISO, &refs, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		if err := json.Unmarshal([]byte(refs), &t.InvoiceRefs); err != nil {
			t.InvoiceRefs = nil
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (l *Local) TicketsCount(ctx context.Context, q Query) (int, error) {
	conds, args := localWhere("tickets", q)
	return l.countWhere(ctx, "tickets", conds, args)
}

func (l *Local) Notes(ctx context.Context, entityKind, entityID string) ([]Note, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT note_id, entity_kind, entity_id, body, author, created_at FROM notes WHERE entity_kind = ? AND entity_id = ? ORDER BY created_at DESC",
		entityKind, entityID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.EntityKind, &n.EntityID, &n.Body, &n.Author, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Remote procedures, computed locally
// ---------------------------------------------------------------------------

func (l *Local) CustomersWithBalance(ctx context.Context, q Query) ([]Customer, error) {
	conds, args := localWhere("customers", q)
	conds = append(conds, "balance_cents <> 0")
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+customerCols+" FROM customers"+whereClause(conds)+orderAndWindow("customers", q), args...)
	if err != nil {
		return nil, fmt.Errorf("customers with balance: %w", err)
	}
	return scanCustomers(rows)
}

func (l *Local) CustomersWithBalanceCount(ctx context.Context, q Query) (int, error) {
	conds, args := localWhere("customers", q)
	conds = append(conds, "balance_cents <> 0")
	return l.countWhere(ctx, "customers", conds, args)
}

func (l *Local) CustomerInvoicesAdvanced(ctx context.Context, q Query) ([]Invoice, error) {
	return l.queryInvoices(ctx, q)
}

func (l *Local) CustomerInvoicesAdvancedCount(ctx context.Context, q Query) (int, error) {
	return l.InvoicesCount(ctx, q)
}

func sqlPlaceholders(ids []string) string {
	return strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
}

func (l *Local) CustomerAnalytics(ctx context.Context, q Query, excludeIDs []string) (CustomerAnalytics, error) {
	conds, args := localWhere("customers", q)
	if len(excludeIDs) > 0 {
		conds = append(conds, "customer_id NOT IN ("+sqlPlaceholders(excludeIDs)+")")
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	var a CustomerAnalytics
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(balance_cents),0), COALESCE(SUM(overdue_cents),0) FROM customers"+whereClause(conds),
		args...).Scan(&a.CustomerCount, &a.TotalBalanceCents, &a.TotalOverdueCents)
	if err != nil {
		return CustomerAnalytics{}, fmt.Errorf("customer analytics: %w", err)
	}

	monthStart := time.Now().UTC().Format("2006-01") + "-01"
	payArgs := []any{monthStart}
	payCond := ""
	if len(excludeIDs) > 0 {
		payCond = " AND customer_id NOT IN (" + sqlPlaceholders(excludeIDs) + ")"
		for _, id := range excludeIDs {
			payArgs = append(payArgs, id)
		}
	}
	err = l.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents),0) FROM payments WHERE payment_date >= ?"+payCond,
		payArgs...).Scan(&a.CollectedMonthCents)
	if err != nil {
		return CustomerAnalytics{}, fmt.Errorf("customer analytics payments: %w", err)
	}
	return a, nil
}

func (l *Local) CollectorActivitySummary(ctx context.Context, collector string) (ActivitySummary, error) {
	s := ActivitySummary{Collector: collector}
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE collector = ? AND status IN ('open','in_progress')",
		collector).Scan(&s.OpenTickets)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("activity summary: %w", err)
	}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	err = l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE collector = ? AND status = 'resolved' AND updated_at >= ?",
		collector, weekAgo).Scan(&s.ResolvedWeek)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("activity summary: %w", err)
	}
	err = l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE author = ? AND created_at >= ?",
		collector, weekAgo).Scan(&s.NotesAdded)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("activity summary: %w", err)
	}
	err = l.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(i.open_cents),0) FROM invoices i
		 WHERE i.color_status = ? AND i.customer_id IN
		   (SELECT customer_id FROM tickets WHERE collector = ?)`,
		string(ColorWillPay), collector).Scan(&s.PromisedCents)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("activity summary: %w", err)
	}
	return s, nil
}

func (l *Local) BatchUpdateInvoiceColorStatus(ctx context.Context, refNbrs []string, color ColorStatus) error {
	if len(refNbrs) == 0 {
		return nil
	}
	args := make([]any, 0, len(refNbrs)+1)
	args = append(args, string(color))
	for _, ref := range refNbrs {
		args = append(args, ref)
	}
	_, err := l.db.ExecContext(ctx,
		"UPDATE invoices SET color_status = ? WHERE ref_nbr IN ("+sqlPlaceholders(refNbrs)+")", args...)
	if err != nil {
		return fmt.Errorf("batch color update: %w", err)
	}
	return nil
}

func (l *Local) UpdateTicketPriority(ctx context.Context, ticketID string, priority int) error {
	return l.updateTicket(ctx, ticketID, "priority = ?", priority)
}

func (l *Local) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	return l.updateTicket(ctx, ticketID, "status = ?", status)
}

func (l *Local) AssignTicket(ctx context.Context, ticketID, collector string) error {
	return l.updateTicket(ctx, ticketID, "collector = ?", collector)
}

func (l *Local) updateTicket(ctx context.Context, ticketID, set string, val any) error {
	res, err := l.db.ExecContext(ctx,
		"UPDATE tickets SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE ticket_id = ?", val, ticketID)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update ticket %s: %w", ticketID, ErrNotFound)
	}
	return nil
}

func (l *Local) UpdateFilterLastUsed(ctx context.Context, filterID string) error {
	res, err := l.db.ExecContext(ctx,
		"UPDATE saved_filters SET last_used_unix = ?, use_count = use_count + 1 WHERE filter_id = ?",
		time.Now().Unix(), filterID)
	if err != nil {
		return fmt.Errorf("touch filter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("touch filter %s: %w", filterID, ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

func (l *Local) UpdateCustomerColor(ctx context.Context, customerID string, color ColorStatus) error {
	res, err := l.db.ExecContext(ctx,
		"UPDATE customers SET color_status = ? WHERE customer_id = ?", string(color), customerID)
	if err != nil {
		return fmt.Errorf("update customer color: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update customer %s: %w", customerID, ErrNotFound)
	}
	return nil
}

func (l *Local) AddNote(ctx context.Context, n Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO notes(note_id, entity_kind, entity_id, body, author, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		n.ID, n.EntityKind, n.EntityID, n.Body, n.Author, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Exclusions
// ---------------------------------------------------------------------------

func (l *Local) ExcludedCustomers(ctx context.Context) ([]ExcludedCustomer, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT customer_id, reason, excluded_at FROM excluded_customers ORDER BY excluded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query exclusions: %w", err)
	}
	defer rows.Close()
	var out []ExcludedCustomer
	for rows.Next() {
		var e ExcludedCustomer
		if err := rows.Scan(&e.CustomerID, &e.Reason, &e.ExcludedAt); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (l *Local) ExcludeCustomer(ctx context.Context, e ExcludedCustomer) error {
	if e.ExcludedAt.IsZero() {
		e.ExcludedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO excluded_customers(customer_id, reason, excluded_at) VALUES(?, ?, ?)
		 ON CONFLICT(customer_id) DO UPDATE SET reason = excluded.reason, excluded_at = excluded.excluded_at`,
		e.CustomerID, e.Reason, e.ExcludedAt)
	if err != nil {
		return fmt.Errorf("exclude customer: %w", err)
	}
	return nil
}

func (l *Local) IncludeCustomer(ctx context.Context, customerID string) error {
	_, err := l.db.ExecContext(ctx, "DELETE FROM excluded_customers WHERE customer_id = ?", customerID)
	if err != nil {
		return fmt.Errorf("include customer: %w", err)
	}
	return nil
}

func (l *Local) IncludeAllCustomers(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "DELETE FROM excluded_customers")
	if err != nil {
		return fmt.Errorf("include all: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Saved filters
// ---------------------------------------------------------------------------

func (l *Local) SavedFilters(ctx context.Context) ([]SavedFilterRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT filter_id, name, view, criteria, exclusions, last_used_unix, use_count FROM saved_filters ORDER BY last_used_unix DESC, filter_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query saved filters: %w", err)
	}
	defer rows.Close()
	var out []SavedFilterRecord
	for rows.Next() {
		var f SavedFilterRecord
		var criteria, exclusions string
		if err := rows.Scan(&f.ID, &f.Name, &f.View, &criteria, &exclusions, &f.LastUsedUnix, &f.UseCount); err != nil {
			return nil, fmt.Errorf("scan saved filter: %w", err)
		}
		f.Criteria = json.RawMessage(criteria)
		f.Exclusions = json.RawMessage(exclusions)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (l *Local) SaveFilter(ctx context.Context, f SavedFilterRecord) error {
	criteria := string(f.Criteria)
	if criteria == "" {
		criteria = "{}"
	}
	exclusions := string(f.Exclusions)
	if exclusions == "" {
		exclusions = "[]"
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO saved_filters(filter_id, name, view, criteria, exclusions, last_used_unix, use_count)
		 VALUES(?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(filter_id) DO UPDATE SET
		   name = excluded.name, view = excluded.view, criteria = excluded.criteria, exclusions = excluded.exclusions`,
		f.ID, f.Name, f.View, criteria, exclusions, f.LastUsedUnix, f.UseCount)
	if err != nil {
		return fmt.Errorf("save filter: %w", err)
	}
	return nil
}

func (l *Local) DeleteFilter(ctx context.Context, filterID string) error {
	_, err := l.db.ExecContext(ctx, "DELETE FROM saved_filters WHERE filter_id = ?", filterID)
	if err != nil {
		return fmt.Errorf("delete filter: %w", err)
	}
	return nil
}

var _ Client = (*Local)(nil)
