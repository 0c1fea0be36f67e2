package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPClient talks to the hosted backend over its REST surface: table reads
// use query-string predicates with Range-header pagination, procedures are
// POSTed to /rpc/<name>.
type HTTPClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewHTTPClient builds a client for the given base URL. The API key is sent
// on every request.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Per-table column mapping used to translate a Query into REST predicates.
// The search column is the one free-text search matches against; amount and
// date are the columns numeric and date-range filters apply to.
var tableColumns = map[string]struct {
	search string
	amount string
	date   string
	id     string
}{
	"customers": {search: "customer_name", amount: "balance_cents", date: "last_payment_date", id: "customer_id"},
	"invoices":  {search: "ref_nbr", amount: "open_cents", date: "invoice_date", id: "ref_nbr"},
	"payments":  {search: "customer_name", amount: "amount_cents", date: "payment_date", id: "payment_id"},
	"tickets":   {search: "customer_name", amount: "", date: "due_date", id: "ticket_id"},
}

func queryParams(table string, q Query) url.Values {
	cols := tableColumns[table]
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" && cols.search != "" {
		v.Add(cols.search, "ilike.*"+s+"*")
	}
	if q.Status != "" && q.Status != "all" {
		v.Add("status", "eq."+q.Status)
	}
	if q.Country != "" && q.Country != "all" {
		v.Add("country", "eq."+q.Country)
	}
	if q.Collector != "" {
		v.Add("collector", "eq."+q.Collector)
	}
	if q.CustomerID != "" {
		v.Add("customer_id", "eq."+q.CustomerID)
	}
	if q.RefID != "" && cols.id != "" {
		v.Add(cols.id, "eq."+q.RefID)
	}
	if q.HasColor || q.Color != ColorNone {
		v.Add("color_status", "eq."+string(q.Color))
	}
	if cols.amount != "" {
		switch q.BalanceSign {
		case "positive":
			v.Add(cols.amount, "gt.0")
		case "negative":
			v.Add(cols.amount, "lt.0")
		case "zero":
			v.Add(cols.amount, "eq.0")
		}
		if q.MinCents != nil {
			v.Add(cols.amount, "gte."+strconv.FormatInt(*q.MinCents, 10))
		}
		if q.MaxCents != nil {
			v.Add(cols.amount, "lte."+strconv.FormatInt(*q.MaxCents, 10))
		}
	}
	if cols.date != "" {
		if q.DateFromISO != "" {
			v.Add(cols.date, "gte."+q.DateFromISO)
		}
		if q.DateToISO != "" {
			v.Add(cols.date, "lte."+q.DateToISO)
		}
	}
	if q.SortBy != "" {
		dir := "asc"
		if q.SortDir == SortDesc {
			dir = "desc"
		}
		v.Set("order", q.SortBy+"."+dir)
	}
	return v
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, headers map[string]string, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		}
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// getRows fetches one window of rows from a table or rpc result set.
func getRows[T any](ctx context.Context, c *HTTPClient, path string, params url.Values, offset, limit int) ([]T, error) {
	headers := map[string]string{}
	if limit > 0 {
		headers["Range"] = fmt.Sprintf("%d-%d", offset, offset+limit-1)
		headers["Range-Unit"] = "items"
	}
	resp, err := c.do(ctx, http.MethodGet, path, params, headers, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out []T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// getCount asks for an exact count without transferring rows: a zero-width
// Range plus Prefer: count=exact puts the total in Content-Range.
func (c *HTTPClient) getCount(ctx context.Context, path string, params url.Values) (int, error) {
	headers := map[string]string{
		"Range":      "0-0",
		"Range-Unit": "items",
		"Prefer":     "count=exact",
	}
	resp, err := c.do(ctx, http.MethodGet, path, params, headers, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("count %s: malformed Content-Range %q", path, cr)
	}
	total, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("count %s: malformed Content-Range %q", path, cr)
	}
	return total, nil
}

func (c *HTTPClient) rpc(ctx context.Context, name string, args any, out any) error {
	resp, err := c.do(ctx, http.MethodPost, "/rpc/"+name, nil, nil, args)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode rpc %s: %w", name, err)
	}
	return nil
}

// rpcArgs flattens a Query into the argument record shared by the list RPCs
// and their count twins, so both sides see the identical predicate.
func rpcArgs(q Query, extra map[string]any) map[string]any {
	args := map[string]any{
		"p_search":       strings.TrimSpace(q.Search),
		"p_status":       q.Status,
		"p_country":      q.Country,
		"p_collector":    q.Collector,
		"p_customer_id":  q.CustomerID,
		"p_color_status": string(q.Color),
		"p_has_color":    q.HasColor,
		"p_balance_sign": q.BalanceSign,
		"p_date_from":    q.DateFromISO,
		"p_date_to":      q.DateToISO,
		"p_sort_by":      q.SortBy,
		"p_sort_dir":     string(q.SortDir),
		"p_offset":       q.Offset,
		"p_limit":        q.Limit,
	}
	if q.MinCents != nil {
		args["p_min_cents"] = *q.MinCents
	}
	if q.MaxCents != nil {
		args["p_max_cents"] = *q.MaxCents
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func (c *HTTPClient) patch(ctx context.Context, table string, params url.Values, body any) error {
	resp, err := c.do(ctx, http.MethodPatch, "/"+table, params, nil, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ---------------------------------------------------------------------------
// Table reads
// ---------------------------------------------------------------------------

func (c *HTTPClient) Customers(ctx context.Context, q Query) ([]Customer, error) {
	return getRows[Customer](ctx, c, "/customers", queryParams("customers", q), q.Offset, q.Limit)
}

func (c *HTTPClient) CustomersCount(ctx context.Context, q Query) (int, error) {
	return c.getCount(ctx, "/customers", queryParams("customers", q))
}

func (c *HTTPClient) Invoices(ctx context.Context, q Query) ([]Invoice, error) {
	return getRows[Invoice](ctx, c, "/invoices", queryParams("invoices", q), q.Offset, q.Limit)
}

func (c *HTTPClient) InvoicesCount(ctx context.Context, q Query) (int, error) {
	return c.getCount(ctx, "/invoices", queryParams("invoices", q))
}

func (c *HTTPClient) Payments(ctx context.Context, q Query) ([]Payment, error) {
	return getRows[Payment](ctx, c, "/payments", queryParams("payments", q), q.Offset, q.Limit)
}

func (c *HTTPClient) PaymentsCount(ctx context.Context, q Query) (int, error) {
	return c.getCount(ctx, "/payments", queryParams("payments", q))
}

func (c *HTTPClient) Tickets(ctx context.Context, q Query) ([]Ticket, error) {
	return getRows[Ticket](ctx, c, "/tickets", queryParams("tickets", q), q.Offset, q.Limit)
}

func (c *HTTPClient) TicketsCount(ctx context.Context, q Query) (int, error) {
	return c.getCount(ctx, "/tickets", queryParams("tickets", q))
}

func (c *HTTPClient) Notes(ctx context.Context, entityKind, entityID string) ([]Note, error) {
	v := url.Values{}
	v.Set("entity_kind", "eq."+entityKind)
	v.Set("entity_id", "eq."+entityID)
	v.Set("order", "created_at.desc")
	return getRows[Note](ctx, c, "/notes", v, 0, 0)
}

// ---------------------------------------------------------------------------
// Remote procedures
// ---------------------------------------------------------------------------

func (c *HTTPClient) CustomersWithBalance(ctx context.Context, q Query) ([]Customer, error) {
	var out []Customer
	err := c.rpc(ctx, "get_customers_with_balance", rpcArgs(q, nil), &out)
	return out, err
}

func (c *HTTPClient) CustomersWithBalanceCount(ctx context.Context, q Query) (int, error) {
	var out int
	err := c.rpc(ctx, "get_customers_with_balance_count", rpcArgs(q, nil), &out)
	return out, err
}

func (c *HTTPClient) CustomerInvoicesAdvanced(ctx context.Context, q Query) ([]Invoice, error) {
	var out []Invoice
	err := c.rpc(ctx, "get_customer_invoices_advanced", rpcArgs(q, nil), &out)
	return out, err
}

func (c *HTTPClient) CustomerInvoicesAdvancedCount(ctx context.Context, q Query) (int, error) {
	var out int
	err := c.rpc(ctx, "get_customer_invoices_advanced_count", rpcArgs(q, nil), &out)
	return out, err
}

func (c *HTTPClient) CustomerAnalytics(ctx context.Context, q Query, excludeIDs []string) (CustomerAnalytics, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	var out CustomerAnalytics
	err := c.rpc(ctx, "get_customer_analytics", rpcArgs(q, map[string]any{"p_exclude_ids": excludeIDs}), &out)
	return out, err
}

func (c *HTTPClient) CollectorActivitySummary(ctx context.Context, collector string) (ActivitySummary, error) {
	var out ActivitySummary
	err := c.rpc(ctx, "get_collector_activity_summary", map[string]any{"p_collector": collector}, &out)
	return out, err
}

func (c *HTTPClient) BatchUpdateInvoiceColorStatus(ctx context.Context, refNbrs []string, color ColorStatus) error {
	return c.rpc(ctx, "batch_update_invoice_color_status", map[string]any{
		"p_ref_nbrs":     refNbrs,
		"p_color_status": string(color),
	}, nil)
}

func (c *HTTPClient) UpdateTicketPriority(ctx context.Context, ticketID string, priority int) error {
	return c.rpc(ctx, "update_ticket_priority", map[string]any{
		"p_ticket_id": ticketID,
		"p_priority":  priority,
	}, nil)
}

func (c *HTTPClient) UpdateFilterLastUsed(ctx context.Context, filterID string) error {
	return c.rpc(ctx, "update_filter_last_used", map[string]any{"p_filter_id": filterID}, nil)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

func (c *HTTPClient) UpdateCustomerColor(ctx context.Context, customerID string, color ColorStatus) error {
	v := url.Values{}
	v.Set("customer_id", "eq."+customerID)
	return c.patch(ctx, "customers", v, map[string]any{"color_status": string(color)})
}

func (c *HTTPClient) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	v := url.Values{}
	v.Set("ticket_id", "eq."+ticketID)
	return c.patch(ctx, "tickets", v, map[string]any{"status": status})
}

func (c *HTTPClient) AssignTicket(ctx context.Context, ticketID, collector string) error {
	v := url.Values{}
	v.Set("ticket_id", "eq."+ticketID)
	return c.patch(ctx, "tickets", v, map[string]any{"collector": collector})
}

func (c *HTTPClient) AddNote(ctx context.Context, n Note) error {
	resp, err := c.do(ctx, http.MethodPost, "/notes", nil, nil, n)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ---------------------------------------------------------------------------
// Exclusions
// ---------------------------------------------------------------------------

func (c *HTTPClient) ExcludedCustomers(ctx context.Context) ([]ExcludedCustomer, error) {
	v := url.Values{}
	v.Set("order", "excluded_at.desc")
	return getRows[ExcludedCustomer](ctx, c, "/excluded_customers", v, 0, 0)
}

func (c *HTTPClient) ExcludeCustomer(ctx context.Context, e ExcludedCustomer) error {
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	resp, err := c.do(ctx, http.MethodPost, "/excluded_customers", nil, headers, e)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) IncludeCustomer(ctx context.Context, customerID string) error {
	v := url.Values{}
	v.Set("customer_id", "eq."+customerID)
	resp, err := c.do(ctx, http.MethodDelete, "/excluded_customers", v, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) IncludeAllCustomers(ctx context.Context) error {
	// The backend scopes excluded_customers to the signed-in user, so an
	// unfiltered delete clears exactly that user's set.
	v := url.Values{}
	v.Set("customer_id", "neq.")
	resp, err := c.do(ctx, http.MethodDelete, "/excluded_customers", v, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ---------------------------------------------------------------------------
// Saved filters
// ---------------------------------------------------------------------------

func (c *HTTPClient) SavedFilters(ctx context.Context) ([]SavedFilterRecord, error) {
	v := url.Values{}
	v.Set("order", "last_used_unix.desc")
	return getRows[SavedFilterRecord](ctx, c, "/saved_filters", v, 0, 0)
}

func (c *HTTPClient) SaveFilter(ctx context.Context, f SavedFilterRecord) error {
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	resp, err := c.do(ctx, http.MethodPost, "/saved_filters", nil, headers, f)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPClient) DeleteFilter(ctx context.Context, filterID string) error {
	v := url.Values{}
	v.Set("filter_id", "eq."+filterID)
	resp, err := c.do(ctx, http.MethodDelete, "/saved_filters", v, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

var _ Client = (*HTTPClient)(nil)
