package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCustomersSendsPredicatesAndRange(t *testing.T) {
	var gotRange, gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotRange = r.Header.Get("Range")
		json.NewEncoder(w).Encode([]Customer{{ID: "C1", Name: "Test"}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key-123")
	minCents := int64(150_000)
	rows, err := c.Customers(context.Background(), Query{
		Search:   "acme",
		Country:  "US",
		MinCents: &minCents,
		SortBy:   "balance_cents",
		SortDir:  SortDesc,
		Offset:   100,
		Limit:    50,
	})
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "C1" {
		t.Fatalf("rows = %+v", rows)
	}
	if gotPath != "/customers" {
		t.Errorf("path = %q", gotPath)
	}
	if gotRange != "100-149" {
		t.Errorf("Range = %q, want 100-149", gotRange)
	}
	checks := map[string]string{
		"customer_name": "ilike.*acme*",
		"country":       "eq.US",
		"order":         "balance_cents.desc",
	}
	for k, want := range checks {
		if got := gotQuery[k]; len(got) != 1 || got[0] != want {
			t.Errorf("param %s = %v, want %q", k, got, want)
		}
	}
	if got := gotQuery["balance_cents"]; len(got) != 1 || got[0] != "gte.150000" {
		t.Errorf("balance_cents = %v, want gte.150000", got)
	}
}

func TestCountParsesContentRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Prefer") != "count=exact" {
			t.Errorf("Prefer = %q", r.Header.Get("Prefer"))
		}
		w.Header().Set("Content-Range", "0-0/1234")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	n, err := c.CustomersCount(context.Background(), Query{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1234 {
		t.Errorf("count = %d, want 1234", n)
	}
}

func TestCountRejectsMalformedContentRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "garbage")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if _, err := c.CustomersCount(context.Background(), Query{}); err == nil {
		t.Fatal("malformed Content-Range accepted")
	}
}

func TestAnalyticsRPCCarriesExclusions(t *testing.T) {
	var gotPath string
	var gotArgs map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotArgs)
		json.NewEncoder(w).Encode(CustomerAnalytics{CustomerCount: 9})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	a, err := c.CustomerAnalytics(context.Background(), Query{Collector: "sam"}, []string{"C1", "C2"})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if a.CustomerCount != 9 {
		t.Errorf("count = %d", a.CustomerCount)
	}
	if gotPath != "/rpc/get_customer_analytics" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gotArgs["p_collector"]; got != "sam" {
		t.Errorf("p_collector = %v", got)
	}
	ids, ok := gotArgs["p_exclude_ids"].([]any)
	if !ok || len(ids) != 2 || ids[0] != "C1" {
		t.Errorf("p_exclude_ids = %v", gotArgs["p_exclude_ids"])
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.Customers(context.Background(), Query{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAPIKeySentOnEveryRequest(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	if _, err := c.Tickets(context.Background(), Query{Limit: 1}); err != nil {
		t.Fatalf("Tickets: %v", err)
	}
	if gotKey != "secret" || gotAuth != "Bearer secret" {
		t.Errorf("auth headers = %q / %q", gotKey, gotAuth)
	}
}

func TestBatchColorRPCBody(t *testing.T) {
	var gotArgs map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotArgs)
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.BatchUpdateInvoiceColorStatus(context.Background(), []string{"INV-1"}, ColorWillPay); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if got := gotArgs["p_color_status"]; got != "will_pay" {
		t.Errorf("p_color_status = %v", got)
	}
}
