// Package listflow implements the incremental list-loading discipline shared
// by every table view: windowed fetches with a paired total count, an
// append-only row cache per filter generation, an exhaustion flag derived
// from short pages, and stale-response discarding keyed on a generation
// counter rather than a plain in-flight boolean.
//
// The package is rendering-agnostic: callers run the actual queries and feed
// results back through Complete.
package listflow

// Window describes the current fetch window.
type Window struct {
	Offset   int
	PageSize int
	HasMore  bool
}

// Fetch is a token for one outstanding page query. Callers must pass its
// Generation back to Complete so responses that outlived their filter are
// recognized and dropped.
type Fetch struct {
	Generation uint64
	Offset     int
	Limit      int
	Append     bool
}

// Outcome reports what Complete did with a response.
type Outcome int

const (
	// Applied means the rows were merged into the cache.
	Applied Outcome = iota
	// Stale means the response belonged to a superseded generation and was
	// discarded without touching the cache.
	Stale
	// Failed means the fetch errored; the cache is unchanged and the error
	// is retained for the caller to surface.
	Failed
)

// Session tracks one view's paginated row cache.
type Session[Row any] struct {
	pageSize int
	gen      uint64
	window   Window
	rows     []Row
	total    int
	inFlight bool
	loaded   bool
	lastErr  error
}

// NewSession returns a session with an empty cache. pageSize must be positive.
func NewSession[Row any](pageSize int) *Session[Row] {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Session[Row]{
		pageSize: pageSize,
		window:   Window{Offset: 0, PageSize: pageSize, HasMore: true},
	}
}

// Reset starts a new filter generation: the cache is cleared, the window
// rewinds to the first page, and any outstanding fetch is orphaned (its
// response will be discarded by Complete). Returns the new generation.
func (s *Session[Row]) Reset() uint64 {
	s.gen++
	s.rows = nil
	s.total = 0
	s.window = Window{Offset: 0, PageSize: s.pageSize, HasMore: true}
	s.inFlight = false
	s.loaded = false
	s.lastErr = nil
	return s.gen
}

// Generation returns the current filter generation.
func (s *Session[Row]) Generation() uint64 { return s.gen }

// Rows returns the cached rows for the current generation.
func (s *Session[Row]) Rows() []Row { return s.rows }

// Total returns the server-side count reported by the last completed fetch.
func (s *Session[Row]) Total() int { return s.total }

// Window returns the current fetch window.
func (s *Session[Row]) Window() Window { return s.window }

// InFlight reports whether a fetch is outstanding.
func (s *Session[Row]) InFlight() bool { return s.inFlight }

// Loaded reports whether at least one fetch has completed since the last
// Reset. Views use it to tell "empty result" apart from "not fetched yet".
func (s *Session[Row]) Loaded() bool { return s.loaded }

// Err returns the error from the last completed fetch, if any.
func (s *Session[Row]) Err() error { return s.lastErr }

// BeginFetch claims the fetch for the current window. It refuses while a
// fetch is outstanding (re-entrant triggers are ignored) and once the
// session is exhausted.
func (s *Session[Row]) BeginFetch() (Fetch, bool) {
	if s.inFlight || !s.window.HasMore {
		return Fetch{}, false
	}
	s.inFlight = true
	return Fetch{
		Generation: s.gen,
		Offset:     s.window.Offset,
		Limit:      s.pageSize,
		Append:     s.window.Offset > 0,
	}, true
}

// Advance is the infinite-scroll trigger: when the end of the cache comes
// into view, it moves the window to the next page and claims the fetch.
// It refuses when the session is exhausted, unloaded, or mid-fetch.
func (s *Session[Row]) Advance() (Fetch, bool) {
	if s.inFlight || !s.window.HasMore || !s.loaded {
		return Fetch{}, false
	}
	s.window.Offset += s.pageSize
	return s.BeginFetch()
}

// Complete applies a fetch response. Responses carrying a generation other
// than the current one are dropped whole: a slow page-1 under an old filter
// must never clobber rows fetched under a newer one. The in-flight flag is
// cleared on every current-generation outcome, success or failure.
func (s *Session[Row]) Complete(f Fetch, rows []Row, total int, err error) Outcome {
	if f.Generation != s.gen {
		return Stale
	}
	s.inFlight = false
	if err != nil {
		s.lastErr = err
		return Failed
	}
	s.lastErr = nil
	s.loaded = true
	s.total = total
	if f.Append {
		s.rows = append(s.rows, rows...)
	} else {
		s.rows = rows
	}
	s.window.HasMore = len(rows) == s.pageSize
	return Applied
}

// Patch replaces the first cached row matched by eq with row, in place.
// Used after a mutation whose field is not part of the current filter.
func (s *Session[Row]) Patch(eq func(Row) bool, row Row) bool {
	for i := range s.rows {
		if eq(s.rows[i]) {
			s.rows[i] = row
			return true
		}
	}
	return false
}

// Update applies fn to every cached row matched by eq. Returns the number of
// rows touched.
func (s *Session[Row]) Update(eq func(Row) bool, fn func(*Row)) int {
	n := 0
	for i := range s.rows {
		if eq(s.rows[i]) {
			fn(&s.rows[i])
			n++
		}
	}
	return n
}
