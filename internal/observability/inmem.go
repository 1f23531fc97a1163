package observability

import "sync"

// Inmem keeps the last max events plus running counters. Enough for the
// settings page and for tests; there is no external metrics surface.
type Inmem struct {
	mu     sync.Mutex
	last   []any
	max    int
	totals Totals
}

type Totals struct {
	Fallbacks  int
	CacheHits  int
	CacheMiss  int
	IngestOK   int
	IngestFail int
}

func NewInmem(max int) *Inmem {
	return &Inmem{max: max}
}

func (m *Inmem) push(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveCreateTable(backend string, durMs float64) {
	m.push(struct {
		Kind    string
		Backend string
		Dur     float64
	}{"create_table", backend, durMs})
}

func (m *Inmem) ObserveAppend(backend string, durMs float64) {
	m.push(struct {
		Kind    string
		Backend string
		Dur     float64
	}{"append", backend, durMs})
}

func (m *Inmem) ObserveQuery(backend string, durMs float64, rows int) {
	m.push(struct {
		Kind    string
		Backend string
		Dur     float64
		Rows    int
	}{"query", backend, durMs, rows})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(struct {
		Kind          string
		Method, Route string
		Status        int
		Dur           float64
	}{"http", method, route, status, durMs})
}

func (m *Inmem) ObserveIngest(processMs float64, ok bool) {
	m.push(struct {
		Kind string
		Dur  float64
		OK   bool
	}{"ingest", processMs, ok})
	m.mu.Lock()
	if ok {
		m.totals.IngestOK++
	} else {
		m.totals.IngestFail++
	}
	m.mu.Unlock()
}

func (m *Inmem) IncFallback() {
	m.mu.Lock()
	m.totals.Fallbacks++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.CacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.CacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

func (m *Inmem) Events() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.last))
	copy(out, m.last)
	return out
}
