package observability

// Metrics is the in-process recorder the data layer reports into. The
// backend label is "remote" or "local" so a demotion shows up as a label
// change, not an operation failure.
type Metrics interface {
	ObserveCreateTable(backend string, durMs float64)
	ObserveAppend(backend string, durMs float64)
	ObserveQuery(backend string, durMs float64, rows int)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveIngest(processMs float64, ok bool)
	IncFallback()
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveCreateTable(string, float64)       {}
func (Noop) ObserveAppend(string, float64)            {}
func (Noop) ObserveQuery(string, float64, int)        {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveIngest(float64, bool)              {}
func (Noop) IncFallback()                             {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
