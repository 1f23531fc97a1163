package observability

import (
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendServerTiming(t *testing.T) {
	testCases := []struct {
		testName string

		name  string
		durMs float64
		desc  string

		expected string
	}{
		{
			testName: "duration and description",
			name:     "query",
			durMs:    100.5,
			desc:     "remote",
			expected: `query;dur=100.50;desc="remote"`,
		},
		{
			testName: "duration only",
			name:     "append",
			durMs:    200.0,
			expected: "append;dur=200.00",
		},
		{
			testName: "description only",
			name:     "backend",
			desc:     "local",
			expected: `backend;desc="local"`,
		},
		{
			testName: "nothing to write",
			name:     "empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			w := httptest.NewRecorder()
			AppendServerTiming(w, tc.name, tc.durMs, tc.desc)

			if tc.expected == "" {
				require.Empty(t, w.Header().Values("Server-Timing"))
				return
			}
			require.Equal(t, []string{tc.expected}, w.Header().Values("Server-Timing"))
		})
	}
}

func TestSetIfPos(t *testing.T) {
	w := httptest.NewRecorder()
	SetIfPos(w, "X-Query-Time", 12.345)
	SetIfPos(w, "X-Append-Time", 0)

	require.Equal(t, "12.35", w.Header().Get("X-Query-Time"))
	require.Empty(t, w.Header().Get("X-Append-Time"))
}

func TestInmemTotals(t *testing.T) {
	m := NewInmem(10)

	m.IncFallback()
	m.IncCacheHit()
	m.IncCacheHit()
	m.IncCacheMiss()
	m.ObserveIngest(1.5, true)
	m.ObserveIngest(2.5, false)

	got := m.Totals()
	require.Equal(t, 1, got.Fallbacks)
	require.Equal(t, 2, got.CacheHits)
	require.Equal(t, 1, got.CacheMiss)
	require.Equal(t, 1, got.IngestOK)
	require.Equal(t, 1, got.IngestFail)
}

func TestInmemBoundedEvents(t *testing.T) {
	m := NewInmem(3)
	for i := 0; i < 10; i++ {
		m.ObserveAppend("local", float64(i))
	}
	require.Len(t, m.Events(), 3)
}

func TestInmemConcurrentUse(t *testing.T) {
	m := NewInmem(100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.ObserveQuery("remote", float64(j), j)
				m.ObserveHTTP("GET", "/orders/"+strconv.Itoa(n), 200, float64(j))
				m.IncFallback()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 8*50, m.Totals().Fallbacks)
	require.Len(t, m.Events(), 100)
}
