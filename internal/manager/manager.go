// Package manager is the single entry point callers use for table access.
// It owns the backend choice: operations go to the warehouse while the mode
// is Remote, and the first unavailable answer demotes the instance to the
// local store for the rest of its lifetime. Callers never learn which
// backend served them except through the advisory Mode accessor.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/observability"
	"github.com/abakirov/lakeview/internal/tabular"
)

//go:generate mockgen -source=../tabular/tabular.go -destination=mock_backend_test.go -package=manager Backend

type Mode int32

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// OpStats reports which backend served an operation and how long it took,
// for response headers and the settings page only.
type OpStats struct {
	Backend string
	DurMs   float64
}

type Manager struct {
	remote  tabular.Backend // nil when the instance was built without credentials
	local   tabular.Backend
	tables  map[string]tabular.Table
	mode    atomic.Int32
	logger  *zap.Logger
	metrics observability.Metrics
}

// New builds a manager. A nil remote backend means no usable credential
// configuration was present; the instance then starts directly in Local.
// There is no path back to Remote — recovery means building a new manager.
func New(remote, local tabular.Backend, tables map[string]tabular.Table, logger *zap.Logger, metrics observability.Metrics) *Manager {
	m := &Manager{
		remote:  remote,
		local:   local,
		tables:  tables,
		logger:  logger,
		metrics: metrics,
	}
	if remote == nil {
		logger.Warn("no usable warehouse credentials, starting in local mode")
		m.mode.Store(int32(ModeLocal))
	} else {
		m.mode.Store(int32(ModeRemote))
	}
	return m
}

// Mode is for display only. The presentation layer must not branch
// application logic on it.
func (m *Manager) Mode() Mode {
	return Mode(m.mode.Load())
}

// demote flips Remote→Local exactly once per instance lifetime.
func (m *Manager) demote(op string, cause error) {
	if m.mode.CompareAndSwap(int32(ModeRemote), int32(ModeLocal)) {
		m.metrics.IncFallback()
		m.logger.Warn("warehouse unavailable, demoting to local store for the rest of this instance",
			zap.String("op", op),
			zap.Error(cause),
		)
	}
}

func (m *Manager) table(name string) (tabular.Table, error) {
	t, ok := m.tables[name]
	if !ok {
		return tabular.Table{}, fmt.Errorf("%w: %s", domain.ErrUnknownTable, name)
	}
	return t, nil
}

// CreateTable (re)creates the named table on the active backend. A schema
// rejection surfaces to the caller without a mode change; only an
// unavailable backend triggers the demotion and the degraded retry.
func (m *Manager) CreateTable(ctx context.Context, name string) error {
	t, err := m.table(name)
	if err != nil {
		return err
	}

	t0 := time.Now()
	if m.Mode() == ModeRemote {
		err := m.remote.CreateTable(ctx, t)
		if err == nil {
			m.metrics.ObserveCreateTable(ModeRemote.String(), sinceMs(t0))
			return nil
		}
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			return err
		}
		m.demote("create_table "+name, err)
		t0 = time.Now()
	}

	if err := m.local.CreateTable(ctx, t); err != nil {
		return err
	}
	m.metrics.ObserveCreateTable(ModeLocal.String(), sinceMs(t0))
	return nil
}

func (m *Manager) Append(ctx context.Context, name string, rec tabular.Record) error {
	_, err := m.AppendWithStats(ctx, name, rec)
	return err
}

// AppendWithStats writes one record through whichever backend is active.
// Required fields are checked before either backend is touched.
func (m *Manager) AppendWithStats(ctx context.Context, name string, rec tabular.Record) (OpStats, error) {
	var st OpStats

	t, err := m.table(name)
	if err != nil {
		return st, err
	}
	if err := checkRequired(t, rec); err != nil {
		return st, err
	}

	t0 := time.Now()
	if m.Mode() == ModeRemote {
		err := m.remote.Append(ctx, name, rec)
		if err == nil {
			st.Backend = ModeRemote.String()
			st.DurMs = sinceMs(t0)
			m.metrics.ObserveAppend(st.Backend, st.DurMs)
			return st, nil
		}
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			return st, err
		}
		m.demote("append "+name, err)
		t0 = time.Now()
	}

	if err := m.local.Append(ctx, name, rec); err != nil {
		return st, err
	}
	st.Backend = ModeLocal.String()
	st.DurMs = sinceMs(t0)
	m.metrics.ObserveAppend(st.Backend, st.DurMs)
	return st, nil
}

func (m *Manager) Query(ctx context.Context, name string, filter tabular.Filter) ([]tabular.Record, error) {
	recs, _, err := m.QueryWithStats(ctx, name, filter)
	return recs, err
}

func (m *Manager) QueryWithStats(ctx context.Context, name string, filter tabular.Filter) ([]tabular.Record, OpStats, error) {
	var st OpStats

	if _, err := m.table(name); err != nil {
		return nil, st, err
	}

	t0 := time.Now()
	if m.Mode() == ModeRemote {
		recs, err := m.remote.Query(ctx, name, filter)
		if err == nil {
			st.Backend = ModeRemote.String()
			st.DurMs = sinceMs(t0)
			m.metrics.ObserveQuery(st.Backend, st.DurMs, len(recs))
			return recs, st, nil
		}
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			return nil, st, err
		}
		m.demote("query "+name, err)
		t0 = time.Now()
	}

	recs, err := m.local.Query(ctx, name, filter)
	if err != nil {
		return nil, st, err
	}
	st.Backend = ModeLocal.String()
	st.DurMs = sinceMs(t0)
	m.metrics.ObserveQuery(st.Backend, st.DurMs, len(recs))
	return recs, st, nil
}

// checkRequired rejects a payload missing any non-nullable column before it
// reaches a backend, so both modes fail identically.
func checkRequired(t tabular.Table, rec tabular.Record) error {
	for _, c := range t.Columns {
		if c.Nullable {
			continue
		}
		v, ok := rec[c.Name]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, c.Name)
		}
	}
	return nil
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
