// Package httpapi exposes the order and invoice tables over HTTP. Every data
// response carries an X-Backend header and Server-Timing entries so a caller
// can see which store served the request and how long it took.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/cache"
	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/manager"
	"github.com/abakirov/lakeview/internal/observability"
	"github.com/abakirov/lakeview/internal/tabular"
)

//go:generate mockgen -source=httpapi.go -destination=mock_service_test.go -package=httpapi

// DataService is the slice of the table manager the HTTP layer needs.
type DataService interface {
	CreateTable(ctx context.Context, name string) error
	AppendWithStats(ctx context.Context, name string, rec tabular.Record) (manager.OpStats, error)
	QueryWithStats(ctx context.Context, name string, filter tabular.Filter) ([]tabular.Record, manager.OpStats, error)
	Summarize(ctx context.Context) (manager.Summary, error)
	Mode() manager.Mode
}

type Server struct {
	service DataService
	cache   *cache.Cache
	mux     *http.ServeMux
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(service DataService, orderCache *cache.Cache, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		service: service,
		cache:   orderCache,
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /orders", s.listOrders)
	s.mux.HandleFunc("POST /orders", s.createOrder)
	s.mux.HandleFunc("GET /orders/{id}", s.getOrder)
	s.mux.HandleFunc("GET /invoices", s.listInvoices)
	s.mux.HandleFunc("POST /invoices", s.createInvoice)
	s.mux.HandleFunc("GET /summary", s.getSummary)
	s.mux.HandleFunc("GET /mode", s.getMode)
	s.mux.HandleFunc("GET /healthz", s.healthz)
	s.mux.HandleFunc("POST /tables/{name}", s.createTable)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := tabular.Filter{
		CustomerID: r.URL.Query().Get("customer_id"),
		OrderID:    r.URL.Query().Get("order_id"),
	}

	recs, st, err := s.service.QueryWithStats(r.Context(), tabular.TableOrders, filter)
	if err != nil {
		s.writeError(w, "query orders", err)
		return
	}

	orders := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		o, err := manager.OrderFromRecord(rec)
		if err != nil {
			s.logger.Warn("skipping undecodable order row", zap.Error(err), zap.String("id", rec.String(tabular.FieldID)))
			continue
		}
		orders = append(orders, o)
	}

	s.writeStats(w, st)
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if !decodeBody(w, r, &order) {
		return
	}
	if err := order.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := manager.OrderRecord(order)
	if err != nil {
		s.writeError(w, "encode order", err)
		return
	}

	st, err := s.service.AppendWithStats(r.Context(), tabular.TableOrders, rec)
	if err != nil {
		s.writeError(w, "append order", err)
		return
	}

	if s.cache != nil {
		s.cache.Set(rec)
	}
	s.writeStats(w, st)
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "order id required", http.StatusBadRequest)
		return
	}

	if s.cache != nil {
		if rec, ok := s.cache.Get(id); ok {
			s.metrics.IncCacheHit()
			order, err := manager.OrderFromRecord(rec)
			if err == nil {
				w.Header().Set("X-Cache", "hit")
				writeJSON(w, http.StatusOK, order)
				return
			}
			s.logger.Warn("cached order row is undecodable", zap.Error(err), zap.String("order_id", id))
		}
		s.metrics.IncCacheMiss()
	}

	recs, st, err := s.service.QueryWithStats(r.Context(), tabular.TableOrders, tabular.Filter{OrderID: id})
	if err != nil {
		s.writeError(w, "query order", err)
		return
	}
	if len(recs) == 0 {
		http.Error(w, "no order with this id", http.StatusNotFound)
		return
	}

	order, err := manager.OrderFromRecord(recs[0])
	if err != nil {
		s.writeError(w, "decode order", err)
		return
	}
	if s.cache != nil {
		s.cache.Set(recs[0])
	}

	w.Header().Set("X-Cache", "miss")
	s.writeStats(w, st)
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	filter := tabular.Filter{
		CustomerID:    r.URL.Query().Get("customer_id"),
		OrderID:       r.URL.Query().Get("order_id"),
		InvoiceNumber: r.URL.Query().Get("invoice_number"),
	}

	recs, st, err := s.service.QueryWithStats(r.Context(), tabular.TableInvoices, filter)
	if err != nil {
		s.writeError(w, "query invoices", err)
		return
	}

	invoices := make([]domain.Invoice, 0, len(recs))
	for _, rec := range recs {
		inv, err := manager.InvoiceFromRecord(rec)
		if err != nil {
			s.logger.Warn("skipping undecodable invoice row", zap.Error(err), zap.String("id", rec.String(tabular.FieldID)))
			continue
		}
		invoices = append(invoices, inv)
	}

	s.writeStats(w, st)
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var in domain.InvoiceInput
	if !decodeBody(w, r, &in) {
		return
	}

	inv, err := domain.NewInvoice(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := manager.InvoiceRecord(*inv)
	if err != nil {
		s.writeError(w, "encode invoice", err)
		return
	}

	st, err := s.service.AppendWithStats(r.Context(), tabular.TableInvoices, rec)
	if err != nil {
		s.writeError(w, "append invoice", err)
		return
	}

	s.writeStats(w, st)
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summarize(r.Context())
	if err != nil {
		s.writeError(w, "summarize", err)
		return
	}
	w.Header().Set("X-Backend", s.service.Mode().String())
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) getMode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"mode": s.service.Mode().String()})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mode":   s.service.Mode().String(),
	})
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.service.CreateTable(r.Context(), name); err != nil {
		s.writeError(w, "create table", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"table": name})
}

func (s *Server) writeStats(w http.ResponseWriter, st manager.OpStats) {
	observability.AppendServerTiming(w, "data", st.DurMs, st.Backend)
	w.Header().Set("X-Backend", st.Backend)
	observability.SetIfPos(w, "X-Data-Time", st.DurMs)
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnknownTable):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSchema):
		http.Error(w, "backend rejected the operation", http.StatusBadGateway)
	case errors.Is(err, domain.ErrBackendUnavailable):
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "service error", http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	handler := ServerTimingApp(s.metrics)(s.mux)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.mux }
