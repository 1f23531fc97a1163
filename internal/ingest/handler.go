// Package ingest turns incoming order messages into appends on the data
// layer. Malformed or invalid messages are dropped with an error; append
// failures are retried and trip the breaker so a struggling store is not
// hammered by the consumer.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/config"
	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/manager"
	"github.com/abakirov/lakeview/internal/observability"
	"github.com/abakirov/lakeview/internal/pkg/breaker"
	"github.com/abakirov/lakeview/internal/pkg/retry"
	"github.com/abakirov/lakeview/internal/tabular"
)

//go:generate mockgen -source=handler.go -destination=mock_service_test.go -package=ingest

var (
	ErrBadMessage  = errors.New("bad order message")
	ErrAppend      = errors.New("append failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Service interface {
	Append(ctx context.Context, table string, rec tabular.Record) error
}

type Handler struct {
	service     Service
	breaker     *breaker.Breaker
	retryPolicy config.Retry
	logger      *zap.Logger
	metrics     observability.Metrics
}

func NewHandler(service Service, brk *breaker.Breaker, retryPolicy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Handler {
	return &Handler{
		service:     service,
		breaker:     brk,
		retryPolicy: retryPolicy,
		logger:      logger,
		metrics:     metrics,
	}
}

// Handle processes a single message. The consumer commits the offset itself
// after Handle returns nil.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	t0 := time.Now()

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	var order domain.Order
	if err := json.Unmarshal(message.Value, &order); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.observe(t0, false)
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if err := order.Validate(); err != nil {
		h.logger.Error("invalid order payload",
			zap.Error(err),
			zap.String("order_id", order.OrderID),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.observe(t0, false)
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	rec, err := manager.OrderRecord(order)
	if err != nil {
		h.observe(t0, false)
		return fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	if err := retry.Do(ctx, h.retryPolicy, func() error {
		return h.service.Append(ctx, tabular.TableOrders, rec)
	}); err != nil {
		h.logger.Error("append failed after retries",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		h.observe(t0, false)
		return fmt.Errorf("%w: %v", ErrAppend, err)
	}

	h.breaker.Success()
	h.observe(t0, true)
	h.logger.Info("order ingested",
		zap.String("order_id", order.OrderID),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}

func (h *Handler) observe(t0 time.Time, ok bool) {
	h.metrics.ObserveIngest(float64(time.Since(t0).Microseconds())/1000.0, ok)
}
