package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"github.com/trynbuy/storefront/internal/config"
	"github.com/trynbuy/storefront/internal/models"
	"github.com/trynbuy/storefront/pkg/util"
)

// Publisher emits confirmed orders for downstream consumers
// (fulfilment, analytics). Disabled config yields a no-op.
type Publisher interface {
	OrderConfirmed(ctx context.Context, order models.Order) error
	Close() error
}

type orderEvent struct {
	Event         string    `json:"event"`
	OrderID       string    `json:"order_id"`
	Subtotal      string    `json:"subtotal"`
	Tax           string    `json:"tax"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"item_count"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
}

type publisher struct {
	writer  *kafka.Writer
	metrics *prometheus.HistogramVec
}

func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	metrics, err := util.GetHistogramVec("kafka_messages_published", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &publisher{
		writer:  writer,
		metrics: metrics,
	}, nil
}

func (p *publisher) OrderConfirmed(ctx context.Context, order models.Order) error {
	itemCount := 0
	for _, l := range order.Lines {
		itemCount += l.Quantity
	}

	payload, err := json.Marshal(orderEvent{
		Event:         "order.confirmed",
		OrderID:       order.ID.String(),
		Subtotal:      order.Subtotal.String(),
		Tax:           order.Tax.String(),
		Total:         order.Total.String(),
		ItemCount:     itemCount,
		PaymentMethod: string(order.PaymentMethod),
		PlacedAt:      order.PlacedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: payload,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.WithLabelValues(status, p.writer.Topic).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}

	log.Infow(ctx, "published confirmed order", "order_id", order.ID, "topic", p.writer.Topic)
	return nil
}

func (p *publisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (*noopPublisher) OrderConfirmed(context.Context, models.Order) error { return nil }
func (*noopPublisher) Close() error                                       { return nil }
