// Package messaging consumes checkout-completed events from RabbitMQ and
// materializes them as confirmed orders.
//
// The feed has no caller to report errors to: every failure while handling a
// delivery is logged and the message is dropped. Deliveries are auto-acked,
// so there is no retry, no nack, and no dead-letter redelivery.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/guitarshop/internal/order/domain"
)

const (
	ExchangeName = "guitarshop.orders"
	ExchangeType = "topic"
	QueueName    = "checkout.events"
	RoutingKey   = "order.created"

	eventOrderCreated = "ORDER_CREATED"

	// fallbackEmail is substituted when the event carries no email.
	fallbackEmail = "unknown@guitarshop.com"
)

// OrderProcessor is the slice of the order workflow the listener needs.
type OrderProcessor interface {
	ProcessCheckoutEvent(ctx context.Context, candidate domain.Order) (*domain.Order, error)
}

// Listener consumes checkout events one delivery at a time.
type Listener struct {
	orders OrderProcessor
	tracer trace.Tracer
}

func NewListener(orders OrderProcessor) *Listener {
	return &Listener{
		orders: orders,
		tracer: otel.Tracer("guitarshop/checkout-listener"),
	}
}

// Connect dials RabbitMQ with startup retries and declares the checkout
// topology: a durable topic exchange with a durable queue bound to the
// order-created routing key.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	// Simple retry loop for container startup ordering.
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		slog.Warn("failed to connect to RabbitMQ, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("messaging: connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("messaging: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, nil, fmt.Errorf("messaging: declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return nil, nil, fmt.Errorf("messaging: declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return nil, nil, fmt.Errorf("messaging: bind queue: %w", err)
	}

	return conn, ch, nil
}

// Start begins consuming in a background goroutine until ctx is cancelled or
// the channel closes. Deliveries are auto-acked: a message is considered
// consumed no matter what happens while handling it.
func (l *Listener) Start(ctx context.Context, ch *amqp.Channel) error {
	msgs, err := ch.Consume(
		QueueName,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("messaging: start consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					slog.InfoContext(ctx, "checkout event channel closed")
					return
				}
				l.handle(ctx, d.Body)
			}
		}
	}()

	slog.InfoContext(ctx, "checkout event listener started", "queue", QueueName)
	return nil
}

// handle processes a single delivery. The message is already acked by the
// time this runs, so every error path ends here: log and drop.
func (l *Listener) handle(ctx context.Context, body []byte) {
	ctx, span := l.tracer.Start(ctx, "checkout.event.handle")
	defer span.End()

	doc, err := decodeEvent(body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode checkout event, dropping", "error", err)
		return
	}

	kind, _ := doc["event"].(string)
	if kind != eventOrderCreated {
		slog.WarnContext(ctx, "unknown event type, dropping", "event", kind)
		return
	}

	// customerId is not validated here: a missing value flows through as an
	// empty field, matching the relaxed validation of the event path.
	candidate := domain.Order{
		CustomerID:  stringField(doc, "customerId"),
		Email:       stringField(doc, "email"),
		CheckoutRef: stringField(doc, "orderId"),
	}
	if candidate.Email == "" {
		candidate.Email = fallbackEmail
	}

	if raw, ok := doc["total"]; ok && raw != nil {
		total, err := parseTotal(raw)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse event total, dropping", "error", err)
			return
		}
		candidate.Total = total
	}

	order, err := l.orders.ProcessCheckoutEvent(ctx, candidate)
	if err != nil {
		slog.ErrorContext(ctx, "failed to process checkout event, dropping",
			"customer_id", candidate.CustomerID, "error", err)
		return
	}

	slog.InfoContext(ctx, "checkout event materialized",
		"order_id", order.ID, "customer_id", order.CustomerID, "status", order.Status)
}

// decodeEvent parses the payload as a generic document. UseNumber keeps
// numeric totals as their literal text so no precision is lost before the
// decimal conversion.
func decodeEvent(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseTotal accepts the total as number-as-string or number.
func parseTotal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case string:
		return decimal.NewFromString(t)
	case json.Number:
		return decimal.NewFromString(t.String())
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported total type %T", v)
	}
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
