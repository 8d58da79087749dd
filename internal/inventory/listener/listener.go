package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventOrderReturned = "OrderReturned"

	orderActor = "order-service"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("starting inventory order listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping inventory order listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariationID string `json:"variation_id"`
	Quantity    int    `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal order event", zap.Error(err))
		return
	}

	var (
		kind model.ChangeType
		sign int
	)
	switch event.EventType {
	case EventOrderCreated:
		kind, sign = model.ChangeSale, -1
	case EventOrderReturned:
		kind, sign = model.ChangeReturn, 1
	default:
		return
	}

	l.logger.Info("processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.Payload.ID),
	)

	input := &dto.StockEventInput{EventID: eventKey(&event)}
	for _, item := range event.Payload.Items {
		if item.VariationID == "" || item.Quantity <= 0 {
			l.logger.Warn("skipping order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("variation_id", item.VariationID),
				zap.Int("quantity", item.Quantity),
			)
			continue
		}

		input.Items = append(input.Items, dto.AdjustStockInput{
			VariationID: item.VariationID,
			Delta:       sign * item.Quantity,
			StockChange: dto.StockChange{
				ChangeType: string(kind),
				Actor:      orderActor,
				Notes:      fmt.Sprintf("order %s", event.Payload.ID),
			},
		})
	}
	if len(input.Items) == 0 {
		return
	}

	applied, err := l.uc.ApplyStockEvent(ctx, input)
	if err != nil {
		l.logger.Error("failed to apply order event to stock",
			zap.String("event_id", input.EventID),
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
		return
	}
	if !applied {
		l.logger.Info("duplicate order event ignored", zap.String("event_id", input.EventID))
	}
}

// eventKey identifies a delivery for deduplication. Producers that omit the
// event id are keyed by event type and order, since each order is created and
// returned at most once.
func eventKey(event *OrderEvent) string {
	if event.EventID != "" {
		return event.EventID
	}
	return event.EventType + ":" + event.Payload.ID
}
