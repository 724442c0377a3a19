package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// messageWriter — часть kafka.Writer, которой пользуется паблишер.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CartEventPublisher отправляет снимок корзины в Kafka после каждой операции.
// Ключ сообщения — идентификатор сессии, поэтому события одной корзины
// попадают в одну партицию по порядку.
type CartEventPublisher struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewCartEventPublisher(logger logger.Logger, cfg *cfg.KafkaCfg) *CartEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error (%d cart events lost): %s", len(messages), err.Error())
			}
		},
	}

	return &CartEventPublisher{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// CartChanged реализует usecase.Observer. Ошибки только логируются:
// публикация не должна влиять на операцию с корзиной.
// Чтение слота при открытии корзины событием не считается.
func (p *CartEventPublisher) CartChanged(ctx context.Context, ev *usecase.ChangeEvent) {
	if ev.Operation == usecase.OpInitialize {
		return
	}

	value, err := p.GetPayloadBytes(ev)
	if err != nil {
		p.logger.Warnf("failed to encode cart event: %v", e.Wrap(whereami.WhereAmI(), err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.SessionID),
		Value: value,
		Time:  ev.OccurredAt,
	})
	if err != nil {
		p.logger.Warnf("failed to publish cart event: %v", e.Wrap(whereami.WhereAmI(), err))
	}
}

func (p *CartEventPublisher) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

// Close дожидается отправки буферизованных событий.
func (p *CartEventPublisher) Close() error {
	return p.writer.Close()
}

func (p *CartEventPublisher) GetPayloadBytes(ev *usecase.ChangeEvent) ([]byte, error) {
	event := cartChangedEvent{
		EventID:   uuid.NewString(),
		EventType: "CartChanged",
		SessionID: ev.SessionID,
		Operation: string(ev.Operation),
		Items:     toEventItems(ev.Items),
		Totals: eventTotals{
			ItemCount: ev.Totals.ItemCount,
			Subtotal:  json.Number(domain.FormatMoney(ev.Totals.Subtotal)),
			Shipping:  json.Number(domain.FormatMoney(ev.Totals.Shipping)),
			Tax:       json.Number(domain.FormatMoney(ev.Totals.Tax)),
			Total:     json.Number(domain.FormatMoney(ev.Totals.Total)),
		},
		OccurredAt: ev.OccurredAt.UnixMilli(),
	}

	return json.Marshal(event)
}

type cartChangedEvent struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	SessionID  string      `json:"session_id"`
	Operation  string      `json:"operation"`
	Items      []eventItem `json:"items"`
	Totals     eventTotals `json:"totals"`
	OccurredAt int64       `json:"occurred_at"`
}

type eventItem struct {
	ID       domain.ItemID `json:"id"`
	Name     string        `json:"name"`
	Price    json.Number   `json:"price"`
	Quantity int           `json:"quantity"`
	Color    string        `json:"color"`
}

type eventTotals struct {
	ItemCount int         `json:"item_count"`
	Subtotal  json.Number `json:"subtotal"`
	Shipping  json.Number `json:"shipping"`
	Tax       json.Number `json:"tax"`
	Total     json.Number `json:"total"`
}

func toEventItems(items []domain.LineItem) []eventItem {
	result := make([]eventItem, 0, len(items))
	for _, item := range items {
		result = append(result, eventItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
			Color:    item.Color,
		})
	}

	return result
}
