package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/internal/repository/memory"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *captureWriter) Close() error { return nil }

func testEvent() *usecase.ChangeEvent {
	items := []domain.LineItem{
		*domain.NewLineItem(domain.NewNumericID(1), "Headphones", decimal.RequireFromString("10"), "", 2, "black"),
		*domain.NewLineItem(domain.NewStringID("case"), "Case", decimal.RequireFromString("6"), "", 1, "default"),
	}
	totals := domain.DefaultPricing().Compute(items)

	return usecase.NewChangeEvent("sess-1", usecase.OpAdd, items, totals, time.UnixMilli(1_700_000_000_000))
}

func TestCartChangedPublishesKeyedEvent(t *testing.T) {
	w := &captureWriter{}
	p := &CartEventPublisher{writer: w, logger: logger.NewNopLogger(), cfg: &cfg.KafkaCfg{Topic: "cart-events"}}

	p.CartChanged(context.Background(), testEvent())

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "sess-1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "CartChanged", got["event_type"])
	assert.Equal(t, "add", got["operation"])
	assert.Len(t, got["items"], 2)

	totals := got["totals"].(map[string]any)
	assert.Equal(t, float64(3), totals["item_count"])
	assert.Equal(t, 28.08, totals["total"])
	assert.Equal(t, 0.0, totals["shipping"])
}

func TestCartChangedSwallowsWriterErrors(t *testing.T) {
	w := &captureWriter{err: errors.New("broker not available")}
	p := &CartEventPublisher{writer: w, logger: logger.NewNopLogger(), cfg: &cfg.KafkaCfg{}}

	assert.NotPanics(t, func() { p.CartChanged(context.Background(), testEvent()) })
	assert.Len(t, w.msgs, 1)
}

func TestCartChangedSkipsInitialize(t *testing.T) {
	w := &captureWriter{}
	p := &CartEventPublisher{writer: w, logger: logger.NewNopLogger(), cfg: &cfg.KafkaCfg{Topic: "cart-events"}}

	ev := testEvent()
	ev.Operation = usecase.OpInitialize
	p.CartChanged(context.Background(), ev)

	assert.Empty(t, w.msgs)
}

func TestOpeningCartPublishesNothing(t *testing.T) {
	w := &captureWriter{}
	p := &CartEventPublisher{writer: w, logger: logger.NewNopLogger(), cfg: &cfg.KafkaCfg{Topic: "cart-events"}}

	slot := memory.NewSlotRepo()
	settings := usecase.CartSettings{Key: "cart", DefaultColor: "black", Pricing: domain.DefaultPricing()}
	service := usecase.NewCartService(slot, settings, logger.NewNopLogger(), p)

	cart := service.Open(context.Background(), usecase.NewOpenCartReq("sess-1", nil))
	assert.Empty(t, w.msgs)

	req := usecase.NewAddItemReq(domain.NewNumericID(1), "Headphones", decimal.RequireFromString("10"), "", 1, "")
	require.NoError(t, cart.Add(context.Background(), req))
	require.Len(t, w.msgs, 1)

	service.Open(context.Background(), usecase.NewOpenCartReq("sess-1", nil))
	assert.Len(t, w.msgs, 1)
}
