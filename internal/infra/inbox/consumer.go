package inbox

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

type cloudEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EventHandler consumes booking events back off the broker, deduplicating
// through the inbox so redeliveries are dropped. Downstream projections
// hang off Process.
type EventHandler struct {
	Store   *Store
	Logger  *slog.Logger
	Process func(ctx context.Context, eventType string, data json.RawMessage) error
}

func (h *EventHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dropping undecodable event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	if h.Store != nil && evt.ID != "" {
		seen, err := h.Store.Seen(ctx, evt.ID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
	}
	if h.Process != nil {
		return h.Process(ctx, evt.Type, evt.Data)
	}
	if h.Logger != nil {
		h.Logger.Info("event received", "type", evt.Type, "id", evt.ID)
	}
	return nil
}
