package natsadapter

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/routesathi/routesathi/internal/core/domain"
)

// PositionPublisher implements ports.PositionPublisher over core NATS.
// Last-value semantics are enough here; frames are ephemeral.
type PositionPublisher struct {
	nc *nats.Conn
}

// NewPositionPublisher wraps an existing connection.
func NewPositionPublisher(nc *nats.Conn) *PositionPublisher {
	return &PositionPublisher{nc: nc}
}

// PublishPosition broadcasts one smoothed position frame.
func (p *PositionPublisher) PublishPosition(_ context.Context, fix *domain.GPSFix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectPositionPrefix+fix.VehicleID, data)
}

// PublishRawFix forwards an unfiltered device reading to the tracker.
func (p *PositionPublisher) PublishRawFix(_ context.Context, fix *domain.GPSFix) error {
	data, err := json.Marshal(fix)
	if err != nil {
		return err
	}
	return p.nc.Publish(SubjectRawFixPrefix+fix.VehicleID, data)
}

// SubscribeRawFixes delivers device readings to the handler. Malformed
// payloads are dropped.
func SubscribeRawFixes(ctx context.Context, nc *nats.Conn, handler func(ctx context.Context, fix *domain.GPSFix) error) (*nats.Subscription, error) {
	return nc.Subscribe(SubjectRawFixPrefix+">", func(msg *nats.Msg) {
		var fix domain.GPSFix
		if err := json.Unmarshal(msg.Data, &fix); err != nil {
			return
		}
		_ = handler(ctx, &fix)
	})
}
