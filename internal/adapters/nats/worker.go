package natsadapter

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/routesathi/routesathi/internal/geometry"
	"github.com/routesathi/routesathi/internal/pkg/metrics"
)

// GeometryWorker serves geometry.Request messages over NATS request/reply.
// It is stateless: every message carries its full input and the full output
// array is produced before the reply is sent. A queue group lets several
// worker processes share the subject.
type GeometryWorker struct {
	nc  *nats.Conn
	sub *nats.Subscription
}

// NewGeometryWorker wraps an existing connection.
func NewGeometryWorker(nc *nats.Conn) *GeometryWorker {
	return &GeometryWorker{nc: nc}
}

// Start subscribes and begins answering requests.
func (w *GeometryWorker) Start() error {
	sub, err := w.nc.QueueSubscribe(SubjectGeometryRequests, "geometry-workers", w.handle)
	if err != nil {
		return err
	}
	w.sub = sub
	return nil
}

func (w *GeometryWorker) handle(msg *nats.Msg) {
	var req geometry.Request
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		slog.Warn("malformed geometry request", "error", err)
		return
	}

	resp := geometry.Handle(&req)
	if resp == nil {
		// Unrecognized type: already logged, no response by contract.
		return
	}
	metrics.WorkerRequests.WithLabelValues(req.Type).Inc()

	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("marshal geometry response", "type", req.Type, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Warn("geometry reply failed", "type", req.Type, "error", err)
	}
}

// Stop unsubscribes.
func (w *GeometryWorker) Stop() {
	if w.sub != nil {
		_ = w.sub.Unsubscribe()
	}
}
