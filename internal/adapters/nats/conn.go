// Package natsadapter carries the two message flows of the system: the
// stateless geometry worker protocol (request/reply) and the vehicle
// position fan-out (publish/subscribe).
package natsadapter

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects used across binaries.
const (
	SubjectGeometryRequests = "geometry.requests"
	SubjectRawFixPrefix     = "transit.gps."     // + vehicle ID
	SubjectPositionPrefix   = "transit.vehicle." // + vehicle ID
)

// Connect dials NATS with the reconnect policy shared by all binaries.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
