package realtime

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrDelivery marks a failed send to one connection. The registry's policy
// is to treat a failed delivery as a disconnect.
var ErrDelivery = errors.New("delivery failed")

// Conn is the write side of one live duplex connection. *websocket.Conn
// satisfies it; tests substitute fakes.
type Conn interface {
	WriteJSON(v any) error
}

// Gauge receives the current connection count after every registry
// mutation. prometheus gauges satisfy it.
type Gauge interface {
	Set(float64)
}

// Registry is the process-wide set of live connections. One instance is
// constructed in main and handed to every handler that pushes messages.
// All methods are safe for concurrent use.
type Registry struct {
	logger *zap.Logger
	gauge  Gauge

	mu    sync.Mutex
	conns map[Conn]struct{}
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		conns:  make(map[Conn]struct{}),
	}
}

// SetGauge wires a connection-count gauge. Call before serving traffic.
func (r *Registry) SetGauge(gauge Gauge) {
	r.gauge = gauge
}

// Register adds a freshly accepted connection to the live set. The caller
// must have completed the protocol handshake first.
func (r *Registry) Register(conn Conn) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	r.conns[conn] = struct{}{}
	count := len(r.conns)
	r.mu.Unlock()

	r.setGauge(count)
	r.logger.Info("connection registered", zap.Int("connections", count))
}

// Unregister removes a connection if present. Calling it again for the
// same connection, or from concurrent error paths, is a no-op.
func (r *Registry) Unregister(conn Conn) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	_, present := r.conns[conn]
	if present {
		delete(r.conns, conn)
	}
	count := len(r.conns)
	r.mu.Unlock()

	if !present {
		return
	}

	r.setGauge(count)
	r.logger.Info("connection unregistered", zap.Int("connections", count))
}

// Count returns the number of currently registered connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// SendTo delivers one message to one connection. A write error is wrapped
// in ErrDelivery; the caller decides whether to evict the connection.
func (r *Registry) SendTo(conn Conn, msg any) error {
	if conn == nil {
		return fmt.Errorf("%w: connection is nil", ErrDelivery)
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// Broadcast delivers one message to every connection registered when the
// call begins. Deliveries are independent: a failed connection is evicted
// and the remaining sends proceed. No aggregate error is reported.
func (r *Registry) Broadcast(msg any) {
	r.mu.Lock()
	snapshot := make([]Conn, 0, len(r.conns))
	for conn := range r.conns {
		snapshot = append(snapshot, conn)
	}
	r.mu.Unlock()

	// Sends happen outside the lock so one slow client cannot stall
	// register/unregister for everyone else.
	for _, conn := range snapshot {
		if err := r.SendTo(conn, msg); err != nil {
			r.logger.Warn("broadcast delivery failed, evicting connection", zap.Error(err))
			r.Unregister(conn)
		}
	}
}

func (r *Registry) setGauge(count int) {
	if r.gauge == nil {
		return
	}
	r.gauge.Set(float64(count))
}
