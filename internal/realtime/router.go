package realtime

import "go.uber.org/zap"

// Router interprets client frames and produces at most one outbound
// action per frame.
type Router struct {
	registry *Registry
	logger   *zap.Logger
}

func NewRouter(registry *Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{registry: registry, logger: logger}
}

// HandleFrame routes one inbound text frame from conn. Reserved
// notification frames are dropped, broadcast frames fan out to every
// connection, and everything else echoes back to the sender.
func (rt *Router) HandleFrame(conn Conn, raw []byte) {
	env := DecodeEnvelope(raw)

	switch env.Kind {
	case KindNotification:
		// Server push only; clients may not originate this kind.
		rt.logger.Debug("dropped client frame with reserved kind")

	case KindBroadcast:
		rt.registry.Broadcast(Envelope{Kind: KindBroadcast, Payload: env.Payload})

	default:
		out := Envelope{Kind: KindEcho, Payload: env.Payload}
		if err := rt.registry.SendTo(conn, out); err != nil {
			rt.logger.Warn("echo delivery failed, evicting connection", zap.Error(err))
			rt.registry.Unregister(conn)
		}
	}
}
