package handler

import (
	"fmt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/replayhq/replay/internal/realtime"
	"go.uber.org/zap"
)

// RegisterRealtimeRoutes mounts the duplex endpoint. A connection joins
// the registry after the upgrade completes and leaves it exactly once,
// whether the client closes cleanly or the read loop errors out.
func RegisterRealtimeRoutes(
	app fiber.Router,
	registry *realtime.Registry,
	router *realtime.Router,
	logger *zap.Logger,
) error {
	if registry == nil || router == nil {
		return fmt.Errorf("realtime registry and router are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/echo", websocket.New(func(conn *websocket.Conn) {
		registry.Register(conn)
		defer registry.Unregister(conn)

		for {
			messageType, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("websocket read failed", zap.Error(err))
				}
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			router.HandleFrame(conn, raw)
		}
	}))

	return nil
}
