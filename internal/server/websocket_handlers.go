package server

import (
	"log/slog"

	"askme/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects plain HTTP requests to websocket routes.
func (s *Server) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// VotesWebSocketHandler streams vote_updated events to the connection.
// Anonymous viewers are accepted; inbound frames are ignored.
// @Summary Live score feed
// @Tags votes
// @Router /ws/votes [get]
func (s *Server) VotesWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket register rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
