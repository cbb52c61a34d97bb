package controller

import (
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"qurban_backend/internals/features/realtime/service"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type WSController struct {
	Hub *service.Hub
}

func NewWSController(hub *service.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Upgrade: tolak request non-websocket.
func (w *WSController) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle: GET /ws
func (w *WSController) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := w.Hub.Register()
		log.Printf("[REALTIME] client connect (%d aktif)", w.Hub.Count())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			w.Hub.Unregister(client)
			_ = conn.Close()
			log.Printf("[REALTIME] client disconnect (%d aktif)", w.Hub.Count())
		}()

		for {
			select {
			case <-done:
				return
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}
