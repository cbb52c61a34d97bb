package route

import (
	"github.com/gofiber/fiber/v2"

	"qurban_backend/internals/features/realtime/controller"
	"qurban_backend/internals/features/realtime/service"
)

func RealtimeRoutes(app *fiber.App, hub *service.Hub) {
	ctrl := controller.NewWSController(hub)
	app.Get("/ws", ctrl.Upgrade, ctrl.Handle())
}
