package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/kupon/controller"
	realtime "qurban_backend/internals/features/realtime/service"
)

func KuponAdminRoutes(admin fiber.Router, db *gorm.DB, pub realtime.Publisher) {
	ctrl := controller.NewKuponController(db, pub)

	g := admin.Group("/kupon")
	g.Get("/", ctrl.List)
	g.Get("/summary", ctrl.Summary)
	g.Post("/seed", ctrl.Seed)
}
