package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/hewan/controller"
	realtime "qurban_backend/internals/features/realtime/service"
)

// HewanPublicRoutes: /api/public/tipe-hewan
func HewanPublicRoutes(public fiber.Router, db *gorm.DB, pub realtime.Publisher) {
	tipe := controller.NewTipeHewanController(db, pub)

	g := public.Group("/tipe-hewan")
	g.Get("/", tipe.List)
	g.Get("/:id", tipe.Detail)
}

// HewanAdminRoutes: /api/a/tipe-hewan, /api/a/hewan, /api/a/settings
func HewanAdminRoutes(admin fiber.Router, db *gorm.DB, pub realtime.Publisher) {
	tipe := controller.NewTipeHewanController(db, pub)
	hewan := controller.NewHewanController(db)

	t := admin.Group("/tipe-hewan")
	t.Post("/", tipe.Create)
	t.Put("/:id", tipe.Update)

	admin.Get("/hewan", hewan.List)

	s := admin.Group("/settings")
	s.Get("/items-per-group", tipe.GetItemsPerGroup)
	s.Put("/items-per-group", tipe.SetItemsPerGroup)
}
