package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/distribusi/controller"
	realtime "qurban_backend/internals/features/realtime/service"
)

func DistribusiPublicRoutes(public fiber.Router, db *gorm.DB, pub realtime.Publisher) {
	ctrl := controller.NewDistribusiController(db, pub)
	public.Get("/produk", ctrl.ListProduk)
}

func DistribusiAdminRoutes(admin fiber.Router, db *gorm.DB, pub realtime.Publisher) {
	ctrl := controller.NewDistribusiController(db, pub)
	admin.Get("/distribusi", ctrl.ListDistribusi)
	admin.Post("/produk", ctrl.CreateProduk)
}
