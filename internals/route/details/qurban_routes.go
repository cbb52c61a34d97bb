package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	distribusiRoute "qurban_backend/internals/features/qurban/distribusi/route"
	hewanRoute "qurban_backend/internals/features/qurban/hewan/route"
	kuponRoute "qurban_backend/internals/features/qurban/kupon/route"
	mudhohiRoute "qurban_backend/internals/features/qurban/mudhohi/route"
	mudhohiService "qurban_backend/internals/features/qurban/mudhohi/service"
	realtime "qurban_backend/internals/features/realtime/service"
)

func QurbanPublicRoutes(public fiber.Router, db *gorm.DB, pub realtime.Publisher, order *mudhohiService.OrderService, payment *mudhohiService.PaymentService) {
	hewanRoute.HewanPublicRoutes(public, db, pub)
	distribusiRoute.DistribusiPublicRoutes(public, db, pub)
	mudhohiRoute.MudhohiPublicRoutes(public, db, order, payment)
}

func QurbanUserRoutes(user fiber.Router, db *gorm.DB, order *mudhohiService.OrderService) {
	mudhohiRoute.MudhohiUserRoutes(user, db, order)
}

func QurbanAdminRoutes(admin fiber.Router, db *gorm.DB, pub realtime.Publisher, order *mudhohiService.OrderService, payment *mudhohiService.PaymentService) {
	hewanRoute.HewanAdminRoutes(admin, db, pub)
	kuponRoute.KuponAdminRoutes(admin, db, pub)
	distribusiRoute.DistribusiAdminRoutes(admin, db, pub)
	mudhohiRoute.MudhohiAdminRoutes(admin, db, order, payment)
}
