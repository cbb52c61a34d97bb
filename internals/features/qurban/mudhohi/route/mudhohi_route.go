package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/mudhohi/controller"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	"qurban_backend/internals/middlewares"
)

// MudhohiPublicRoutes: checkout (guest / login opsional), cek status, webhook Midtrans.
func MudhohiPublicRoutes(public fiber.Router, db *gorm.DB, order *service.OrderService, payment *service.PaymentService) {
	ctrl := controller.NewMudhohiController(db, order)
	pay := controller.NewPaymentController(payment)

	g := public.Group("/mudhohi")
	g.Post("/", middlewares.OrderRateLimiter(), ctrl.Create)
	g.Get("/cek", ctrl.Cek)

	public.Post("/payments/midtrans/webhook", pay.MidtransWebhook)
}

// MudhohiUserRoutes: /api/u/mudhohi
func MudhohiUserRoutes(user fiber.Router, db *gorm.DB, order *service.OrderService) {
	ctrl := controller.NewMudhohiController(db, order)

	g := user.Group("/mudhohi")
	g.Get("/", ctrl.ListMine)
	g.Post("/:id/resend-confirmation", ctrl.ResendConfirmation)
}

// MudhohiAdminRoutes: /api/a/mudhohi, /api/a/hewan/search
func MudhohiAdminRoutes(admin fiber.Router, db *gorm.DB, order *service.OrderService, payment *service.PaymentService) {
	ctrl := controller.NewMudhohiController(db, order)
	pay := controller.NewPaymentController(payment)

	g := admin.Group("/mudhohi")
	g.Get("/", ctrl.List)
	g.Get("/stats", ctrl.Stats)
	g.Post("/", ctrl.CreateByAdmin)
	g.Post("/import", ctrl.Import)
	g.Get("/:id", ctrl.Detail)
	g.Patch("/:id/payment", pay.Update)
	g.Post("/:id/kupon", ctrl.DistributeKupon)
	g.Post("/:id/resend-confirmation", ctrl.ResendConfirmation)

	admin.Get("/hewan/search", ctrl.SearchByHewan)
}
