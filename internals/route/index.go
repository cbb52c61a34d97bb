package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/configs"
	mudhohiService "qurban_backend/internals/features/qurban/mudhohi/service"
	realtimeRoute "qurban_backend/internals/features/realtime/route"
	realtime "qurban_backend/internals/features/realtime/service"
	userModel "qurban_backend/internals/features/users/user/model"
	authMiddleware "qurban_backend/internals/middlewares/auth"
	routeDetails "qurban_backend/internals/route/details"
)

var startTime time.Time

// Deps: service yang dirakit di main dan dibagi ke semua route.
type Deps struct {
	DB        *gorm.DB
	Hub       *realtime.Hub
	Publisher realtime.Publisher
	Order     *mudhohiService.OrderService
	Payment   *mudhohiService.PaymentService
	QRDir     string
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	BaseRoutes(app, d.DB)

	if d.QRDir != "" {
		app.Static("/qr-codes", d.QRDir, fiber.Static{MaxAge: 86400})
	}

	log.Println("[INFO] Setting up realtime /ws...")
	realtimeRoute.RealtimeRoutes(app, d.Hub)

	// PUBLIC → JWT opsional (guest checkout)
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public",
		authMiddleware.AuthMiddleware(d.DB, authMiddleware.Options{Secret: configs.JWTSecret, Optional: true}),
	)

	log.Println("[INFO] Setting up PRIVATE group...")
	user := app.Group("/api/u",
		authMiddleware.AuthMiddleware(d.DB, authMiddleware.Options{Secret: configs.JWTSecret}),
	)

	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(d.DB, authMiddleware.Options{Secret: configs.JWTSecret}),
		authMiddleware.OnlyRoles("Hanya panitia yang boleh mengakses", userModel.RoleAdmin),
	)

	log.Println("[INFO] Mounting Auth routes...")
	routeDetails.AuthRoutes(app, user, d.DB)

	log.Println("[INFO] Mounting Qurban routes...")
	routeDetails.QurbanPublicRoutes(public, d.DB, d.Publisher, d.Order, d.Payment)
	routeDetails.QurbanUserRoutes(user, d.DB, d.Order)
	routeDetails.QurbanAdminRoutes(admin, d.DB, d.Publisher, d.Order, d.Payment)
}
