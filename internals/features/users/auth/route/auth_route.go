package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/configs"
	controller "qurban_backend/internals/features/users/auth/controller"
	"qurban_backend/internals/features/users/auth/service"
	rateLimiter "qurban_backend/internals/middlewares"
)

// AuthRoutes: /api/auth (publik) + /api/u/me (butuh login).
func AuthRoutes(app *fiber.App, user fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db, service.NewGoogleVerifier(configs.GoogleClientID))

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)

	user.Get("/me", authController.Me)
}
