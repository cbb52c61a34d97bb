package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "qurban_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, user fiber.Router, db *gorm.DB) {
	authRoute.AuthRoutes(app, user, db)
}
