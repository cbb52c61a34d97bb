package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/configs"
	"qurban_backend/internals/features/users/auth/service"
	authRepo "qurban_backend/internals/features/users/auth/repository"
	userModel "qurban_backend/internals/features/users/user/model"
	helper "qurban_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Verifier service.GoogleTokenVerifier
}

func NewAuthController(db *gorm.DB, verifier service.GoogleTokenVerifier) *AuthController {
	return &AuthController{DB: db, Verifier: verifier}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var in loginRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}

	user, err := service.Authenticate(ac.DB.WithContext(c.UserContext()), in.Email, in.Password)
	switch {
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case err != nil:
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return ac.respondWithToken(c, user, false)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var in googleLoginRequest
	if ok, err := helper.BindAndValidate(c, &in); !ok {
		return err
	}
	res, err := service.LoginWithGoogle(ac.DB.WithContext(c.UserContext()), ac.Verifier, in.IDToken)
	switch {
	case errors.Is(err, service.ErrInvalidGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		return helper.FromFiberError(c, err)
	}
	return ac.respondWithToken(c, res.User, res.IsNewUser)
}

// GET /api/u/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := authRepo.FindUserByID(ac.DB.WithContext(c.UserContext()), userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}
	if user == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "ok", user)
}

func (ac *AuthController) respondWithToken(c *fiber.Ctx, user *userModel.UserModel, isNewUser bool) error {
	token, exp, err := service.IssueAccessToken(*user, configs.JWTSecret, time.Now())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  exp,
	})
	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token": token,
		"expires_at":   exp,
		"is_new_user":  isNewUser,
		"user":         user,
	})
}
