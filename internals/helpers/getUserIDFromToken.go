package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserIDFromToken membaca c.Locals("user_id") yang diisi middleware auth.
// 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, present, err := parseLocalUserID(c.Locals("user_id"))
	if !present {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
	return id, nil
}

// OptionalUserID: nil untuk guest checkout.
func OptionalUserID(c *fiber.Ctx) *uuid.UUID {
	id, present, err := parseLocalUserID(c.Locals("user_id"))
	if !present || err != nil {
		return nil
	}
	return &id
}

func parseLocalUserID(v any) (uuid.UUID, bool, error) {
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, false, nil
		}
		return t, true, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, false, nil
		}
		id, err := uuid.Parse(s)
		return id, true, err
	default:
		return uuid.Nil, false, nil
	}
}
