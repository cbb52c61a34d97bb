package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError mengubah error hasil service/transaksi menjadi response JSON.
// *fiber.Error dipakai apa adanya, error Postgres dipetakan ke kode HTTP,
// sisanya 500 dengan pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if status, msg, ok := MapPGError(err); ok {
		return JsonError(c, status, msg)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
