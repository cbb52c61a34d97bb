package controller

import (
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	midtransSvc "qurban_backend/internals/features/payment/midtrans/service"
	"qurban_backend/internals/features/qurban/mudhohi/dto"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	helper "qurban_backend/internals/helpers"
)

type PaymentController struct {
	Payment *service.PaymentService
}

func NewPaymentController(p *service.PaymentService) *PaymentController {
	return &PaymentController{Payment: p}
}

// PATCH /api/a/mudhohi/:id/payment
func (pc *PaymentController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdatePaymentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	p, err := pc.Payment.UpdatePayment(c.UserContext(), id, req.ToUpdate())
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonUpdated(c, "Pembayaran diperbarui", p)
}

// POST /api/public/payments/midtrans/webhook
// Selalu 200 untuk notifikasi valid supaya Midtrans tidak retry terus.
func (pc *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	var n midtransSvc.Notification
	if err := sonic.Unmarshal(raw, &n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if n.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "order_id kosong")
	}

	res, err := pc.Payment.HandleMidtransNotification(c.UserContext(), raw, n)
	if errors.Is(err, service.ErrInvalidSignature) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	}
	if err != nil {
		log.Printf("[MIDTRANS] webhook %s error: %v", n.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses notifikasi")
	}
	return helper.JsonOK(c, "OK", fiber.Map{"status": res.Status})
}
