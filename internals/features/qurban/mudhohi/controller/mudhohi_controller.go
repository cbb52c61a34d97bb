package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	distribusiSvc "qurban_backend/internals/features/qurban/distribusi/service"
	hewanSvc "qurban_backend/internals/features/qurban/hewan/service"
	"qurban_backend/internals/features/qurban/mudhohi/dto"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	authSvc "qurban_backend/internals/features/users/auth/service"
	userModel "qurban_backend/internals/features/users/user/model"
	helper "qurban_backend/internals/helpers"
)

type MudhohiController struct {
	DB    *gorm.DB
	Order *service.OrderService
}

func NewMudhohiController(db *gorm.DB, order *service.OrderService) *MudhohiController {
	return &MudhohiController{DB: db, Order: order}
}

// statusFor: error service → kode HTTP.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, hewanSvc.ErrTipeHewanNotFound),
		errors.Is(err, service.ErrMudhohiNotFound),
		errors.Is(err, service.ErrNoConfirmation):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidCaraBayar),
		errors.Is(err, service.ErrKolektifNotAllowed),
		errors.Is(err, service.ErrNegativeDibayarkan),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrEmptyPaymentPatch),
		errors.Is(err, hewanSvc.ErrInvalidQuantity),
		errors.Is(err, distribusiSvc.ErrInvalidSelectedProduk):
		return fiber.StatusBadRequest, true
	case errors.Is(err, authSvc.ErrInvalidGoogleToken):
		return fiber.StatusUnauthorized, true
	case errors.Is(err, service.ErrNotOrderOwner):
		return fiber.StatusForbidden, true
	case errors.Is(err, service.ErrResendRateLimited):
		return fiber.StatusTooManyRequests, true
	case errors.Is(err, hewanSvc.ErrSlotContention):
		return fiber.StatusConflict, true
	}
	return 0, false
}

func respondErr(c *fiber.Ctx, err error) error {
	if code, ok := statusFor(err); ok {
		return helper.JsonError(c, code, err.Error())
	}
	return helper.FromFiberError(c, err)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID mudhohi tidak valid")
	}
	return id, nil
}

// POST /api/public/mudhohi
func (mc *MudhohiController) Create(c *fiber.Ctx) error {
	var req dto.CreateMudhohiRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := mc.Order.CreateMudhohi(c.UserContext(), req.ToInput(helper.OptionalUserID(c)))
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonCreated(c, "Pesanan qurban berhasil dibuat", dto.FromOrderResult(res))
}

// GET /api/public/mudhohi/cek?kode=
func (mc *MudhohiController) Cek(c *fiber.Ctx) error {
	kode := strings.TrimSpace(c.Query("kode"))
	if kode == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "kode wajib diisi")
	}
	m, err := service.CekStatus(c.UserContext(), mc.DB, kode)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Status pesanan", m)
}

// GET /api/u/mudhohi
func (mc *MudhohiController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := service.ListMudhohi(c.UserContext(), mc.DB, service.ListFilter{
		UserID: &userID,
		Offset: p.Offset,
		Limit:  p.Limit,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonList(c, "Pesanan saya", items, helper.BuildPagination(total, p, len(items)))
}

// POST /api/u/mudhohi/:id/resend-confirmation
func (mc *MudhohiController) ResendConfirmation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var requester *uuid.UUID
	if role, _ := c.Locals("userRole").(string); role != userModel.RoleAdmin {
		uid, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		requester = &uid
	}
	if err := mc.Order.ResendConfirmation(c.UserContext(), id, requester); err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Email konfirmasi dikirim ulang", nil)
}

// GET /api/a/mudhohi?status=&q=&tahun=
func (mc *MudhohiController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 200)
	f := service.ListFilter{
		Query:  c.Query("q"),
		Offset: p.Offset,
		Limit:  p.Limit,
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		st := model.PaymentStatus(s)
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak valid")
		}
		f.Status = &st
	}
	if s := strings.TrimSpace(c.Query("tahun")); s != "" {
		t, err := strconv.Atoi(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "tahun tidak valid")
		}
		f.Tahun = t
	}

	items, total, err := service.ListMudhohi(c.UserContext(), mc.DB, f)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonList(c, "Daftar mudhohi", items, helper.BuildPagination(total, p, len(items)))
}

// GET /api/a/mudhohi/stats?tahun=
func (mc *MudhohiController) Stats(c *fiber.Ctx) error {
	tahun, _ := strconv.Atoi(strings.TrimSpace(c.Query("tahun")))
	st, err := service.GetStats(c.UserContext(), mc.DB, tahun)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Statistik mudhohi", st)
}

// GET /api/a/mudhohi/:id
func (mc *MudhohiController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := service.GetMudhohi(c.UserContext(), mc.DB, id)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Detail mudhohi", m)
}

// GET /api/a/hewan/search?kode=
func (mc *MudhohiController) SearchByHewan(c *fiber.Ctx) error {
	items, err := service.SearchByHewanKode(c.UserContext(), mc.DB, c.Query("kode"))
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Pencarian hewan", items)
}

// POST /api/a/mudhohi
func (mc *MudhohiController) CreateByAdmin(c *fiber.Ctx) error {
	var req dto.AdminCreateMudhohiRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := mc.Order.CreateMudhohi(c.UserContext(), req.ToInput())
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonCreated(c, "Pesanan qurban berhasil dibuat", dto.FromOrderResult(res))
}

// POST /api/a/mudhohi/:id/kupon
func (mc *MudhohiController) DistributeKupon(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	kupons, err := mc.Order.DistributeKupon(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonUpdated(c, "Kupon diserahkan", kupons)
}

// POST /api/a/mudhohi/import
func (mc *MudhohiController) Import(c *fiber.Ctx) error {
	var req dto.ImportSheetRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := mc.Order.ImportSheet(c.UserContext(), req.Headers, req.Rows)
	if err != nil {
		return respondErr(c, err)
	}
	return helper.JsonOK(c, "Import selesai", res)
}
