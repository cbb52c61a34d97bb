package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/distribusi/dto"
	"qurban_backend/internals/features/qurban/distribusi/service"
	realtime "qurban_backend/internals/features/realtime/service"
	helper "qurban_backend/internals/helpers"
)

type DistribusiController struct {
	DB        *gorm.DB
	Publisher realtime.Publisher
}

func NewDistribusiController(db *gorm.DB, pub realtime.Publisher) *DistribusiController {
	return &DistribusiController{DB: db, Publisher: pub}
}

// GET /api/a/distribusi
func (dc *DistribusiController) ListDistribusi(c *fiber.Ctx) error {
	items, err := service.ListDistribusi(dc.DB.WithContext(c.UserContext()))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar distribusi", items)
}

// GET /api/public/produk?jenis_hewan=SAPI
func (dc *DistribusiController) ListProduk(c *fiber.Ctx) error {
	jenis := strings.ToUpper(strings.TrimSpace(c.Query("jenis_hewan")))
	items, err := service.ListProduk(dc.DB.WithContext(c.UserContext()), jenis)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar produk", items)
}

// POST /api/a/produk
func (dc *DistribusiController) CreateProduk(c *fiber.Ctx) error {
	var req dto.CreateProdukRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	if err := dc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	dc.Publisher.Publish(realtime.EventUpdateProduct, m)
	return helper.JsonCreated(c, "Produk berhasil dibuat", m)
}
