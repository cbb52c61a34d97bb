package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/kupon/dto"
	"qurban_backend/internals/features/qurban/kupon/model"
	"qurban_backend/internals/features/qurban/kupon/service"
	realtime "qurban_backend/internals/features/realtime/service"
	helper "qurban_backend/internals/helpers"
)

type KuponController struct {
	DB        *gorm.DB
	Publisher realtime.Publisher
}

func NewKuponController(db *gorm.DB, pub realtime.Publisher) *KuponController {
	return &KuponController{DB: db, Publisher: pub}
}

// GET /api/a/kupon/summary
func (kc *KuponController) Summary(c *fiber.Ctx) error {
	s, err := service.GetSummary(kc.DB.WithContext(c.UserContext()))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Ringkasan kupon", s)
}

// GET /api/a/kupon?status=
func (kc *KuponController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 500)
	q := kc.DB.WithContext(c.UserContext()).Model(&model.KuponModel{})
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		q = q.Where("kupon_status = ?", s)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var items []model.KuponModel
	if err := q.Order("kupon_id ASC").Offset(p.Offset).Limit(p.Limit).Find(&items).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Daftar kupon", items, helper.BuildPagination(total, p, len(items)))
}

// POST /api/a/kupon/seed
func (kc *KuponController) Seed(c *fiber.Ctx) error {
	var req dto.SeedKuponRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	items, err := service.SeedAvailable(kc.DB.WithContext(c.UserContext()), req.Jumlah)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	kc.Publisher.Publish(realtime.EventUpdateKupon, fiber.Map{"seeded": len(items)})
	return helper.JsonCreated(c, "Stok kupon ditambahkan", fiber.Map{"jumlah": len(items)})
}
