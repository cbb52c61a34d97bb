package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/hewan/model"
	helper "qurban_backend/internals/helpers"
)

type HewanController struct {
	DB *gorm.DB
}

func NewHewanController(db *gorm.DB) *HewanController {
	return &HewanController{DB: db}
}

// GET /api/a/hewan?tipe_id=&kolektif=&q=
func (hc *HewanController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)
	q := hc.DB.WithContext(c.UserContext()).Model(&model.HewanQurbanModel{})

	if s := strings.TrimSpace(c.Query("tipe_id")); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "tipe_id tidak valid")
		}
		q = q.Where("hewan_tipe_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("kolektif")); s != "" {
		q = q.Where("hewan_is_kolektif = ?", s == "true" || s == "1")
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(hewan_kode) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var items []model.HewanQurbanModel
	if err := q.Order("hewan_tipe_id ASC, created_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&items).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "Daftar hewan", items, helper.BuildPagination(total, p, len(items)))
}
