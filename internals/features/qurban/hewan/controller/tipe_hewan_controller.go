package controller

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/hewan/dto"
	"qurban_backend/internals/features/qurban/hewan/model"
	"qurban_backend/internals/features/qurban/hewan/service"
	realtime "qurban_backend/internals/features/realtime/service"
	helper "qurban_backend/internals/helpers"
)

type TipeHewanController struct {
	DB        *gorm.DB
	Publisher realtime.Publisher
}

func NewTipeHewanController(db *gorm.DB, pub realtime.Publisher) *TipeHewanController {
	return &TipeHewanController{DB: db, Publisher: pub}
}

// GET /api/public/tipe-hewan
func (tc *TipeHewanController) List(c *fiber.Ctx) error {
	items, err := service.ListTipeHewan(tc.DB.WithContext(c.UserContext()))
	if err != nil {
		log.Printf("[ERROR] list tipe hewan: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil tipe hewan")
	}
	return helper.JsonOK(c, "Daftar tipe hewan", items)
}

// GET /api/public/tipe-hewan/:id
func (tc *TipeHewanController) Detail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	item, err := service.LoadTipeHewan(tc.DB.WithContext(c.UserContext()), id)
	if errors.Is(err, service.ErrTipeHewanNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Detail tipe hewan", item)
}

// POST /api/a/tipe-hewan
func (tc *TipeHewanController) Create(c *fiber.Ctx) error {
	var req dto.CreateTipeHewanRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m := req.ToModel()
	if err := tc.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	tc.Publisher.Publish(realtime.EventUpdateHewan, fiber.Map{"tipe_hewan_id": m.TipeHewanID})
	return helper.JsonCreated(c, "Tipe hewan berhasil dibuat", m)
}

// PUT /api/a/tipe-hewan/:id
func (tc *TipeHewanController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req dto.UpdateTipeHewanRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	updates := req.ToUpdates()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	db := tc.DB.WithContext(c.UserContext())
	res := db.Model(&model.TipeHewanModel{}).Where("tipe_hewan_id = ?", id).Updates(updates)
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, service.ErrTipeHewanNotFound.Error())
	}

	item, err := service.LoadTipeHewan(db, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	tc.Publisher.Publish(realtime.EventUpdateHewan, fiber.Map{"tipe_hewan_id": id})
	return helper.JsonUpdated(c, "Tipe hewan diperbarui", item)
}

// PUT /api/a/settings/items-per-group
func (tc *TipeHewanController) SetItemsPerGroup(c *fiber.Ctx) error {
	var req dto.ItemsPerGroupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := service.SetItemsPerGroupAndRename(tc.DB.WithContext(c.UserContext()), req.ItemsPerGroup)
	if err != nil {
		log.Printf("[ERROR] set items per group: %v", err)
		return helper.FromFiberError(c, err)
	}
	tc.Publisher.Publish(realtime.EventUpdateHewan, res)
	return helper.JsonUpdated(c, "Pengaturan grup disimpan", res)
}

// GET /api/a/settings/items-per-group
func (tc *TipeHewanController) GetItemsPerGroup(c *fiber.Ctx) error {
	n := service.GetItemsPerGroup(tc.DB.WithContext(c.UserContext()))
	return helper.JsonOK(c, "ok", fiber.Map{"items_per_group": n})
}
