package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"qurban_backend/internals/features/qurban/hewan/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetItemsPerGroup: baca setting itemsPerGroup, fallback ke default.
func GetItemsPerGroup(db *gorm.DB) int {
	var s model.SettingModel
	err := db.First(&s, "setting_key = ?", model.SettingItemsPerGroup).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[SETTING] gagal baca %s: %v", model.SettingItemsPerGroup, err)
		}
		return model.DefaultItemsPerGroup
	}
	n, err := strconv.Atoi(s.SettingValue)
	if err != nil || n <= 0 {
		return model.DefaultItemsPerGroup
	}
	return n
}

type RenameResult struct {
	ItemsPerGroup int `json:"items_per_group"`
	Renamed       int `json:"renamed"`
}

// SetItemsPerGroupAndRename: simpan itemsPerGroup lalu rename semua hewan
// per tipe ke skema berhuruf sesuai urutan dibuat.
func SetItemsPerGroupAndRename(db *gorm.DB, itemsPerGroup int) (*RenameResult, error) {
	if itemsPerGroup <= 0 {
		return nil, fmt.Errorf("itemsPerGroup harus > 0")
	}
	res := &RenameResult{ItemsPerGroup: itemsPerGroup}

	err := db.Transaction(func(tx *gorm.DB) error {
		setting := model.SettingModel{
			SettingKey:   model.SettingItemsPerGroup,
			SettingValue: strconv.Itoa(itemsPerGroup),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			return err
		}

		var tipes []model.TipeHewanModel
		if err := tx.Order("tipe_hewan_id ASC").Find(&tipes).Error; err != nil {
			return err
		}
		for _, t := range tipes {
			var hewans []model.HewanQurbanModel
			if err := tx.Where("hewan_tipe_id = ?", t.TipeHewanID).
				Order("created_at ASC, hewan_kode ASC").
				Find(&hewans).Error; err != nil {
				return err
			}
			if len(hewans) == 0 {
				continue
			}
			// dua fase supaya tidak bentrok dengan unique hewan_kode
			for _, h := range hewans {
				if err := tx.Model(&model.HewanQurbanModel{}).
					Where("hewan_id = ?", h.HewanID).
					Update("hewan_kode", "tmp_"+h.HewanID.String()).Error; err != nil {
					return err
				}
			}
			for i, h := range hewans {
				kode := GroupedKode(t.TipeHewanNama, i, itemsPerGroup)
				if err := tx.Model(&model.HewanQurbanModel{}).
					Where("hewan_id = ?", h.HewanID).
					Update("hewan_kode", kode).Error; err != nil {
					return err
				}
				res.Renamed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[SETTING] itemsPerGroup=%d, %d hewan di-rename", itemsPerGroup, res.Renamed)
	return res, nil
}
