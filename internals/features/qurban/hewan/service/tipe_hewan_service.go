package service

import (
	"errors"
	"fmt"

	"qurban_backend/internals/features/qurban/hewan/model"

	"gorm.io/gorm"
)

var ErrTipeHewanNotFound = errors.New("Tipe hewan tidak ditemukan")

type TipeHewanWithCount struct {
	model.TipeHewanModel
	HewanCount int64 `json:"hewan_count"`
}

// LoadTipeHewan: tipe + jumlah hewan yang sudah teralokasi.
func LoadTipeHewan(tx *gorm.DB, id int) (*TipeHewanWithCount, error) {
	var tipe model.TipeHewanModel
	if err := tx.First(&tipe, "tipe_hewan_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTipeHewanNotFound
		}
		return nil, fmt.Errorf("load tipe hewan %d: %w", id, err)
	}

	var count int64
	if err := tx.Model(&model.HewanQurbanModel{}).
		Where("hewan_tipe_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count hewan tipe %d: %w", id, err)
	}
	return &TipeHewanWithCount{TipeHewanModel: tipe, HewanCount: count}, nil
}

// ListTipeHewan: semua tipe + jumlah hewan, urut nama.
func ListTipeHewan(db *gorm.DB) ([]TipeHewanWithCount, error) {
	var tipes []model.TipeHewanModel
	if err := db.Order("tipe_hewan_jenis ASC, tipe_hewan_nama ASC").Find(&tipes).Error; err != nil {
		return nil, err
	}

	type row struct {
		TipeID int
		Total  int64
	}
	var rows []row
	if err := db.Model(&model.HewanQurbanModel{}).
		Select("hewan_tipe_id AS tipe_id, COUNT(*) AS total").
		Group("hewan_tipe_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.TipeID] = r.Total
	}

	out := make([]TipeHewanWithCount, 0, len(tipes))
	for _, t := range tipes {
		out = append(out, TipeHewanWithCount{TipeHewanModel: t, HewanCount: counts[t.TipeHewanID]})
	}
	return out, nil
}

func FindTipeHewanByNama(db *gorm.DB, nama string) (*model.TipeHewanModel, error) {
	var tipe model.TipeHewanModel
	err := db.Where("LOWER(tipe_hewan_nama) = LOWER(?)", nama).First(&tipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("LOWER(tipe_hewan_nama) LIKE LOWER(?)", "%"+nama+"%").
			Order("tipe_hewan_id ASC").First(&tipe).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTipeHewanNotFound
		}
		return nil, err
	}
	return &tipe, nil
}
