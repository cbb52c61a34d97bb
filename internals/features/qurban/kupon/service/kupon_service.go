package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qurban_backend/internals/features/qurban/kupon/model"
)

// maxClaimRounds: batas putaran fetch+klaim sebelum sisa kupon dibuat baru.
const maxClaimRounds = 3

// AllocateForOrder: selalu mengembalikan tepat 2 kupon untuk order.
// Kupon AVAILABLE tanpa tag diklaim dulu (urut id), kekurangan dibuat baru.
func AllocateForOrder(tx *gorm.DB, mudhohiID uuid.UUID, target model.KuponStatus) ([]model.KuponModel, error) {
	return allocate(tx, mudhohiID, target, model.KuponPerOrder)
}

func allocate(tx *gorm.DB, mudhohiID uuid.UUID, target model.KuponStatus, n int) ([]model.KuponModel, error) {
	out := make([]model.KuponModel, 0, n)
	if n <= 0 {
		return out, nil
	}

	for round := 0; round < maxClaimRounds && len(out) < n; round++ {
		var candidates []model.KuponModel
		if err := tx.Where("kupon_status = ? AND kupon_mudhohi_id IS NULL", model.KuponAvailable).
			Order("kupon_id ASC").
			Limit(n - len(out)).
			Find(&candidates).Error; err != nil {
			return nil, fmt.Errorf("cari kupon tersedia: %w", err)
		}
		if len(candidates) == 0 {
			break
		}
		for _, k := range candidates {
			res := tx.Model(&model.KuponModel{}).
				Where("kupon_id = ? AND kupon_status = ? AND kupon_mudhohi_id IS NULL", k.KuponID, model.KuponAvailable).
				Updates(map[string]any{
					"kupon_status":     target,
					"kupon_mudhohi_id": mudhohiID,
				})
			if res.Error != nil {
				return nil, fmt.Errorf("klaim kupon %d: %w", k.KuponID, res.Error)
			}
			if res.RowsAffected == 0 {
				// sudah diambil transaksi lain
				continue
			}
			k.KuponStatus = target
			k.KuponMudhohiID = &mudhohiID
			out = append(out, k)
		}
	}

	for len(out) < n {
		k := model.KuponModel{KuponStatus: target, KuponMudhohiID: &mudhohiID}
		if err := tx.Create(&k).Error; err != nil {
			return nil, fmt.Errorf("buat kupon baru: %w", err)
		}
		out = append(out, k)
	}
	return out, nil
}

// DistributeForOrder: tandai kupon milik order sebagai DISTRIBUTED,
// klaim/buat dulu kalau order belum punya 2 kupon.
func DistributeForOrder(tx *gorm.DB, mudhohiID uuid.UUID) ([]model.KuponModel, error) {
	owned, err := ListByMudhohi(tx, mudhohiID)
	if err != nil {
		return nil, err
	}
	if missing := model.KuponPerOrder - len(owned); missing > 0 {
		if _, err := allocate(tx, mudhohiID, model.KuponDistributed, missing); err != nil {
			return nil, err
		}
	}
	if err := tx.Model(&model.KuponModel{}).
		Where("kupon_mudhohi_id = ? AND kupon_status <> ?", mudhohiID, model.KuponDistributed).
		Update("kupon_status", model.KuponDistributed).Error; err != nil {
		return nil, fmt.Errorf("distribusi kupon: %w", err)
	}
	log.Printf("[KUPON] kupon order %s ditandai DISTRIBUTED", mudhohiID)
	return ListByMudhohi(tx, mudhohiID)
}

func ListByMudhohi(db *gorm.DB, mudhohiID uuid.UUID) ([]model.KuponModel, error) {
	var items []model.KuponModel
	if err := db.Where("kupon_mudhohi_id = ?", mudhohiID).
		Order("kupon_id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list kupon order: %w", err)
	}
	return items, nil
}

type Summary struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Distributed int64 `json:"distributed"`
	Returned    int64 `json:"returned"`
}

func GetSummary(db *gorm.DB) (*Summary, error) {
	type row struct {
		Status model.KuponStatus
		Total  int64
	}
	var rows []row
	if err := db.Model(&model.KuponModel{}).
		Select("kupon_status AS status, COUNT(*) AS total").
		Group("kupon_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	s := &Summary{}
	for _, r := range rows {
		s.Total += r.Total
		switch r.Status {
		case model.KuponAvailable:
			s.Available = r.Total
		case model.KuponDistributed:
			s.Distributed = r.Total
		case model.KuponReturned:
			s.Returned = r.Total
		}
	}
	return s, nil
}

// SeedAvailable: stok kupon kosong baru (nomor fisik dicetak panitia).
func SeedAvailable(db *gorm.DB, n int) ([]model.KuponModel, error) {
	if n <= 0 {
		return nil, fmt.Errorf("jumlah kupon harus > 0")
	}
	items := make([]model.KuponModel, n)
	for i := range items {
		items[i].KuponStatus = model.KuponAvailable
	}
	if err := db.CreateInBatches(&items, 200).Error; err != nil {
		return nil, err
	}
	return items, nil
}
