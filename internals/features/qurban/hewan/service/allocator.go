package service

import (
	"errors"
	"fmt"

	"qurban_backend/internals/features/qurban/hewan/model"

	"gorm.io/gorm"
)

var (
	ErrSlotContention  = errors.New("slot hewan sedang diperebutkan, silakan coba lagi")
	ErrInvalidQuantity = errors.New("quantity harus > 0")
)

// maxCASConflicts: batas total konflik compare-and-swap per alokasi.
const maxCASConflicts = 5

type AllocationRequest struct {
	Tipe          model.TipeHewanModel
	Total         int // jumlah hewan tipe ini yang sudah ada sebelum alokasi
	Quantity      int
	IsKolektif    bool
	Keterangan    *string
	ItemsPerGroup int
}

type Allocation struct {
	Hewan   model.HewanQurbanModel
	Slot    int
	Created bool
}

// AllocateSlots: alokasikan hewan/slot untuk satu order di dalam tx.
// Jumlah Slot dari semua Allocation selalu == Quantity.
func AllocateSlots(tx *gorm.DB, req AllocationRequest) ([]Allocation, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.IsKolektif {
		return allocateKolektif(tx, req)
	}
	return allocateIndividu(tx, req)
}

func allocateIndividu(tx *gorm.DB, req AllocationRequest) ([]Allocation, error) {
	out := make([]Allocation, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		h := model.HewanQurbanModel{
			HewanTipeID:     req.Tipe.TipeHewanID,
			HewanKode:       GenerateHewanKode(req.Tipe, req.Total, i, req.ItemsPerGroup),
			HewanIsKolektif: false,
			HewanKeterangan: req.Keterangan,
		}
		if err := tx.Create(&h).Error; err != nil {
			return nil, fmt.Errorf("create hewan %s: %w", h.HewanKode, err)
		}
		out = append(out, Allocation{Hewan: h, Slot: 1, Created: true})
	}
	return out, nil
}

func allocateKolektif(tx *gorm.DB, req AllocationRequest) ([]Allocation, error) {
	var (
		out       []Allocation
		remaining = req.Quantity
		created   = 0
		conflicts = 0
	)

	for remaining > 0 {
		var h model.HewanQurbanModel
		err := tx.Where("hewan_tipe_id = ? AND hewan_is_kolektif = ? AND hewan_slot_tersisa > 0", req.Tipe.TipeHewanID, true).
			Order("hewan_slot_tersisa DESC, created_at ASC").
			First(&h).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			take := min(remaining, model.KolektifCapacity)
			left := model.KolektifCapacity - take
			nh := model.HewanQurbanModel{
				HewanTipeID:      req.Tipe.TipeHewanID,
				HewanKode:        GenerateHewanKode(req.Tipe, req.Total, created, req.ItemsPerGroup),
				HewanIsKolektif:  true,
				HewanSlotTersisa: &left,
				HewanKeterangan:  req.Keterangan,
			}
			if err := tx.Create(&nh).Error; err != nil {
				return nil, fmt.Errorf("create hewan kolektif %s: %w", nh.HewanKode, err)
			}
			created++
			remaining -= take
			out = append(out, Allocation{Hewan: nh, Slot: take, Created: true})

		case err != nil:
			return nil, fmt.Errorf("cari hewan kolektif: %w", err)

		default:
			current := *h.HewanSlotTersisa
			take := min(remaining, current)
			next := current - take

			upd := tx.Model(&model.HewanQurbanModel{}).
				Where("hewan_id = ? AND hewan_slot_tersisa = ?", h.HewanID, current).
				Update("hewan_slot_tersisa", next)
			if upd.Error != nil {
				return nil, fmt.Errorf("update slot hewan %s: %w", h.HewanKode, upd.Error)
			}
			if upd.RowsAffected == 0 {
				conflicts++
				if conflicts > maxCASConflicts {
					return nil, ErrSlotContention
				}
				continue
			}
			h.HewanSlotTersisa = &next
			remaining -= take
			out = append(out, Allocation{Hewan: h, Slot: take})
		}
	}
	return out, nil
}
