package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KolektifCapacity: jumlah slot satu hewan kolektif (1/7 sapi/unta).
const KolektifCapacity = 7

type HewanStatus string

const (
	HewanStatusTerdaftar    HewanStatus = "TERDAFTAR"
	HewanStatusDisembelih   HewanStatus = "DISEMBELIH"
	HewanStatusDidistribusi HewanStatus = "DIDISTRIBUSI"
)

type HewanQurbanModel struct {
	HewanID          uuid.UUID   `gorm:"column:hewan_id;type:uuid;primaryKey" json:"hewan_id"`
	HewanTipeID      int         `gorm:"column:hewan_tipe_id;not null;index:idx_hewan_tipe_kolektif" json:"hewan_tipe_id"`
	HewanKode        string      `gorm:"column:hewan_kode;type:varchar(120);not null;uniqueIndex:uq_hewan_kode" json:"hewan_kode"`
	HewanIsKolektif  bool        `gorm:"column:hewan_is_kolektif;not null;default:false;index:idx_hewan_tipe_kolektif" json:"hewan_is_kolektif"`
	HewanSlotTersisa *int        `gorm:"column:hewan_slot_tersisa;check:chk_hewan_slot_tersisa,hewan_slot_tersisa IS NULL OR (hewan_slot_tersisa >= 0 AND hewan_slot_tersisa <= 7)" json:"hewan_slot_tersisa"`
	HewanStatus      HewanStatus `gorm:"column:hewan_status;type:varchar(20);not null;default:'TERDAFTAR'" json:"hewan_status"`
	HewanKeterangan  *string     `gorm:"column:hewan_keterangan;type:text" json:"hewan_keterangan,omitempty"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (HewanQurbanModel) TableName() string {
	return "hewan_qurban"
}

func (h *HewanQurbanModel) BeforeCreate(tx *gorm.DB) error {
	if h.HewanID == uuid.Nil {
		h.HewanID = uuid.New()
	}
	if h.HewanStatus == "" {
		h.HewanStatus = HewanStatusTerdaftar
	}
	return nil
}
