package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JenisPenerima string

const (
	PenerimaIndividu JenisPenerima = "INDIVIDU"
	PenerimaLembaga  JenisPenerima = "LEMBAGA"
)

// PenerimaModel: penerima jatah daging; untuk order, satu penerima per mudhohi.
type PenerimaModel struct {
	PenerimaID            uuid.UUID     `gorm:"column:penerima_id;type:uuid;primaryKey" json:"penerima_id"`
	PenerimaDistribusiID  uuid.UUID     `gorm:"column:penerima_distribusi_id;type:uuid;not null;index" json:"penerima_distribusi_id"`
	PenerimaMudhohiID     *uuid.UUID    `gorm:"column:penerima_mudhohi_id;type:uuid;uniqueIndex:uq_penerima_mudhohi" json:"penerima_mudhohi_id,omitempty"`
	PenerimaNama          string        `gorm:"column:penerima_nama;type:varchar(200);not null" json:"penerima_nama"`
	PenerimaDiterimaOleh  *string       `gorm:"column:penerima_diterima_oleh;type:varchar(200)" json:"penerima_diterima_oleh,omitempty"`
	PenerimaNoTelp        *string       `gorm:"column:penerima_no_telp;type:varchar(30)" json:"penerima_no_telp,omitempty"`
	PenerimaJenis         JenisPenerima `gorm:"column:penerima_jenis;type:varchar(20);not null;default:'INDIVIDU'" json:"penerima_jenis"`
	PenerimaSudahMenerima bool          `gorm:"column:penerima_sudah_menerima;not null;default:false" json:"penerima_sudah_menerima"`
	PenerimaJumlahKupon   int           `gorm:"column:penerima_jumlah_kupon;not null;default:2" json:"penerima_jumlah_kupon"`
	PenerimaWaktuTerima   *time.Time    `gorm:"column:penerima_waktu_terima" json:"penerima_waktu_terima,omitempty"`
	CreatedAt             time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PenerimaModel) TableName() string {
	return "penerima"
}

func (p *PenerimaModel) BeforeCreate(tx *gorm.DB) error {
	if p.PenerimaID == uuid.Nil {
		p.PenerimaID = uuid.New()
	}
	if p.PenerimaJenis == "" {
		p.PenerimaJenis = PenerimaIndividu
	}
	return nil
}
