package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JenisProduk string

const (
	ProdukDaging JenisProduk = "DAGING"
	ProdukKaki   JenisProduk = "KAKI"
	ProdukKepala JenisProduk = "KEPALA"
	ProdukKulit  JenisProduk = "KULIT"
	ProdukTulang JenisProduk = "TULANG"
	ProdukJeroan JenisProduk = "JEROAN"
)

type ProdukHewanModel struct {
	ProdukID              int         `gorm:"column:produk_id;primaryKey;autoIncrement" json:"produk_id"`
	ProdukNama            string      `gorm:"column:produk_nama;type:varchar(150);not null;uniqueIndex:uq_produk_nama" json:"produk_nama"`
	ProdukJenisHewan      string      `gorm:"column:produk_jenis_hewan;type:varchar(20);not null" json:"produk_jenis_hewan"`
	ProdukJenisProduk     JenisProduk `gorm:"column:produk_jenis_produk;type:varchar(20);not null" json:"produk_jenis_produk"`
	ProdukTargetPaket     int         `gorm:"column:produk_target_paket;not null;default:0" json:"produk_target_paket"`
	ProdukDiInventori     int         `gorm:"column:produk_di_inventori;not null;default:0" json:"produk_di_inventori"`
	ProdukSudahDiserahkan int         `gorm:"column:produk_sudah_diserahkan;not null;default:0" json:"produk_sudah_diserahkan"`
	CreatedAt             time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProdukHewanModel) TableName() string {
	return "produk_hewan"
}

// LogDistribusiModel: satu log per penerima, rincian jatah di ProdukDiterimaModel.
type LogDistribusiModel struct {
	LogDistribusiID         uuid.UUID             `gorm:"column:log_distribusi_id;type:uuid;primaryKey" json:"log_distribusi_id"`
	LogDistribusiPenerimaID uuid.UUID             `gorm:"column:log_distribusi_penerima_id;type:uuid;not null;index" json:"log_distribusi_penerima_id"`
	CreatedAt               time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Produk                  []ProdukDiterimaModel `gorm:"foreignKey:ProdukDiterimaLogID;references:LogDistribusiID" json:"produk,omitempty"`
}

func (LogDistribusiModel) TableName() string {
	return "log_distribusi"
}

func (l *LogDistribusiModel) BeforeCreate(tx *gorm.DB) error {
	if l.LogDistribusiID == uuid.Nil {
		l.LogDistribusiID = uuid.New()
	}
	return nil
}

type ProdukDiterimaModel struct {
	ProdukDiterimaID          uuid.UUID `gorm:"column:produk_diterima_id;type:uuid;primaryKey" json:"produk_diterima_id"`
	ProdukDiterimaLogID       uuid.UUID `gorm:"column:produk_diterima_log_id;type:uuid;not null;index" json:"produk_diterima_log_id"`
	ProdukDiterimaProdukID    int       `gorm:"column:produk_diterima_produk_id;not null;index" json:"produk_diterima_produk_id"`
	ProdukDiterimaJumlahPaket int       `gorm:"column:produk_diterima_jumlah_paket;not null" json:"produk_diterima_jumlah_paket"`
}

func (ProdukDiterimaModel) TableName() string {
	return "produk_diterima"
}

func (p *ProdukDiterimaModel) BeforeCreate(tx *gorm.DB) error {
	if p.ProdukDiterimaID == uuid.Nil {
		p.ProdukDiterimaID = uuid.New()
	}
	return nil
}
