package model

import (
	"time"
)

type JenisHewan string

const (
	JenisUnta    JenisHewan = "UNTA"
	JenisSapi    JenisHewan = "SAPI"
	JenisDomba   JenisHewan = "DOMBA"
	JenisKambing JenisHewan = "KAMBING"
)

func (j JenisHewan) Valid() bool {
	switch j {
	case JenisUnta, JenisSapi, JenisDomba, JenisKambing:
		return true
	}
	return false
}

// IsSingleQurban: satu ekor untuk satu pengqurban (tidak bisa kolektif).
func (j JenisHewan) IsSingleQurban() bool {
	return j == JenisDomba || j == JenisKambing
}

// TipeHewanModel: katalog hewan yang bisa dipesan (read-only di alur order).
type TipeHewanModel struct {
	TipeHewanID            int        `gorm:"column:tipe_hewan_id;primaryKey;autoIncrement" json:"tipe_hewan_id"`
	TipeHewanNama          string     `gorm:"column:tipe_hewan_nama;type:varchar(100);not null;uniqueIndex:uq_tipe_hewan_nama" json:"tipe_hewan_nama"`
	TipeHewanJenis         JenisHewan `gorm:"column:tipe_hewan_jenis;type:varchar(20);not null" json:"tipe_hewan_jenis"`
	TipeHewanHarga         int64      `gorm:"column:tipe_hewan_harga;not null" json:"tipe_hewan_harga"`
	TipeHewanHargaKolektif *int64     `gorm:"column:tipe_hewan_harga_kolektif" json:"tipe_hewan_harga_kolektif,omitempty"`
	TipeHewanTarget        int        `gorm:"column:tipe_hewan_target;not null;default:0" json:"tipe_hewan_target"`
	TipeHewanKeterangan    *string    `gorm:"column:tipe_hewan_keterangan;type:text" json:"tipe_hewan_keterangan,omitempty"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TipeHewanModel) TableName() string {
	return "tipe_hewan"
}

// UnitPrice: harga kolektif (fallback harga individu) kalau kolektif.
func (t TipeHewanModel) UnitPrice(isKolektif bool) int64 {
	if isKolektif && t.TipeHewanHargaKolektif != nil && *t.TipeHewanHargaKolektif > 0 {
		return *t.TipeHewanHargaKolektif
	}
	return t.TipeHewanHarga
}

// IsLargeQuota: domba/kambing atau target > 100 memakai kode berhuruf (A-01, A-02, ...).
func (t TipeHewanModel) IsLargeQuota() bool {
	return t.TipeHewanJenis.IsSingleQurban() || t.TipeHewanTarget > 100
}
