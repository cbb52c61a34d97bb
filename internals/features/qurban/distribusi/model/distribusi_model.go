package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KategoriMudhohi: kategori distribusi untuk jatah pengqurban sendiri.
const KategoriMudhohi = "Mudhohi"

type DistribusiModel struct {
	DistribusiID        uuid.UUID `gorm:"column:distribusi_id;type:uuid;primaryKey" json:"distribusi_id"`
	DistribusiKategori  string    `gorm:"column:distribusi_kategori;type:varchar(100);not null;uniqueIndex:uq_distribusi_kategori" json:"distribusi_kategori"`
	DistribusiTarget    int       `gorm:"column:distribusi_target;not null;default:0" json:"distribusi_target"`
	DistribusiRealisasi int       `gorm:"column:distribusi_realisasi;not null;default:0" json:"distribusi_realisasi"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DistribusiModel) TableName() string {
	return "distribusi"
}

func (d *DistribusiModel) BeforeCreate(tx *gorm.DB) error {
	if d.DistribusiID == uuid.Nil {
		d.DistribusiID = uuid.New()
	}
	return nil
}
