package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
)

// MudhohiModel: satu pesanan qurban.
type MudhohiModel struct {
	MudhohiID               uuid.UUID `gorm:"column:mudhohi_id;type:uuid;primaryKey" json:"mudhohi_id"`
	MudhohiUserID           uuid.UUID `gorm:"column:mudhohi_user_id;type:uuid;not null;index" json:"mudhohi_user_id"`
	MudhohiTahun            int       `gorm:"column:mudhohi_tahun;not null;index" json:"mudhohi_tahun"`
	MudhohiNamaPengqurban   *string   `gorm:"column:mudhohi_nama_pengqurban;type:varchar(200)" json:"mudhohi_nama_pengqurban,omitempty"`
	MudhohiNamaPeruntukan   *string   `gorm:"column:mudhohi_nama_peruntukan;type:varchar(200)" json:"mudhohi_nama_peruntukan,omitempty"`
	MudhohiPesanKhusus      *string   `gorm:"column:mudhohi_pesan_khusus;type:text" json:"mudhohi_pesan_khusus,omitempty"`
	MudhohiKeterangan       *string   `gorm:"column:mudhohi_keterangan;type:text" json:"mudhohi_keterangan,omitempty"`
	MudhohiPotongSendiri    bool      `gorm:"column:mudhohi_potong_sendiri;not null;default:false" json:"mudhohi_potong_sendiri"`
	MudhohiAmbilDaging      bool      `gorm:"column:mudhohi_ambil_daging;not null;default:false" json:"mudhohi_ambil_daging"`
	MudhohiDashCode         string    `gorm:"column:mudhohi_dash_code;type:varchar(40);not null;uniqueIndex:uq_mudhohi_dash_code" json:"mudhohi_dash_code"`
	MudhohiQRCodeURL        *string   `gorm:"column:mudhohi_qrcode_url;type:text" json:"mudhohi_qrcode_url,omitempty"`
	MudhohiSudahTerimaKupon bool      `gorm:"column:mudhohi_sudah_terima_kupon;not null;default:false" json:"mudhohi_sudah_terima_kupon"`
	CreatedAt               time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt               time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Payment  *PembayaranModel               `gorm:"foreignKey:PembayaranMudhohiID;references:MudhohiID" json:"payment,omitempty"`
	Penerima *distribusiModel.PenerimaModel `gorm:"foreignKey:PenerimaMudhohiID;references:MudhohiID" json:"penerima,omitempty"`
	Slots    []MudhohiHewanModel            `gorm:"foreignKey:MudhohiHewanMudhohiID;references:MudhohiID" json:"slots,omitempty"`
	Kupon    []kuponModel.KuponModel        `gorm:"foreignKey:KuponMudhohiID;references:MudhohiID" json:"kupon,omitempty"`
}

func (MudhohiModel) TableName() string {
	return "mudhohi"
}

func (m *MudhohiModel) BeforeCreate(tx *gorm.DB) error {
	if m.MudhohiID == uuid.Nil {
		m.MudhohiID = uuid.New()
	}
	return nil
}

// MudhohiHewanModel: join order ↔ hewan dengan jumlah slot yang dipegang.
type MudhohiHewanModel struct {
	MudhohiHewanMudhohiID uuid.UUID `gorm:"column:mudhohi_hewan_mudhohi_id;type:uuid;primaryKey" json:"mudhohi_id"`
	MudhohiHewanHewanID   uuid.UUID `gorm:"column:mudhohi_hewan_hewan_id;type:uuid;primaryKey;index" json:"hewan_id"`
	MudhohiHewanSlot      int       `gorm:"column:mudhohi_hewan_slot;not null;default:1" json:"slot"`

	Hewan *hewanModel.HewanQurbanModel `gorm:"foreignKey:MudhohiHewanHewanID;references:HewanID" json:"hewan,omitempty"`
}

func (MudhohiHewanModel) TableName() string {
	return "mudhohi_hewan"
}
