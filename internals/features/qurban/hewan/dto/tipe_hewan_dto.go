package dto

import (
	"strings"

	"qurban_backend/internals/features/qurban/hewan/model"
)

type CreateTipeHewanRequest struct {
	Nama          string  `json:"nama" validate:"required,max=100"`
	Jenis         string  `json:"jenis" validate:"required,oneof=UNTA SAPI DOMBA KAMBING"`
	Harga         int64   `json:"harga" validate:"required,gt=0"`
	HargaKolektif *int64  `json:"harga_kolektif" validate:"omitempty,gt=0"`
	Target        int     `json:"target" validate:"gte=0"`
	Keterangan    *string `json:"keterangan"`
}

func (r CreateTipeHewanRequest) ToModel() model.TipeHewanModel {
	return model.TipeHewanModel{
		TipeHewanNama:          strings.TrimSpace(r.Nama),
		TipeHewanJenis:         model.JenisHewan(r.Jenis),
		TipeHewanHarga:         r.Harga,
		TipeHewanHargaKolektif: r.HargaKolektif,
		TipeHewanTarget:        r.Target,
		TipeHewanKeterangan:    r.Keterangan,
	}
}

// UpdateTipeHewanRequest: partial update, nil = tidak diubah.
type UpdateTipeHewanRequest struct {
	Nama          *string `json:"nama" validate:"omitempty,max=100"`
	Harga         *int64  `json:"harga" validate:"omitempty,gt=0"`
	HargaKolektif *int64  `json:"harga_kolektif" validate:"omitempty,gt=0"`
	Target        *int    `json:"target" validate:"omitempty,gte=0"`
	Keterangan    *string `json:"keterangan"`
}

func (r UpdateTipeHewanRequest) ToUpdates() map[string]any {
	up := map[string]any{}
	if r.Nama != nil {
		up["tipe_hewan_nama"] = strings.TrimSpace(*r.Nama)
	}
	if r.Harga != nil {
		up["tipe_hewan_harga"] = *r.Harga
	}
	if r.HargaKolektif != nil {
		up["tipe_hewan_harga_kolektif"] = *r.HargaKolektif
	}
	if r.Target != nil {
		up["tipe_hewan_target"] = *r.Target
	}
	if r.Keterangan != nil {
		up["tipe_hewan_keterangan"] = *r.Keterangan
	}
	return up
}

type ItemsPerGroupRequest struct {
	ItemsPerGroup int `json:"items_per_group" validate:"required,gt=0,lte=1000"`
}
