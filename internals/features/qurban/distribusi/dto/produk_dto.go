package dto

import (
	"strings"

	"qurban_backend/internals/features/qurban/distribusi/model"
)

type CreateProdukRequest struct {
	Nama        string `json:"nama" validate:"required,max=150"`
	JenisHewan  string `json:"jenis_hewan" validate:"required,oneof=UNTA SAPI DOMBA KAMBING"`
	JenisProduk string `json:"jenis_produk" validate:"required,oneof=DAGING KAKI KEPALA KULIT TULANG JEROAN"`
	TargetPaket int    `json:"target_paket" validate:"gte=0"`
}

func (r CreateProdukRequest) ToModel() model.ProdukHewanModel {
	return model.ProdukHewanModel{
		ProdukNama:        strings.TrimSpace(r.Nama),
		ProdukJenisHewan:  r.JenisHewan,
		ProdukJenisProduk: model.JenisProduk(r.JenisProduk),
		ProdukTargetPaket: r.TargetPaket,
	}
}
