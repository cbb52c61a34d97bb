package service

import (
	"errors"
	"fmt"

	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	distribusiSvc "qurban_backend/internals/features/qurban/distribusi/service"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	"qurban_backend/internals/features/qurban/mudhohi/model"
)

var (
	ErrInvalidQuantity      = errors.New("quantity harus lebih dari 0")
	ErrInvalidCaraBayar     = errors.New("cara_bayar harus TUNAI atau TRANSFER")
	ErrKolektifNotAllowed   = errors.New("hewan ini tidak bisa dibeli secara kolektif")
	ErrNegativeDibayarkan   = errors.New("dibayarkan tidak boleh negatif")
	ErrInvalidPaymentStatus = errors.New("status pembayaran tidak valid")
)

// OrderIntent: bagian input yang menentukan harga, kupon dan jatah produk.
type OrderIntent struct {
	IsKolektif      bool
	Quantity        int
	CaraBayar       model.CaraBayar
	PaymentStatus   *model.PaymentStatus
	Dibayarkan      int64
	JatahPengqurban []int
}

// OrderPlan: hasil hitung murni sebelum ditulis ke DB.
type OrderPlan struct {
	UnitPrice        int64
	TotalAmount      int64
	PaymentStatus    model.PaymentStatus
	Dibayarkan       int64
	KuponStatus      kuponModel.KuponStatus
	SudahTerimaKupon bool
	SelectedProduk   []int
	Entitlements     []distribusiSvc.Entitlement
}

// Rules: aturan harga / kupon / jatah produk.
type Rules struct {
	KolektifDagingPaket int
	AllowKolektif       func(hewanModel.TipeHewanModel) bool
}

var DefaultRules = Rules{
	KolektifDagingPaket: 2,
	AllowKolektif: func(t hewanModel.TipeHewanModel) bool {
		return !t.TipeHewanJenis.IsSingleQurban()
	},
}

func (r Rules) Plan(in OrderIntent, tipe hewanModel.TipeHewanModel) (*OrderPlan, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !in.CaraBayar.Valid() {
		return nil, ErrInvalidCaraBayar
	}
	if in.Dibayarkan < 0 {
		return nil, ErrNegativeDibayarkan
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	if in.IsKolektif && r.AllowKolektif != nil && !r.AllowKolektif(tipe) {
		return nil, ErrKolektifNotAllowed
	}

	unit := tipe.UnitPrice(in.IsKolektif)
	total := unit * int64(in.Quantity)
	tunai := in.CaraBayar == model.CaraBayarTunai

	p := &OrderPlan{
		UnitPrice:        unit,
		TotalAmount:      total,
		PaymentStatus:    StartingStatus(in.PaymentStatus, in.Dibayarkan, total),
		Dibayarkan:       in.Dibayarkan,
		KuponStatus:      kuponModel.KuponAvailable,
		SudahTerimaKupon: tunai,
	}
	if tunai {
		p.KuponStatus = kuponModel.KuponDistributed
	}

	jenis := string(tipe.TipeHewanJenis)
	switch {
	case in.IsKolektif:
		paket := r.KolektifDagingPaket
		if paket <= 0 {
			paket = 2
		}
		p.Entitlements = append(p.Entitlements, distribusiSvc.Entitlement{
			ProdukNama:  fmt.Sprintf("Daging Kolektif %s", jenis),
			JenisHewan:  jenis,
			JenisProduk: distribusiModel.ProdukDaging,
			JumlahPaket: in.Quantity * paket,
		})
	case tipe.TipeHewanJenis.IsSingleQurban():
		p.Entitlements = append(p.Entitlements, distribusiSvc.Entitlement{
			ProdukNama:  fmt.Sprintf("Kaki Belakang %s", jenis),
			JenisHewan:  jenis,
			JenisProduk: distribusiModel.ProdukKaki,
			JumlahPaket: in.Quantity,
		})
	case tipe.TipeHewanJenis == hewanModel.JenisSapi && len(in.JatahPengqurban) > 0:
		selected := in.JatahPengqurban
		if len(selected) > distribusiSvc.MaxSelectedProduk {
			selected = selected[:distribusiSvc.MaxSelectedProduk]
		}
		p.SelectedProduk = append([]int(nil), selected...)
		for _, id := range selected {
			p.Entitlements = append(p.Entitlements, distribusiSvc.Entitlement{
				ProdukID:    id,
				JumlahPaket: in.Quantity,
				BumpTarget:  true,
			})
		}
	}
	return p, nil
}
