package dto

import (
	"strings"

	"github.com/google/uuid"

	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/service"
)

/* =========================================================
   Create order
========================================================= */

// CreateMudhohiRequest: checkout publik. Status bayar selalu diturunkan server,
// identitas Google hanya dari google_id_token yang terverifikasi.
type CreateMudhohiRequest struct {
	NamaPengqurban string  `json:"nama_pengqurban" validate:"required,min=2,max=200"`
	NamaPeruntukan *string `json:"nama_peruntukan" validate:"omitempty,max=200"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone" validate:"omitempty,max=30"`
	PesanKhusus    *string `json:"pesan_khusus" validate:"omitempty,max=1000"`
	Keterangan     *string `json:"keterangan" validate:"omitempty,max=1000"`
	PotongSendiri  bool    `json:"potong_sendiri"`
	AmbilDaging    bool    `json:"ambil_daging"`

	TipeHewanID     int    `json:"tipeHewanId" validate:"required,gt=0"`
	IsKolektif      bool   `json:"isKolektif"`
	Quantity        int    `json:"quantity" validate:"required,gt=0,lte=100"`
	CaraBayar       string `json:"cara_bayar" validate:"required,oneof=TUNAI TRANSFER"`
	JatahPengqurban []int  `json:"jatahPengqurban" validate:"omitempty,max=2,dive,gt=0"`

	GoogleIDToken string `json:"google_id_token"`
}

// ToInput: userID dari JWT (opsional) menang atas field di body.
func (r CreateMudhohiRequest) ToInput(userID *uuid.UUID) service.CreateMudhohiInput {
	return service.CreateMudhohiInput{
		UserID:          userID,
		GoogleIDToken:   strings.TrimSpace(r.GoogleIDToken),
		NamaPengqurban:  strings.TrimSpace(r.NamaPengqurban),
		NamaPeruntukan:  r.NamaPeruntukan,
		Email:           strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:           strings.TrimSpace(r.Phone),
		PesanKhusus:     r.PesanKhusus,
		Keterangan:      r.Keterangan,
		PotongSendiri:   r.PotongSendiri,
		AmbilDaging:     r.AmbilDaging,
		TipeHewanID:     r.TipeHewanID,
		IsKolektif:      r.IsKolektif,
		Quantity:        r.Quantity,
		CaraBayar:       model.CaraBayar(r.CaraBayar),
		JatahPengqurban: r.JatahPengqurban,
	}
}

// AdminCreateMudhohiRequest: input panitia (pembayaran tunai di sekretariat,
// bukti transfer yang sudah dicek, dsb).
type AdminCreateMudhohiRequest struct {
	CreateMudhohiRequest

	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=BELUM_BAYAR DOWN_PAYMENT MENUNGGU_KONFIRMASI LUNAS BATAL"`
	Dibayarkan    int64   `json:"dibayarkan" validate:"gte=0"`
	URLTandaBukti *string `json:"urlTandaBukti" validate:"omitempty,url"`
	KodeResi      *string `json:"kodeResi" validate:"omitempty,max=100"`
}

// ToInput: order atas nama mudhohi, tidak pernah ditautkan ke akun admin.
func (r AdminCreateMudhohiRequest) ToInput() service.CreateMudhohiInput {
	in := r.CreateMudhohiRequest.ToInput(nil)
	in.Dibayarkan = r.Dibayarkan
	in.URLTandaBukti = r.URLTandaBukti
	in.KodeResi = r.KodeResi
	if r.PaymentStatus != nil {
		st := model.PaymentStatus(*r.PaymentStatus)
		in.PaymentStatus = &st
	}
	return in
}

/* =========================================================
   Payment
========================================================= */

type UpdatePaymentRequest struct {
	Status         *string `json:"status" validate:"omitempty,oneof=BELUM_BAYAR DOWN_PAYMENT MENUNGGU_KONFIRMASI LUNAS BATAL"`
	Dibayarkan     *int64  `json:"dibayarkan" validate:"omitempty,gte=0"`
	KodeResi       *string `json:"kodeResi" validate:"omitempty,max=100"`
	URLTandaBukti  *string `json:"urlTandaBukti" validate:"omitempty,max=2000"`
	IsVerification bool    `json:"isVerification"`
}

func (r UpdatePaymentRequest) ToUpdate() service.PaymentUpdate {
	upd := service.PaymentUpdate{
		Dibayarkan:     r.Dibayarkan,
		KodeResi:       r.KodeResi,
		URLTandaBukti:  r.URLTandaBukti,
		IsVerification: r.IsVerification,
	}
	if r.Status != nil {
		st := model.PaymentStatus(*r.Status)
		upd.Status = &st
	}
	return upd
}

/* =========================================================
   Import
========================================================= */

type ImportSheetRequest struct {
	Headers []string `json:"headers" validate:"required,min=1"`
	Rows    [][]any  `json:"rows" validate:"required"`
}

/* =========================================================
   Response
========================================================= */

type CreateMudhohiResponse struct {
	Mudhohi   model.MudhohiModel `json:"mudhohi"`
	IsNewUser bool               `json:"isNewUser"`
	UserID    uuid.UUID          `json:"userId"`
	Hewan     any                `json:"hewan"`
	Kupon     any                `json:"kupon"`
}

func FromOrderResult(res *service.OrderResult) CreateMudhohiResponse {
	return CreateMudhohiResponse{
		Mudhohi:   res.Mudhohi,
		IsNewUser: res.IsNewUser,
		UserID:    res.User.ID,
		Hewan:     res.Hewan,
		Kupon:     res.Kupon,
	}
}
