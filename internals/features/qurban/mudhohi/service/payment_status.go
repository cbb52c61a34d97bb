package service

import "qurban_backend/internals/features/qurban/mudhohi/model"

// PaymentStatusFromAmount: status dari jumlah terbayar vs total.
func PaymentStatusFromAmount(paid, total int64) model.PaymentStatus {
	switch {
	case paid <= 0:
		return model.PaymentBelumBayar
	case paid >= total:
		return model.PaymentLunas
	default:
		return model.PaymentDownPayment
	}
}

// StartingStatus: status dari caller menang, lalu dari dibayarkan, lalu BELUM_BAYAR.
func StartingStatus(supplied *model.PaymentStatus, dibayarkan, total int64) model.PaymentStatus {
	if supplied != nil && supplied.Valid() {
		return *supplied
	}
	if dibayarkan > 0 {
		return PaymentStatusFromAmount(dibayarkan, total)
	}
	return model.PaymentBelumBayar
}
