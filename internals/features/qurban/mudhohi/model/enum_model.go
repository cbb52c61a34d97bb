package model

type CaraBayar string
type PaymentStatus string
type GatewayEventStatus string

const (
	CaraBayarTunai    CaraBayar = "TUNAI"
	CaraBayarTransfer CaraBayar = "TRANSFER"
)

func (c CaraBayar) Valid() bool {
	return c == CaraBayarTunai || c == CaraBayarTransfer
}

const (
	PaymentBelumBayar         PaymentStatus = "BELUM_BAYAR"
	PaymentDownPayment        PaymentStatus = "DOWN_PAYMENT"
	PaymentMenungguKonfirmasi PaymentStatus = "MENUNGGU_KONFIRMASI"
	PaymentLunas              PaymentStatus = "LUNAS"
	PaymentBatal              PaymentStatus = "BATAL"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentBelumBayar, PaymentDownPayment, PaymentMenungguKonfirmasi, PaymentLunas, PaymentBatal:
		return true
	}
	return false
}

var AllPaymentStatuses = []PaymentStatus{
	PaymentBelumBayar, PaymentDownPayment, PaymentMenungguKonfirmasi, PaymentLunas, PaymentBatal,
}

const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventFailed    GatewayEventStatus = "failed"
)
