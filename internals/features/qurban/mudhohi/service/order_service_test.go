package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qurban_backend/internals/databases/dbtest"
	emailModel "qurban_backend/internals/features/notifications/email/model"
	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	hewanSvc "qurban_backend/internals/features/qurban/hewan/service"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	qrSvc "qurban_backend/internals/features/qurban/qrcode/service"
	realtime "qurban_backend/internals/features/realtime/service"
	authSvc "qurban_backend/internals/features/users/auth/service"
	userModel "qurban_backend/internals/features/users/user/model"
)

func TestCreateMudhohi_Guest(t *testing.T) {
	env := newEnv(t)
	env.order.DashCode = func() (string, error) { return "DASHCODE123", nil }

	res := env.place(t, env.guestInput("Fulan", "fulan@example.com"))

	assert.True(t, res.IsNewUser)
	assert.False(t, res.IsGoogleAuth)
	assert.Equal(t, "DASHCODE123", res.Mudhohi.MudhohiDashCode)
	assert.EqualValues(t, 25_000_000, res.UnitPrice)
	require.NotNil(t, res.Mudhohi.Payment)
	assert.EqualValues(t, 25_000_000, res.Mudhohi.Payment.PembayaranTotalAmount)
	assert.Equal(t, model.PaymentBelumBayar, res.Mudhohi.Payment.PembayaranStatus)
	assert.False(t, res.Mudhohi.MudhohiSudahTerimaKupon)
	require.NotNil(t, res.Mudhohi.MudhohiQRCodeURL)
	assert.Equal(t, "/qr-codes/DASHCODE123.png", *res.Mudhohi.MudhohiQRCodeURL)

	require.Len(t, res.Hewan, 1)
	assert.Equal(t, "Sapi_1", res.Hewan[0].HewanKode)
	require.Len(t, res.Kupon, kuponModel.KuponPerOrder)
	for _, k := range res.Kupon {
		assert.Equal(t, kuponModel.KuponAvailable, k.KuponStatus)
	}

	require.NotNil(t, res.Mudhohi.Penerima)
	assert.Equal(t, "Fulan", res.Mudhohi.Penerima.PenerimaNama)
	assert.Equal(t, 2, res.Mudhohi.Penerima.PenerimaJumlahKupon)

	var dist distribusiModel.DistribusiModel
	require.NoError(t, env.db.First(&dist, "distribusi_kategori = ?", distribusiModel.KategoriMudhohi).Error)
	assert.Equal(t, 1, dist.DistribusiTarget)

	// email terkirim lewat outbox
	require.Len(t, env.notifier.sent, 1)
	mail := env.notifier.sent[0]
	assert.Equal(t, "fulan@example.com", mail.To)
	assert.Equal(t, res.Mudhohi.MudhohiID.String(), mail.OrderID)
	assert.EqualValues(t, 25_000_000, mail.TotalAmount)
	assert.True(t, mail.IsNewUser)
	assert.False(t, mail.IsGoogleAuth)
	assert.NotEmpty(t, mail.QRPNG)
	require.Len(t, mail.Items, 1)
	assert.Equal(t, 1, mail.Items[0].Quantity)

	var ob emailModel.OutboxMessageModel
	require.NoError(t, env.db.First(&ob, "outbox_id = ?", *res.OutboxID).Error)
	assert.Equal(t, emailModel.OutboxSent, ob.OutboxStatus)

	assert.Equal(t, []string{
		realtime.EventUpdateMudhohi, realtime.EventUpdateKupon, realtime.EventUpdateHewan, realtime.EventUpdateProduct,
	}, env.publisher.names())
}

func TestCreateMudhohi_ReturningGuestReusesUser(t *testing.T) {
	env := newEnv(t)
	first := env.place(t, env.guestInput("Fulan", "fulan@example.com"))
	second := env.place(t, env.guestInput("Fulan", "FULAN@example.com"))

	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Sapi_2", second.Hewan[0].HewanKode)
	assert.EqualValues(t, 1, env.count(t, &userModel.UserModel{}))
	require.Len(t, env.notifier.sent, 2)
	assert.False(t, env.notifier.sent[1].IsNewUser)
}

func TestCreateMudhohi_LoggedInUser(t *testing.T) {
	env := newEnv(t)
	first := env.place(t, env.guestInput("Fulan", "fulan@example.com"))

	in := env.guestInput("Fulan Bin Fulan", "")
	in.UserID = &first.User.ID
	res := env.place(t, in)
	assert.Equal(t, first.User.ID, res.User.ID)
	// email dari akun dipakai walau body kosong
	require.Len(t, env.notifier.sent, 2)
	assert.Equal(t, "fulan@example.com", env.notifier.sent[1].To)
}

func TestCreateMudhohi_TunaiMarksKuponDistributed(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.CaraBayar = model.CaraBayarTunai
	in.Dibayarkan = 25_000_000

	res := env.place(t, in)
	assert.True(t, res.Mudhohi.MudhohiSudahTerimaKupon)
	assert.Equal(t, model.PaymentLunas, res.Mudhohi.Payment.PembayaranStatus)
	for _, k := range res.Kupon {
		assert.Equal(t, kuponModel.KuponDistributed, k.KuponStatus)
	}
}

func TestCreateMudhohi_GoogleAccount(t *testing.T) {
	env := newEnv(t)
	env.order.Verifier = stubVerifier{identity: &authSvc.GoogleIdentity{Sub: "google-1", Email: "g@example.com", Name: "Google User"}}

	in := env.guestInput("", "")
	in.GoogleIDToken = "valid-token"
	res := env.place(t, in)

	assert.True(t, res.IsGoogleAuth)
	assert.True(t, res.IsNewUser)
	assert.Equal(t, "Google User", *res.Mudhohi.MudhohiNamaPengqurban)
	assert.EqualValues(t, 1, env.count(t, &userModel.AccountModel{}))
	require.Len(t, env.notifier.sent, 1)
	assert.True(t, env.notifier.sent[0].IsGoogleAuth)
	assert.Equal(t, "g@example.com", env.notifier.sent[0].To)

	in.GoogleIDToken = "expired"
	_, err := env.order.CreateMudhohi(context.Background(), in)
	assert.ErrorIs(t, err, authSvc.ErrInvalidGoogleToken)

	env.order.Verifier = nil
	in.GoogleIDToken = "valid-token"
	_, err = env.order.CreateMudhohi(context.Background(), in)
	assert.ErrorIs(t, err, authSvc.ErrInvalidGoogleToken)
}

func TestCreateMudhohi_UnknownTipeWritesNothing(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.TipeHewanID = 9999

	_, err := env.order.CreateMudhohi(context.Background(), in)
	require.ErrorIs(t, err, hewanSvc.ErrTipeHewanNotFound)
	assert.EqualError(t, err, "Tipe hewan tidak ditemukan")

	assert.Zero(t, env.count(t, &userModel.UserModel{}))
	assert.Zero(t, env.count(t, &model.MudhohiModel{}))
	assert.Zero(t, env.count(t, &hewanModel.HewanQurbanModel{}))
	assert.Zero(t, env.count(t, &emailModel.OutboxMessageModel{}))
	assert.Empty(t, env.notifier.sent)
	assert.Empty(t, env.publisher.names())
}

func TestCreateMudhohi_QRFailureRollsBack(t *testing.T) {
	env := newEnv(t)
	env.order.QR = stubQR{err: errBoom}

	_, err := env.order.CreateMudhohi(context.Background(), env.guestInput("Fulan", "fulan@example.com"))
	require.ErrorIs(t, err, errBoom)
	assert.Zero(t, env.count(t, &model.MudhohiModel{}))
	assert.Zero(t, env.count(t, &kuponModel.KuponModel{}))
}

func TestCreateMudhohi_Kolektif(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.IsKolektif = true
	in.Quantity = 3

	first := env.place(t, in)
	assert.EqualValues(t, 3_500_000, first.UnitPrice)
	assert.EqualValues(t, 10_500_000, first.Mudhohi.Payment.PembayaranTotalAmount)
	require.Len(t, first.Mudhohi.Slots, 1)
	assert.Equal(t, 3, first.Mudhohi.Slots[0].MudhohiHewanSlot)

	in2 := env.guestInput("Fulanah", "fulanah@example.com")
	in2.IsKolektif = true
	in2.Quantity = 5
	second := env.place(t, in2)
	require.Len(t, second.Mudhohi.Slots, 2)
	assert.Equal(t, first.Hewan[0].HewanID, second.Hewan[0].HewanID)
	assert.Equal(t, 4, second.Mudhohi.Slots[0].MudhohiHewanSlot)
	assert.Equal(t, 1, second.Mudhohi.Slots[1].MudhohiHewanSlot)
	assert.Equal(t, "Sapi_2", second.Hewan[1].HewanKode)

	var daging distribusiModel.ProdukHewanModel
	require.NoError(t, env.db.First(&daging, "produk_nama = ?", "Daging Kolektif SAPI").Error)

	// domba tidak bisa kolektif
	in3 := env.guestInput("Fulan", "fulan@example.com")
	in3.TipeHewanID = env.domba.TipeHewanID
	in3.IsKolektif = true
	_, err := env.order.CreateMudhohi(context.Background(), in3)
	assert.ErrorIs(t, err, service.ErrKolektifNotAllowed)
}

// toggleSlot: setiap UPDATE ke hewan_qurban didahului perubahan slot oleh
// "order lain", sebanyak limit kali (limit < 0: tanpa batas).
func toggleSlot(t *testing.T, env *testEnv, hewanID uuid.UUID, limit int) *int {
	t.Helper()
	writes := 0
	dbtest.BeforeUpdate(t, env.db, "hewan_qurban", func(conn *gorm.DB) {
		if limit >= 0 && writes >= limit {
			return
		}
		writes++
		require.NoError(t, conn.Exec(
			"UPDATE hewan_qurban SET hewan_slot_tersisa = CASE WHEN hewan_slot_tersisa = 4 THEN 3 ELSE 4 END WHERE hewan_id = ?",
			hewanID).Error)
	})
	return &writes
}

func TestCreateMudhohi_RetriesWholeTransactionOnSlotContention(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.IsKolektif = true
	in.Quantity = 3
	first := env.place(t, in)
	hewanID := first.Hewan[0].HewanID

	// percobaan pertama kalah 6x berturut-turut, percobaan kedua bersih
	writes := toggleSlot(t, env, hewanID, 6)

	in2 := env.guestInput("Fulanah", "fulanah@example.com")
	in2.IsKolektif = true
	in2.Quantity = 2
	res, err := env.order.CreateMudhohi(context.Background(), in2)
	require.NoError(t, err)
	assert.Equal(t, 6, *writes)
	assert.True(t, res.IsNewUser)
	assert.Equal(t, "QRB-TEST02", res.Mudhohi.MudhohiDashCode)

	require.Len(t, res.Mudhohi.Slots, 1)
	assert.Equal(t, hewanID, res.Hewan[0].HewanID)
	var slots int64
	require.NoError(t, env.db.Model(&model.MudhohiHewanModel{}).
		Where("mudhohi_hewan_mudhohi_id = ?", res.Mudhohi.MudhohiID).
		Select("COALESCE(SUM(mudhohi_hewan_slot), 0)").Scan(&slots).Error)
	assert.EqualValues(t, 2, slots)

	var h hewanModel.HewanQurbanModel
	require.NoError(t, env.db.First(&h, "hewan_id = ?", hewanID).Error)
	require.NotNil(t, h.HewanSlotTersisa)
	assert.Equal(t, 2, *h.HewanSlotTersisa)

	assert.EqualValues(t, 2, env.count(t, &model.MudhohiModel{}))
	assert.EqualValues(t, 2, env.count(t, &userModel.UserModel{}))
}

func TestCreateMudhohi_SlotContentionStopsAtMaxRetries(t *testing.T) {
	env := newEnv(t)
	env.order.MaxRetries = 2
	in := env.guestInput("Fulan", "fulan@example.com")
	in.IsKolektif = true
	in.Quantity = 3
	first := env.place(t, in)
	hewanID := first.Hewan[0].HewanID

	writes := toggleSlot(t, env, hewanID, -1)

	in2 := env.guestInput("Fulanah", "fulanah@example.com")
	in2.IsKolektif = true
	in2.Quantity = 2
	_, err := env.order.CreateMudhohi(context.Background(), in2)
	assert.ErrorIs(t, err, hewanSvc.ErrSlotContention)
	assert.Equal(t, 12, *writes, "2 percobaan x 6 konflik")

	assert.EqualValues(t, 1, env.count(t, &model.MudhohiModel{}))
	assert.EqualValues(t, 1, env.count(t, &model.PembayaranModel{}))
	assert.EqualValues(t, 1, env.count(t, &userModel.UserModel{}))

	var h hewanModel.HewanQurbanModel
	require.NoError(t, env.db.First(&h, "hewan_id = ?", hewanID).Error)
	require.NotNil(t, h.HewanSlotTersisa)
	assert.Equal(t, 4, *h.HewanSlotTersisa)
}

func TestCreateMudhohi_DombaUsesGroupedKode(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.TipeHewanID = env.domba.TipeHewanID
	in.Quantity = 2

	res := env.place(t, in)
	require.Len(t, res.Hewan, 2)
	assert.Equal(t, "Domba_A-01", res.Hewan[0].HewanKode)
	assert.Equal(t, "Domba_A-02", res.Hewan[1].HewanKode)
	assert.EqualValues(t, 6_000_000, res.Mudhohi.Payment.PembayaranTotalAmount)
}

func TestCreateMudhohi_EmailFailureKeepsOrder(t *testing.T) {
	env := newEnv(t)
	env.notifier.err = errBoom

	res := env.place(t, env.guestInput("Fulan", "fulan@example.com"))
	assert.EqualValues(t, 1, env.count(t, &model.MudhohiModel{}))

	var ob emailModel.OutboxMessageModel
	require.NoError(t, env.db.First(&ob, "outbox_id = ?", *res.OutboxID).Error)
	assert.Equal(t, emailModel.OutboxPending, ob.OutboxStatus)
	assert.Equal(t, 1, ob.OutboxAttempts)
}

func TestCreateMudhohi_NoEmailSkipsOutbox(t *testing.T) {
	env := newEnv(t)
	res := env.place(t, env.guestInput("Hamba Allah", ""))
	assert.Nil(t, res.OutboxID)
	assert.Empty(t, env.notifier.sent)
}

func TestCreateMudhohi_SnapTokenForTransfer(t *testing.T) {
	env := newEnv(t)
	snap := &stubSnap{}
	env.order.Snap = snap

	res := env.place(t, env.guestInput("Fulan", "fulan@example.com"))
	require.Len(t, snap.orders, 1)
	assert.Equal(t, res.Mudhohi.MudhohiDashCode, snap.orders[0].OrderID)
	assert.EqualValues(t, 25_000_000, snap.orders[0].GrossAmount)
	require.NotNil(t, res.Mudhohi.Payment.PembayaranSnapToken)
	assert.Equal(t, "snap-token", *res.Mudhohi.Payment.PembayaranSnapToken)

	tunai := env.guestInput("Fulan", "fulan@example.com")
	tunai.CaraBayar = model.CaraBayarTunai
	env.place(t, tunai)
	assert.Len(t, snap.orders, 1)
}

func TestCreateMudhohi_JatahPengqurban(t *testing.T) {
	env := newEnv(t)
	var ids []int
	for _, nama := range []string{"Kepala Sapi", "Kulit Sapi", "Kaki Sapi"} {
		p := distribusiModel.ProdukHewanModel{ProdukNama: nama, ProdukJenisHewan: "SAPI", ProdukJenisProduk: distribusiModel.ProdukKepala}
		require.NoError(t, env.db.Create(&p).Error)
		ids = append(ids, p.ProdukID)
	}

	in := env.guestInput("Fulan", "fulan@example.com")
	in.JatahPengqurban = ids[:2]
	env.place(t, in)

	var kepala distribusiModel.ProdukHewanModel
	require.NoError(t, env.db.First(&kepala, "produk_id = ?", ids[0]).Error)
	assert.Equal(t, 1, kepala.ProdukTargetPaket)
	assert.EqualValues(t, 2, env.count(t, &distribusiModel.ProdukDiterimaModel{}))

	bad := env.guestInput("Fulan", "fulan@example.com")
	bad.JatahPengqurban = []int{ids[0], 4242}
	_, err := env.order.CreateMudhohi(context.Background(), bad)
	assert.Error(t, err)
	assert.EqualValues(t, 1, env.count(t, &model.MudhohiModel{}))
}

func TestCreateMudhohi_InvalidInput(t *testing.T) {
	env := newEnv(t)
	in := env.guestInput("Fulan", "fulan@example.com")
	in.Quantity = 0
	_, err := env.order.CreateMudhohi(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	in = env.guestInput("Fulan", "fulan@example.com")
	in.CaraBayar = "CICIL"
	_, err = env.order.CreateMudhohi(context.Background(), in)
	assert.ErrorIs(t, err, service.ErrInvalidCaraBayar)
}

var _ qrSvc.Renderer = stubQR{}
