package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	emailSvc "qurban_backend/internals/features/notifications/email/service"
	midtransSvc "qurban_backend/internals/features/payment/midtrans/service"
	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	distribusiSvc "qurban_backend/internals/features/qurban/distribusi/service"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	hewanSvc "qurban_backend/internals/features/qurban/hewan/service"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	kuponSvc "qurban_backend/internals/features/qurban/kupon/service"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	qrSvc "qurban_backend/internals/features/qurban/qrcode/service"
	realtime "qurban_backend/internals/features/realtime/service"
	authSvc "qurban_backend/internals/features/users/auth/service"
	userModel "qurban_backend/internals/features/users/user/model"
	helper "qurban_backend/internals/helpers"
)

const defaultMaxRetries = 3

// CreateMudhohiInput: data satu pesanan qurban.
type CreateMudhohiInput struct {
	UserID            *uuid.UUID
	AccountProvider   string
	AccountProviderID string
	GoogleIDToken     string

	NamaPengqurban string
	Email          string
	Phone          string
	NamaPeruntukan *string
	PesanKhusus    *string
	Keterangan     *string
	PotongSendiri  bool
	AmbilDaging    bool
	Tahun          int

	TipeHewanID     int
	IsKolektif      bool
	Quantity        int
	CaraBayar       model.CaraBayar
	PaymentStatus   *model.PaymentStatus
	Dibayarkan      int64
	URLTandaBukti   *string
	KodeResi        *string
	JatahPengqurban []int
}

func (in CreateMudhohiInput) intent() OrderIntent {
	return OrderIntent{
		IsKolektif:      in.IsKolektif,
		Quantity:        in.Quantity,
		CaraBayar:       in.CaraBayar,
		PaymentStatus:   in.PaymentStatus,
		Dibayarkan:      in.Dibayarkan,
		JatahPengqurban: in.JatahPengqurban,
	}
}

// OrderResult: order yang sudah ter-commit beserta semua turunannya.
type OrderResult struct {
	Mudhohi      model.MudhohiModel            `json:"mudhohi"`
	User         *userModel.UserModel          `json:"user"`
	IsNewUser    bool                          `json:"is_new_user"`
	IsGoogleAuth bool                          `json:"is_google_auth"`
	TipeHewan    hewanModel.TipeHewanModel     `json:"tipe_hewan"`
	Hewan        []hewanModel.HewanQurbanModel `json:"hewan"`
	Kupon        []kuponModel.KuponModel       `json:"kupon"`
	UnitPrice    int64                         `json:"unit_price"`
	OutboxID     *uuid.UUID                    `json:"-"`
}

// OutboxDeliverer: kirim pesan outbox segera setelah commit.
type OutboxDeliverer interface {
	Deliver(ctx context.Context, id uuid.UUID) error
}

type OrderService struct {
	DB         *gorm.DB
	Rules      Rules
	QR         qrSvc.Renderer
	Outbox     OutboxDeliverer
	Snap       midtransSvc.SnapGateway
	Publisher  realtime.Publisher
	Verifier   authSvc.GoogleTokenVerifier
	Resend     *emailSvc.ResendLimiter
	DashCode   func() (string, error)
	Now        func() time.Time
	MaxRetries int

	// DeliverAsync: kirim email di goroutine supaya response tidak menunggu SMTP.
	DeliverAsync    bool
	DeliveryTimeout time.Duration
}

func NewOrderService(db *gorm.DB, qr qrSvc.Renderer, outbox OutboxDeliverer, pub realtime.Publisher) *OrderService {
	return &OrderService{
		DB:              db,
		Rules:           DefaultRules,
		QR:              qr,
		Outbox:          outbox,
		Publisher:       pub,
		DashCode:        GenerateDashCode,
		Now:             time.Now,
		MaxRetries:      defaultMaxRetries,
		DeliveryTimeout: 30 * time.Second,
	}
}

// CreateMudhohi: seluruh penulisan order dalam satu transaksi,
// lalu email/Snap/realtime setelah commit (tidak pernah membatalkan order).
func (s *OrderService) CreateMudhohi(ctx context.Context, in CreateMudhohiInput) (*OrderResult, error) {
	if in.GoogleIDToken != "" {
		if s.Verifier == nil {
			return nil, authSvc.ErrInvalidGoogleToken
		}
		gid, err := s.Verifier.Verify(in.GoogleIDToken)
		if err != nil {
			return nil, err
		}
		ident := gid.Apply(authSvc.IdentityInput{Email: in.Email, Name: in.NamaPengqurban})
		in.AccountProvider, in.AccountProviderID = ident.AccountProvider, ident.AccountProviderID
		in.Email = ident.Email
		if in.NamaPengqurban == "" {
			in.NamaPengqurban = ident.Name
		}
	}

	maxRetries := s.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var (
		res *OrderResult
		err error
	)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		res, err = s.createOnce(ctx, in)
		if err == nil {
			break
		}
		if attempt < maxRetries && isTransient(err) && ctx.Err() == nil {
			log.Printf("[ORDER] konflik transaksi (percobaan %d/%d): %v", attempt, maxRetries, err)
			continue
		}
		return nil, err
	}

	s.afterCommit(ctx, res)
	return res, nil
}

func isTransient(err error) bool {
	return errors.Is(err, hewanSvc.ErrSlotContention) || helper.IsRetryableTxError(err)
}

func (s *OrderService) createOnce(ctx context.Context, in CreateMudhohiInput) (*OrderResult, error) {
	now := s.Now()
	res := &OrderResult{IsGoogleAuth: in.AccountProvider == userModel.ProviderGoogle}
	var savedQR string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) identitas
		ident, err := authSvc.ResolveIdentity(tx, authSvc.IdentityInput{
			UserID:            in.UserID,
			AccountProvider:   in.AccountProvider,
			AccountProviderID: in.AccountProviderID,
			Email:             in.Email,
			Name:              in.NamaPengqurban,
			Phone:             in.Phone,
		})
		if err != nil {
			return err
		}
		res.User, res.IsNewUser = ident.User, ident.IsNewUser

		// 2) tipe hewan
		tipe, err := hewanSvc.LoadTipeHewan(tx, in.TipeHewanID)
		if err != nil {
			return err
		}
		res.TipeHewan = tipe.TipeHewanModel

		// 3) rencana harga / kupon / jatah
		plan, err := s.Rules.Plan(in.intent(), tipe.TipeHewanModel)
		if err != nil {
			return err
		}
		res.UnitPrice = plan.UnitPrice
		if len(plan.SelectedProduk) > 0 {
			if _, err := distribusiSvc.ValidateSelectedProduk(tx, in.JatahPengqurban, string(tipe.TipeHewanJenis)); err != nil {
				return err
			}
		}

		// 4) alokasi hewan / slot
		allocs, err := hewanSvc.AllocateSlots(tx, hewanSvc.AllocationRequest{
			Tipe:          tipe.TipeHewanModel,
			Total:         int(tipe.HewanCount),
			Quantity:      in.Quantity,
			IsKolektif:    in.IsKolektif,
			Keterangan:    in.Keterangan,
			ItemsPerGroup: hewanSvc.GetItemsPerGroup(tx),
		})
		if err != nil {
			return err
		}

		// 5) kategori distribusi "Mudhohi"
		dist, err := distribusiSvc.BumpDistribusi(tx, distribusiModel.KategoriMudhohi)
		if err != nil {
			return err
		}

		// 6) order + pembayaran + penerima + slot + jatah produk
		dash, err := s.DashCode()
		if err != nil {
			return fmt.Errorf("generate dash code: %w", err)
		}
		tahun := in.Tahun
		if tahun <= 0 {
			tahun = now.Year()
		}
		nama := strings.TrimSpace(in.NamaPengqurban)
		if nama == "" {
			nama = res.User.DisplayName()
		}

		m := model.MudhohiModel{
			MudhohiUserID:           res.User.ID,
			MudhohiTahun:            tahun,
			MudhohiNamaPengqurban:   &nama,
			MudhohiNamaPeruntukan:   in.NamaPeruntukan,
			MudhohiPesanKhusus:      in.PesanKhusus,
			MudhohiKeterangan:       in.Keterangan,
			MudhohiPotongSendiri:    in.PotongSendiri,
			MudhohiAmbilDaging:      in.AmbilDaging,
			MudhohiDashCode:         dash,
			MudhohiSudahTerimaKupon: plan.SudahTerimaKupon,
		}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create mudhohi: %w", err)
		}

		pay := model.PembayaranModel{
			PembayaranMudhohiID:     m.MudhohiID,
			PembayaranTipeID:        tipe.TipeHewanID,
			PembayaranQuantity:      in.Quantity,
			PembayaranIsKolektif:    in.IsKolektif,
			PembayaranTotalAmount:   plan.TotalAmount,
			PembayaranCaraBayar:     in.CaraBayar,
			PembayaranStatus:        plan.PaymentStatus,
			PembayaranDibayarkan:    plan.Dibayarkan,
			PembayaranURLTandaBukti: in.URLTandaBukti,
			PembayaranKodeResi:      blankToNil(in.KodeResi),
		}
		if err := tx.Create(&pay).Error; err != nil {
			return fmt.Errorf("create pembayaran: %w", err)
		}

		penerima := distribusiModel.PenerimaModel{
			PenerimaDistribusiID:  dist.DistribusiID,
			PenerimaMudhohiID:     &m.MudhohiID,
			PenerimaNama:          nama,
			PenerimaNoTelp:        res.User.Phone,
			PenerimaJenis:         distribusiModel.PenerimaIndividu,
			PenerimaSudahMenerima: false,
			PenerimaJumlahKupon:   kuponModel.KuponPerOrder,
		}
		if err := tx.Create(&penerima).Error; err != nil {
			return fmt.Errorf("create penerima: %w", err)
		}

		for _, a := range allocs {
			slot := model.MudhohiHewanModel{
				MudhohiHewanMudhohiID: m.MudhohiID,
				MudhohiHewanHewanID:   a.Hewan.HewanID,
				MudhohiHewanSlot:      a.Slot,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return fmt.Errorf("link hewan %s: %w", a.Hewan.HewanKode, err)
			}
			h := a.Hewan
			slot.Hewan = &h
			m.Slots = append(m.Slots, slot)
			res.Hewan = append(res.Hewan, a.Hewan)
		}

		if _, err := distribusiSvc.RecordEntitlements(tx, penerima.PenerimaID, plan.Entitlements); err != nil {
			return err
		}

		// 7) QR code
		var qrPNG []byte
		if s.QR != nil {
			qr, err := s.QR.Render(ctx, qrSvc.OrderData{
				MudhohiID:      m.MudhohiID,
				DashCode:       dash,
				NamaPengqurban: nama,
				Quantity:       in.Quantity,
				TipeHewan:      tipe.TipeHewanNama,
				CreatedAt:      m.CreatedAt,
			})
			if err != nil {
				return err
			}
			qrPNG, savedQR = qr.PNG, qr.URL
			if err := tx.Model(&model.MudhohiModel{}).
				Where("mudhohi_id = ?", m.MudhohiID).
				Update("mudhohi_qrcode_url", qr.URL).Error; err != nil {
				return fmt.Errorf("simpan qrcode url: %w", err)
			}
			m.MudhohiQRCodeURL = &qr.URL
		}

		// 8) kupon
		kupons, err := kuponSvc.AllocateForOrder(tx, m.MudhohiID, plan.KuponStatus)
		if err != nil {
			return err
		}
		res.Kupon = kupons

		// 9) outbox email konfirmasi
		if email := emailOf(res.User, in.Email); email != "" {
			msg := emailSvc.OrderConfirmation{
				To:             email,
				OrderID:        m.MudhohiID.String(),
				DashCode:       dash,
				NamaPengqurban: nama,
				Items: []emailSvc.OrderItem{{
					Nama:     tipe.TipeHewanNama,
					Quantity: in.Quantity,
					Harga:    plan.UnitPrice,
					Subtotal: plan.TotalAmount,
				}},
				TotalAmount:  plan.TotalAmount,
				CaraBayar:    string(in.CaraBayar),
				QRPNG:        qrPNG,
				IsNewUser:    res.IsNewUser,
				IsGoogleAuth: res.IsGoogleAuth,
			}
			if m.MudhohiQRCodeURL != nil {
				msg.QRCodeURL = *m.MudhohiQRCodeURL
			}
			ob, err := emailSvc.EnqueueOrderConfirmation(tx, m.MudhohiID, msg, now)
			if err != nil {
				return err
			}
			res.OutboxID = &ob.OutboxID
		}

		m.Payment = &pay
		m.Penerima = &penerima
		m.Kupon = kupons
		res.Mudhohi = m
		return nil
	})
	if err != nil {
		s.discardQR(ctx, savedQR)
		return nil, err
	}
	log.Printf("[ORDER] mudhohi %s (%s) dibuat: tipe=%d qty=%d kolektif=%v total=%d",
		res.Mudhohi.MudhohiID, res.Mudhohi.MudhohiDashCode, in.TipeHewanID, in.Quantity, in.IsKolektif,
		res.Mudhohi.Payment.PembayaranTotalAmount)
	return res, nil
}

func (s *OrderService) discardQR(ctx context.Context, url string) {
	d, ok := s.QR.(qrSvc.Discarder)
	if !ok || url == "" {
		return
	}
	if err := d.Discard(context.WithoutCancel(ctx), url); err != nil {
		log.Printf("[QR] gagal hapus qr yatim %s: %v", url, err)
	}
}

// afterCommit: efek samping best-effort setelah order tersimpan.
func (s *OrderService) afterCommit(ctx context.Context, res *OrderResult) {
	if res == nil {
		return
	}
	if res.OutboxID != nil && s.Outbox != nil {
		id := *res.OutboxID
		deliver := func(ctx context.Context) {
			if err := s.Outbox.Deliver(ctx, id); err != nil {
				log.Printf("[ORDER] email konfirmasi %s gagal (akan dicoba ulang): %v", res.Mudhohi.MudhohiID, err)
			}
		}
		base := context.WithoutCancel(ctx)
		if s.DeliverAsync {
			go func() {
				c, cancel := context.WithTimeout(base, s.deliveryTimeout())
				defer cancel()
				deliver(c)
			}()
		} else {
			c, cancel := context.WithTimeout(base, s.deliveryTimeout())
			deliver(c)
			cancel()
		}
	}

	if s.Snap != nil && res.Mudhohi.Payment != nil &&
		res.Mudhohi.Payment.PembayaranCaraBayar == model.CaraBayarTransfer &&
		res.Mudhohi.Payment.PembayaranStatus != model.PaymentLunas {
		s.attachSnap(ctx, res)
	}

	if s.Publisher != nil {
		s.Publisher.Publish(realtime.EventUpdateMudhohi, map[string]any{"mudhohi_id": res.Mudhohi.MudhohiID, "dash_code": res.Mudhohi.MudhohiDashCode})
		s.Publisher.Publish(realtime.EventUpdateKupon, map[string]any{"mudhohi_id": res.Mudhohi.MudhohiID})
		s.Publisher.Publish(realtime.EventUpdateHewan, map[string]any{"tipe_hewan_id": res.TipeHewan.TipeHewanID})
		s.Publisher.Publish(realtime.EventUpdateProduct, map[string]any{"mudhohi_id": res.Mudhohi.MudhohiID})
	}
}

func (s *OrderService) deliveryTimeout() time.Duration {
	if s.DeliveryTimeout > 0 {
		return s.DeliveryTimeout
	}
	return 30 * time.Second
}

func (s *OrderService) attachSnap(ctx context.Context, res *OrderResult) {
	pay := res.Mudhohi.Payment
	out, err := s.Snap.CreateTransaction(midtransSvc.SnapOrder{
		OrderID:      res.Mudhohi.MudhohiDashCode,
		GrossAmount:  pay.Sisa(),
		CustomerName: deref(res.Mudhohi.MudhohiNamaPengqurban),
		Email:        deref(res.User.Email),
		Phone:        deref(res.User.Phone),
		ItemName:     res.TipeHewan.TipeHewanNama,
		Quantity:     pay.PembayaranQuantity,
		UnitPrice:    res.UnitPrice,
	})
	if err != nil {
		log.Printf("[ORDER] snap token %s gagal: %v", res.Mudhohi.MudhohiDashCode, err)
		return
	}
	if err := s.DB.WithContext(context.WithoutCancel(ctx)).Model(&model.PembayaranModel{}).
		Where("pembayaran_id = ?", pay.PembayaranID).
		Updates(map[string]any{
			"pembayaran_snap_token":        out.Token,
			"pembayaran_snap_redirect_url": out.RedirectURL,
		}).Error; err != nil {
		log.Printf("[ORDER] simpan snap token gagal: %v", err)
		return
	}
	pay.PembayaranSnapToken = &out.Token
	pay.PembayaranSnapRedirectURL = &out.RedirectURL
}

func emailOf(u *userModel.UserModel, fallback string) string {
	if u != nil && u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return strings.TrimSpace(fallback)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
