package route_test

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"qurban_backend/internals/databases/dbtest"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/route"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	authHelper "qurban_backend/internals/features/users/auth/helper"
	userModel "qurban_backend/internals/features/users/user/model"
)

func init() {
	authHelper.BcryptCost = bcrypt.MinCost
}

func TestPublicCheckoutIgnoresPaymentAndAccountFields(t *testing.T) {
	db := dbtest.Open(t)
	tipe := hewanModel.TipeHewanModel{
		TipeHewanNama:   "Sapi",
		TipeHewanJenis:  hewanModel.JenisSapi,
		TipeHewanHarga:  25_000_000,
		TipeHewanTarget: 20,
	}
	require.NoError(t, db.Create(&tipe).Error)

	// pemilik akun google yang namanya dicatut
	victimEmail := "korban@example.com"
	victim := userModel.UserModel{Email: &victimEmail, Password: "x"}
	require.NoError(t, db.Create(&victim).Error)
	require.NoError(t, db.Create(&userModel.AccountModel{
		AccountUserID:            victim.ID,
		AccountProvider:          userModel.ProviderGoogle,
		AccountProviderAccountID: "someone-else",
	}).Error)

	app := fiber.New()
	order := service.NewOrderService(db, nil, nil, nil)
	route.MudhohiPublicRoutes(app.Group("/api/public"), db, order, service.NewPaymentService(db, "server-key", nil))

	body := `{
		"nama_pengqurban": "Penyusup",
		"email": "penyusup@example.com",
		"phone": "0800",
		"tipeHewanId": ` + strconv.Itoa(tipe.TipeHewanID) + `,
		"quantity": 1,
		"cara_bayar": "TUNAI",
		"paymentStatus": "LUNAS",
		"dibayarkan": 25000000,
		"kodeResi": "RESI-PALSU",
		"accountProvider": "google",
		"accountProviderId": "someone-else"
	}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/public/mudhohi/", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var m model.MudhohiModel
	require.NoError(t, db.Preload("Payment").First(&m).Error)
	require.NotNil(t, m.Payment)
	assert.Equal(t, model.PaymentBelumBayar, m.Payment.PembayaranStatus)
	assert.Zero(t, m.Payment.PembayaranDibayarkan)
	assert.Nil(t, m.Payment.PembayaranKodeResi)
	assert.NotEqual(t, victim.ID, m.MudhohiUserID)

	var accounts int64
	require.NoError(t, db.Model(&userModel.AccountModel{}).Count(&accounts).Error)
	assert.EqualValues(t, 1, accounts)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", victim.ID).Error)
	require.NotNil(t, reloaded.Email)
	assert.Equal(t, victimEmail, *reloaded.Email)
	assert.Nil(t, reloaded.Phone)
}
