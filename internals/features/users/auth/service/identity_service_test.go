package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qurban_backend/internals/databases/dbtest"
	authHelper "qurban_backend/internals/features/users/auth/helper"
	"qurban_backend/internals/features/users/auth/service"
	userModel "qurban_backend/internals/features/users/user/model"
)

func init() {
	authHelper.BcryptCost = bcrypt.MinCost
}

type stubVerifier struct {
	identity *service.GoogleIdentity
	err      error
}

func (s stubVerifier) Verify(string) (*service.GoogleIdentity, error) {
	return s.identity, s.err
}

func resolve(t *testing.T, db *gorm.DB, in service.IdentityInput) *service.IdentityResult {
	t.Helper()
	var res *service.IdentityResult
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		r, err := service.ResolveIdentity(tx, in)
		res = r
		return err
	}))
	return res
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&n).Error)
	return n
}

func TestResolveIdentity_GuestCreatedThenReturned(t *testing.T) {
	db := dbtest.Open(t)

	first := resolve(t, db, service.IdentityInput{Email: "  Fulan@Example.com ", Name: "Fulan", Phone: "0812"})
	assert.True(t, first.IsNewUser)
	require.NotNil(t, first.User.Email)
	assert.Equal(t, "fulan@example.com", *first.User.Email)
	assert.Equal(t, userModel.RoleUser, first.User.Role)
	assert.NotEmpty(t, first.User.Password)

	again := resolve(t, db, service.IdentityInput{Email: "fulan@example.com", Name: "Nama Lain", Phone: "0899"})
	assert.False(t, again.IsNewUser)
	assert.Equal(t, first.User.ID, again.User.ID)
	// telepon diperbarui, nama yang sudah ada tidak ditimpa
	assert.Equal(t, "0899", *again.User.Phone)
	assert.Equal(t, "Fulan", *again.User.Name)
	assert.EqualValues(t, 1, countUsers(t, db))
}

func TestResolveIdentity_FallsBackToName(t *testing.T) {
	db := dbtest.Open(t)

	first := resolve(t, db, service.IdentityInput{Name: "Hamba Allah"})
	assert.True(t, first.IsNewUser)
	assert.Nil(t, first.User.Email)

	again := resolve(t, db, service.IdentityInput{Name: "Hamba Allah", Email: "hamba@example.com"})
	assert.False(t, again.IsNewUser)
	assert.Equal(t, first.User.ID, again.User.ID)
	assert.Equal(t, "hamba@example.com", *again.User.Email)
}

func TestResolveIdentity_UnknownUserIDFallsThrough(t *testing.T) {
	db := dbtest.Open(t)
	ghost := uuid.New()

	res := resolve(t, db, service.IdentityInput{UserID: &ghost, Email: "baru@example.com"})
	assert.True(t, res.IsNewUser)
	assert.NotEqual(t, ghost, res.User.ID)
}

func TestResolveIdentity_GoogleLinkAndSync(t *testing.T) {
	db := dbtest.Open(t)

	guest := resolve(t, db, service.IdentityInput{Email: "g@example.com", Name: "Guest"})
	require.True(t, guest.IsNewUser)

	g := service.GoogleIdentity{Sub: "google-sub-1", Email: "g@example.com", Name: "Google Name"}
	linked := resolve(t, db, g.Apply(service.IdentityInput{}))
	assert.False(t, linked.IsNewUser)
	assert.Equal(t, guest.User.ID, linked.User.ID)

	var acc userModel.AccountModel
	require.NoError(t, db.First(&acc, "account_provider_account_id = ?", "google-sub-1").Error)
	assert.Equal(t, guest.User.ID, acc.AccountUserID)
	assert.Equal(t, userModel.ProviderGoogle, acc.AccountProvider)

	// akun tertaut: kontak disinkronkan dari provider
	g2 := service.GoogleIdentity{Sub: "google-sub-1", Email: "g.new@example.com", Name: "Nama Google Baru"}
	synced := resolve(t, db, g2.Apply(service.IdentityInput{}))
	assert.Equal(t, guest.User.ID, synced.User.ID)
	assert.Equal(t, "g.new@example.com", *synced.User.Email)
	assert.Equal(t, "Nama Google Baru", *synced.User.Name)

	var links int64
	require.NoError(t, db.Model(&userModel.AccountModel{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestLoginWithGoogle(t *testing.T) {
	db := dbtest.Open(t)

	res, err := service.LoginWithGoogle(db, stubVerifier{identity: &service.GoogleIdentity{Sub: "s-9", Email: "x@example.com", Name: "X"}}, "tok")
	require.NoError(t, err)
	assert.True(t, res.IsNewUser)

	_, err = service.LoginWithGoogle(db, stubVerifier{err: service.ErrInvalidGoogleToken}, "bad")
	assert.True(t, errors.Is(err, service.ErrInvalidGoogleToken))
}

func TestAuthenticateAndIssueToken(t *testing.T) {
	db := dbtest.Open(t)
	hash, err := authHelper.HashPassword("rahasia123")
	require.NoError(t, err)
	email := "admin@example.com"
	u := userModel.UserModel{Email: &email, Password: hash, Role: userModel.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&u).Error)

	got, err := service.Authenticate(db, "ADMIN@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = service.Authenticate(db, email, "salahsalah")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	now := time.Now()
	tok, exp, err := service.IssueAccessToken(*got, "secret", now)
	require.NoError(t, err)
	assert.True(t, exp.After(now))

	parsed, err := jwt.Parse(tok, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, u.ID.String(), claims["id"])
	assert.Equal(t, userModel.RoleAdmin, claims["role"])

	_, _, err = service.IssueAccessToken(*got, "", now)
	assert.ErrorIs(t, err, service.ErrMissingSecret)
}
