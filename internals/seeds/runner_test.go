package seeds_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"qurban_backend/internals/databases/dbtest"
	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	authHelper "qurban_backend/internals/features/users/auth/helper"
	userModel "qurban_backend/internals/features/users/user/model"
	"qurban_backend/internals/seeds"
)

func init() {
	authHelper.BcryptCost = bcrypt.MinCost
}

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, seeds.RunAllSeeds(db, "."))
	require.NoError(t, seeds.RunAllSeeds(db, "."))

	var tipe []hewanModel.TipeHewanModel
	require.NoError(t, db.Order("tipe_hewan_id").Find(&tipe).Error)
	require.Len(t, tipe, 4)
	require.Equal(t, "Sapi", tipe[0].TipeHewanNama)
	require.NotNil(t, tipe[0].TipeHewanHargaKolektif)
	require.EqualValues(t, 3500000, *tipe[0].TipeHewanHargaKolektif)
	require.Nil(t, tipe[1].TipeHewanHargaKolektif)

	var produk int64
	require.NoError(t, db.Model(&distribusiModel.ProdukHewanModel{}).Count(&produk).Error)
	require.EqualValues(t, 8, produk)

	var admin userModel.UserModel
	require.NoError(t, db.Where("email = ?", "admin@qurban.local").First(&admin).Error)
	require.Equal(t, userModel.RoleAdmin, admin.Role)
	require.NoError(t, authHelper.CheckPasswordHash(admin.Password, "ganti-password-ini"))
}

func TestRunAllSeedsMissingFile(t *testing.T) {
	db := dbtest.Open(t)
	require.Error(t, seeds.RunAllSeeds(db, t.TempDir()))
}
